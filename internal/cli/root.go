package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/hourglass/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "hourglass",
	Short: "A CLI time tracker with per-client rate history",
	Long: `Hourglass tracks time against tasks grouped into projects and clients,
keeps an append-only rate history per client, and reports earnings and
work analytics over any date range.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(reportCmd)
}
