package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
	Long:  `List, add, rename, and remove projects within a client.`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list [client-id]",
	Short: "List a client's projects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clientID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		projects, err := appInstance.ProjectService.ListByClient(ctx, clientID)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found")
			return nil
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("%-5s %-40s", "ID", "Name")))
		for _, project := range projects {
			fmt.Printf("%-5d %-40s\n", project.ID, truncate(project.Name, 40))
		}
		return nil
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add [client-id] [name]",
	Short: "Add a project to a client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clientID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		project, err := appInstance.ProjectService.Create(ctx, clientID, args[1])
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Project created: %s (ID: %d)", project.Name, project.ID)))
		return nil
	},
}

var projectsRenameCmd = &cobra.Command{
	Use:   "rename [id] [new-name]",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project ID: %w", err)
		}

		if err := appInstance.ProjectService.Rename(ctx, id, args[1]); err != nil {
			return fmt.Errorf("failed to rename project: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Project renamed: %s", args[1])))
		return nil
	},
}

var projectsRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project ID: %w", err)
		}

		if err := appInstance.ProjectService.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to remove project: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Project removed (ID: %d)", id)))
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsRenameCmd)
	projectsCmd.AddCommand(projectsRmCmd)
}
