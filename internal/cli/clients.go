package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients and their rate histories",
	Long:  `List, add, rename, and remove clients, and append hourly rate changes.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clients, err := appInstance.ClientService.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Println("No clients found")
			return nil
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("%-5s %-30s %-15s %-10s", "ID", "Name", "Current Rate", "Currency")))
		fmt.Println("----------------------------------------------------------------------")

		for _, client := range clients {
			rate := "-"
			currency := client.Currency
			current, err := appInstance.ClientService.CurrentRate(ctx, client.ID)
			if err == nil && current != nil {
				rate = strconv.FormatInt(current.HourlyRate, 10)
				currency = current.Currency
			}
			fmt.Printf("%-5d %-30s %-15s %-10s\n",
				client.ID,
				truncate(client.Name, 30),
				rate,
				currency,
			)
		}

		fmt.Printf("\nTotal: %d client(s)\n", len(clients))
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		currency, _ := cmd.Flags().GetString("currency")
		if currency == "" {
			currency = appInstance.Config.Currency
		}

		client, err := appInstance.ClientService.Create(ctx, args[0], currency)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Client created: %s (ID: %d)", client.Name, client.ID)))
		fmt.Printf("  Currency: %s\n", client.Currency)
		return nil
	},
}

var clientsRenameCmd = &cobra.Command{
	Use:   "rename [id] [new-name]",
	Short: "Rename a client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		if err := appInstance.ClientService.Rename(ctx, id, args[1]); err != nil {
			return fmt.Errorf("failed to rename client: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Client renamed: %s", args[1])))
		return nil
	},
}

var clientsRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a client and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		if err := appInstance.ClientService.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to remove client: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Client removed (ID: %d)", id)))
		return nil
	},
}

var clientsSetRateCmd = &cobra.Command{
	Use:   "set-rate [id] [hourly-rate]",
	Short: "Append a new hourly rate taking effect on a date",
	Long: `Append a new rate period to the client's history. The rate applies
from --from onward; earlier entries keep the rate that was in force
when they were logged.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}
		rate, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid hourly rate: %w", err)
		}

		from, _ := cmd.Flags().GetString("from")
		currency, _ := cmd.Flags().GetString("currency")
		if currency == "" {
			client, err := appInstance.ClientService.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get client: %w", err)
			}
			currency = client.Currency
		}

		period, err := appInstance.ClientService.SetRate(ctx, id, rate, currency, from)
		if err != nil {
			return fmt.Errorf("failed to set rate: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Rate set: %d %s/h from %s",
			period.HourlyRate, period.Currency, period.EffectiveFrom.Format("2006-01-02"))))
		return nil
	},
}

var clientsSetTargetsCmd = &cobra.Command{
	Use:   "set-targets [id]",
	Short: "Set monthly and daily work-hour targets for a client",
	Long: `Set the client's optional work targets in hours. Targets drive the
"report targets" progress view. Omitting a flag clears that target.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		var monthly *int64
		if cmd.Flags().Changed("monthly-hours") {
			v, _ := cmd.Flags().GetInt64("monthly-hours")
			monthly = &v
		}
		var daily *float64
		if cmd.Flags().Changed("daily-hours") {
			v, _ := cmd.Flags().GetFloat64("daily-hours")
			daily = &v
		}

		if err := appInstance.ClientService.SetTargets(ctx, id, monthly, daily); err != nil {
			return fmt.Errorf("failed to set targets: %w", err)
		}

		if monthly == nil && daily == nil {
			fmt.Println(successStyle.Render(fmt.Sprintf("Targets cleared (client ID: %d)", id)))
			return nil
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Targets set (client ID: %d)", id)))
		if monthly != nil {
			fmt.Printf("  Monthly: %dh\n", *monthly)
		}
		if daily != nil {
			fmt.Printf("  Daily:   %.1fh\n", *daily)
		}
		return nil
	},
}

var clientsRatesCmd = &cobra.Command{
	Use:   "rates [id]",
	Short: "Show a client's full rate history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		history, err := appInstance.ClientService.RateHistory(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get rate history: %w", err)
		}

		if len(history) == 0 {
			fmt.Println("No rates configured")
			return nil
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("%-12s %-10s %-8s", "From", "Rate", "Currency")))
		for _, period := range history {
			fmt.Printf("%-12s %-10d %-8s\n",
				period.EffectiveFrom.Format("2006-01-02"),
				period.HourlyRate,
				period.Currency,
			)
		}
		return nil
	},
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsRenameCmd)
	clientsCmd.AddCommand(clientsRmCmd)
	clientsCmd.AddCommand(clientsSetRateCmd)
	clientsCmd.AddCommand(clientsSetTargetsCmd)
	clientsCmd.AddCommand(clientsRatesCmd)

	clientsAddCmd.Flags().String("currency", "", "3-letter currency code (default from config)")

	clientsSetRateCmd.Flags().String("from", "", "Effective date, YYYY-MM-DD (required)")
	clientsSetRateCmd.MarkFlagRequired("from")
	clientsSetRateCmd.Flags().String("currency", "", "3-letter currency code (default: client currency)")

	clientsSetTargetsCmd.Flags().Int64("monthly-hours", 0, "Monthly work target in hours")
	clientsSetTargetsCmd.Flags().Float64("daily-hours", 0, "Daily work target in hours")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
