package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/hourglass/internal/service"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle [task-id]",
	Short: "Start, stop, or switch work on a task",
	Long: `Toggle work on a task. When idle, starts a timer on the task. When the
task is already running, stops it. When another task is running, stops
that one and starts this one at the same instant, so no second is lost
or counted twice.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		taskID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		result, err := appInstance.LedgerService.Toggle(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to toggle: %w", err)
		}

		task, _ := appInstance.TaskService.GetByID(ctx, result.TaskID)
		title := fmt.Sprintf("task #%d", result.TaskID)
		if task != nil {
			title = task.Title
		}

		switch result.Action {
		case service.ActionStarted:
			fmt.Println(runningStyle.Render(fmt.Sprintf("Started: %s", title)))
		case service.ActionStopped:
			fmt.Println(successStyle.Render(fmt.Sprintf("Stopped: %s", title)))
		case service.ActionSwitched:
			fmt.Println(runningStyle.Render(fmt.Sprintf("Switched to: %s", title)))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is running right now",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		entry, err := appInstance.LedgerService.GetActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to get active entry: %w", err)
		}
		if entry == nil {
			fmt.Println(mutedStyle.Render("Idle"))
			return nil
		}

		task, _ := appInstance.TaskService.GetByID(ctx, entry.TaskID)
		title := fmt.Sprintf("task #%d", entry.TaskID)
		if task != nil {
			title = task.Title
		}

		elapsed := time.Since(entry.Start)
		fmt.Println(runningStyle.Render(fmt.Sprintf("Active: %s", title)))
		fmt.Printf("  Entry:   #%d\n", entry.ID)
		fmt.Printf("  Started: %s\n", entry.Start.In(appInstance.Location).Format("2006-01-02 15:04:05"))
		fmt.Printf("  Elapsed: %s\n", formatDuration(elapsed))
		return nil
	},
}

var endCmd = &cobra.Command{
	Use:   "end [entry-id]",
	Short: "Stop the running entry",
	Long: `Stop the running entry. With an entry ID the stop only succeeds if that
entry is still the active one, so a stale reference never closes work
it did not start.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		entry, err := appInstance.LedgerService.GetActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to get active entry: %w", err)
		}
		if entry == nil {
			fmt.Println(mutedStyle.Render("Idle"))
			return nil
		}

		entryID := entry.ID
		if len(args) == 1 {
			entryID, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry ID: %w", err)
			}
		}

		if err := appInstance.LedgerService.EndActive(ctx, entryID); err != nil {
			return fmt.Errorf("failed to end entry: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Stopped entry #%d", entryID)))
		return nil
	},
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	} else if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
