package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/service"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage tasks",
	Long:  `List, add, estimate, classify, and remove tasks within a project.`,
}

var tasksListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List a project's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project ID: %w", err)
		}

		tasks, err := appInstance.TaskService.ListByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found")
			return nil
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("%-5s %-40s %-10s %-12s", "ID", "Title", "Estimate", "Category")))
		for _, task := range tasks {
			estimate := "-"
			if task.EstimatedMinutes != nil {
				estimate = fmt.Sprintf("%dm", *task.EstimatedMinutes)
			}
			category := "-"
			if task.Category != nil {
				category = string(*task.Category)
			}
			fmt.Printf("%-5d %-40s %-10s %-12s\n", task.ID, truncate(task.Title, 40), estimate, category)
		}
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add [project-id] [title]",
	Short: "Add a task, or fetch it if the title already exists",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project ID: %w", err)
		}

		task, err := appInstance.TaskService.GetOrCreate(ctx, projectID, args[1])
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Task: %s (ID: %d)", task.Title, task.ID)))
		return nil
	},
}

var tasksEstimateCmd = &cobra.Command{
	Use:   "estimate [id] [minutes]",
	Short: "Set a task's estimate in minutes (0 clears it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}
		minutes, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid estimate: %w", err)
		}

		var estimate *int64
		if minutes > 0 {
			estimate = &minutes
		}
		if err := appInstance.TaskService.SetEstimate(ctx, id, estimate); err != nil {
			return fmt.Errorf("failed to set estimate: %w", err)
		}

		if estimate == nil {
			fmt.Println(successStyle.Render("Estimate cleared"))
		} else {
			fmt.Println(successStyle.Render(fmt.Sprintf("Estimate set: %dm", minutes)))
		}
		return nil
	},
}

var tasksMetaCmd = &cobra.Command{
	Use:   "meta [id]",
	Short: "Set a task's classification fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		var meta service.TaskMetadata

		if cmd.Flags().Changed("epic") {
			epic, _ := cmd.Flags().GetString("epic")
			meta.Epic = &epic
		}
		if cmd.Flags().Changed("category") {
			raw, _ := cmd.Flags().GetString("category")
			category, err := domain.ParseCategory(raw)
			if err != nil {
				return err
			}
			meta.Category = &category
		}
		if cmd.Flags().Changed("scope") {
			raw, _ := cmd.Flags().GetString("scope")
			scope, err := domain.ParseScope(raw)
			if err != nil {
				return err
			}
			meta.Scope = &scope
		}
		if cmd.Flags().Changed("exploration") {
			exploration, _ := cmd.Flags().GetBool("exploration")
			meta.IsExploration = &exploration
		}

		if err := appInstance.TaskService.SetMetadata(ctx, id, meta); err != nil {
			return fmt.Errorf("failed to set metadata: %w", err)
		}

		fmt.Println(successStyle.Render("Task metadata updated"))
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a task and all its time entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		if err := appInstance.TaskService.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to remove task: %w", err)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Task removed (ID: %d)", id)))
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksEstimateCmd)
	tasksCmd.AddCommand(tasksMetaCmd)
	tasksCmd.AddCommand(tasksRmCmd)

	tasksMetaCmd.Flags().String("epic", "", "Epic the task belongs to")
	tasksMetaCmd.Flags().String("category", "", "Category: integration|feature|ui|fix|refactor|config")
	tasksMetaCmd.Flags().String("scope", "", "Scope: small|medium|large")
	tasksMetaCmd.Flags().Bool("exploration", false, "Mark as exploratory work")
}
