package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/hourglass/internal/service"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Earnings, analytics, and day summaries",
}

var reportTaskCmd = &cobra.Command{
	Use:   "task [id]",
	Short: "Earnings for one task over a date range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEarningsReport(cmd, args[0], appInstance.EarningsService.GetTaskEarnings)
	},
}

var reportProjectCmd = &cobra.Command{
	Use:   "project [id]",
	Short: "Earnings for a project over a date range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEarningsReport(cmd, args[0], appInstance.EarningsService.GetProjectEarnings)
	},
}

var reportClientCmd = &cobra.Command{
	Use:   "client [id]",
	Short: "Earnings for a client over a date range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEarningsReport(cmd, args[0], appInstance.EarningsService.GetClientEarnings)
	},
}

// runEarningsReport shares the flag parsing and rendering across the
// three hierarchy levels
func runEarningsReport(
	cmd *cobra.Command,
	rawID string,
	fetch func(ctx context.Context, id int64, startDate, endDate string) (*service.Earnings, error),
) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %w", err)
	}

	from, to := rangeFlags(cmd)
	earnings, err := fetch(ctx, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to compute earnings: %w", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Earnings %s to %s", from, to)))
	fmt.Printf("  Time:     %s (%.2fh)\n", formatDuration(time.Duration(earnings.TotalSeconds)*time.Second), earnings.Hours)

	if earnings.Earnings == nil {
		fmt.Println(mutedStyle.Render("  No rate configured for this client"))
	} else {
		fmt.Printf("  Earned:   %s %s\n", earnings.Earnings.StringFixed(2), earnings.Currency)
		fmt.Printf("  Rate now: %d %s/h\n", *earnings.HourlyRate, earnings.Currency)
	}
	if earnings.ProjectCount > 0 {
		fmt.Printf("  Projects: %d\n", earnings.ProjectCount)
	}
	if earnings.TaskCount > 0 {
		fmt.Printf("  Tasks:    %d\n", earnings.TaskCount)
	}
	return nil
}

var reportAnalyticsCmd = &cobra.Command{
	Use:   "analytics [task-id]",
	Short: "Estimation accuracy, session distribution, and budget for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		taskID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		from, to := rangeFlags(cmd)
		analytics, err := appInstance.AnalyticsService.GetTaskAnalytics(ctx, taskID, from, to)
		if err != nil {
			return fmt.Errorf("failed to compute analytics: %w", err)
		}

		renderEstimation(analytics.Estimation)
		renderDistribution(analytics.Distribution)
		renderBudget(analytics.Budget)
		return nil
	},
}

func renderEstimation(e service.Estimation) {
	fmt.Println(titleStyle.Render("Estimation"))
	fmt.Printf("  Actual:    %s\n", formatDuration(time.Duration(e.ActualSeconds)*time.Second))
	if !e.HasEstimation {
		fmt.Println(mutedStyle.Render("  No estimate set"))
		return
	}
	fmt.Printf("  Estimated: %s\n", formatDuration(time.Duration(*e.EstimatedSeconds)*time.Second))
	fmt.Printf("  Diff:      %+ds (%.1f%%)\n", *e.DifferenceSeconds, *e.DifferencePercent)
}

func renderDistribution(d service.Distribution) {
	fmt.Println(titleStyle.Render("Sessions"))
	if d.SessionCount == 0 {
		fmt.Println(mutedStyle.Render("  No closed sessions in range"))
		return
	}
	fmt.Printf("  Count:     %d over %d day(s)\n", d.SessionCount, d.DaysWorked)
	fmt.Printf("  Average:   %s\n", formatDuration(time.Duration(*d.AvgSessionSeconds)*time.Second))
	fmt.Printf("  Median:    %s\n", formatDuration(time.Duration(*d.MedianSessionSeconds)*time.Second))
	fmt.Printf("  Longest:   %s\n", formatDuration(time.Duration(*d.LongestSessionSeconds)*time.Second))
	fmt.Printf("  Shortest:  %s\n", formatDuration(time.Duration(*d.ShortestSessionSeconds)*time.Second))
	if d.LongestGapSeconds != nil {
		fmt.Printf("  Max gap:   %s\n", formatDuration(time.Duration(*d.LongestGapSeconds)*time.Second))
	}
	if d.PeakHour != nil {
		fmt.Printf("  Peak hour: %02d:00\n", *d.PeakHour)
	}
	fmt.Printf("  Deep work: %d session(s)\n", d.DeepWorkCount)
	if d.LastActivity != nil {
		fmt.Printf("  Last seen: %s\n", d.LastActivity.In(appInstance.Location).Format("2006-01-02 15:04:05"))
	}
}

func renderBudget(b service.Budget) {
	fmt.Println(titleStyle.Render("Budget"))
	switch b.Status {
	case service.BudgetNoEstimation:
		fmt.Println(mutedStyle.Render("  No estimate to budget against"))
		return
	case service.BudgetOnTrack:
		fmt.Println(successStyle.Render("  On track"))
	case service.BudgetWarning:
		fmt.Println(warningStyle.Render("  Warning: nearing the estimate"))
	case service.BudgetOverBudget:
		fmt.Println(errorStyle.Render("  Over budget"))
	}
	fmt.Printf("  Used:      %.1f%%\n", *b.PercentUsed)
	fmt.Printf("  Remaining: %s\n", formatSignedSeconds(*b.RemainingSeconds))
}

var reportTargetsCmd = &cobra.Command{
	Use:   "targets [client-id]",
	Short: "Progress against a client's work-hour targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clientID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = time.Now().In(appInstance.Location).Format("2006-01-02")
		}

		breakdown, err := appInstance.TargetsService.GetClientTargets(ctx, clientID, date)
		if err != nil {
			return fmt.Errorf("failed to compute targets: %w", err)
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Targets as of %s", date)))
		if breakdown.Daily == nil && breakdown.Weekly == nil && breakdown.Monthly == nil {
			fmt.Println(mutedStyle.Render("  No targets configured for this client"))
			return nil
		}

		if breakdown.Daily != nil {
			renderPeriodTarget("Today", breakdown.Daily)
		}
		if breakdown.Weekly != nil {
			renderPeriodTarget("This week", breakdown.Weekly)
		}
		if m := breakdown.Monthly; m != nil {
			fmt.Println(titleStyle.Render("This month"))
			fmt.Printf("  Worked:    %s of %s\n",
				formatDuration(time.Duration(m.WorkedSeconds)*time.Second),
				formatDuration(time.Duration(m.TargetSeconds)*time.Second))
			if m.RemainingSeconds <= 0 {
				fmt.Println(successStyle.Render("  Target met"))
			} else {
				fmt.Printf("  Remaining: %s over %d working day(s)\n",
					formatDuration(time.Duration(m.RemainingSeconds)*time.Second), m.WorkingDaysLeft)
				if m.RequiredPerDaySeconds > 0 {
					fmt.Printf("  Pace:      %s/day\n", formatDuration(time.Duration(m.RequiredPerDaySeconds)*time.Second))
				}
			}
		}
		return nil
	},
}

func renderPeriodTarget(label string, p *service.PeriodTarget) {
	fmt.Println(titleStyle.Render(label))
	fmt.Printf("  Worked:    %s of %s\n",
		formatDuration(time.Duration(p.WorkedSeconds)*time.Second),
		formatDuration(time.Duration(p.TargetSeconds)*time.Second))
	if p.RequiredSeconds != p.TargetSeconds {
		fmt.Printf("  Needed:    %s to stay on pace\n", formatDuration(time.Duration(p.RequiredSeconds)*time.Second))
	}
	if p.OverflowSeconds > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("  Overflow:  %s past the target",
			formatDuration(time.Duration(p.OverflowSeconds)*time.Second))))
	}
}

var reportDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "What was worked on during one day (default: today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		date := time.Now().In(appInstance.Location).Format("2006-01-02")
		if len(args) == 1 {
			date = args[0]
		}

		summary, err := appInstance.SummaryService.ByDay(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to summarize day: %w", err)
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Day %s", summary.Date)))
		if len(summary.Lines) == 0 {
			fmt.Println(mutedStyle.Render("  Nothing logged"))
			return nil
		}

		for _, line := range summary.Lines {
			fmt.Printf("  %s - %s  %-30s %s (%s)\n",
				line.Start.Format("15:04"),
				line.End.Format("15:04"),
				truncate(line.TaskTitle, 30),
				line.ProjectName,
				formatDuration(time.Duration(line.Seconds)*time.Second),
			)
		}
		fmt.Printf("\nTotal: %s\n", formatDuration(time.Duration(summary.TotalSeconds)*time.Second))
		return nil
	},
}

func rangeFlags(cmd *cobra.Command) (string, string) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	today := time.Now().In(appInstance.Location).Format("2006-01-02")
	if from == "" {
		from = today
	}
	if to == "" {
		to = today
	}
	return from, to
}

func formatSignedSeconds(seconds int64) string {
	if seconds < 0 {
		return "-" + formatDuration(time.Duration(-seconds)*time.Second)
	}
	return formatDuration(time.Duration(seconds) * time.Second)
}

func init() {
	reportCmd.AddCommand(reportTaskCmd)
	reportCmd.AddCommand(reportProjectCmd)
	reportCmd.AddCommand(reportClientCmd)
	reportCmd.AddCommand(reportAnalyticsCmd)
	reportCmd.AddCommand(reportTargetsCmd)
	reportCmd.AddCommand(reportDayCmd)

	reportTargetsCmd.Flags().String("date", "", "Reference date, YYYY-MM-DD (default: today)")

	for _, cmd := range []*cobra.Command{reportTaskCmd, reportProjectCmd, reportClientCmd, reportAnalyticsCmd} {
		cmd.Flags().String("from", "", "Range start, YYYY-MM-DD (default: today)")
		cmd.Flags().String("to", "", "Range end, YYYY-MM-DD (default: today)")
	}
}
