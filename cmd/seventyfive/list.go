package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/internal/stats"
	"github.com/jgoulah/seventyfive/pkg/models"
)

var (
	listFilter string
	listHints  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the days of the active plan",
	Long:  `Displays every day of the active plan with its task state. Filters: all, incomplete, complete, week.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "all", "Filter days (all, incomplete, complete, week)")
	listCmd.Flags().BoolVar(&listHints, "hints", false, "Show workout suggestions and the Thursday gluten exception")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := stats.ParseFilter(listFilter)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	now := nowFunc()
	todayISO := models.FormatDate(now)
	days := stats.Filter(s.ctrl.Plan().Days, kind, now)

	if len(days) == 0 {
		fmt.Fprintln(out, "No days match")
		return nil
	}

	fmt.Fprintln(out, "----------------------------------------------------------")
	fmt.Fprintf(out, "  %-12s %-3s %-3s %-3s %-3s %6s  %s\n", "Date", "EX", "GF", "NA", "RD", "Water", "Done")
	fmt.Fprintln(out, "----------------------------------------------------------")

	for _, d := range days {
		marker := " "
		if d.Date == todayISO {
			marker = ">"
		}
		done := fmt.Sprintf("%d/%d", models.CompletedTaskCount(d), models.TaskCount)
		if models.IsPerfectDay(d) {
			done += " ✨"
		}
		fmt.Fprintf(out, "%s %-12s %-3s %-3s %-3s %-3s %6d  %s\n",
			marker, d.Date, mark(d.Exercise), mark(d.GlutenFree), mark(d.NoAlcohol), mark(d.Reading), d.WaterOz, done)
		if listHints {
			hint := models.WorkoutSuggestion(d.Date)
			if models.GlutenExceptionDay(d.Date) {
				hint += "; bagel allowed"
			}
			fmt.Fprintf(out, "    %s\n", hint)
		}
	}

	fmt.Fprintln(out, "----------------------------------------------------------")
	fmt.Fprintf(out, "%d days shown\n", len(days))
	return nil
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return "·"
}
