package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/pkg/models"
)

var (
	checkExercise   bool
	checkGlutenFree bool
	checkNoAlcohol  bool
	checkReading    bool
	checkWater      int
	checkAddWater   int
)

var checkCmd = &cobra.Command{
	Use:   "check [date]",
	Short: "Update tasks for one day",
	Long: `Sets individual tasks for a day of the active plan. Only the flags you pass
are changed. The date is YYYY-MM-DD, "today" or "yesterday".

Example:
  seventyfive check today --exercise --reading --add-water 16`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkExercise, "exercise", false, "Exercised 45 minutes")
	checkCmd.Flags().BoolVar(&checkGlutenFree, "gluten-free", false, "Followed the gluten rule")
	checkCmd.Flags().BoolVar(&checkNoAlcohol, "no-alcohol", false, "No alcohol")
	checkCmd.Flags().BoolVar(&checkReading, "reading", false, "Read 10 pages")
	checkCmd.Flags().IntVar(&checkWater, "water", 0, "Set water intake in ounces")
	checkCmd.Flags().IntVar(&checkAddWater, "add-water", 0, "Add ounces to water intake")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	changed := false
	for _, name := range []string{"exercise", "gluten-free", "no-alcohol", "reading", "water", "add-water"} {
		changed = changed || flags.Changed(name)
	}
	if !changed {
		return fmt.Errorf("nothing to change: pass at least one task flag")
	}
	if flags.Changed("water") && checkWater < 0 {
		return fmt.Errorf("--water must not be negative")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	s.watchPerfectDays(cmd)

	day, err := s.ctrl.UpdateDay(date, func(d models.DayEntry) models.DayEntry {
		if flags.Changed("exercise") {
			d.Exercise = checkExercise
		}
		if flags.Changed("gluten-free") {
			d.GlutenFree = checkGlutenFree
		}
		if flags.Changed("no-alcohol") {
			d.NoAlcohol = checkNoAlcohol
		}
		if flags.Changed("reading") {
			d.Reading = checkReading
		}
		if flags.Changed("water") {
			d.WaterOz = checkWater
		}
		if flags.Changed("add-water") {
			d.WaterOz += checkAddWater
		}
		return d
	})
	if err != nil {
		return err
	}

	printDay(cmd.OutOrStdout(), day)
	return nil
}

func printDay(out io.Writer, d models.DayEntry) {
	fmt.Fprintf(out, "%s: %d/%d tasks (exercise %s, gluten %s, no alcohol %s, reading %s, water %d/%d oz)\n",
		d.Date, models.CompletedTaskCount(d), models.TaskCount,
		mark(d.Exercise), mark(d.GlutenFree), mark(d.NoAlcohol), mark(d.Reading), d.WaterOz, models.WaterGoalOz)
}
