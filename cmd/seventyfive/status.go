package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress and streaks for the active plan",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	now := nowFunc()
	p := s.ctrl.Plan()
	summary := s.ctrl.Summary(now)

	fmt.Fprintf(out, "Plan: %s → %s (%d days)\n", p.Config.StartISO, p.Config.EndISO(), p.Config.LengthDays)

	todayISO := models.FormatDate(now)
	switch i := p.IndexOf(todayISO); {
	case i >= 0:
		fmt.Fprintf(out, "Today is the %s day of %d (%d/%d tasks)\n",
			humanize.Ordinal(i+1), p.Config.LengthDays, models.CompletedTaskCount(p.Days[i]), models.TaskCount)
	case todayISO < p.Config.StartISO:
		fmt.Fprintf(out, "Plan starts in %d days\n", daysBetween(todayISO, p.Config.StartISO))
	default:
		fmt.Fprintln(out, "Plan has ended")
	}

	fmt.Fprintln(out, "----------------------------------------")
	fmt.Fprintf(out, "Completion:     %d%% (%d/%d tasks)\n", summary.Percent, summary.DoneTasks, summary.TotalTasks)
	fmt.Fprintf(out, "Perfect days:   %d\n", summary.PerfectDays)
	fmt.Fprintf(out, "Current streak: %d\n", summary.Streaks.Current)
	fmt.Fprintf(out, "Longest streak: %d\n", summary.Streaks.Longest)

	if updated, err := s.db.UpdatedAt(s.ctrl.StorageKey()); err == nil {
		fmt.Fprintf(out, "Last saved:     %s\n", humanize.Time(updated))
	}

	sound, err := s.adapter.SoundEnabled()
	if err != nil {
		return fmt.Errorf("reading sound preference: %w", err)
	}
	theme, err := s.adapter.Theme()
	if err != nil {
		return fmt.Errorf("reading theme preference: %w", err)
	}
	fmt.Fprintf(out, "Sound: %s, theme: %s\n", onOff(sound), theme)

	return nil
}

func daysBetween(fromISO, toISO string) int {
	from, _ := models.ParseDate(fromISO)
	to, _ := models.ParseDate(toISO)
	return int(to.Sub(from).Hours() / 24)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
