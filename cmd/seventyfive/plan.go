package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/internal/plan"
)

var (
	planStart  string
	planLength int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show or change the active plan configuration",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active plan configuration",
	RunE:  runPlanShow,
}

var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Switch to a plan by start date and length",
	Long: `Switches the active plan. If progress was already saved for the same
start date and length it is reloaded, otherwise a fresh plan is created.`,
	RunE: runPlanSet,
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every plan saved in the database",
	RunE:  runPlanList,
}

func init() {
	planSetCmd.Flags().StringVar(&planStart, "start", "", "Start date (YYYY-MM-DD, default: keep current)")
	planSetCmd.Flags().IntVar(&planLength, "length", 0, "Length in days (default: keep current)")
	planCmd.AddCommand(planShowCmd, planSetCmd, planListCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := s.ctrl.Config()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Start:  %s\n", cfg.StartISO)
	fmt.Fprintf(out, "End:    %s\n", cfg.EndISO())
	fmt.Fprintf(out, "Length: %d days\n", cfg.LengthDays)
	fmt.Fprintf(out, "Key:    %s\n", s.ctrl.StorageKey())
	return nil
}

func runPlanSet(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	next := s.ctrl.Config()
	if cmd.Flags().Changed("start") {
		next.StartISO = planStart
	}
	if cmd.Flags().Changed("length") {
		next.LengthDays = planLength
	}

	origin, err := s.ctrl.SetConfig(next)
	if err != nil {
		return err
	}

	if origin == plan.Reloaded {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Reloaded saved plan %s → %s\n", next.StartISO, next.EndISO())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Started new plan %s → %s\n", next.StartISO, next.EndISO())
	}
	return nil
}

func runPlanList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	configs, err := s.adapter.ListPlans()
	if err != nil {
		return fmt.Errorf("listing plans: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(configs) == 0 {
		fmt.Fprintln(out, "No saved plans")
		return nil
	}

	active := s.ctrl.Config()
	for _, cfg := range configs {
		marker := " "
		if cfg == active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s → %s (%d days)\n", marker, cfg.StartISO, cfg.EndISO(), cfg.LengthDays)
	}
	return nil
}
