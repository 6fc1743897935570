package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all progress for the active plan",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "Confirm the reset")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return fmt.Errorf("refusing to reset without --yes")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ctrl.Reset(); err != nil {
		return fmt.Errorf("resetting plan: %w", err)
	}

	cfg := s.ctrl.Config()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Reset %d days starting %s\n", cfg.LengthDays, cfg.StartISO)
	return nil
}
