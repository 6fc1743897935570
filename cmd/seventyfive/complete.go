package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/internal/plan"
)

var completeClear bool

var completeCmd = &cobra.Command{
	Use:   "complete [date]",
	Short: "Mark every task for a day complete (or clear them)",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Quick-complete all tasks for today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return bulkSet(cmd, "today", true)
	},
}

func init() {
	completeCmd.Flags().BoolVar(&completeClear, "clear", false, "Clear every task instead")
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(todayCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	return bulkSet(cmd, args[0], !completeClear)
}

func bulkSet(cmd *cobra.Command, arg string, complete bool) error {
	date, err := resolveDate(arg)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	s.watchPerfectDays(cmd)

	day, err := s.ctrl.BulkSetDay(date, complete)
	if errors.Is(err, plan.ErrDayNotFound) && arg == "today" {
		return fmt.Errorf("today is outside the current plan window")
	}
	if err != nil {
		return err
	}

	printDay(cmd.OutOrStdout(), day)
	return nil
}
