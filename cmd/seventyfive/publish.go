package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/internal/publisher"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish progress to Home Assistant",
	Long:  `Sends current streak, longest streak, perfect days and completion percent to Home Assistant over MQTT and/or the HTTP states API.`,
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.cfg.MQTT.Enabled && !s.cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	pub, err := s.publisher()
	if err != nil {
		return err
	}

	st := publisher.BuildState(s.ctrl.Plan(), nowFunc())
	if err := pub.Publish(st); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Published: current streak %d, longest %d, %d perfect days, %d%% complete\n",
		st.CurrentStreak, st.LongestStreak, st.PerfectDays, st.Percent)
	return nil
}
