package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage global preferences",
}

var prefsSoundCmd = &cobra.Command{
	Use:       "sound [on|off]",
	Short:     "Turn the celebration sound on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runPrefsSound,
}

var prefsThemeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Set the web theme preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"light", "dark"},
	RunE:      runPrefsTheme,
}

func init() {
	prefsCmd.AddCommand(prefsSoundCmd, prefsThemeCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsSound(cmd *cobra.Command, args []string) error {
	var on bool
	switch args[0] {
	case "on":
		on = true
	case "off":
	default:
		return fmt.Errorf("unknown value: %s (available: on, off)", args[0])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.adapter.SetSoundEnabled(on); err != nil {
		return fmt.Errorf("saving sound preference: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Sound %s\n", args[0])
	return nil
}

func runPrefsTheme(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.adapter.SetTheme(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme %s\n", args[0])
	return nil
}
