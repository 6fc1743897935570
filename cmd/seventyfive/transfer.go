package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active plan as JSON",
	Long:  `Writes the active plan to a JSON file (default 75-soft-<start>-<length>.json). Use --out - for stdout.`,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the active plan with an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default 75-soft-<start>-<length>.json)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := s.ctrl.ExportPlan()
	if err != nil {
		return err
	}

	if exportOut == "-" {
		_, err := cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}

	path := exportOut
	if path == "" {
		path = storage.ExportFileName(s.ctrl.Config())
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ctrl.ImportPlan(data); err != nil {
		return err
	}

	cfg := s.ctrl.Config()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Progress imported: %s → %s (%d days)\n", cfg.StartISO, cfg.EndISO(), cfg.LengthDays)
	return nil
}
