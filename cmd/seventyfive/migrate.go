package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/internal/browser"
)

var (
	migrateVisible bool
	migrateURL     string
	migrateProfile string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate-browser",
	Short: "Copy progress saved by the web app in Chrome into the database",
	Long: `Opens the web app in Chrome using an existing profile, reads every
localStorage entry in the storage namespace and saves valid plans and
preferences into the local database. Invalid entries are skipped.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateVisible, "visible", false, "Show browser window")
	migrateCmd.Flags().StringVar(&migrateURL, "url", "", "Web app URL (default from config browser.app_url)")
	migrateCmd.Flags().StringVar(&migrateProfile, "profile", "", "Chrome user data dir (default from config browser.user_data_dir)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := browser.Options{
		AppURL:      s.cfg.Browser.AppURL,
		UserDataDir: s.cfg.Browser.UserDataDir,
		Visible:     migrateVisible,
	}
	if migrateURL != "" {
		opts.AppURL = migrateURL
	}
	if migrateProfile != "" {
		opts.UserDataDir = migrateProfile
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reading localStorage from %s...\n", opts.AppURL)
	entries, err := browser.ReadLocalStorage(context.Background(), opts, s.adapter.Namespace()+"-")
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	plans, prefs, skipped := 0, 0, 0
	for _, key := range keys {
		ok, err := s.adapter.RestorePreference(key, entries[key])
		if ok {
			if err != nil {
				fmt.Fprintf(out, "  skipped %s: %v\n", key, err)
				skipped++
			} else {
				prefs++
			}
			continue
		}
		if err := s.adapter.RestoreValue(key, entries[key]); err != nil {
			fmt.Fprintf(out, "  skipped %s: %v\n", key, err)
			skipped++
			continue
		}
		fmt.Fprintf(out, "  ✓ %s\n", key)
		plans++
	}

	fmt.Fprintf(out, "Migrated %d plans and %d preferences (%d skipped)\n", plans, prefs, skipped)
	return nil
}
