package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/seventyfive/internal/config"
	"github.com/jgoulah/seventyfive/internal/plan"
	"github.com/jgoulah/seventyfive/internal/publisher"
	"github.com/jgoulah/seventyfive/internal/storage"
	"github.com/jgoulah/seventyfive/pkg/models"
)

var (
	cfgFile string
	dbPath  string
)

// nowFunc supplies the wall clock; tests replace it
var nowFunc = time.Now

var rootCmd = &cobra.Command{
	Use:   "seventyfive",
	Short: "Track a 75 Soft challenge from the command line",
	Long: `seventyfive keeps a daily checklist for a fixed-length challenge plan
(exercise, gluten rule, no alcohol, reading, 100 oz water), stores it in a
local SQLite database and reports perfect days and streaks.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default from config, or ./data.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// session bundles everything a command needs
type session struct {
	cfg     *config.Config
	db      *storage.SQLiteStore
	adapter *storage.Adapter
	ctrl    *plan.Controller
	pub     *publisher.Publisher
}

// openSession loads config, opens the database and the active plan
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	path := dbPath
	if path == "" {
		path = cfg.GetDatabase()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	adapter := storage.NewAdapter(db, cfg.GetNamespace())

	active, err := adapter.LoadActiveConfig()
	if errors.Is(err, storage.ErrNotFound) {
		active, err = cfg.InitialPlanConfig(nowFunc())
		if err == nil {
			err = adapter.SaveActiveConfig(active)
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("selecting plan: %w", err)
	}

	ctrl, _, err := plan.New(adapter, active)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening plan: %w", err)
	}

	return &session{cfg: cfg, db: db, adapter: adapter, ctrl: ctrl}, nil
}

// Close releases the publisher and database
func (s *session) Close() {
	if s.pub != nil {
		s.pub.Close()
	}
	s.db.Close()
}

// publisher connects to the configured destinations on first use
func (s *session) publisher() (*publisher.Publisher, error) {
	if s.pub != nil {
		return s.pub, nil
	}
	pub, err := publisher.New(s.cfg.MQTT, s.cfg.GetTopicPrefix(), s.cfg.HomeAssistant)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}
	s.pub = pub
	return pub, nil
}

// watchPerfectDays prints a celebration for each newly perfect day, rings
// the terminal bell when sound is on and forwards it over MQTT when enabled
func (s *session) watchPerfectDays(cmd *cobra.Command) {
	s.ctrl.OnPerfectDay(func(day models.DayEntry) {
		out := cmd.OutOrStdout()
		if on, err := s.adapter.SoundEnabled(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not read sound preference: %v\n", err)
		} else if on {
			fmt.Fprint(out, "\a")
		}
		fmt.Fprintf(out, "✨ %s is a perfect day!\n", day.Date)
		if !s.cfg.MQTT.Enabled {
			return
		}
		pub, err := s.publisher()
		if err == nil {
			err = pub.PublishPerfectDay(day)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not announce perfect day: %v\n", err)
		}
	})
}

// resolveDate accepts YYYY-MM-DD, "today" or "yesterday"
func resolveDate(arg string) (string, error) {
	switch arg {
	case "today":
		return models.FormatDate(nowFunc()), nil
	case "yesterday":
		return models.FormatDate(nowFunc().AddDate(0, 0, -1)), nil
	}
	if _, err := models.ParseDate(arg); err != nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD, today or yesterday)", arg)
	}
	return arg, nil
}
