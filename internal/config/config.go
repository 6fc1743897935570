package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jgoulah/seventyfive/pkg/models"
)

// Environment variables that override secrets from the config file
const (
	EnvHAToken      = "SEVENTYFIVE_HA_TOKEN"
	EnvMQTTPassword = "SEVENTYFIVE_MQTT_PASSWORD"
)

// Config holds the application configuration
type Config struct {
	Namespace     string        `yaml:"namespace,omitempty"`   // Storage key prefix (default: seventyfive-soft)
	StartDate     string        `yaml:"start_date,omitempty"`  // YYYY-MM-DD, first run only (default: next Monday)
	LengthDays    int           `yaml:"length_days,omitempty"` // Default 75
	Database      string        `yaml:"database,omitempty"`    // SQLite file (default: data.db)
	HomeAssistant HAConfig      `yaml:"home_assistant,omitempty"`
	MQTT          MQTTConfig    `yaml:"mqtt,omitempty"`
	Browser       BrowserConfig `yaml:"browser,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.seventyfive_soft"
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: seventyfive
}

// BrowserConfig points at the web app whose localStorage can be migrated
type BrowserConfig struct {
	AppURL      string `yaml:"app_url,omitempty"`       // e.g., "https://example.com/soft/"
	UserDataDir string `yaml:"user_data_dir,omitempty"` // Chrome profile holding the app's storage
}

// Load reads the config file and applies environment overrides. A .env
// file next to the working directory is loaded first if present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if v := os.Getenv(EnvHAToken); v != "" {
		cfg.HomeAssistant.Token = v
	}
	if v := os.Getenv(EnvMQTTPassword); v != "" {
		cfg.MQTT.Password = v
	}

	return cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetNamespace returns the storage namespace with a default of seventyfive-soft
func (c *Config) GetNamespace() string {
	if c.Namespace == "" {
		return "seventyfive-soft"
	}
	return c.Namespace
}

// GetLengthDays returns the plan length with a default of 75
func (c *Config) GetLengthDays() int {
	if c.LengthDays <= 0 {
		return models.DefaultLengthDays
	}
	return c.LengthDays
}

// GetDatabase returns the database path with a default of data.db
func (c *Config) GetDatabase() string {
	if c.Database == "" {
		return "data.db"
	}
	return c.Database
}

// GetTopicPrefix returns the MQTT topic prefix with a default of seventyfive
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "seventyfive"
	}
	return c.MQTT.TopicPrefix
}

// InitialPlanConfig returns the configuration to start with when no plan
// has been selected yet
func (c *Config) InitialPlanConfig(now time.Time) (models.PlanConfig, error) {
	if c.StartDate == "" {
		cfg := models.DefaultPlanConfig(now)
		cfg.LengthDays = c.GetLengthDays()
		return cfg, nil
	}
	return models.NewPlanConfig(c.StartDate, c.GetLengthDays())
}
