package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Service struct {
		Name                string `yaml:"name"`
		Port                int    `yaml:"port"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
		TriggerSecret       string `yaml:"trigger_secret"`
	} `yaml:"service"`

	Source struct {
		SpreadsheetID   string   `yaml:"spreadsheet_id"`
		CredentialsFile string   `yaml:"credentials_file"`
		Brands          []string `yaml:"brands"`
	} `yaml:"source"`

	Postgres struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Database string `yaml:"database"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"postgres"`

	Sync struct {
		PendingStatus string `yaml:"pending_status"`
		ClearedStatus string `yaml:"cleared_status"`
	} `yaml:"sync"`
}

// LoadConfig loads configuration from a YAML file. Secrets may be supplied
// or overridden through the environment (DB_PASSWORD, TRIGGER_SECRET,
// GOOGLE_APPLICATION_CREDENTIALS).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Set defaults
	if cfg.Service.Name == "" {
		cfg.Service.Name = "deposit-sync"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8080
	}
	if cfg.Service.PollIntervalSeconds == 0 {
		cfg.Service.PollIntervalSeconds = 60
	}
	if len(cfg.Source.Brands) == 0 {
		cfg.Source.Brands = []string{"M1", "M2", "B1", "B2", "K1", "B3", "B4"}
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = 5432
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Sync.PendingStatus == "" {
		cfg.Sync.PendingStatus = "PENDING"
	}
	if cfg.Sync.ClearedStatus == "" {
		cfg.Sync.ClearedStatus = "CLEARED_AUTO"
	}

	// Environment overrides for secrets
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("TRIGGER_SECRET"); v != "" {
		cfg.Service.TriggerSecret = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Source.CredentialsFile = v
	}

	if cfg.Source.SpreadsheetID == "" {
		return nil, fmt.Errorf("source.spreadsheet_id is required")
	}
	if cfg.Service.TriggerSecret == "" {
		return nil, fmt.Errorf("trigger secret is required (service.trigger_secret or TRIGGER_SECRET)")
	}

	return &cfg, nil
}

// PollInterval returns the sync loop interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Service.PollIntervalSeconds) * time.Second
}

// PostgresDSN returns a connection string for PostgreSQL
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Database,
		c.Postgres.SSLMode,
	)
}
