package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Session struct {
		IdleMinutes int `yaml:"idle_minutes"`
	} `yaml:"session"`

	Telegram struct {
		BotToken       string  `yaml:"bot_token"`
		ChatID         int64   `yaml:"chat_id"`
		DailyBotToken  string  `yaml:"daily_bot_token"`
		DailyChatID    int64   `yaml:"daily_chat_id"`
		MessagesPerSec float64 `yaml:"messages_per_sec"`
	} `yaml:"telegram"`

	Digest struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"digest"`

	PDF struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"pdf"`

	Sheets struct {
		Enabled         bool   `yaml:"enabled"`
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		SheetName       string `yaml:"sheet_name"`
	} `yaml:"sheets"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/krampus.db"
	}
	if cfg.Session.IdleMinutes <= 0 {
		cfg.Session.IdleMinutes = 30
	}
	if cfg.Telegram.MessagesPerSec <= 0 {
		cfg.Telegram.MessagesPerSec = 20
	}
	if cfg.Sheets.SheetName == "" {
		cfg.Sheets.SheetName = "Reservations"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SessionIdleTimeout is the rolling inactivity window for dashboard sessions.
func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleMinutes) * time.Minute
}
