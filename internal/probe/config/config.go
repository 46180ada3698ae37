package config

import (
	"time"

	"golang-stock-proxy/pkg/config"
)

// Probe holds the target service and scenario settings.
type Probe struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	StreamTimeout time.Duration `mapstructure:"stream_timeout"`
	StockCode     string        `mapstructure:"stock_code"`
	OutputDir     string        `mapstructure:"output_dir"`
	Wait          time.Duration `mapstructure:"wait"`
	Schedule      string        `mapstructure:"schedule"`
}

// Config holds the full configuration for the probe CLI.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Probe    Probe           `mapstructure:"probe"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Defaults mirrors configs/config-probe.yaml.
var Defaults = map[string]interface{}{
	"app.name":             "stock-analysis-probe",
	"app.env":              "development",
	"logger.level":         "warn",
	"logger.encoding":      "console",
	"probe.base_url":       "http://localhost:8080",
	"probe.timeout":        "60s",
	"probe.stream_timeout": "45s",
	"probe.stock_code":     "000001",
	"probe.output_dir":     ".",
	"probe.wait":           "0s",
	"probe.schedule":       "@every 30m",
	"telegram.bot_token":   "",
	"telegram.chat_id":     0,
}

// Load loads the probe configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}
