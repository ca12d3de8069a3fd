package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Provider struct {
		ChartBaseURL        string `yaml:"chart_base_url"`
		SummaryBaseURL      string `yaml:"summary_base_url"`
		FundamentalsBaseURL string `yaml:"fundamentals_base_url"`
	} `yaml:"provider"`
	Retry struct {
		MaxAttempts  int `yaml:"max_attempts"`
		DelaySeconds int `yaml:"delay_seconds"`
	} `yaml:"retry"`
	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	Watchlist struct {
		Indices []string `yaml:"indices"`
		Stocks  []string `yaml:"stocks"`
	} `yaml:"watchlist"`
	Warm struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
	} `yaml:"warm"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Webhook struct {
		URL string `yaml:"url"`
	} `yaml:"webhook"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("RETRY_DELAY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.DelaySeconds = n
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("WARM_CRON"); v != "" {
		cfg.Warm.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 5
	}
	if cfg.Retry.DelaySeconds == 0 {
		cfg.Retry.DelaySeconds = 60
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 3600
	}
	if len(cfg.Watchlist.Indices) == 0 {
		cfg.Watchlist.Indices = []string{"^DJI", "^GSPC", "^IXIC", "^RUT"}
	}
	if len(cfg.Watchlist.Stocks) == 0 {
		cfg.Watchlist.Stocks = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
	}
	if cfg.Warm.Cron == "" {
		cfg.Warm.Cron = "0 0 * * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are sane.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.DelaySeconds < 0 {
		return fmt.Errorf("retry.delay_seconds must not be negative")
	}
	if c.Cache.TTLSeconds < 1 {
		return fmt.Errorf("cache.ttl_seconds must be positive")
	}
	if len(c.Watchlist.Indices) == 0 {
		return fmt.Errorf("watchlist.indices must not be empty")
	}
	if len(c.Watchlist.Stocks) == 0 {
		return fmt.Errorf("watchlist.stocks must not be empty")
	}
	return nil
}
