package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds scraper configuration.
type Config struct {
	OddsPageURL string // listing page scanned for upcoming cards
	ListingsURL string // backup listing page with real event URLs
	OddsAPIURL  string // live odds API base
	APIKey      string
	Region      string
	Markets     string
	OddsFormat  string

	TestMode       bool
	TestEventLimit int
	MaxEvents      int
	MaxPerSelector int

	Delay       time.Duration
	RandomDelay time.Duration
	Timeout     time.Duration

	OutputFile   string
	OutputFormat string // csv, json, or dual
	DatabasePath string

	UserAgent   string
	Verbose     bool
	MetricsAddr string
}

// DefaultConfig returns the defaults for the public odds sources.
func DefaultConfig() *Config {
	return &Config{
		OddsPageURL:    "https://www.oddsshark.com/ufc/odds",
		ListingsURL:    "https://www.bestfightodds.com/events",
		OddsAPIURL:     "https://api.the-odds-api.com/v4",
		APIKey:         "",
		Region:         "us",
		Markets:        "h2h",
		OddsFormat:     "decimal",
		TestMode:       false,
		TestEventLimit: 2,
		MaxEvents:      10,
		MaxPerSelector: 5,
		Delay:          1 * time.Second,
		RandomDelay:    2 * time.Second,
		Timeout:        10 * time.Second,
		OutputFile:     "data/odds_raw.csv",
		OutputFormat:   "csv",
		DatabasePath:   "ufc_data.db",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Verbose:        false,
		MetricsAddr:    "",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"odds page URL": c.OddsPageURL,
		"listings URL":  c.ListingsURL,
		"odds API URL":  c.OddsAPIURL,
	} {
		if value == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		parsed, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("%s must include a host", name)
		}
	}

	if c.Region == "" {
		return fmt.Errorf("region cannot be empty")
	}
	if c.Markets == "" {
		return fmt.Errorf("markets cannot be empty")
	}
	if c.OddsFormat == "" {
		return fmt.Errorf("odds format cannot be empty")
	}
	if c.TestEventLimit <= 0 {
		return fmt.Errorf("test event limit must be positive")
	}
	if c.MaxEvents <= 0 {
		return fmt.Errorf("max events must be positive")
	}
	if c.MaxPerSelector <= 0 {
		return fmt.Errorf("max per selector must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
