package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file. Pointer fields distinguish
// absent keys from zero values so the file only overrides what it names.
type fileConfig struct {
	OddsPageURL    *string `yaml:"odds_page_url"`
	ListingsURL    *string `yaml:"listings_url"`
	OddsAPIURL     *string `yaml:"odds_api_url"`
	APIKey         *string `yaml:"api_key"`
	Region         *string `yaml:"region"`
	Markets        *string `yaml:"markets"`
	OddsFormat     *string `yaml:"odds_format"`
	TestEventLimit *int    `yaml:"test_event_limit"`
	MaxEvents      *int    `yaml:"max_events"`
	MaxPerSelector *int    `yaml:"max_per_selector"`
	Delay          *string `yaml:"delay"`
	RandomDelay    *string `yaml:"random_delay"`
	Timeout        *string `yaml:"timeout"`
	OutputFile     *string `yaml:"output_file"`
	OutputFormat   *string `yaml:"output_format"`
	DatabasePath   *string `yaml:"database_path"`
	UserAgent      *string `yaml:"user_agent"`
	MetricsAddr    *string `yaml:"metrics_addr"`
}

// LoadFile applies settings from a YAML file on top of cfg. Keys the file
// does not mention are left untouched.
func LoadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	applyDuration := func(dst *time.Duration, key string, src *string) error {
		if src == nil {
			return nil
		}
		value, err := time.ParseDuration(*src)
		if err != nil {
			return fmt.Errorf("parse %s in config file: %w", key, err)
		}
		*dst = value
		return nil
	}

	applyString(&cfg.OddsPageURL, file.OddsPageURL)
	applyString(&cfg.ListingsURL, file.ListingsURL)
	applyString(&cfg.OddsAPIURL, file.OddsAPIURL)
	applyString(&cfg.APIKey, file.APIKey)
	applyString(&cfg.Region, file.Region)
	applyString(&cfg.Markets, file.Markets)
	applyString(&cfg.OddsFormat, file.OddsFormat)
	applyInt(&cfg.TestEventLimit, file.TestEventLimit)
	applyInt(&cfg.MaxEvents, file.MaxEvents)
	applyInt(&cfg.MaxPerSelector, file.MaxPerSelector)
	if err := applyDuration(&cfg.Delay, "delay", file.Delay); err != nil {
		return err
	}
	if err := applyDuration(&cfg.RandomDelay, "random_delay", file.RandomDelay); err != nil {
		return err
	}
	if err := applyDuration(&cfg.Timeout, "timeout", file.Timeout); err != nil {
		return err
	}
	applyString(&cfg.OutputFile, file.OutputFile)
	applyString(&cfg.OutputFormat, file.OutputFormat)
	applyString(&cfg.DatabasePath, file.DatabasePath)
	applyString(&cfg.UserAgent, file.UserAgent)
	applyString(&cfg.MetricsAddr, file.MetricsAddr)

	return nil
}
