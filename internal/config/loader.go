package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if a value cannot be parsed or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Sheet validation
	if strings.TrimSpace(c.Sheet.SpreadsheetID) == "" {
		errs = append(errs, "MOBGEN_SPREADSHEET_ID is required")
	}
	if strings.TrimSpace(c.Sheet.MobGID) == "" {
		errs = append(errs, "MOBGEN_MOB_SHEET_GID is required")
	}
	if !strings.HasPrefix(c.Sheet.BaseURL, "http://") && !strings.HasPrefix(c.Sheet.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("MOBGEN_SHEET_BASE_URL (%q) must be an http(s) URL", c.Sheet.BaseURL))
	}
	if c.Sheet.HeaderScanRows <= 0 {
		errs = append(errs, "MOBGEN_HEADER_SCAN_ROWS must be positive")
	}

	// Fetch validation
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, "MOBGEN_FETCH_TIMEOUT must be positive")
	}
	if c.Fetch.MaxBytes <= 0 {
		errs = append(errs, "MOBGEN_FETCH_MAX_BYTES must be positive")
	}
	if c.Fetch.MaxConcurrent <= 0 {
		errs = append(errs, "MOBGEN_FETCH_MAX_CONCURRENT must be positive")
	}

	// Output validation
	if strings.TrimSpace(c.Output.DatapackDir) == "" {
		errs = append(errs, "MOBGEN_DATAPACK_DIR is required")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Sheet: {SpreadsheetID: %q, MobGID: %q, ItemGID: %q}, ",
		c.Sheet.SpreadsheetID, c.Sheet.MobGID, c.Sheet.ItemGID)
	fmt.Fprintf(&b, "Fetch: {Timeout: %s, MaxBytes: %d, MaxConcurrent: %d}, ",
		c.Fetch.Timeout, c.Fetch.MaxBytes, c.Fetch.MaxConcurrent)
	fmt.Fprintf(&b, "Output: {DatapackDir: %q, SpawnFunctions: %v}, ",
		c.Output.DatapackDir, c.Output.SpawnFunctions)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
