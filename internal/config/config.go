// Package config provides centralized configuration management for mobgen.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Sheet   SheetConfig
	Fetch   FetchConfig
	Output  OutputConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// SheetConfig identifies the spreadsheet and the sheets each generator reads.
type SheetConfig struct {
	// SpreadsheetID is the ID segment of the Google Sheets URL
	SpreadsheetID string `env:"MOBGEN_SPREADSHEET_ID" envDefault:"1Muf5Hy6Zq1i8Rty1M26-5u13lalUBsuC-pVXNFXMoYM"`

	// MobGID is the gid of the creature sheet (default: 0, the first sheet)
	MobGID string `env:"MOBGEN_MOB_SHEET_GID" envDefault:"0"`

	// ItemGID is the gid of the item sheet
	ItemGID string `env:"MOBGEN_ITEM_SHEET_GID" envDefault:"1812502896"`

	// BaseURL is the export endpoint prefix
	BaseURL string `env:"MOBGEN_SHEET_BASE_URL" envDefault:"https://docs.google.com/spreadsheets/d"`

	// HeaderScanRows is how many leading rows are searched for the header row (default: 5)
	HeaderScanRows int `env:"MOBGEN_HEADER_SCAN_ROWS" envDefault:"5"`
}

// FetchConfig holds HTTP client settings for the CSV export download.
type FetchConfig struct {
	// Timeout bounds the whole request including the body read (default: 30s)
	Timeout time.Duration `env:"MOBGEN_FETCH_TIMEOUT" envDefault:"30s"`

	// MaxBytes caps the response body size (default: 10MB)
	MaxBytes int64 `env:"MOBGEN_FETCH_MAX_BYTES" envDefault:"10485760"`

	// MaxConcurrent is the number of sheet downloads allowed at once (default: 2)
	MaxConcurrent int `env:"MOBGEN_FETCH_MAX_CONCURRENT" envDefault:"2"`

	// MaxWait is how long a download waits for a free slot (default: 30s)
	MaxWait time.Duration `env:"MOBGEN_FETCH_MAX_WAIT" envDefault:"30s"`
}

// OutputConfig holds where generated files are written.
type OutputConfig struct {
	// DatapackDir is the root of the datapack (default: ../MinecraftLikeRPG)
	DatapackDir string `env:"MOBGEN_DATAPACK_DIR" envDefault:"../MinecraftLikeRPG"`

	// SpawnFunctions enables spawn_map and spawn wrapper files for mobs (default: true)
	SpawnFunctions bool `env:"MOBGEN_SPAWN_FUNCTIONS" envDefault:"true"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" envDefault:"127.0.0.1"`

	// Port is the port to listen on (default: 8089)
	Port int `env:"SERVER_PORT" envDefault:"8089"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// SheetGID returns the configured gid for a generator key.
// Unknown keys fall back to the mob sheet.
func (c *SheetConfig) SheetGID(generator string) string {
	if generator == "item" {
		return c.ItemGID
	}
	return c.MobGID
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
