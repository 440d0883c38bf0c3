// Package config loads the dashboard settings from config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/parser"
	"golang.org/x/text/language"
)

// DefaultFileName is the config file looked up next to the executable.
const DefaultFileName = "config.toml"

// AppConfig is the application configuration.
type AppConfig struct {
	Server  ServerConfig                  `toml:"server"`
	Sheet   SheetConfig                   `toml:"sheet"`
	Poll    PollConfig                    `toml:"poll"`
	Store   StoreConfig                   `toml:"store"`
	Log     LogConfig                     `toml:"log"`
	Format  FormatConfig                  `toml:"format"`
	Scanner ScannerConfig                 `toml:"scanner"`
	Tabs    map[string]models.SheetConfig `toml:"tabs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// SheetConfig names the tracked spreadsheet.
type SheetConfig struct {
	URL string `toml:"url"`
	// BaseURL is the spreadsheet host, overridable for tests and proxies.
	BaseURL string `toml:"base_url"`
}

// PollConfig configures the refresh loop and the fetch client.
type PollConfig struct {
	Interval Duration `toml:"interval"`
	Timeout  Duration `toml:"timeout"`
	// RatePerMinute caps outgoing fetches.
	RatePerMinute int `toml:"rate_per_minute"`
}

// StoreConfig selects where the dashboard memory is persisted.
type StoreConfig struct {
	// Driver is one of "file", "sqlite3", "mysql" or "memory".
	Driver string `toml:"driver"`
	// Path is the JSON file or sqlite database path.
	Path string `toml:"path"`
	// DSN is the mysql data source name.
	DSN string `toml:"dsn"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// FormatConfig configures display formatting.
type FormatConfig struct {
	// Locale is a BCP 47 tag used for thousands separators.
	Locale string `toml:"locale"`
}

// ScannerConfig overrides the product block name heuristics.
type ScannerConfig struct {
	Stoplist []string        `toml:"stoplist"`
	Offsets  []parser.Offset `toml:"offsets"`
}

// Duration is a time.Duration written as "3s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port: 20262,
		},
		Sheet: SheetConfig{
			BaseURL: "https://docs.google.com",
		},
		Poll: PollConfig{
			Interval:      Duration{3 * time.Second},
			Timeout:       Duration{15 * time.Second},
			RatePerMinute: 60,
		},
		Store: StoreConfig{
			Driver: "file",
			Path:   filepath.Join("data", "memory.json"),
		},
		Log: LogConfig{
			Level: "info",
		},
		Format: FormatConfig{
			Locale: "en",
		},
	}
}

// Load reads the config at path. A missing file yields the defaults.
// Environment variables override the file.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("SHEETWATCH_SHEET_URL"); v != "" {
		cfg.Sheet.URL = v
	}
	if v := os.Getenv("SHEETWATCH_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg *AppConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns config.toml next to the executable, or in the working
// directory when the executable path is unknown.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// Validate checks values that would otherwise fail later.
func (c *AppConfig) Validate() error {
	if c.Poll.Interval.Duration <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Poll.Interval)
	}
	if _, err := c.LocaleTag(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case "file", "sqlite3", "mysql", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	for name, tab := range c.Tabs {
		if _, err := parser.ConfigArea(models.DefaultSheetConfigs()[name].Merge(tab)); err != nil {
			return fmt.Errorf("tab %s: %w", name, err)
		}
	}
	return nil
}

// LocaleTag parses Format.Locale.
func (c *AppConfig) LocaleTag() (language.Tag, error) {
	if c.Format.Locale == "" {
		return parser.DefaultLocale, nil
	}
	tag, err := language.Parse(c.Format.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Format.Locale, err)
	}
	return tag, nil
}

// ExtractParams returns the block layout parameters with config overrides.
func (c *AppConfig) ExtractParams() parser.ExtractParams {
	params := parser.DefaultExtractParams()
	if tag, err := c.LocaleTag(); err == nil {
		params.Locale = tag
	}
	if len(c.Scanner.Stoplist) > 0 {
		params.Name.Stoplist = c.Scanner.Stoplist
	}
	if len(c.Scanner.Offsets) > 0 {
		params.Name.Offsets = c.Scanner.Offsets
	}
	return params
}

// SheetConfigs returns the default tab configs with [tabs] overrides applied.
func (c *AppConfig) SheetConfigs() map[string]models.SheetConfig {
	configs := models.DefaultSheetConfigs()
	for name, tab := range c.Tabs {
		merged := configs[name].Merge(tab)
		if merged.SheetName == "" {
			merged.SheetName = name
		}
		configs[name] = merged
	}
	return configs
}
