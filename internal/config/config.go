// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STRETCHBOARD_"

// Storage sources.
const (
	SourceAPI    = "api"
	SourceSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	API      APIConfig      `toml:"api"`
	Storage  StorageConfig  `toml:"storage"`
	Cache    CacheConfig    `toml:"cache"`
	Logging  LoggingConfig  `toml:"logging"`
	UI       UIConfig       `toml:"ui"`
	Server   ServerConfig   `toml:"server"`
	Export   ExportConfig   `toml:"export"`
}

// ScheduleConfig holds the day grid and layout settings.
type ScheduleConfig struct {
	StartHour int    `toml:"start_hour"` // first visible hour, e.g. 9
	EndHour   int    `toml:"end_hour"`   // last grid line, e.g. 22
	Grouping  string `toml:"grouping"`   // "first-neighbor" or "connected"
	Columns   string `toml:"columns"`    // "per-booking" or "packed"
}

// APIConfig holds booking backend settings.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	Token          string  `toml:"token"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RPS            float64 `toml:"rps"` // outbound requests per second, 0 disables limiting
	Burst          int     `toml:"burst"`
}

// Timeout returns the request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig selects where bookings come from.
type StorageConfig struct {
	Source string `toml:"source"` // "api" or "sqlite"
	DBPath string `toml:"db_path"`
}

// CacheConfig holds the optional redis read cache settings.
type CacheConfig struct {
	RedisAddr     string `toml:"redis_addr"` // empty disables the cache
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"` // "json" or "console"
	Output   string `toml:"output"` // "stderr", "file" or "discard"
	FilePath string `toml:"file_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme    string `toml:"theme"`     // "mocha", "latte"
	RowLines int    `toml:"row_lines"` // terminal lines per half-hour row, 0 fits the terminal
}

// ServerConfig holds the dev backend settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ExportConfig holds spreadsheet export settings.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			StartHour: 9,
			EndHour:   22,
			Grouping:  "first-neighbor",
			Columns:   "per-booking",
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8080/api/v1",
			TimeoutSeconds: 10,
			RPS:            5,
			Burst:          10,
		},
		Storage: StorageConfig{
			Source: SourceAPI,
			DBPath: defaultDBPath(),
		},
		Cache: CacheConfig{
			TTLSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "discard",
			FilePath: "stretchboard.log",
		},
		UI: UIConfig{
			Theme:    "mocha",
			RowLines: 1,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "stretchboard.db"
	}
	return filepath.Join(home, ".local", "share", "stretchboard", "stretchboard.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "stretchboard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies
// .env and environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// A missing .env is fine; a broken one is not.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Export.Dir = expandPath(cfg.Export.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists. ${VAR} references in
// the file are expanded from the environment.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := toml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"START_HOUR", &cfg.Schedule.StartHour},
		{"END_HOUR", &cfg.Schedule.EndHour},
		{"API_TIMEOUT_SECONDS", &cfg.API.TimeoutSeconds},
		{"API_BURST", &cfg.API.Burst},
		{"REDIS_DB", &cfg.Cache.RedisDB},
		{"CACHE_TTL_SECONDS", &cfg.Cache.TTLSeconds},
		{"ROW_LINES", &cfg.UI.RowLines},
	}
	for _, o := range ints {
		v := os.Getenv(EnvPrefix + o.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s must be an integer, got %q", EnvPrefix, o.name, v)
		}
		*o.dst = n
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"GROUPING", &cfg.Schedule.Grouping},
		{"COLUMNS", &cfg.Schedule.Columns},
		{"API_BASE_URL", &cfg.API.BaseURL},
		{"API_TOKEN", &cfg.API.Token},
		{"SOURCE", &cfg.Storage.Source},
		{"DB_PATH", &cfg.Storage.DBPath},
		{"REDIS_ADDR", &cfg.Cache.RedisAddr},
		{"REDIS_PASSWORD", &cfg.Cache.RedisPassword},
		{"LOG_LEVEL", &cfg.Logging.Level},
		{"LOG_FORMAT", &cfg.Logging.Format},
		{"LOG_OUTPUT", &cfg.Logging.Output},
		{"LOG_FILE", &cfg.Logging.FilePath},
		{"UI_THEME", &cfg.UI.Theme},
		{"SERVER_ADDR", &cfg.Server.Addr},
		{"EXPORT_DIR", &cfg.Export.Dir},
	}
	for _, o := range strs {
		if v := os.Getenv(EnvPrefix + o.name); v != "" {
			*o.dst = v
		}
	}

	if v := os.Getenv(EnvPrefix + "API_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sAPI_RPS must be a number, got %q", EnvPrefix, v)
		}
		cfg.API.RPS = f
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Schedule
	if s.StartHour < 0 || s.EndHour > 24 || s.StartHour >= s.EndHour {
		return fmt.Errorf("start_hour must be before end_hour within 0-24, got %d-%d", s.StartHour, s.EndHour)
	}
	if !oneOf(s.Grouping, "first-neighbor", "first_neighbor", "connected") {
		return fmt.Errorf("invalid grouping: %s", s.Grouping)
	}
	if !oneOf(s.Columns, "per-booking", "per_booking", "packed") {
		return fmt.Errorf("invalid columns: %s", s.Columns)
	}

	switch c.Storage.Source {
	case SourceAPI:
		if c.API.BaseURL == "" {
			return errors.New("api.base_url must be set when storage.source is api")
		}
	case SourceSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	default:
		return fmt.Errorf("invalid storage source: %s", c.Storage.Source)
	}

	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	if c.API.RPS < 0 || c.API.Burst < 0 {
		return errors.New("api.rps and api.burst must not be negative")
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTLSeconds <= 0 {
		return errors.New("cache.ttl_seconds must be positive when redis is enabled")
	}
	if !oneOf(c.Logging.Output, "", "stderr", "file", "discard") {
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}
	if c.UI.RowLines < 0 || c.UI.RowLines > 4 {
		return fmt.Errorf("row_lines must be between 0 and 4, got %d", c.UI.RowLines)
	}
	return nil
}

func oneOf(v string, options ...string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
