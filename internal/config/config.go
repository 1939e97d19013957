// ABOUTME: Configuration loading and parsing for habitd
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Defaults applied by Load when a field is left empty.
const (
	DefaultHTTPAddr          = "localhost:8080"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultTimezone          = "UTC"
	DefaultMaxToggleAttempts = 3
	DefaultMetricsPath       = "/metrics"
	DefaultDatabaseFile      = "habitd.db"
)

// ReservedPaths are routed by habitd itself (the API in internal/api and the
// health checks in internal/server) and cannot host the metrics endpoint.
// Everything under /habits/ is reserved as well.
var ReservedPaths = []string{
	"/",
	"/habits",
	"/day",
	"/filter",
	"/summary",
	"/health",
	"/health/ready",
}

// metricsPathPattern keeps metrics.path a literal ServeMux path: no
// wildcards, escapes or whitespace.
var metricsPathPattern = regexp.MustCompile(`^/[A-Za-z0-9._~/-]*$`)

// DataDir returns the habitd data directory.
// Priority: XDG_DATA_HOME/habitd > ~/.local/share/habitd
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "habitd")
}

// Config represents the complete habitd configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Calendar  CalendarConfig  `yaml:"calendar" toml:"calendar"`
	Toggle    ToggleConfig    `yaml:"toggle" toml:"toggle"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`

	ReadHeaderTimeout time.Duration `yaml:"-" toml:"-"`
	ShutdownTimeout   time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	ReadHeaderTimeoutRaw string `yaml:"read_header_timeout" toml:"read_header_timeout"`
	ShutdownTimeoutRaw   string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Hostname  string `yaml:"hostname" toml:"hostname"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral"`
	HTTPS     bool   `yaml:"https" toml:"https"`   // Serve HTTPS on :443 with a tailnet certificate
	Funnel    bool   `yaml:"funnel" toml:"funnel"` // Enable public Funnel (implies HTTPS)
}

// DatabaseConfig selects and configures the store
type DatabaseConfig struct {
	Driver   string `yaml:"driver" toml:"driver"`
	Path     string `yaml:"path" toml:"path"` // SQLite file
	DSN      string `yaml:"dsn" toml:"dsn"`   // PostgreSQL connection string
	MaxConns int32  `yaml:"max_conns" toml:"max_conns"`
}

// CalendarConfig controls how "today" is derived from the wall clock
type CalendarConfig struct {
	Timezone string `yaml:"timezone" toml:"timezone"`

	location *time.Location
}

// Location returns the loaded timezone. It is UTC until Load has run.
func (c CalendarConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// ToggleConfig bounds conflict retries of completion toggles
type ToggleConfig struct {
	MaxAttempts int `yaml:"max_attempts" toml:"max_attempts"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".toml"))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw configuration text. isTOML selects the TOML decoder.
func Parse(data []byte, isTOML bool) (*Config, error) {
	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	var cfg Config
	if isTOML {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading calendar.timezone %q: %w", cfg.Calendar.Timezone, err)
	}
	cfg.Calendar.location = loc

	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" && !c.Tailscale.Enabled {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Driver == DriverSQLite {
		if envPath := os.Getenv("HABITD_DB_PATH"); envPath != "" {
			c.Database.Path = envPath
		} else if c.Database.Path == "" {
			c.Database.Path = filepath.Join(DataDir(), DefaultDatabaseFile)
		}
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = DefaultTimezone
	}
	if c.Toggle.MaxAttempts == 0 {
		c.Toggle.MaxAttempts = DefaultMaxToggleAttempts
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tailscale.Funnel {
		c.Tailscale.HTTPS = true
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	// The HTTP address is required unless Tailscale is enabled
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	// Tailscale requires a hostname
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}

	if c.Database.MaxConns < 0 {
		return fmt.Errorf("database.max_conns must not be negative")
	}

	if c.Toggle.MaxAttempts < 1 {
		return fmt.Errorf("toggle.max_attempts must be at least 1")
	}

	if c.Metrics.Enabled {
		if err := validateMetricsPath(c.Metrics.Path); err != nil {
			return err
		}
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

func validateMetricsPath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}
	if !metricsPathPattern.MatchString(path) {
		return fmt.Errorf("metrics.path %q may only contain letters, digits, '/', '.', '_', '-' and '~'", path)
	}
	if slices.Contains(ReservedPaths, path) || strings.HasPrefix(path, "/habits/") {
		return fmt.Errorf("metrics.path %q collides with a built-in route", path)
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.ReadHeaderTimeoutRaw != "" {
		cfg.Server.ReadHeaderTimeout, err = time.ParseDuration(cfg.Server.ReadHeaderTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing read_header_timeout %q: %w", cfg.Server.ReadHeaderTimeoutRaw, err)
		}
	}

	if cfg.Server.ShutdownTimeoutRaw != "" {
		cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout %q: %w", cfg.Server.ShutdownTimeoutRaw, err)
		}
	}

	return nil
}
