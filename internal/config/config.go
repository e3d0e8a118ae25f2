package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vango-dev/toast/internal/errors"
	"github.com/vango-dev/toast/pkg/toast"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "toast.json"

	// DefaultPort is the default server port.
	DefaultPort = 3100

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Config represents the complete toast.json configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server"`

	// Queue contains toast queue configuration.
	Queue QueueConfig `json:"queue"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" env:"TOASTD_HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" env:"TOASTD_PORT"`

	// Metrics exposes /metrics when true.
	Metrics bool `json:"metrics" env:"TOASTD_METRICS"`

	// AllowedOrigins restricts WebSocket origins. Empty allows same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" env:"TOASTD_ALLOWED_ORIGINS" envSeparator:","`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" env:"TOASTD_SHUTDOWN_TIMEOUT"`
}

// QueueConfig contains toast queue settings.
type QueueConfig struct {
	// MaxVisible caps the number of toasts shown at once.
	MaxVisible int `json:"maxVisible,omitempty" env:"TOASTD_MAX_VISIBLE"`

	// Position is the screen corner: top-right, top-left, bottom-right, bottom-left.
	Position string `json:"position,omitempty" env:"TOASTD_POSITION"`

	// DefaultDuration is the lifetime of toasts enqueued without one (e.g., "5s").
	// "0s" makes toasts persistent by default.
	DefaultDuration string `json:"defaultDuration,omitempty" env:"TOASTD_DEFAULT_DURATION"`

	// TickInterval is the countdown granularity (e.g., "100ms").
	TickInterval string `json:"tickInterval,omitempty" env:"TOASTD_TICK_INTERVAL"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"TOASTD_LOG_LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"TOASTD_LOG_FORMAT"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Metrics:         true,
			ShutdownTimeout: "10s",
		},
		Queue: QueueConfig{
			MaxVisible:      toast.DefaultMaxVisible,
			Position:        string(toast.PositionTopRight),
			DefaultDuration: toast.DefaultDuration.String(),
			TickInterval:    toast.DefaultTickInterval.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for toast.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is like Load but falls back to New when toast.json does
// not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Code(err) == "T101" {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("T101").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("T102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("T102").
			WithDetail("Failed to parse " + path + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadDotenv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
// With no arguments it loads ./.env.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.New("T104").WithDetail(f).Wrap(err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from TOASTD_* environment variables.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.New("T104").Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("T102").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("T102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	def := New()

	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}

	if c.Queue.MaxVisible == 0 {
		c.Queue.MaxVisible = def.Queue.MaxVisible
	}
	if c.Queue.Position == "" {
		c.Queue.Position = def.Queue.Position
	}
	if c.Queue.DefaultDuration == "" {
		c.Queue.DefaultDuration = def.Queue.DefaultDuration
	}
	if c.Queue.TickInterval == "" {
		c.Queue.TickInterval = def.Queue.TickInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("T103").
			WithDetail("server.port must be between 0 and 65535")
	}
	if _, err := parseDuration("server.shutdownTimeout", c.Server.ShutdownTimeout); err != nil {
		return err
	}

	if c.Queue.MaxVisible < 1 {
		return errors.New("T103").
			WithDetail("queue.maxVisible must be at least 1")
	}
	if _, err := toast.ParsePosition(c.Queue.Position); err != nil {
		return errors.New("T103").
			WithDetail("queue.position must be one of top-right, top-left, bottom-right, bottom-left").
			Wrap(err)
	}
	d, err := parseDuration("queue.defaultDuration", c.Queue.DefaultDuration)
	if err != nil {
		return err
	}
	if d < 0 {
		return errors.New("T103").WithDetail("queue.defaultDuration must not be negative")
	}
	tick, err := parseDuration("queue.tickInterval", c.Queue.TickInterval)
	if err != nil {
		return err
	}
	if tick <= 0 {
		return errors.New("T103").WithDetail("queue.tickInterval must be positive")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("T103").WithDetail("log.format must be text or json")
	}
	return nil
}

func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.New("T103").
			WithDetail(field + " is not a duration: " + strconv.Quote(s)).
			Wrap(err)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, errors.New("T103").
			WithDetail("log.level must be debug, info, warn or error").
			Wrap(err)
	}
	return level, nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns the parsed shutdown timeout, or 10s when invalid.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// LogLevel returns the parsed log level, or info when invalid.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ToastConfig converts the queue section to a toast.Config.
// Call Validate first; invalid fields fall back to toast defaults.
func (c *Config) ToastConfig() toast.Config {
	cfg := toast.DefaultConfig()
	cfg.MaxVisible = c.Queue.MaxVisible
	cfg.Position = toast.Position(c.Queue.Position)
	if d, err := time.ParseDuration(c.Queue.DefaultDuration); err == nil {
		cfg.DefaultDuration = d
	}
	if d, err := time.ParseDuration(c.Queue.TickInterval); err == nil {
		cfg.TickInterval = d
	}
	return cfg
}

// ManagerOptions returns the toast.Manager options for the queue section.
func (c *Config) ManagerOptions() []toast.ManagerOption {
	return []toast.ManagerOption{toast.WithConfig(c.ToastConfig())}
}
