package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/toast/internal/errors"
	"github.com/vango-dev/toast/pkg/toast"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Queue.MaxVisible != 5 {
		t.Errorf("Queue.MaxVisible = %d, want 5", cfg.Queue.MaxVisible)
	}
	if cfg.Queue.DefaultDuration != "5s" {
		t.Errorf("Queue.DefaultDuration = %q, want 5s", cfg.Queue.DefaultDuration)
	}
	if cfg.Queue.TickInterval != "100ms" {
		t.Errorf("Queue.TickInterval = %q, want 100ms", cfg.Queue.TickInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if errors.Code(err) != "T101" {
		t.Errorf("code = %q, want T101", errors.Code(err))
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "server": {
    "port": 8080,
    "host": "0.0.0.0",
    "metrics": false
  },
  "queue": {
    "maxVisible": 3,
    "position": "bottom-left",
    "defaultDuration": "0s"
  }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Metrics {
		t.Error("Server.Metrics should be false")
	}
	if cfg.Queue.MaxVisible != 3 {
		t.Errorf("Queue.MaxVisible = %d, want 3", cfg.Queue.MaxVisible)
	}
	if cfg.Queue.TickInterval != "100ms" {
		t.Errorf("Queue.TickInterval default not applied: %q", cfg.Queue.TickInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}

	qc := cfg.ToastConfig()
	if qc.DefaultDuration != 0 {
		t.Errorf("DefaultDuration = %v, want 0", qc.DefaultDuration)
	}
	if qc.Position != toast.PositionBottomLeft {
		t.Errorf("Position = %q", qc.Position)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmpDir)
	if errors.Code(err) != "T102" {
		t.Errorf("code = %q, want T102 (err: %v)", errors.Code(err), err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Queue.MaxVisible = 7
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("saved file should end with a newline")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Queue.MaxVisible != 7 {
		t.Errorf("Queue.MaxVisible = %d, want 7", loaded.Queue.MaxVisible)
	}

	loaded.Server.Port = 9000
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	again, _ := LoadFile(path)
	if again.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", again.Server.Port)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save without a path should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TOASTD_PORT", "4000")
	t.Setenv("TOASTD_MAX_VISIBLE", "2")
	t.Setenv("TOASTD_POSITION", "top-left")
	t.Setenv("TOASTD_LOG_FORMAT", "json")
	t.Setenv("TOASTD_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := New()
	cfg.Server.Host = "0.0.0.0"
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv error: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("unset variable overwrote Server.Host: %q", cfg.Server.Host)
	}
	if cfg.Queue.MaxVisible != 2 {
		t.Errorf("Queue.MaxVisible = %d, want 2", cfg.Queue.MaxVisible)
	}
	if cfg.Queue.Position != "top-left" {
		t.Errorf("Queue.Position = %q", cfg.Queue.Position)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("TOASTD_PORT", "not-a-number")

	err := New().ApplyEnv()
	if errors.Code(err) != "T104" {
		t.Errorf("code = %q, want T104 (err: %v)", errors.Code(err), err)
	}
}

func TestLoadDotenv(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(path, []byte("TOASTD_TEST_DOTENV=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("TOASTD_TEST_DOTENV") })

	if err := LoadDotenv(filepath.Join(tmpDir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotenv error: %v", err)
	}
	if got := os.Getenv("TOASTD_TEST_DOTENV"); got != "from-file" {
		t.Errorf("TOASTD_TEST_DOTENV = %q, want from-file", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		detail string
	}{
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = "soon" }, "server.shutdownTimeout"},
		{"zero max visible", func(c *Config) { c.Queue.MaxVisible = 0 }, "queue.maxVisible"},
		{"bad position", func(c *Config) { c.Queue.Position = "center" }, "queue.position"},
		{"bad duration", func(c *Config) { c.Queue.DefaultDuration = "five" }, "queue.defaultDuration"},
		{"negative duration", func(c *Config) { c.Queue.DefaultDuration = "-1s" }, "queue.defaultDuration"},
		{"zero tick", func(c *Config) { c.Queue.TickInterval = "0s" }, "queue.tickInterval"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if errors.Code(err) != "T103" {
				t.Errorf("code = %q, want T103", errors.Code(err))
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", err, tt.detail)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	cfg := New()
	if cfg.Address() != "localhost:3100" {
		t.Errorf("Address = %q", cfg.Address())
	}
	if cfg.ShutdownTimeout() != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout())
	}
	cfg.Server.ShutdownTimeout = "garbage"
	if cfg.ShutdownTimeout() != 10*time.Second {
		t.Errorf("invalid ShutdownTimeout should fall back, got %v", cfg.ShutdownTimeout())
	}

	cfg.Log.Level = "debug"
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
	cfg.Log.Level = "nope"
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("invalid LogLevel should fall back to info, got %v", cfg.LogLevel())
	}
}

func TestManagerOptions(t *testing.T) {
	cfg := New()
	cfg.Queue.MaxVisible = 2
	cfg.Queue.TickInterval = "50ms"

	m := toast.New(cfg.ManagerOptions()...)
	defer m.Close()

	got := m.Config()
	if got.MaxVisible != 2 {
		t.Errorf("MaxVisible = %d, want 2", got.MaxVisible)
	}
	if got.TickInterval != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", got.TickInterval)
	}
}
