package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikiwalk/internal/driver"
)

// TestNewConfig verifies the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default backend is static", func(t *testing.T) {
		t.Parallel()
		if cfg.Backend != driver.BackendStatic {
			t.Errorf("expected backend 'static', got '%s'", cfg.Backend)
		}
	})

	t.Run("default target is Philosophy", func(t *testing.T) {
		t.Parallel()
		if cfg.Target != "Philosophy" {
			t.Errorf("expected target 'Philosophy', got '%s'", cfg.Target)
		}
	})

	t.Run("default MaxSteps is 100", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxSteps != 100 {
			t.Errorf("expected MaxSteps to be 100, got %d", cfg.MaxSteps)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default browser is headless", func(t *testing.T) {
		t.Parallel()
		if !cfg.Headless {
			t.Error("expected Headless to be true")
		}
	})

	t.Run("runs are saved by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB || cfg.DBDir != XDGDataDir() {
			t.Errorf("expected saving to %s, got save=%v dir=%s", XDGDataDir(), cfg.SaveToDB, cfg.DBDir)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{"valid config", func(_ *Config) {}, nil},
		{"firefox backend", func(c *Config) { c.Backend = driver.BackendFirefox }, nil},
		{"unknown backend", func(c *Config) { c.Backend = "opera" }, ErrInvalidBackend},
		{"empty backend", func(c *Config) { c.Backend = "" }, ErrInvalidBackend},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative max steps", func(c *Config) { c.MaxSteps = -1 }, ErrInvalidMaxSteps},
		{"unlimited steps", func(c *Config) { c.MaxSteps = 0 }, nil},
		{"negative delay", func(c *Config) { c.RequestDelay = -time.Second }, ErrInvalidRequestDelay},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"both report formats", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"origin without scheme", func(c *Config) { c.Origin = "en.wikipedia.org" }, ErrInvalidOrigin},
		{"origin with path", func(c *Config) { c.Origin = "https://en.wikipedia.org/wiki" }, ErrInvalidOrigin},
		{"origin with trailing slash", func(c *Config) { c.Origin = "https://en.wikipedia.org/" }, nil},
		{"local origin", func(c *Config) { c.Origin = "http://127.0.0.1:8080" }, nil},
		{"blank target", func(c *Config) { c.Target = "  " }, ErrEmptyTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestArticleURL tests building article URLs from titles.
func TestArticleURL(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	tests := []struct {
		in   string
		want string
	}{
		{"Philosophy", "https://en.wikipedia.org/wiki/Philosophy"},
		{"Albert Einstein", "https://en.wikipedia.org/wiki/Albert_Einstein"},
		{"https://en.wikipedia.org/wiki/Logic", "https://en.wikipedia.org/wiki/Logic"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := cfg.ArticleURL(tt.in); got != tt.want {
				t.Errorf("ArticleURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for missing file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.wikiwalk")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config")
		}
	})

	t.Run("loads valid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wikiwalk")
		content := `backend: firefox
headless: false
start: Albert Einstein
maxSteps: 25
legacyParenthesisGuard: true
timeout: 10s
requestDelay: 250ms
proxy: 127.0.0.1:9050
save: false
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		if err := file.Apply(cfg); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		if cfg.Backend != driver.BackendFirefox {
			t.Errorf("expected firefox, got %s", cfg.Backend)
		}
		if cfg.Headless {
			t.Error("expected headless false")
		}
		if cfg.StartURL != "Albert Einstein" {
			t.Errorf("expected start 'Albert Einstein', got %q", cfg.StartURL)
		}
		if cfg.MaxSteps != 25 {
			t.Errorf("expected MaxSteps 25, got %d", cfg.MaxSteps)
		}
		if !cfg.LegacyParenthesisGuard {
			t.Error("expected legacy guard enabled")
		}
		if cfg.Timeout != 10*time.Second || cfg.RequestDelay != 250*time.Millisecond {
			t.Errorf("unexpected durations: %v %v", cfg.Timeout, cfg.RequestDelay)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("expected proxy, got %q", cfg.ProxyAddress)
		}
		if cfg.SaveToDB {
			t.Error("expected save disabled")
		}
		if cfg.Target != "Philosophy" {
			t.Errorf("expected unset target to keep default, got %q", cfg.Target)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".wikiwalk")
		if err := os.WriteFile(configPath, []byte("backend: [unclosed"), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFileApplyErrors tests invalid values in a config file.
func TestFileApplyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file File
		want string
	}{
		{"bad backend", File{Backend: "opera"}, "invalid backend"},
		{"bad timeout", File{Timeout: "soon"}, "invalid timeout"},
		{"bad delay", File{RequestDelay: "1 minute"}, "invalid requestDelay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.file.Apply(NewConfig())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	t.Run("legacy backend spelling", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{Backend: "-firefox"}).Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Backend != driver.BackendFirefox {
			t.Errorf("expected firefox, got %s", cfg.Backend)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("target: Logic\n"), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %s, got %s", configPath, result)
		}
	})

	t.Run("returns empty for nonexistent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})
}

// TestXDGDirs tests that XDG directories end with the application name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for _, dir := range []string{XDGDataDir(), XDGConfigDir()} {
		if filepath.Base(dir) != AppName {
			t.Errorf("expected %s to end with %s", dir, AppName)
		}
	}
}
