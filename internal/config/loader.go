package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/wikiwalk/internal/driver"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".wikiwalk"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .wikiwalk configuration file.
// Unset keys leave the corresponding Config field untouched.
type File struct {
	Backend      string `yaml:"backend,omitempty"`
	Headless     *bool  `yaml:"headless,omitempty"`
	Origin       string `yaml:"origin,omitempty"`
	Start        string `yaml:"start,omitempty"`
	Target       string `yaml:"target,omitempty"`
	MaxSteps     *int   `yaml:"maxSteps,omitempty"`
	LegacyGuard  *bool  `yaml:"legacyParenthesisGuard,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"`
	RequestDelay string `yaml:"requestDelay,omitempty"`
	Proxy        string `yaml:"proxy,omitempty"`
	UserAgent    string `yaml:"userAgent,omitempty"`
	MaxBodySize  *int64 `yaml:"maxBodySize,omitempty"`
	DBDir        string `yaml:"dbDir,omitempty"`
	Save         *bool  `yaml:"save,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if specified
//  2. .wikiwalk in the current directory
//  3. .wikiwalk in the user's home directory
//  4. config.yaml in the XDG config directory
//
// It returns an empty string if nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Apply copies every key set in the file onto cfg.
// Durations use Go syntax ("30s", "500ms").
func (cf *File) Apply(cfg *Config) error {
	if cf.Backend != "" {
		b, err := driver.ParseBackend(cf.Backend)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBackend, err)
		}
		cfg.Backend = b
	}
	if cf.Headless != nil {
		cfg.Headless = *cf.Headless
	}
	if cf.Origin != "" {
		cfg.Origin = cf.Origin
	}
	if cf.Start != "" {
		cfg.StartURL = cf.Start
	}
	if cf.Target != "" {
		cfg.Target = cf.Target
	}
	if cf.MaxSteps != nil {
		cfg.MaxSteps = *cf.MaxSteps
	}
	if cf.LegacyGuard != nil {
		cfg.LegacyParenthesisGuard = *cf.LegacyGuard
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", cf.Timeout, err)
		}
		cfg.Timeout = d
	}
	if cf.RequestDelay != "" {
		d, err := time.ParseDuration(cf.RequestDelay)
		if err != nil {
			return fmt.Errorf("invalid requestDelay %q: %w", cf.RequestDelay, err)
		}
		cfg.RequestDelay = d
	}
	if cf.Proxy != "" {
		cfg.ProxyAddress = cf.Proxy
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.MaxBodySize != nil {
		cfg.MaxBodySize = *cf.MaxBodySize
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
	}
	if cf.Save != nil {
		cfg.SaveToDB = *cf.Save
	}
	return nil
}
