package config

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/wikiwalk/internal/driver"
	"github.com/nao1215/wikiwalk/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wikiwalk"

	// DefaultBackend fetches pages over plain HTTP.
	DefaultBackend = driver.BackendStatic

	// DefaultOrigin is the English Wikipedia.
	DefaultOrigin = "https://en.wikipedia.org"

	// DefaultMaxSteps bounds a run. Almost every article reaches
	// Philosophy or a loop well within this many hops.
	DefaultMaxSteps = 100

	// DefaultTimeout bounds each page load.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestDelay is the minimum interval between two requests.
	DefaultRequestDelay = 500 * time.Millisecond

	// DefaultUserAgent identifies wikiwalk in HTTP requests, as asked for
	// by the Wikimedia User-Agent policy.
	DefaultUserAgent = "wikiwalk/1.0 (+https://github.com/nao1215/wikiwalk)"

	// DefaultMaxBodySize limits the response body read per article.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for wikiwalk.
// It is populated from defaults, the .wikiwalk file and CLI flags, in
// that order, and passed down explicitly.
type Config struct {
	// Backend selects the page driver.
	Backend driver.Backend

	// Headless hides the browser window for browser backends.
	Headless bool

	// InstallBrowser downloads playwright browsers before a browser run.
	InstallBrowser bool

	// Origin is the Wikipedia edition to play on.
	Origin string

	// StartURL starts the run on a given article instead of a random one.
	StartURL string

	// Target is the heading that ends a run successfully.
	Target string

	// MaxSteps is the maximum number of links to follow. 0 disables the limit.
	MaxSteps int

	// LegacyParenthesisGuard evaluates the parenthesis rule even when the
	// link text occurs more than once in its paragraph.
	LegacyParenthesisGuard bool

	// Timeout bounds each page load.
	Timeout time.Duration

	// RequestDelay is the minimum interval between requests of the static
	// driver.
	RequestDelay time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// 0 uses the default.
	MaxBodySize int64

	// Verbose enables debug logging of every link decision.
	Verbose bool

	// ConfigFilePath is the explicit configuration file path.
	// If empty, .wikiwalk is searched for in the current directory, the
	// home directory and the XDG config directory.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the run history database.
	DBDir string

	// SaveToDB stores finished runs in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Backend:        DefaultBackend,
		Headless:       true,
		InstallBrowser: true,
		Origin:         DefaultOrigin,
		Target:         model.DefaultTarget,
		MaxSteps:       DefaultMaxSteps,
		Timeout:        DefaultTimeout,
		RequestDelay:   DefaultRequestDelay,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		DBDir:          XDGDataDir(),
		SaveToDB:       true,
	}
}

// XDGDataDir returns the XDG data directory for wikiwalk.
// On Linux: ~/.local/share/wikiwalk
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikiwalk.
// On Linux: ~/.config/wikiwalk
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if !slices.Contains(driver.Backends(), c.Backend) {
		return ErrInvalidBackend
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxSteps < 0 {
		return ErrInvalidMaxSteps
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if !validOrigin(c.Origin) {
		return ErrInvalidOrigin
	}
	if strings.TrimSpace(c.Target) == "" {
		return ErrEmptyTarget
	}
	return nil
}

// ArticleURL returns the URL of the article with the given title on the
// configured origin. Absolute URLs are returned unchanged.
func (c *Config) ArticleURL(title string) string {
	if strings.HasPrefix(title, "http://") || strings.HasPrefix(title, "https://") {
		return title
	}
	title = strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	return strings.TrimRight(c.Origin, "/") + "/wiki/" + url.PathEscape(title)
}

func validOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && strings.Trim(u.Path, "/") == "" && u.RawQuery == ""
}
