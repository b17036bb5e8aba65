package browser

import (
	"strings"
	"time"

	"github.com/nao1215/wikiwalk/internal/driver"
)

const (
	// DefaultOrigin is the Wikipedia edition the driver talks to.
	DefaultOrigin = "https://en.wikipedia.org"

	// DefaultTimeout bounds every playwright operation.
	DefaultTimeout = 30 * time.Second

	randomPath = "/wiki/Special:Random"

	// randomAccessKey is MediaWiki's access key for "Random article".
	randomAccessKey = "Alt+Shift+X"

	headingSelector   = "#firstHeading"
	paragraphSelector = "#mw-content-text div.mw-parser-output > p:not(.mw-empty-elt)"
)

// Options configures a browser Driver.
type Options struct {
	// Backend selects the browser engine: driver.BackendChrome or
	// driver.BackendFirefox.
	Backend driver.Backend

	// Headless hides the browser window.
	Headless bool

	// Timeout bounds navigation and element queries.
	Timeout time.Duration

	// UserAgent overrides the browser's User-Agent when non-empty.
	UserAgent string

	// Origin is used for random articles.
	Origin string

	// Install downloads the playwright driver and the selected browser
	// before starting.
	Install bool
}

// DefaultOptions returns headless Chromium options.
func DefaultOptions() Options {
	return Options{
		Backend:  driver.BackendChrome,
		Headless: true,
		Timeout:  DefaultTimeout,
		Origin:   DefaultOrigin,
		Install:  true,
	}
}

// normalize fills zero values with defaults.
func (o Options) normalize() Options {
	if o.Backend == "" {
		o.Backend = driver.BackendChrome
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Origin == "" {
		o.Origin = DefaultOrigin
	}
	o.Origin = strings.TrimRight(o.Origin, "/")
	return o
}

// browserName returns the playwright name of the browser to install.
func (o Options) browserName() (string, error) {
	switch o.Backend {
	case driver.BackendChrome:
		return "chromium", nil
	case driver.BackendFirefox:
		return "firefox", nil
	default:
		return "", driver.ErrUnknownBackend
	}
}

// timeoutMillis converts Timeout into playwright's millisecond floats.
func (o Options) timeoutMillis() float64 {
	return float64(o.Timeout.Milliseconds())
}
