package driver

import (
	"fmt"
	"strings"
)

// Backend names a Driver implementation.
type Backend string

const (
	// BackendStatic fetches pages over HTTP and parses the HTML.
	BackendStatic Backend = "static"
	// BackendChrome drives headless Chromium.
	BackendChrome Backend = "chrome"
	// BackendFirefox drives headless Firefox.
	BackendFirefox Backend = "firefox"
)

// Backends lists every supported backend.
func Backends() []Backend {
	return []Backend{BackendStatic, BackendChrome, BackendFirefox}
}

// String returns the backend name.
func (b Backend) String() string {
	return string(b)
}

// IsBrowser reports whether the backend needs a real browser.
func (b Backend) IsBrowser() bool {
	return b == BackendChrome || b == BackendFirefox
}

// ParseBackend converts a backend name into a Backend.
//
// The old command line spellings "-chrome" and "-firefox" are accepted too.
// Any other dash-prefixed value selects chrome, which was the historical
// default of that switch. Unknown plain names return ErrUnknownBackend.
func ParseBackend(name string) (Backend, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(s, "-") {
		if strings.TrimLeft(s, "-") == string(BackendFirefox) {
			return BackendFirefox, nil
		}
		return BackendChrome, nil
	}

	switch Backend(s) {
	case BackendStatic, BackendChrome, BackendFirefox:
		return Backend(s), nil
	case "chromium":
		return BackendChrome, nil
	case "":
		return BackendStatic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
