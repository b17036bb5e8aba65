package static

import (
	"errors"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("direct connection", func(t *testing.T) {
		t.Parallel()

		client, err := NewHTTPClient("", 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.Timeout != 5*time.Second {
			t.Errorf("expected timeout 5s, got %v", client.Timeout)
		}
	})

	t.Run("socks5 proxy", func(t *testing.T) {
		t.Parallel()

		client, err := NewHTTPClient("127.0.0.1:9050", time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.Transport == nil {
			t.Error("expected custom transport")
		}
	})

	t.Run("invalid proxy", func(t *testing.T) {
		t.Parallel()

		_, err := NewHTTPClient("localhost", time.Second)
		if !errors.Is(err, ErrInvalidProxyAddress) {
			t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
		}
	})
}

func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		valid   bool
	}{
		{"127.0.0.1:9050", true},
		{"localhost:1080", true},
		{"[::1]:9050", true},
		{"127.0.0.1", false},
		{":9050", false},
		{"127.0.0.1:0", false},
		{"127.0.0.1:65536", false},
		{"127.0.0.1:abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()

			if got := isValidProxyAddress(tt.address); got != tt.valid {
				t.Errorf("isValidProxyAddress(%q) = %v, want %v", tt.address, got, tt.valid)
			}
		})
	}
}
