package model

import (
	"testing"
	"time"
)

// TestNewRun tests run construction.
func TestNewRun(t *testing.T) {
	t.Parallel()

	t.Run("defaults target to Philosophy", func(t *testing.T) {
		t.Parallel()

		run := NewRun("")
		if run.Target != "Philosophy" {
			t.Errorf("expected target 'Philosophy', got %q", run.Target)
		}
	})

	t.Run("keeps explicit target", func(t *testing.T) {
		t.Parallel()

		run := NewRun("Mathematics")
		if run.Target != "Mathematics" {
			t.Errorf("expected target 'Mathematics', got %q", run.Target)
		}
	})

	t.Run("assigns unique ids", func(t *testing.T) {
		t.Parallel()

		a, b := NewRun(""), NewRun("")
		if a.ID == "" || a.ID == b.ID {
			t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
		}
	})

	t.Run("starts with empty path", func(t *testing.T) {
		t.Parallel()

		run := NewRun("")
		if run.Path == nil || len(run.Path) != 0 {
			t.Errorf("expected empty non-nil path, got %v", run.Path)
		}
		if _, ok := run.Start(); ok {
			t.Error("expected no start article")
		}
		if _, ok := run.Last(); ok {
			t.Error("expected no last article")
		}
	})
}

// TestRunVisit tests path bookkeeping.
func TestRunVisit(t *testing.T) {
	t.Parallel()

	run := NewRun("")
	run.Visit(Article{Heading: "A", URL: "https://en.wikipedia.org/wiki/A"})
	run.Visit(Article{Heading: "B", URL: "https://en.wikipedia.org/wiki/B"})

	start, ok := run.Start()
	if !ok || start.Heading != "A" {
		t.Errorf("expected start A, got %+v", start)
	}
	last, ok := run.Last()
	if !ok || last.Heading != "B" {
		t.Errorf("expected last B, got %+v", last)
	}
}

// TestRunDuration tests the Duration method.
func TestRunDuration(t *testing.T) {
	t.Parallel()

	run := NewRun("")
	if run.Duration() != 0 {
		t.Errorf("expected zero duration for unfinished run, got %v", run.Duration())
	}

	run.StartedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	run.FinishedAt = run.StartedAt.Add(3 * time.Second)
	if run.Duration() != 3*time.Second {
		t.Errorf("expected 3s, got %v", run.Duration())
	}
}

// TestHeadingKey tests heading normalization.
func TestHeadingKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"surrounding whitespace ignored", "  Philosophy \n", "Philosophy", true},
		{"composed and decomposed forms match", "Café", "Café", true},
		{"case is significant", "Ancient Greek", "Ancient greek", false},
		{"different titles differ", "Logic", "Reason", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := HeadingKey(tt.a) == HeadingKey(tt.b)
			if got != tt.same {
				t.Errorf("HeadingKey(%q) == HeadingKey(%q) is %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}

	if (Article{Heading: " Logic "}).Key() != "Logic" {
		t.Error("Article.Key should use HeadingKey")
	}
}
