package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTarget is the heading that ends a successful run.
const DefaultTarget = "Philosophy"

// Run is the record of one "Getting to Philosophy" attempt.
// The traversal fills it in as it goes; the history database and the
// report writers consume it after the run has ended.
type Run struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// StartedAt is when the first navigation was issued.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run reached a terminal state or failed.
	FinishedAt time.Time `json:"finished_at"`

	// Backend is the page driver backend that produced the run.
	Backend string `json:"backend,omitempty"`

	// Target is the heading the run was trying to reach.
	Target string `json:"target"`

	// Outcome is how the run ended.
	Outcome Outcome `json:"outcome"`

	// Steps is the number of links followed to novel articles.
	// A link that led back to a visited article is not counted.
	Steps int `json:"steps"`

	// Path contains every article visited in order, starting with the
	// start article. For a cycle the repeated article is the last entry.
	Path []Article `json:"path"`

	// Error holds the message of the error that aborted the run, if any.
	Error string `json:"error,omitempty"`
}

// NewRun creates an empty run aimed at target.
func NewRun(target string) *Run {
	if target == "" {
		target = DefaultTarget
	}
	return &Run{
		ID:     uuid.NewString(),
		Target: target,
		Path:   make([]Article, 0),
	}
}

// Visit appends an article to the path.
func (r *Run) Visit(a Article) {
	r.Path = append(r.Path, a)
}

// Start returns the first article of the run.
// The boolean is false when nothing has been visited yet.
func (r *Run) Start() (Article, bool) {
	if len(r.Path) == 0 {
		return Article{}, false
	}
	return r.Path[0], true
}

// Last returns the most recently visited article.
func (r *Run) Last() (Article, bool) {
	if len(r.Path) == 0 {
		return Article{}, false
	}
	return r.Path[len(r.Path)-1], true
}

// Succeeded reports whether the target was reached.
func (r *Run) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Duration returns the wall-clock time the run took.
func (r *Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
