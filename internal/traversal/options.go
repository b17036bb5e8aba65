package traversal

import (
	"log/slog"

	"github.com/nao1215/wikiwalk/internal/link"
	"github.com/nao1215/wikiwalk/internal/model"
)

// Observer is called for every article a run lands on, starting with the
// start article at step 0.
type Observer func(step int, article model.Article)

// Option configures a Walker.
type Option func(*Walker)

// WithTarget sets the heading that ends a run successfully.
// An empty target keeps the default "Philosophy".
func WithTarget(target string) Option {
	return func(w *Walker) {
		if target != "" {
			w.target = target
		}
	}
}

// WithMaxSteps limits the number of links a run may follow.
// Zero means no limit.
func WithMaxSteps(n int) Option {
	return func(w *Walker) {
		if n >= 0 {
			w.maxSteps = n
		}
	}
}

// WithStartURL starts runs on the given article instead of a random one.
func WithStartURL(rawURL string) Option {
	return func(w *Walker) {
		w.startURL = rawURL
	}
}

// WithClassifier replaces the default link classifier.
func WithClassifier(c *link.Classifier) Option {
	return func(w *Walker) {
		if c != nil {
			w.classifier = c
		}
	}
}

// WithLogger sets the logger used for step and link decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithObserver registers a callback for visited articles.
func WithObserver(fn Observer) Option {
	return func(w *Walker) {
		w.observer = fn
	}
}

// WithBackendName records the driver backend name in produced runs.
func WithBackendName(name string) Option {
	return func(w *Walker) {
		w.backend = name
	}
}
