package traversal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/nao1215/wikiwalk/internal/driver"
	"github.com/nao1215/wikiwalk/internal/link"
	"github.com/nao1215/wikiwalk/internal/model"
)

// Walker plays one game at a time on a page driver.
// A Walker is not safe for concurrent use.
type Walker struct {
	drv        driver.Driver
	classifier *link.Classifier
	target     string
	maxSteps   int
	startURL   string
	backend    string
	logger     *slog.Logger
	observer   Observer
	fold       cases.Caser
}

// New creates a Walker on drv. It panics if drv is nil.
func New(drv driver.Driver, opts ...Option) *Walker {
	if drv == nil {
		panic("traversal: New called with nil driver")
	}
	w := &Walker{
		drv:        drv,
		classifier: link.NewClassifier(),
		target:     model.DefaultTarget,
		logger:     slog.New(slog.DiscardHandler),
		fold:       cases.Fold(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Target returns the heading the Walker is looking for.
func (w *Walker) Target() string {
	return w.target
}

// FindPhilosophy plays a full game and returns the run record.
//
// Reaching the target, a cycle, a dead end and the step limit are all
// reported through Run.Outcome with a nil error. A non-nil error means a
// driver failure or context cancellation; the returned run then holds the
// path up to the failure. The driver is closed before FindPhilosophy
// returns in every case.
func (w *Walker) FindPhilosophy(ctx context.Context) (*model.Run, error) {
	run := model.NewRun(w.target)
	run.Backend = w.backend
	run.StartedAt = time.Now()
	visited := newVisitedSet()

	if err := w.start(ctx); err != nil {
		return w.finish(run, model.OutcomeUnknown, fmt.Errorf("failed to open start article: %w", err))
	}
	heading, err := w.drv.CurrentHeading(ctx)
	if err != nil {
		return w.finish(run, model.OutcomeUnknown, fmt.Errorf("failed to read heading: %w", err))
	}
	visited.add(heading)
	w.visit(run, heading)

	for !w.isTarget(heading) {
		if w.maxSteps > 0 && run.Steps >= w.maxSteps {
			return w.finish(run, model.OutcomeStepLimit, nil)
		}
		if err := ctx.Err(); err != nil {
			return w.finish(run, model.OutcomeUnknown, err)
		}

		_, found, err := w.NavigateToFirstLink(ctx)
		if err != nil {
			return w.finish(run, model.OutcomeUnknown, err)
		}
		if !found {
			return w.finish(run, model.OutcomeDeadEnd, nil)
		}

		heading, err = w.drv.CurrentHeading(ctx)
		if err != nil {
			return w.finish(run, model.OutcomeUnknown, fmt.Errorf("failed to read heading: %w", err))
		}
		if visited.contains(heading) {
			run.Visit(model.Article{Heading: heading, URL: w.drv.CurrentURL()})
			w.logger.Debug("cycle detected", "heading", heading, "steps", run.Steps)
			return w.finish(run, model.OutcomeCycle, nil)
		}

		visited.add(heading)
		run.Steps++
		w.visit(run, heading)
	}

	return w.finish(run, model.OutcomeSuccess, nil)
}

// NavigateToFirstLink follows the first qualifying link of the current
// article. Paragraphs and their links are examined in document order.
// found is false when the article has no qualifying link; the driver then
// stays on the current page.
func (w *Walker) NavigateToFirstLink(ctx context.Context) (href string, found bool, err error) {
	current := w.drv.CurrentURL()

	paragraphs, err := w.drv.Paragraphs(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to read paragraphs: %w", err)
	}

	for _, p := range paragraphs {
		links, err := w.drv.Links(ctx, p)
		if err != nil {
			return "", false, fmt.Errorf("failed to read links: %w", err)
		}

		for _, l := range links {
			href, ok, err := w.drv.Attribute(ctx, l, "href")
			if err != nil {
				return "", false, fmt.Errorf("failed to read href: %w", err)
			}
			if !ok {
				continue
			}

			if reason := w.classifier.Classify(p.Text, href, l.Text, current); reason != link.ExclusionNone {
				w.logger.Debug("link rejected",
					"text", l.Text,
					"href", href,
					"reason", reason.String(),
				)
				continue
			}

			w.logger.Debug("following link", "text", l.Text, "href", href, "paragraph", p.Text)
			if err := w.drv.Navigate(ctx, href); err != nil {
				return "", false, fmt.Errorf("failed to follow %s: %w", href, err)
			}
			return href, true, nil
		}
	}

	return "", false, nil
}

func (w *Walker) start(ctx context.Context) error {
	if w.startURL != "" {
		return w.drv.Navigate(ctx, w.startURL)
	}
	return w.drv.NavigateRandom(ctx)
}

func (w *Walker) visit(run *model.Run, heading string) {
	article := model.Article{Heading: heading, URL: w.drv.CurrentURL()}
	run.Visit(article)
	w.logger.Info("visited article", "step", run.Steps, "heading", heading, "url", article.URL)
	if w.observer != nil {
		w.observer(run.Steps, article)
	}
}

func (w *Walker) isTarget(heading string) bool {
	return w.fold.String(strings.TrimSpace(heading)) == w.fold.String(strings.TrimSpace(w.target))
}

// finish records the terminal state and closes the driver.
func (w *Walker) finish(run *model.Run, outcome model.Outcome, err error) (*model.Run, error) {
	run.Outcome = outcome
	run.FinishedAt = time.Now()

	if closeErr := w.drv.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close driver: %w", closeErr))
	}
	if err != nil {
		run.Error = err.Error()
		return run, err
	}

	w.logger.Info("run finished", "outcome", outcome.String(), "steps", run.Steps)
	return run, nil
}
