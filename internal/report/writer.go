package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/wikiwalk/internal/database"
	"github.com/nao1215/wikiwalk/internal/model"
)

// ErrNilRun is returned when a writer is asked to render a nil run.
var ErrNilRun = errors.New("report: run is nil")

// ErrNilStats is returned when a writer is asked to render nil statistics.
var ErrNilStats = errors.New("report: stats is nil")

// Writer renders runs in a specific format.
type Writer interface {
	// Write outputs a single run.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)

	// WriteHistory outputs a list of runs, newest first.
	WriteHistory(runs []*model.Run) (int, error)

	// WriteStats outputs aggregated history statistics.
	WriteStats(stats *database.Stats) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the run to all configured Writers.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(run) })
}

// WriteHistory outputs the runs to all configured Writers.
func (m *MultiWriter) WriteHistory(runs []*model.Run) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(runs) })
}

// WriteStats outputs the statistics to all configured Writers.
func (m *MultiWriter) WriteStats(stats *database.Stats) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteStats(stats) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Message returns the human-readable outcome line for a run.
func Message(run *model.Run) string {
	switch run.Outcome {
	case model.OutcomeSuccess:
		return fmt.Sprintf("%s found in %d steps.", run.Target, run.Steps)
	case model.OutcomeCycle:
		return "Pages cycle detected."
	case model.OutcomeDeadEnd:
		return "No qualifying link found in the text."
	case model.OutcomeStepLimit:
		return fmt.Sprintf("Step limit reached after %d steps.", run.Steps)
	default:
		if run.Error != "" {
			return "Run failed: " + run.Error
		}
		return "Run did not finish."
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

const timeLayout = "2006-01-02 15:04:05 MST"

// shortID returns the first eight characters of a run ID.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
