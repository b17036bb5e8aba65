package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nao1215/wikiwalk/internal/database"
	"github.com/nao1215/wikiwalk/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
// By default a run is a single outcome line.
type SimpleWriter struct {
	baseWriter

	// verbose adds the visited path and run metadata.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the outcome line of the run.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	if run == nil {
		return 0, ErrNilRun
	}

	var sb strings.Builder
	sb.WriteString(Message(run))
	sb.WriteString("\n")

	if w.verbose {
		w.writeDetails(&sb, run)
	}

	return io.WriteString(w.output, sb.String())
}

// writeDetails writes the run metadata and the visited path.
func (w *SimpleWriter) writeDetails(sb *strings.Builder, run *model.Run) {
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Run:      %s\n", run.ID)
	if run.Backend != "" {
		fmt.Fprintf(sb, "Backend:  %s\n", run.Backend)
	}
	fmt.Fprintf(sb, "Target:   %s\n", run.Target)
	fmt.Fprintf(sb, "Outcome:  %s\n", run.Outcome)
	if d := run.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration: %s\n", d.Round(time.Millisecond))
	}
	if run.Error != "" {
		fmt.Fprintf(sb, "Error:    %s\n", run.Error)
	}

	if len(run.Path) == 0 {
		return
	}
	sb.WriteString("\nPath:\n")
	for i, a := range run.Path {
		fmt.Fprintf(sb, "  %3d. %s <%s>\n", i, a.Heading, a.URL)
	}
}

// WriteHistory outputs one line per run.
func (w *SimpleWriter) WriteHistory(runs []*model.Run) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tOUTCOME\tSTEPS\tROUTE")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			shortID(run.ID),
			run.StartedAt.Local().Format(timeLayout),
			run.Outcome,
			run.Steps,
			route(run),
		)
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}
	return io.WriteString(w.output, sb.String())
}

// WriteStats outputs the aggregated history.
func (w *SimpleWriter) WriteStats(stats *database.Stats) (int, error) {
	if stats == nil {
		return 0, ErrNilStats
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Runs: %d\n", stats.Total)
	for _, o := range model.Outcomes() {
		n := stats.ByOutcome[o.String()]
		if n == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %-10s %d (%.1f%%)\n", o, n, percent(n, stats.Total))
	}
	if stats.ByOutcome[model.OutcomeSuccess.String()] > 0 {
		fmt.Fprintf(&sb, "Average steps to target: %.1f\n", stats.AverageSuccessSteps)
		fmt.Fprintf(&sb, "Longest successful run:  %d steps\n", stats.MaxSuccessSteps)
	}
	if len(stats.TopArticles) > 0 {
		sb.WriteString("Most visited articles:\n")
		for _, a := range stats.TopArticles {
			fmt.Fprintf(&sb, "  %s (%d runs)\n", a.Heading, a.Runs)
		}
	}
	return io.WriteString(w.output, sb.String())
}

// route describes a run as "start -> last".
func route(run *model.Run) string {
	start, ok := run.Start()
	if !ok {
		return "-"
	}
	last, _ := run.Last()
	if len(run.Path) == 1 {
		return start.Heading
	}
	return start.Heading + " -> " + last.Heading
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
