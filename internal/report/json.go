package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/wikiwalk/internal/database"
	"github.com/nao1215/wikiwalk/internal/model"
)

// JSONWriter outputs runs in JSON format for scripts and other tools.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// RunReport is the JSON document written for a single run.
// It adds the rendered outcome message and duration to the run record.
type RunReport struct {
	*model.Run

	// Message is the same line SimpleWriter prints.
	Message string `json:"message"`

	// DurationMillis is the run duration in milliseconds.
	DurationMillis int64 `json:"duration_ms"`
}

// NewRunReport wraps a run for JSON output.
func NewRunReport(run *model.Run) *RunReport {
	return &RunReport{
		Run:            run,
		Message:        Message(run),
		DurationMillis: run.Duration().Milliseconds(),
	}
}

// Write outputs the run as a JSON object.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	if run == nil {
		return 0, ErrNilRun
	}
	return w.writeJSON(NewRunReport(run))
}

// WriteHistory outputs the runs as a JSON array.
func (w *JSONWriter) WriteHistory(runs []*model.Run) (int, error) {
	reports := make([]*RunReport, 0, len(runs))
	for _, run := range runs {
		reports = append(reports, NewRunReport(run))
	}
	return w.writeJSON(reports)
}

// WriteStats outputs the statistics as a JSON object.
func (w *JSONWriter) WriteStats(stats *database.Stats) (int, error) {
	if stats == nil {
		return 0, ErrNilStats
	}
	return w.writeJSON(stats)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}
