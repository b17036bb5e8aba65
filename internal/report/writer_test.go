package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikiwalk/internal/database"
	"github.com/nao1215/wikiwalk/internal/model"
)

// createTestRun creates a successful three-step run.
func createTestRun() *model.Run {
	run := model.NewRun(model.DefaultTarget)
	run.Backend = "static"
	run.StartedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	run.FinishedAt = run.StartedAt.Add(1500 * time.Millisecond)
	for _, h := range []string{"Apple", "Fruit", "Botany", "Philosophy"} {
		run.Visit(model.Article{Heading: h, URL: "https://en.wikipedia.org/wiki/" + h})
	}
	run.Steps = 3
	run.Outcome = model.OutcomeSuccess
	return run
}

func createTestStats() *database.Stats {
	return &database.Stats{
		Total: 4,
		ByOutcome: map[string]int{
			"success":  2,
			"cycle":    1,
			"dead_end": 1,
		},
		AverageSuccessSteps: 12.5,
		MaxSuccessSteps:     17,
		TopArticles: []database.ArticleCount{
			{Heading: "Philosophy", Runs: 2},
			{Heading: "Science", Runs: 2},
		},
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome model.Outcome
		steps   int
		errMsg  string
		want    string
	}{
		{"success", model.OutcomeSuccess, 3, "", "Philosophy found in 3 steps."},
		{"cycle", model.OutcomeCycle, 2, "", "Pages cycle detected."},
		{"dead end", model.OutcomeDeadEnd, 1, "", "No qualifying link found in the text."},
		{"step limit", model.OutcomeStepLimit, 100, "", "Step limit reached after 100 steps."},
		{"failed", model.OutcomeUnknown, 0, "connection refused", "Run failed: connection refused"},
		{"unfinished", model.OutcomeUnknown, 0, "", "Run did not finish."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			run := model.NewRun("")
			run.Outcome = tt.outcome
			run.Steps = tt.steps
			run.Error = tt.errMsg

			if got := Message(run); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("uses the run target", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun("Mathematics")
		run.Outcome = model.OutcomeSuccess
		run.Steps = 7

		if got := Message(run); got != "Mathematics found in 7 steps." {
			t.Errorf("unexpected message %q", got)
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes only the outcome line by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(createTestRun())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}
		if buf.String() != "Philosophy found in 3 steps.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("verbose mode adds the path", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Backend:  static",
			"Duration: 1.5s",
			"Path:",
			"  0. Apple <https://en.wikipedia.org/wiki/Apple>",
			"  3. Philosophy",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("nil run", func(t *testing.T) {
		t.Parallel()

		w := NewSimpleWriter(&bytes.Buffer{})
		if _, err := w.Write(nil); !errors.Is(err, ErrNilRun) {
			t.Errorf("expected ErrNilRun, got %v", err)
		}
	})

	t.Run("history lists runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		run := createTestRun()
		if _, err := w.WriteHistory([]*model.Run{run}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "OUTCOME") {
			t.Errorf("expected header row, got:\n%s", output)
		}
		if !strings.Contains(output, run.ID[:8]) {
			t.Errorf("expected short run ID, got:\n%s", output)
		}
		if !strings.Contains(output, "Apple -> Philosophy") {
			t.Errorf("expected route, got:\n%s", output)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No runs recorded.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteStats(createTestStats()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Runs: 4",
			"success    2 (50.0%)",
			"dead_end   1 (25.0%)",
			"Average steps to target: 12.5",
			"Philosophy (2 runs)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "step_limit") {
			t.Errorf("expected zero outcomes to be omitted, got:\n%s", output)
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run with message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		run := createTestRun()
		if _, err := w.Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["id"] != run.ID {
			t.Errorf("expected id %q, got %v", run.ID, decoded["id"])
		}
		if decoded["outcome"] != "success" {
			t.Errorf("expected outcome success, got %v", decoded["outcome"])
		}
		if decoded["message"] != "Philosophy found in 3 steps." {
			t.Errorf("unexpected message %v", decoded["message"])
		}
		if decoded["duration_ms"] != float64(1500) {
			t.Errorf("expected duration_ms 1500, got %v", decoded["duration_ms"])
		}
		path, ok := decoded["path"].([]any)
		if !ok || len(path) != 4 {
			t.Errorf("expected 4 path entries, got %v", decoded["path"])
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"id\"") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
	})

	t.Run("compact output ends with newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if strings.Count(output, "\n") != 1 || !strings.HasSuffix(output, "\n") {
			t.Errorf("expected a single trailing newline, got %q", output)
		}
	})

	t.Run("history is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		runs := []*model.Run{createTestRun(), createTestRun()}
		if _, err := NewJSONWriter(&buf).WriteHistory(runs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not a JSON array: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 runs, got %d", len(decoded))
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "[]\n" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteStats(createTestStats()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded database.Stats
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Total != 4 || decoded.ByOutcome["cycle"] != 1 {
			t.Errorf("unexpected stats %+v", decoded)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("run report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := createTestRun()
		if _, err := NewMarkdownWriter(&buf).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# wikiwalk Run",
			"| Property",
			run.ID,
			"[!TIP]",
			"## Path",
			"1. [Apple](https://en.wikipedia.org/wiki/Apple)",
			"[Philosophy](https://en.wikipedia.org/wiki/Philosophy)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("alert follows outcome", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			outcome model.Outcome
			errMsg  string
			want    string
		}{
			{model.OutcomeCycle, "", "[!WARNING]"},
			{model.OutcomeDeadEnd, "", "[!IMPORTANT]"},
			{model.OutcomeStepLimit, "", "[!NOTE]"},
			{model.OutcomeUnknown, "boom", "[!CAUTION]"},
		}
		for _, tt := range tests {
			run := createTestRun()
			run.Outcome = tt.outcome
			run.Error = tt.errMsg

			var buf bytes.Buffer
			if _, err := NewMarkdownWriter(&buf).Write(run); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("%s: expected %s alert, got:\n%s", tt.outcome, tt.want, buf.String())
			}
		}
	})

	t.Run("run without path", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewRun("")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No articles visited.") {
			t.Errorf("expected empty path note, got:\n%s", buf.String())
		}
	})

	t.Run("history table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory([]*model.Run{createTestRun()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# wikiwalk History") || !strings.Contains(output, "Apple -> Philosophy") {
			t.Errorf("unexpected history output:\n%s", output)
		}
	})

	t.Run("stats with pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteStats(createTestStats()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"```mermaid",
			"pie",
			"Run Outcomes",
			"## Most Visited Articles",
			"Science (2 runs)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("empty stats skip the chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		stats := &database.Stats{ByOutcome: map[string]int{}}
		if _, err := NewMarkdownWriter(&buf).WriteStats(stats); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "```mermaid") {
			t.Errorf("expected no chart for empty stats, got:\n%s", buf.String())
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestRun())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d total bytes, got %d", text.Len()+js.Len(), n)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}

	if _, err := mw.WriteStats(nil); !errors.Is(err, ErrNilStats) {
		t.Errorf("expected ErrNilStats, got %v", err)
	}
}
