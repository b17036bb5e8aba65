package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/wikiwalk/internal/database"
	"github.com/nao1215/wikiwalk/internal/model"
)

// MarkdownWriter outputs runs in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single run with its summary, outcome and path.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	if run == nil {
		return 0, ErrNilRun
	}

	md := markdown.NewMarkdown(w.output)

	md.H1("wikiwalk Run")
	md.PlainText("")
	w.writeSummary(md, run)
	w.writeAlert(md, run)
	w.writePath(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeSummary writes the run metadata table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *model.Run) {
	backend := run.Backend
	if backend == "" {
		backend = "-"
	}
	rows := [][]string{
		{"Run", "`" + run.ID + "`"},
		{"Started", formatTime(run.StartedAt)},
		{"Backend", backend},
		{"Target", run.Target},
		{"Outcome", outcomeLabel(run.Outcome)},
		{"Steps", strconv.Itoa(run.Steps)},
	}
	if d := run.Duration(); d > 0 {
		rows = append(rows, []string{"Duration", d.Round(time.Millisecond).String()})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert block matching the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	switch {
	case run.Error != "":
		md.Cautionf("Run aborted: %s", run.Error)
	case run.Outcome == model.OutcomeSuccess:
		md.Tip(Message(run))
	case run.Outcome == model.OutcomeCycle:
		last, _ := run.Last()
		md.Warningf("Pages cycle detected at %s.", last.Heading)
	case run.Outcome == model.OutcomeDeadEnd:
		last, _ := run.Last()
		md.Importantf("No qualifying link found in the text of %s.", last.Heading)
	case run.Outcome == model.OutcomeStepLimit:
		md.Note(Message(run))
	default:
		md.Note("Run did not finish.")
	}
	md.PlainText("")
}

// writePath writes the visited articles as an ordered list of links.
func (w *MarkdownWriter) writePath(md *markdown.Markdown, run *model.Run) {
	md.H2("Path")
	md.PlainText("")

	if len(run.Path) == 0 {
		md.PlainText("No articles visited.")
		md.PlainText("")
		return
	}

	items := make([]string, len(run.Path))
	for i, a := range run.Path {
		items[i] = "[" + a.Heading + "](" + a.URL + ")"
	}
	md.OrderedList(items...)
	md.PlainText("")
}

// WriteHistory outputs a table of runs.
func (w *MarkdownWriter) WriteHistory(runs []*model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("wikiwalk History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(runs))
		for i, run := range runs {
			rows[i] = []string{
				"`" + shortID(run.ID) + "`",
				formatTime(run.StartedAt),
				outcomeLabel(run.Outcome),
				strconv.Itoa(run.Steps),
				route(run),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"ID", "Started", "Outcome", "Steps", "Route"},
			Rows:   rows,
		})
		md.PlainText("")
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteStats outputs outcome counts, a pie chart and the most visited
// articles.
func (w *MarkdownWriter) WriteStats(stats *database.Stats) (int, error) {
	if stats == nil {
		return 0, ErrNilStats
	}

	md := markdown.NewMarkdown(w.output)

	md.H1("wikiwalk Statistics")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Outcomes())+1)
	for _, o := range model.Outcomes() {
		n := stats.ByOutcome[o.String()]
		if n == 0 && o == model.OutcomeUnknown {
			continue
		}
		rows = append(rows, []string{outcomeLabel(o), strconv.Itoa(n)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(stats.Total) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Runs"},
		Rows:   rows,
	})
	md.PlainText("")

	if stats.Total > 0 {
		w.writePieChart(md, stats)
	}

	if stats.ByOutcome[model.OutcomeSuccess.String()] > 0 {
		md.PlainTextf("Average steps to target: **%.1f**, longest successful run: **%d** steps.",
			stats.AverageSuccessSteps, stats.MaxSuccessSteps)
		md.PlainText("")
	}

	if len(stats.TopArticles) > 0 {
		md.H2("Most Visited Articles")
		md.PlainText("")
		items := make([]string, len(stats.TopArticles))
		for i, a := range stats.TopArticles {
			items[i] = a.Heading + " (" + strconv.Itoa(a.Runs) + " runs)"
		}
		md.BulletList(items...)
		md.PlainText("")
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats *database.Stats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Run Outcomes"),
		piechart.WithShowData(true),
	)

	for _, o := range model.Outcomes() {
		if n := stats.ByOutcome[o.String()]; n > 0 {
			chart.LabelAndIntValue(o.String(), uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wikiwalk](https://github.com/nao1215/wikiwalk)*")
}

// outcomeLabel decorates an outcome for tables.
func outcomeLabel(o model.Outcome) string {
	switch o {
	case model.OutcomeSuccess:
		return "✅ success"
	case model.OutcomeCycle:
		return "🔁 cycle"
	case model.OutcomeDeadEnd:
		return "⛔ dead_end"
	case model.OutcomeStepLimit:
		return "⏱️ step_limit"
	default:
		return "❔ unknown"
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
