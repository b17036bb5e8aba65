// Package report renders finished runs and run history.
//
// Three formats are available behind the Writer interface:
//   - SimpleWriter: the one-line outcome message for terminals, plus the
//     visited path in verbose mode
//   - JSONWriter: structured output for scripts
//   - MarkdownWriter: a shareable document with tables and a mermaid chart
package report
