// Package log provides wikiwalk's logging setup on top of log/slog.
//
// Debug logs record every link decision, including the full paragraph text
// and href of each candidate. CompactHandler wraps any slog.Handler and
// keeps such output readable:
//   - String attributes longer than a rune budget are shortened
//   - Credentials embedded in URLs (user:password@host) are masked
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("link rejected", "paragraph", p.Text, "href", href)
package log
