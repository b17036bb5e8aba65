// Package driver defines the page driver contract used by the traversal.
//
// A Driver owns one browsing session: it navigates to articles and exposes
// the parts of the rendered page the game needs (the current URL, the
// article heading, the body paragraphs and their anchors). Paragraph and
// Link values are handles into the page they were read from; once the
// driver navigates away they become stale and are rejected with
// ErrStaleElement.
//
// Implementations:
//   - static: plain HTTP fetches parsed with golang.org/x/net/html and goquery
//   - browser: Chromium or Firefox controlled through playwright-go
//   - memory: an in-memory article graph used by tests
package driver
