package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Article is a Wikipedia article the traversal has landed on.
// The heading is the identity of the article: two articles with the same
// heading are the same node even when reached through different URLs.
type Article struct {
	// Heading is the text of the article's first heading (#firstHeading).
	Heading string `json:"heading"`

	// URL is the address the page driver reported after navigation.
	URL string `json:"url"`
}

// Key returns the normalized heading used for cycle detection.
// Headings are NFC-normalized and trimmed; case is preserved because
// Wikipedia titles are case-sensitive after the first character.
func (a Article) Key() string {
	return HeadingKey(a.Heading)
}

// HeadingKey normalizes a heading string into a visited-set key.
func HeadingKey(heading string) string {
	return norm.NFC.String(strings.TrimSpace(heading))
}

// Paragraph is a body-text block of the current article.
// Paragraphs are only valid for the page they were read from; page drivers
// reject paragraphs from an earlier page.
type Paragraph struct {
	// Index is the position of the paragraph in document order.
	Index int `json:"index"`

	// Text is the rendered text of the whole paragraph.
	Text string `json:"text"`
}

// Link is an anchor element inside a paragraph.
type Link struct {
	// Paragraph is the paragraph that contains the link.
	// It is a lookup reference used by the parenthesis check, not ownership.
	Paragraph Paragraph `json:"paragraph"`

	// Index is the position of the link inside its paragraph.
	Index int `json:"index"`

	// Text is the visible anchor text.
	Text string `json:"text"`
}
