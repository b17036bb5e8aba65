package driver

import (
	"context"

	"github.com/nao1215/wikiwalk/internal/model"
)

// Driver is a single browsing session over Wikipedia articles.
// Drivers are not safe for concurrent use.
type Driver interface {
	// Navigate loads the page at url.
	Navigate(ctx context.Context, url string) error

	// NavigateRandom loads a random article.
	NavigateRandom(ctx context.Context) error

	// CurrentURL returns the URL of the loaded page, or "" before the
	// first navigation.
	CurrentURL() string

	// CurrentHeading returns the text of the article heading.
	// It returns ErrHeadingNotFound when the page has no heading.
	CurrentHeading(ctx context.Context) (string, error)

	// Paragraphs returns the body paragraphs in document order.
	// Empty marker paragraphs are omitted.
	Paragraphs(ctx context.Context) ([]model.Paragraph, error)

	// Links returns the anchors of p in document order.
	Links(ctx context.Context, p model.Paragraph) ([]model.Link, error)

	// Attribute returns an attribute of the anchor behind l. For "href" the
	// value is absolute, resolved against the current page. The boolean is
	// false when the attribute is missing.
	Attribute(ctx context.Context, l model.Link, name string) (string, bool, error)

	// Close releases the session. Close is idempotent.
	Close() error
}
