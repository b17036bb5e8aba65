// Package memory provides an in-memory page driver.
//
// Articles are described as plain Go values, which makes the driver a
// deterministic stand-in for Wikipedia in traversal and command tests.
package memory

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/nao1215/wikiwalk/internal/driver"
	"github.com/nao1215/wikiwalk/internal/model"
)

// Anchor is a link inside a paragraph.
type Anchor struct {
	Text string
	// Href may be relative; it is resolved against the page URL.
	Href string
	// Attributes holds additional attributes such as "title" or "class".
	Attributes map[string]string
}

// Paragraph is a body paragraph of a page.
type Paragraph struct {
	// Text is the rendered paragraph text. When empty it is derived from
	// the anchor texts.
	Text    string
	Anchors []Anchor
	// Empty marks a mw-empty-elt paragraph, which drivers never report.
	Empty bool
}

// Page is an article served by the driver.
type Page struct {
	// Heading is the article title. An empty heading makes CurrentHeading
	// return driver.ErrHeadingNotFound.
	Heading    string
	Paragraphs []Paragraph
}

// LinkPage builds a page with a single paragraph linking to hrefs in order.
// The anchor text of each link is the last path element of its href.
func LinkPage(heading string, hrefs ...string) Page {
	anchors := make([]Anchor, 0, len(hrefs))
	for _, h := range hrefs {
		anchors = append(anchors, Anchor{Text: path.Base(h), Href: h})
	}
	return Page{
		Heading:    heading,
		Paragraphs: []Paragraph{{Anchors: anchors}},
	}
}

// Driver serves pages from memory. The zero value is not usable; create
// one with New.
type Driver struct {
	pages     map[string]Page
	randomURL string
	errs      map[string]error

	current string
	page    *Page
	visible []Paragraph
	history []string
	closed  bool
	closes  int
}

var _ driver.Driver = (*Driver)(nil)

// Option configures a Driver.
type Option func(*Driver)

// WithRandom sets the URL NavigateRandom goes to.
func WithRandom(rawURL string) Option {
	return func(d *Driver) {
		d.randomURL = rawURL
	}
}

// WithError makes navigation to rawURL fail with err.
func WithError(rawURL string, err error) Option {
	return func(d *Driver) {
		d.errs[rawURL] = err
	}
}

// New creates a Driver serving pages keyed by absolute URL.
func New(pages map[string]Page, opts ...Option) *Driver {
	d := &Driver{
		pages: make(map[string]Page, len(pages)),
		errs:  make(map[string]error),
	}
	for u, p := range pages {
		d.pages[u] = p
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Navigate loads the page registered under rawURL.
func (d *Driver) Navigate(ctx context.Context, rawURL string) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	if err, ok := d.errs[rawURL]; ok {
		return err
	}
	p, ok := d.pages[rawURL]
	if !ok {
		return fmt.Errorf("navigate %s: page not found", rawURL)
	}

	d.current = rawURL
	d.page = &p
	d.visible = d.visible[:0]
	for _, para := range p.Paragraphs {
		if !para.Empty {
			d.visible = append(d.visible, para)
		}
	}
	d.history = append(d.history, rawURL)
	return nil
}

// NavigateRandom navigates to the URL configured with WithRandom.
func (d *Driver) NavigateRandom(ctx context.Context) error {
	if d.randomURL == "" {
		return fmt.Errorf("navigate random: no random article configured")
	}
	return d.Navigate(ctx, d.randomURL)
}

// CurrentURL returns the URL of the loaded page.
func (d *Driver) CurrentURL() string {
	return d.current
}

// CurrentHeading returns the heading of the loaded page.
func (d *Driver) CurrentHeading(ctx context.Context) (string, error) {
	if err := d.loaded(ctx); err != nil {
		return "", err
	}
	if strings.TrimSpace(d.page.Heading) == "" {
		return "", driver.ErrHeadingNotFound
	}
	return d.page.Heading, nil
}

// Paragraphs returns the non-empty paragraphs of the loaded page.
func (d *Driver) Paragraphs(ctx context.Context) ([]model.Paragraph, error) {
	if err := d.loaded(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Paragraph, 0, len(d.visible))
	for i, p := range d.visible {
		out = append(out, model.Paragraph{Index: i, Text: paragraphText(p)})
	}
	return out, nil
}

// Links returns the anchors of p.
func (d *Driver) Links(ctx context.Context, p model.Paragraph) ([]model.Link, error) {
	para, err := d.paragraph(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]model.Link, 0, len(para.Anchors))
	for i, a := range para.Anchors {
		out = append(out, model.Link{Paragraph: p, Index: i, Text: a.Text})
	}
	return out, nil
}

// Attribute returns an attribute of the anchor behind l.
func (d *Driver) Attribute(ctx context.Context, l model.Link, name string) (string, bool, error) {
	para, err := d.paragraph(ctx, l.Paragraph)
	if err != nil {
		return "", false, err
	}
	if l.Index < 0 || l.Index >= len(para.Anchors) || para.Anchors[l.Index].Text != l.Text {
		return "", false, driver.ErrStaleElement
	}
	a := para.Anchors[l.Index]

	if strings.EqualFold(name, "href") {
		if a.Href == "" {
			return "", false, nil
		}
		return d.resolve(a.Href), true, nil
	}
	v, ok := a.Attributes[name]
	return v, ok, nil
}

// Close marks the driver closed. Calling Close more than once is allowed.
func (d *Driver) Close() error {
	d.closed = true
	d.closes++
	return nil
}

// Closed reports whether Close has been called.
func (d *Driver) Closed() bool {
	return d.closed
}

// CloseCount returns how many times Close has been called.
func (d *Driver) CloseCount() int {
	return d.closes
}

// History returns the URLs navigated to, in order.
func (d *Driver) History() []string {
	return append([]string(nil), d.history...)
}

func (d *Driver) check(ctx context.Context) error {
	if d.closed {
		return driver.ErrClosed
	}
	return ctx.Err()
}

func (d *Driver) loaded(ctx context.Context) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	if d.page == nil {
		return driver.ErrNoPage
	}
	return nil
}

func (d *Driver) paragraph(ctx context.Context, p model.Paragraph) (Paragraph, error) {
	if err := d.loaded(ctx); err != nil {
		return Paragraph{}, err
	}
	if p.Index < 0 || p.Index >= len(d.visible) || paragraphText(d.visible[p.Index]) != p.Text {
		return Paragraph{}, driver.ErrStaleElement
	}
	return d.visible[p.Index], nil
}

func (d *Driver) resolve(href string) string {
	base, err := url.Parse(d.current)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func paragraphText(p Paragraph) string {
	if p.Text != "" {
		return p.Text
	}
	texts := make([]string, 0, len(p.Anchors))
	for _, a := range p.Anchors {
		texts = append(texts, a.Text)
	}
	return strings.Join(texts, " ")
}
