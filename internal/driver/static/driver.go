package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/nao1215/wikiwalk/internal/driver"
	"github.com/nao1215/wikiwalk/internal/model"
)

const (
	// DefaultOrigin is the Wikipedia edition the driver talks to.
	DefaultOrigin = "https://en.wikipedia.org"

	// DefaultUserAgent identifies the tool to Wikipedia.
	DefaultUserAgent = "wikiwalk/1.0 (+https://github.com/nao1215/wikiwalk)"

	// DefaultMaxBodySize caps the bytes read from a single response.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	randomPath = "/wiki/Special:Random"

	headingSelector   = "#firstHeading"
	paragraphSelector = "#mw-content-text div.mw-parser-output > p"
	emptyParagraph    = ".mw-empty-elt"
)

// Driver is a page driver backed by HTTP requests.
type Driver struct {
	client      *http.Client
	origin      string
	userAgent   string
	maxBodySize int64
	limiter     *rate.Limiter

	current    *url.URL
	doc        *goquery.Document
	paragraphs []*goquery.Selection
	closed     bool
}

var _ driver.Driver = (*Driver)(nil)

// Option configures a Driver.
type Option func(*Driver)

// WithOrigin sets the scheme and host used for random articles.
func WithOrigin(origin string) Option {
	return func(d *Driver) {
		if origin != "" {
			d.origin = strings.TrimRight(origin, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *Driver) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of bytes read per response.
// Zero or negative values keep the default.
func WithMaxBodySize(size int64) Option {
	return func(d *Driver) {
		if size > 0 {
			d.maxBodySize = size
		}
	}
}

// WithDelay sets the minimum interval between two requests.
// Zero disables pacing.
func WithDelay(delay time.Duration) Option {
	return func(d *Driver) {
		if delay <= 0 {
			d.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		d.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
}

// New creates a Driver using client. A nil client gets a default one
// with a 30 second timeout.
func New(client *http.Client, opts ...Option) *Driver {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	d := &Driver{
		client:      client,
		origin:      DefaultOrigin,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Navigate fetches and parses the page at rawURL.
func (d *Driver) Navigate(ctx context.Context, rawURL string) error {
	if d.closed {
		return driver.ErrClosed
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	final, doc, err := d.fetch(ctx, rawURL)
	if err != nil {
		return err
	}

	d.current = final
	d.doc = doc
	d.paragraphs = d.paragraphs[:0]
	doc.Find(paragraphSelector).Not(emptyParagraph).Each(func(_ int, s *goquery.Selection) {
		d.paragraphs = append(d.paragraphs, s)
	})
	return nil
}

// NavigateRandom follows Special:Random; the current URL becomes the
// article it redirected to.
func (d *Driver) NavigateRandom(ctx context.Context) error {
	return d.Navigate(ctx, d.origin+randomPath)
}

// CurrentURL returns the final URL of the loaded page without fragment.
func (d *Driver) CurrentURL() string {
	if d.current == nil {
		return ""
	}
	return d.current.String()
}

// CurrentHeading returns the text of #firstHeading.
func (d *Driver) CurrentHeading(_ context.Context) (string, error) {
	if err := d.loaded(); err != nil {
		return "", err
	}
	heading := strings.TrimSpace(d.doc.Find(headingSelector).First().Text())
	if heading == "" {
		return "", driver.ErrHeadingNotFound
	}
	return heading, nil
}

// Paragraphs returns the article body paragraphs.
func (d *Driver) Paragraphs(_ context.Context) ([]model.Paragraph, error) {
	if err := d.loaded(); err != nil {
		return nil, err
	}
	out := make([]model.Paragraph, 0, len(d.paragraphs))
	for i, s := range d.paragraphs {
		out = append(out, model.Paragraph{Index: i, Text: elementText(s)})
	}
	return out, nil
}

// Links returns the anchors of p in document order.
func (d *Driver) Links(_ context.Context, p model.Paragraph) ([]model.Link, error) {
	s, err := d.paragraph(p)
	if err != nil {
		return nil, err
	}
	anchors := s.Find("a")
	out := make([]model.Link, 0, anchors.Length())
	anchors.Each(func(i int, a *goquery.Selection) {
		out = append(out, model.Link{Paragraph: p, Index: i, Text: elementText(a)})
	})
	return out, nil
}

// Attribute returns an attribute of the anchor behind l. The href is
// resolved against the current page URL.
func (d *Driver) Attribute(_ context.Context, l model.Link, name string) (string, bool, error) {
	s, err := d.paragraph(l.Paragraph)
	if err != nil {
		return "", false, err
	}
	anchors := s.Find("a")
	if l.Index < 0 || l.Index >= anchors.Length() {
		return "", false, driver.ErrStaleElement
	}
	a := anchors.Eq(l.Index)
	if elementText(a) != l.Text {
		return "", false, driver.ErrStaleElement
	}

	v, ok := a.Attr(name)
	if !ok || !strings.EqualFold(name, "href") {
		return v, ok, nil
	}
	return d.resolve(v), true, nil
}

// Close releases idle connections. It is safe to call more than once.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.doc = nil
	d.paragraphs = nil
	d.client.CloseIdleConnections()
	return nil
}

func (d *Driver) fetch(ctx context.Context, rawURL string) (*url.URL, *goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	root, err := html.Parse(io.LimitReader(resp.Body, d.maxBodySize))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}

	final := *resp.Request.URL
	final.Fragment = ""
	final.RawFragment = ""
	return &final, goquery.NewDocumentFromNode(root), nil
}

func (d *Driver) loaded() error {
	if d.closed {
		return driver.ErrClosed
	}
	if d.doc == nil {
		return driver.ErrNoPage
	}
	return nil
}

func (d *Driver) paragraph(p model.Paragraph) (*goquery.Selection, error) {
	if err := d.loaded(); err != nil {
		return nil, err
	}
	if p.Index < 0 || p.Index >= len(d.paragraphs) {
		return nil, driver.ErrStaleElement
	}
	s := d.paragraphs[p.Index]
	if elementText(s) != p.Text {
		return nil, driver.ErrStaleElement
	}
	return s, nil
}

func (d *Driver) resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return d.current.ResolveReference(ref).String()
}

// elementText returns the text of s with runs of whitespace collapsed,
// close to what a browser reports as innerText for inline content.
func elementText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
