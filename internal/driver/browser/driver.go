package browser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/nao1215/wikiwalk/internal/driver"
	"github.com/nao1215/wikiwalk/internal/model"
)

// Driver is a page driver backed by a playwright browser session.
type Driver struct {
	opts Options

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	loaded     bool
	paragraphs []paragraphHandle
	closed     bool
}

type paragraphHandle struct {
	el      playwright.ElementHandle
	text    string
	anchors []anchorHandle
	queried bool
}

type anchorHandle struct {
	el   playwright.ElementHandle
	text string
}

var _ driver.Driver = (*Driver)(nil)

// New starts playwright, launches the browser and opens a page.
// Resources acquired before a failure are released before returning.
func New(opts Options) (*Driver, error) {
	opts = opts.normalize()
	name, err := opts.browserName()
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, opts.Backend)
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{name},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	d := &Driver{opts: opts, pw: pw}

	browserType := pw.Chromium
	if opts.Backend == driver.BackendFirefox {
		browserType = pw.Firefox
	}
	d.browser, err = browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to launch %s: %w", name, err), d.Close())
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(opts.UserAgent)
	}
	d.context, err = d.browser.NewContext(contextOpts)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create context: %w", err), d.Close())
	}

	d.page, err = d.context.NewPage()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create page: %w", err), d.Close())
	}
	d.page.SetDefaultTimeout(opts.timeoutMillis())
	return d, nil
}

// Navigate loads rawURL and waits for the DOM to be ready.
func (d *Driver) Navigate(ctx context.Context, rawURL string) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	if _, err := d.page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(d.opts.timeoutMillis()),
	}); err != nil {
		return fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	return d.snapshot()
}

// NavigateRandom opens the main page and presses the random-article access
// key. If the key press does not leave the main page, Special:Random is
// loaded instead.
func (d *Driver) NavigateRandom(ctx context.Context) error {
	if err := d.Navigate(ctx, d.opts.Origin); err != nil {
		return err
	}
	keyErr := d.pressRandomKey()
	if keyErr == nil {
		return d.snapshot()
	}
	return randomFallbackError(keyErr, d.Navigate(ctx, d.opts.Origin+randomPath))
}

// errRandomKeyIgnored reports that the access key left the browser on the
// main page.
var errRandomKeyIgnored = errors.New("random access key did not change the page")

func (d *Driver) pressRandomKey() error {
	start := d.page.URL()
	if err := d.page.Keyboard().Press(randomAccessKey); err != nil {
		return fmt.Errorf("press %s: %w", randomAccessKey, err)
	}
	if err := d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("wait for random article: %w", err)
	}
	if d.page.URL() == start {
		return errRandomKeyIgnored
	}
	return nil
}

// randomFallbackError returns the error of the Special:Random fallback.
// When the access key itself failed, that failure is joined in as well.
func randomFallbackError(keyErr, navErr error) error {
	if navErr == nil {
		return nil
	}
	if keyErr == nil || errors.Is(keyErr, errRandomKeyIgnored) {
		return navErr
	}
	return errors.Join(navErr, keyErr)
}

// CurrentURL returns the page URL as the browser reports it.
func (d *Driver) CurrentURL() string {
	if d.closed || !d.loaded {
		return ""
	}
	return d.page.URL()
}

// CurrentHeading returns the innerText of #firstHeading.
func (d *Driver) CurrentHeading(ctx context.Context) (string, error) {
	if err := d.ready(ctx); err != nil {
		return "", err
	}
	el, err := d.page.QuerySelector(headingSelector)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", driver.ErrHeadingNotFound
	}
	text, err := el.InnerText()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", driver.ErrHeadingNotFound
	}
	return text, nil
}

// Paragraphs returns the body paragraphs captured at navigation time.
func (d *Driver) Paragraphs(ctx context.Context) ([]model.Paragraph, error) {
	if err := d.ready(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Paragraph, 0, len(d.paragraphs))
	for i, p := range d.paragraphs {
		out = append(out, model.Paragraph{Index: i, Text: p.text})
	}
	return out, nil
}

// Links returns the anchors of p in document order.
func (d *Driver) Links(ctx context.Context, p model.Paragraph) ([]model.Link, error) {
	ph, err := d.paragraph(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]model.Link, 0, len(ph.anchors))
	for i, a := range ph.anchors {
		out = append(out, model.Link{Paragraph: p, Index: i, Text: a.text})
	}
	return out, nil
}

// Attribute returns an attribute of the anchor behind l. For "href" the
// element's href property is used, which the browser already resolved.
func (d *Driver) Attribute(ctx context.Context, l model.Link, name string) (string, bool, error) {
	ph, err := d.paragraph(ctx, l.Paragraph)
	if err != nil {
		return "", false, err
	}
	if l.Index < 0 || l.Index >= len(ph.anchors) || ph.anchors[l.Index].text != l.Text {
		return "", false, driver.ErrStaleElement
	}

	v, err := ph.anchors[l.Index].el.Evaluate(
		`(e, n) => e.hasAttribute(n) ? (n === "href" ? e.href : e.getAttribute(n)) : null`, name)
	if err != nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}

// Close closes the page, context, browser and playwright in that order and
// returns every error encountered. It is safe to call more than once.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.paragraphs = nil

	var errs []error
	if d.page != nil {
		errs = append(errs, d.page.Close())
	}
	if d.context != nil {
		errs = append(errs, d.context.Close())
	}
	if d.browser != nil {
		errs = append(errs, d.browser.Close())
	}
	if d.pw != nil {
		errs = append(errs, d.pw.Stop())
	}
	return errors.Join(errs...)
}

// snapshot captures paragraph handles of the loaded page.
func (d *Driver) snapshot() error {
	elements, err := d.page.QuerySelectorAll(paragraphSelector)
	if err != nil {
		return fmt.Errorf("query paragraphs: %w", err)
	}
	paragraphs := make([]paragraphHandle, 0, len(elements))
	for _, el := range elements {
		text, err := el.InnerText()
		if err != nil {
			return fmt.Errorf("read paragraph: %w", err)
		}
		paragraphs = append(paragraphs, paragraphHandle{el: el, text: text})
	}
	d.paragraphs = paragraphs
	d.loaded = true
	return nil
}

func (d *Driver) check(ctx context.Context) error {
	if d.closed {
		return driver.ErrClosed
	}
	return ctx.Err()
}

func (d *Driver) ready(ctx context.Context) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	if !d.loaded {
		return driver.ErrNoPage
	}
	return nil
}

func (d *Driver) paragraph(ctx context.Context, p model.Paragraph) (*paragraphHandle, error) {
	if err := d.ready(ctx); err != nil {
		return nil, err
	}
	if p.Index < 0 || p.Index >= len(d.paragraphs) || d.paragraphs[p.Index].text != p.Text {
		return nil, driver.ErrStaleElement
	}
	ph := &d.paragraphs[p.Index]
	if ph.queried {
		return ph, nil
	}

	elements, err := ph.el.QuerySelectorAll("a")
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	anchors := make([]anchorHandle, 0, len(elements))
	for _, el := range elements {
		text, err := el.InnerText()
		if err != nil {
			return nil, fmt.Errorf("read link: %w", err)
		}
		anchors = append(anchors, anchorHandle{el: el, text: text})
	}
	ph.anchors = anchors
	ph.queried = true
	return ph, nil
}
