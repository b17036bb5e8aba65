package link

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultOrigin is the scheme and host every followed link must share.
	DefaultOrigin = "https://en.wikipedia.org"

	redLinkParam      = "redlink=1"
	pronunciationPage = "Help:IPA"
	audioExtension    = ".ogg"
)

// invalidEdgeCharacters are stripped from both ends of link text before it
// is searched for inside parentheses.
const invalidEdgeCharacters = `.,:;/\-`

// wordClass is the set of runes that count as word characters when link text
// is matched on word boundaries. It covers every script, not only ASCII.
const wordClass = `\p{L}\p{M}\p{N}\p{Pc}`

// Classifier decides whether links qualify as the next hop of a traversal.
type Classifier struct {
	// origin is the URL prefix that separates Wikipedia links from external ones.
	origin string

	// legacyGuard evaluates the parenthesis rule even when the link text
	// occurs more than once in the paragraph.
	legacyGuard bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithOrigin sets the origin that internal links must start with.
// An empty origin is ignored.
func WithOrigin(origin string) Option {
	return func(c *Classifier) {
		if origin != "" {
			c.origin = strings.TrimRight(origin, "/")
		}
	}
}

// WithLegacyParenthesisGuard makes the parenthesis rule ignore how often
// the link text occurs in the paragraph. With several occurrences the rule
// may then reject a link because another occurrence of the same text is
// parenthesized.
func WithLegacyParenthesisGuard(enabled bool) Option {
	return func(c *Classifier) {
		c.legacyGuard = enabled
	}
}

// NewClassifier creates a Classifier for the English Wikipedia.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		origin: DefaultOrigin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Origin returns the configured origin.
func (c *Classifier) Origin() string {
	return c.origin
}

// Qualifies reports whether the link may be followed.
// href must be absolute, the way a browser exposes an anchor's href property.
func (c *Classifier) Qualifies(paragraphText, href, linkText, currentURL string) bool {
	return c.Classify(paragraphText, href, linkText, currentURL) == ExclusionNone
}

// Classify returns the first exclusion that applies to the link, or
// ExclusionNone when the link qualifies.
func (c *Classifier) Classify(paragraphText, href, linkText, currentURL string) Exclusion {
	trimmed := TrimURLParamsAndAnchors(href)

	switch {
	case IsSamePageLink(trimmed, currentURL):
		return ExclusionSamePage
	case c.IsExternalLink(trimmed):
		return ExclusionExternal
	case IsRedLink(href):
		return ExclusionRedLink
	case IsPronunciationLink(href):
		return ExclusionPronunciation
	case IsListeningLink(href):
		return ExclusionAudio
	case c.IsEnclosedByParenthesis(paragraphText, linkText):
		return ExclusionParenthesized
	default:
		return ExclusionNone
	}
}

// IsExternalLink reports whether href does not start with the classifier's origin.
func (c *Classifier) IsExternalLink(href string) bool {
	return !hasPrefixFold(href, c.origin)
}

// IsEnclosedByParenthesis reports whether linkText appears between an
// opening and a closing parenthesis in paragraphText.
//
// The check only runs when linkText occurs exactly once in the paragraph,
// unless the legacy guard is enabled. Link text that is empty after
// trimming is never considered enclosed.
func (c *Classifier) IsEnclosedByParenthesis(paragraphText, linkText string) bool {
	if !c.legacyGuard && strings.Count(paragraphText, linkText) != 1 {
		return false
	}

	needle := TrimInvalidCharacters(linkText)
	if needle == "" {
		return false
	}

	re, err := regexp.Compile(enclosedPattern(needle))
	if err != nil {
		return false
	}
	return re.MatchString(paragraphText)
}

// enclosedPattern builds a regular expression matching needle on word
// boundaries somewhere between '(' and ')'. RE2's \b only knows ASCII word
// characters, so the boundaries are spelled out against wordClass instead.
func enclosedPattern(needle string) string {
	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)

	// A boundary next to a word rune needs a non-word neighbour or the
	// parenthesis itself; next to a non-word rune it needs a word neighbour.
	before := `.*[` + wordClass + `]`
	if isWordRune(first) {
		before = `(?:.*[^` + wordClass + `])?`
	}
	after := `[` + wordClass + `].*`
	if isWordRune(last) {
		after = `(?:[^` + wordClass + `].*)?`
	}
	return `\(` + before + regexp.QuoteMeta(needle) + after + `\)`
}

func isWordRune(r rune) bool {
	return unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.Pc)
}

// IsSamePageLink reports whether href points into the current page.
// href is expected to be trimmed with TrimURLParamsAndAnchors.
func IsSamePageLink(href, currentURL string) bool {
	return hasPrefixFold(href, currentURL)
}

// IsExternalLink reports whether href leaves the English Wikipedia.
func IsExternalLink(href string) bool {
	return !hasPrefixFold(href, DefaultOrigin)
}

// IsRedLink reports whether href targets an article that does not exist yet.
func IsRedLink(href string) bool {
	return containsFold(href, redLinkParam)
}

// IsPronunciationLink reports whether href targets an IPA help page.
func IsPronunciationLink(href string) bool {
	return containsFold(href, pronunciationPage)
}

// IsListeningLink reports whether href targets an audio recording.
func IsListeningLink(href string) bool {
	return len(href) >= len(audioExtension) &&
		strings.EqualFold(href[len(href)-len(audioExtension):], audioExtension)
}

// IsEnclosedByParenthesis is the package-level form of
// Classifier.IsEnclosedByParenthesis using the default guard.
func IsEnclosedByParenthesis(paragraphText, linkText string) bool {
	return defaultClassifier.IsEnclosedByParenthesis(paragraphText, linkText)
}

// TrimURLParamsAndAnchors removes trailing '#' characters and then
// trailing '&' characters from href.
func TrimURLParamsAndAnchors(href string) string {
	return strings.TrimRight(strings.TrimRight(href, "#"), "&")
}

// TrimInvalidCharacters strips '.', ',', ':', ';', '/', '\' and '-' from
// both ends of text.
func TrimInvalidCharacters(text string) string {
	return strings.Trim(text, invalidEdgeCharacters)
}

var defaultClassifier = NewClassifier()

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
