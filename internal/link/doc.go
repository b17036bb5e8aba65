// Package link decides whether an anchor inside a Wikipedia article counts
// as the "first link" under the rules of the Getting to Philosophy game.
//
// # Rules
//
// A link qualifies unless one of the following exclusions fires. They are
// evaluated in this order and the first match is reported by Classify:
//
//   - Same-page: the href points back to the current article
//   - External: the href leaves the Wikipedia origin
//   - Red link: the href targets an article that does not exist
//   - Pronunciation: the href targets a Help:IPA page
//   - Audio: the href targets an .ogg recording
//   - Parenthesized: the link text sits inside parentheses in its paragraph
//
// The Classifier holds no per-page state and is safe for concurrent use.
//
// # Usage
//
//	c := link.NewClassifier()
//	if c.Qualifies(paragraph.Text, href, l.Text, drv.CurrentURL()) {
//	    // follow href
//	}
package link
