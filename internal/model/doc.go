// Package model defines the core data structures used throughout wikiwalk.
//
// This package contains the following main types:
//   - Article: A Wikipedia article identified by its heading
//   - Paragraph: A body-text block of the current article
//   - Link: An anchor inside a paragraph
//   - Run: The record of one "Getting to Philosophy" attempt
//   - Outcome: How a run ended
//
// The types are shared by the traversal, the page drivers, the history
// database and the report writers, so they live in their own package to
// avoid import cycles. Run and Article are serializable to JSON.
package model
