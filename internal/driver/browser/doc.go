// Package browser implements a page driver that controls a real browser
// through playwright-go.
//
// Chromium and Firefox are supported. The driver reads the page the same
// way a human player sees it: paragraph text comes from innerText and link
// targets from the anchor's resolved href property.
//
// Starting a Driver downloads the playwright driver and browser binaries on
// first use when installation is enabled.
package browser
