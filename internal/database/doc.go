// Package database provides SQLite-based storage for wikiwalk run history.
//
// RunDB stores every finished run together with the ordered list of
// articles it visited, so runs can be listed, inspected and summarized
// later with the history command.
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, so the
// binary cross-compiles without a C toolchain. WAL mode is enabled by
// default.
package database
