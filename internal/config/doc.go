// Package config provides configuration structures and utilities for wikiwalk.
// It defines the traversal limits, page driver settings and report
// preferences, and loads overrides from a YAML .wikiwalk file.
package config
