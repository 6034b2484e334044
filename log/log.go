// Package log wraps log15, the structured logger go-ethereum's own log
// package historically forked from (SPEC_FULL.md §10, ambient stack).
package log

import "github.com/inconshreveable/log15"

// Logger is a structured logger with bound context.
type Logger = log15.Logger

var root = log15.New()

// Root returns the package-wide root logger.
func Root() Logger { return root }

// New returns a child logger with ctx (alternating key/value pairs)
// bound, e.g. New("component", "core").
func New(ctx ...interface{}) Logger {
	return root.New(ctx...)
}

// SetHandler replaces the root logger's output handler, e.g. for tests
// that want to capture or silence log output.
func SetHandler(h log15.Handler) {
	root.SetHandler(h)
}
