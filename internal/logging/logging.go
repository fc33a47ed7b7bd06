// Package logging provides the small warn/error logging surface used by the
// codec and dispatch engine: a thin call-through to the standard log
// package, with a package variable so tests can capture or silence output.
package logging

import "log"

// Logger is the minimal interface the core depends on.
type Logger interface {
	Printf(format string, v ...any)
}

// std adapts the standard library's log package to Logger.
type std struct{}

func (std) Printf(format string, v ...any) { log.Printf(format, v...) }

// Default is used by Warnf/Errorf unless replaced (e.g. in tests, or by an
// application that wants its own logger wired in).
var Default Logger = std{}

// Warnf logs a warning-level message, e.g. an unknown opcode or a decode
// failure that causes a request to be dropped.
func Warnf(format string, v ...any) {
	Default.Printf("warn: "+format, v...)
}

// Errorf logs an error-level message, e.g. an encoder failure that is fatal
// to a single reply but not to the mount.
func Errorf(format string, v ...any) {
	Default.Printf("error: "+format, v...)
}
