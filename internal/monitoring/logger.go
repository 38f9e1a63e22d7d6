// Package monitoring holds the process-wide diagnostic logger.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// RunLogf returns a logger that tags every line with a short run ID. The
// returned function resolves Logf on each call, so a later SetLogger still
// applies.
func RunLogf(runID string) func(format string, v ...interface{}) {
	tag := runID
	if len(tag) > 8 {
		tag = tag[:8]
	}
	return func(format string, v ...interface{}) {
		Logf("[run "+tag+"] "+format, v...)
	}
}
