// Package utils carries the one ambient concern the teacher keeps
// outside its dedicated packages: a small stderr logger. The teacher has
// no logging framework of its own (cmd/funxy/main.go and
// pkg/cli/entry.go log straight through fmt/os.Stderr); this keeps that
// exact ambient style rather than reaching for a third-party logging
// library none of the retrieved pack's teacher-adjacent code actually
// uses.
package utils

import (
	"fmt"
	"os"
	"sync"
)

// Logger writes verbosity-gated lines to an *os.File (os.Stderr in
// normal operation). Info lines are gated behind Verbose; Error lines
// always print.
type Logger struct {
	mu      sync.Mutex
	out     *os.File
	Verbose bool
}

// NewLogger builds a Logger writing to out.
func NewLogger(out *os.File, verbose bool) *Logger {
	return &Logger{out: out, Verbose: verbose}
}

// Stderr is the package-level logger most callers use, writing to
// os.Stderr; cli.Run sets its Verbose field from the parsed options
// before analysis starts.
var Stderr = NewLogger(os.Stderr, false)

// Infof prints a verbosity-gated informational line, prefixed the same
// way the teacher's own startup/debug prints are ("cppgo: ...").
func (l *Logger) Infof(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	l.printf("cppgo", format, args...)
}

// Errorf always prints, regardless of verbosity.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf("cppgo: error", format, args...)
}

func (l *Logger) printf(prefix, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s: %s\n", prefix, fmt.Sprintf(format, args...))
}
