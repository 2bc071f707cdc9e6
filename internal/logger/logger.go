// Package logger provides verbose logging for the jobtrack CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow what a sync is doing.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(always bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || always {
		fmt.Fprintf(output, level+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(false, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(false, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write(false, "[WARN] ", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	write(true, "[ERROR] ", format, args...)
}

// Logger prefixes every message with a component name.
type Logger struct {
	name string
}

// Named returns a logger whose messages start with "name: ".
func Named(name string) Logger {
	return Logger{name: name}
}

// Debug prints a message if verbose mode is enabled.
func (l Logger) Debug(format string, args ...any) {
	Debug(l.name+": "+format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (l Logger) Info(format string, args ...any) {
	Info(l.name+": "+format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func (l Logger) Warn(format string, args ...any) {
	Warn(l.name+": "+format, args...)
}

// Error prints an error message regardless of verbose mode.
func (l Logger) Error(format string, args ...any) {
	Error(l.name+": "+format, args...)
}
