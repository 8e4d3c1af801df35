package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided level and format.
// The first call initializes the logger; subsequent calls ignore the arguments
// and return the already initialized instance.
func Get(level, format string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, format)
	})
	return globalLogger
}

// Nop returns a logger that discards everything; handy in tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With returns a child logger that adds kv to every entry.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(kv...)}
}
