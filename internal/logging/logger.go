package logging

import (
	"io"
	"log"
	"os"
)

// Logger is a minimal level-gated wrapper around the standard library
// logger, shared as a package-level global the way the rest of this
// module's small ambient packages are.
type Logger struct {
	debugEnabled bool
	infoLogger   *log.Logger
	debugLogger  *log.Logger
}

var globalLogger *Logger

// Initialize must run before any Info/Debug/Error call (cmd/zoektexec does
// this via cobra.OnInitialize). Output always goes to stderr: zoektexec
// serve speaks MCP over stdio, so stdout is reserved for protocol frames.
func Initialize(debugMode bool) {
	var output io.Writer = os.Stderr

	globalLogger = &Logger{
		debugEnabled: debugMode,
		infoLogger:   log.New(output, "", log.LstdFlags),
		debugLogger:  log.New(output, "", log.LstdFlags),
	}
}

// Info always logs, regardless of debug mode.
func Info(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.infoLogger.Printf(format, args...)
	}
}

// Debug logs only when Initialize was called with debugMode true.
func Debug(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.debugEnabled {
		globalLogger.debugLogger.Printf("DEBUG: "+format, args...)
	}
}

// Error always logs, regardless of debug mode.
func Error(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.infoLogger.Printf("ERROR: "+format, args...)
	}
}

// IsDebugEnabled reports whether Debug calls currently produce output.
func IsDebugEnabled() bool {
	return globalLogger != nil && globalLogger.debugEnabled
}
