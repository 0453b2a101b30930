// Package log wires structured logging for the gulc driver and its passes,
// using go.uber.org/zap (grounded on the teradata-labs/loom and
// Consensys/go-corset manifests in the example pack, both of which wire zap
// as the structured-logging layer for a compiler/agent-style driver).
//
// There is no prior logging package to adapt; this is ambient stack carried
// for observability even where the compiled-feature scope is narrow.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.SugaredLogger with the pass-entry/exit conventions used
// throughout gulc.
type Logger struct {
	*zap.SugaredLogger
}

// NewDev returns a Logger configured for local development: console
// encoding, colorized level names, Debug level enabled.
func NewDev() *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{l.Sugar()}
}

// NewProd returns a Logger configured for non-interactive use: JSON
// encoding, Info level.
func NewProd() *Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return &Logger{l.Sugar()}
}

// Nop returns a Logger that discards everything, used by package tests that
// don't want log noise.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// PassEnter logs Debug-level entry into a pass for one file, matching the
// "every pass logs at Debug on entry/exit with the file and pass name"
// ambient-stack requirement.
func (l *Logger) PassEnter(pass, file string) {
	l.Debugw("pass enter", "pass", pass, "file", file)
}

// PassExit logs Debug-level exit from a pass for one file.
func (l *Logger) PassExit(pass, file string, errCount int) {
	l.Debugw("pass exit", "pass", pass, "file", file, "errors", errCount)
}

// Recoverable logs a Warn-level diagnostic that did not abort the session.
func (l *Logger) Recoverable(pass, message string) {
	l.Warnw(message, "pass", pass)
}
