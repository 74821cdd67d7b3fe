// Package log is a thin wrapper around go.vocdoni.io/dvote/log, giving every
// actor (collector session, mediator session, orchestrator call) a single
// place to log structured state transitions, protocol violations and crypto
// failures without every package importing the upstream logger directly.
package log

import (
	"io"

	dvotelog "go.vocdoni.io/dvote/log"
)

// Log levels, re-exported so callers don't need to import the upstream
// package just to call Init.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Init configures the global logger. output is "stdout", "stderr", or a
// file path; panicWriter, when non-nil, additionally receives Panic-level
// output.
func Init(level, output string, panicWriter io.Writer) error {
	return dvotelog.Init(level, output, panicWriter)
}

// Level returns the currently configured log level.
func Level() string {
	return dvotelog.Level().String()
}

func Infow(msg string, keysAndValues ...interface{})  { dvotelog.Infow(msg, keysAndValues...) }
func Debugw(msg string, keysAndValues ...interface{}) { dvotelog.Debugw(msg, keysAndValues...) }
func Warnw(msg string, keysAndValues ...interface{})  { dvotelog.Warnw(msg, keysAndValues...) }
func Errorw(msg string, keysAndValues ...interface{}) { dvotelog.Errorw(msg, keysAndValues...) }

func Infof(template string, args ...interface{})  { dvotelog.Infof(template, args...) }
func Debugf(template string, args ...interface{}) { dvotelog.Debugf(template, args...) }
func Warnf(template string, args ...interface{})  { dvotelog.Warnf(template, args...) }
func Errorf(template string, args ...interface{}) { dvotelog.Errorf(template, args...) }
func Fatalf(template string, args ...interface{}) { dvotelog.Fatalf(template, args...) }

func Warn(args ...interface{})  { dvotelog.Warn(args...) }
func Error(args ...interface{}) { dvotelog.Error(args...) }
func Info(args ...interface{})  { dvotelog.Info(args...) }
func Debug(args ...interface{}) { dvotelog.Debug(args...) }
