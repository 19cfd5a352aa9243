// Package log defines mvnresolve's logger interface. By default it writes
// to the standard library logger, but callers embedding the resolver can
// install their own via SetLogger.
package log

import "log"

// Logger is the logging interface used throughout mvnresolve.
type Logger interface {
	Errorf(format string, args ...any)
	Error(args ...any)
	Warnf(format string, args ...any)
	Warn(args ...any)
	Infof(format string, args ...any)
	Info(args ...any)
	Debugf(format string, args ...any)
	Debug(args ...any)
}

var logger Logger = &DefaultLogger{}

// SetLogger overwrites the default logger with a user-specified one.
func SetLogger(l Logger) { logger = l }

// Errorf is the static formatted error logging function.
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }

// Warnf is the static formatted warning logging function.
func Warnf(format string, args ...any) { logger.Warnf(format, args...) }

// Infof is the static formatted info logging function.
func Infof(format string, args ...any) { logger.Infof(format, args...) }

// Debugf is the static formatted debug logging function.
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }

// Error is the static error logging function.
func Error(args ...any) { logger.Error(args...) }

// Warn is the static warning logging function.
func Warn(args ...any) { logger.Warn(args...) }

// Info is the static info logging function.
func Info(args ...any) { logger.Info(args...) }

// Debug is the static debug logging function.
func Debug(args ...any) { logger.Debug(args...) }

// DefaultLogger is the Logger implementation used unless SetLogger is called.
// Debug lines are suppressed unless Verbose is set, matching the CLI's
// -verbose flag.
type DefaultLogger struct {
	Verbose bool
}

func (d *DefaultLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }
func (d *DefaultLogger) Warnf(format string, args ...any)  { log.Printf("WARN  "+format, args...) }
func (d *DefaultLogger) Infof(format string, args ...any)  { log.Printf("INFO  "+format, args...) }
func (d *DefaultLogger) Debugf(format string, args ...any) {
	if d.Verbose {
		log.Printf("DEBUG "+format, args...)
	}
}

func (d *DefaultLogger) Error(args ...any) { log.Print(append([]any{"ERROR "}, args...)...) }
func (d *DefaultLogger) Warn(args ...any)  { log.Print(append([]any{"WARN  "}, args...)...) }
func (d *DefaultLogger) Info(args ...any)  { log.Print(append([]any{"INFO  "}, args...)...) }
func (d *DefaultLogger) Debug(args ...any) {
	if d.Verbose {
		log.Print(append([]any{"DEBUG "}, args...)...)
	}
}
