// Package logging configures logrus for the service.
package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to stdout. Unknown levels fall back to info.
func New(level string) *log.Logger {
	l := log.New()
	configure(l, os.Stdout, level)
	return l
}

// Configure applies the same settings to the standard logger used by the helpers below.
func Configure(level string) {
	configure(log.StandardLogger(), os.Stdout, level)
}

func configure(l *log.Logger, out io.Writer, level string) {
	l.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	l.SetOutput(out)
	l.SetLevel(ParseLevel(level))
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Info logs a message at info level with optional fields
func Info(message string, fields map[string]any) {
	log.WithFields(fields).Info(message)
}

// Warn logs a message at warning level with optional fields
func Warn(message string, fields map[string]any) {
	log.WithFields(fields).Warn(message)
}

// Error logs a message at error level with optional fields
func Error(message string, fields map[string]any) {
	log.WithFields(fields).Error(message)
}
