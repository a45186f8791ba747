package logutils

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log *Logger

// Logger wraps a logrus entry so call sites can chain fields
// without importing logrus everywhere.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

func InitLogger(level string) {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	base.SetLevel(parsed)
	Log = &Logger{base: base, entry: logrus.NewEntry(base)}
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'", level)
	}
	Log.Debugf("Log level set to %s", parsed)
}

// SetOutput redirects all log output, primarily for tests.
func SetOutput(w io.Writer) {
	if Log != nil {
		Log.base.SetOutput(w)
	}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithError(err)}
}

func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithField(key, value)}
}

func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) Debug(message string) {
	l.entry.Debug(message)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *Logger) Info(message string) {
	l.entry.Info(message)
}

func (l *Logger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(message string) {
	l.entry.Warn(message)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(message string) {
	l.entry.Error(message)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *Logger) Fatal(format string, args ...any) {
	l.entry.Fatalf(format, args...)
}
