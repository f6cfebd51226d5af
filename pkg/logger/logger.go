// Package logger holds the process logger. Request results go to stdout, so
// log lines are written to stderr and stay quiet unless asked for.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultLevel is the level used until Configure is called.
const DefaultLevel = logrus.WarnLevel

var (
	// G returns the logger carried by a context.
	G = GetLogger
	// L is the process logger.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

// WithLogger stores entry in ctx.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// GetLogger returns the entry stored in ctx, or L bound to ctx.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L.WithContext(ctx)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(DefaultLevel)
	l.Formatter = formatter("text")
	return l
}

func formatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	}
	return &logrus.TextFormatter{
		TimestampFormat: time.RFC3339Nano,
		FullTimestamp:   true,
	}
}

// Configure sets the level and format of L. An empty level keeps the current one.
func Configure(level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", level)
		}
		L.Logger.SetLevel(lvl)
	}
	L.Logger.Formatter = formatter(format)
	return nil
}

// SetOutput redirects L.
func SetOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}
