package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type implLogger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// New creates a Logger writing to stdout. Format "json" emits JSON lines,
// anything else uses the human readable console writer.
func New(level, format string) Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level, format string) Logger {
	lvl := parseLevel(level)

	out := w
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: true}
	}

	zl := zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("service", "podcast-digest").
		Logger()

	return &implLogger{logger: zl, level: lvl}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop(), level: zerolog.Disabled}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *implLogger) shouldLog(level zerolog.Level) bool {
	return level >= l.level
}

func (l *implLogger) With(component string) Logger {
	return &implLogger{
		logger: l.logger.With().Str("component", component).Logger(),
		level:  l.level,
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, zerolog.DebugLevel).Msgf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, zerolog.InfoLevel).Msgf(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, zerolog.WarnLevel).Msgf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, zerolog.ErrorLevel).Msgf(msg, args...)
}

func (l *implLogger) event(ctx context.Context, level zerolog.Level) *zerolog.Event {
	if !l.shouldLog(level) {
		return nil
	}
	ev := l.logger.WithLevel(level)
	if ev == nil {
		return nil
	}
	if runID, ok := RunIDFromContext(ctx); ok {
		ev = ev.Str("run_id", runID)
	}
	return ev
}
