package log

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a JSON zerolog logger writing to w at the given
// minimum level. Pass zerolog.ConsoleWriter{Out: os.Stderr} for human output.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	return &ZerologLogger{
		logger: zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger(),
	}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.logger.Debug().Fields(fields).Msg(msg)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.logger.Info().Fields(fields).Msg(msg)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.logger.Warn().Fields(fields).Msg(msg)
}

// Error implements Logger.Error. A leading error field is attached with Err
// and, when it carries structured details, embedded as an object.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	ev := z.logger.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			var m zerolog.LogObjectMarshaler
			if errors.As(err, &m) {
				ev = ev.EmbedObject(m)
			}
			fields = fields[1:]
		}
	}
	ev.Fields(fields).Msg(msg)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{logger: z.logger.With().Fields(fields).Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.logger.GetLevel() <= toZerologLevel(level)
}

// InstallWarnings routes errors.Warn through this logger as structured
// warn-level events.
func (z *ZerologLogger) InstallWarnings() {
	errors.SetZerologWarnFunc(func(w error) {
		ev := z.logger.Warn()
		var m zerolog.LogObjectMarshaler
		if errors.As(w, &m) {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
