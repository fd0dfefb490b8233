package obs

import (
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a minimal logging interface for observability.
type Logger interface {
	Logf(level Level, format string, args ...interface{})
}

// FieldLogger is a Logger that can carry structured key/value context.
type FieldLogger interface {
	Logger
	With(key, value string) Logger
}

// With returns l annotated with key=value when l supports fields, and l
// unchanged otherwise.
func With(l Logger, key, value string) Logger {
	if fl, ok := l.(FieldLogger); ok {
		return fl.With(key, value)
	}
	return l
}

// NopLogger discards all logs.
type NopLogger struct{}

func (NopLogger) Logf(level Level, format string, args ...interface{}) {}

// ZeroLogger adapts a zerolog.Logger.
type ZeroLogger struct {
	L zerolog.Logger
}

func (z ZeroLogger) Logf(level Level, format string, args ...interface{}) {
	z.L.WithLevel(level.toZerolog()).Msgf(format, args...)
}

func (z ZeroLogger) With(key, value string) Logger {
	return ZeroLogger{L: z.L.With().Str(key, value).Logger()}
}

func (l Level) toZerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

// ParseLevel maps a config value such as "debug" or "WARN" to a Level.
func ParseLevel(s string) (Level, bool) {
	zl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return Info, false
	}
	switch zl {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return Debug, true
	case zerolog.InfoLevel:
		return Info, true
	case zerolog.WarnLevel:
		return Warn, true
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return Error, true
	default:
		return Info, false
	}
}

// ZerologLevel converts l for use with zerolog.Logger.Level.
func ZerologLevel(l Level) zerolog.Level {
	return l.toZerolog()
}
