// Package logger builds the zerolog loggers handed to the library packages.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level      string    `yaml:"level"` // debug, info, warn, error, disabled
	Pretty     bool      `yaml:"pretty"`
	Output     io.Writer `yaml:"-"`
	WithCaller bool      `yaml:"with_caller"`
}

// Logger wraps zerolog with per-component children.
type Logger struct {
	zlog zerolog.Logger
}

// ParseLevel maps a config level to zerolog; unknown levels are info.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}

// New creates a logger. The level applies to this logger only, not to the
// zerolog global level.
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "nlgkit").
		Logger()
	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}
	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Zerolog returns the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// LogTemplatize records one templatize call.
func (l *Logger) LogTemplatize(text string, variables int, duration time.Duration, err error) {
	event := l.zlog.Info()
	if err != nil {
		event = l.zlog.Error().Err(err)
	}
	event.Str("component", "conductor").
		Str("text", text).
		Int("variables", variables).
		Dur("duration_ms", duration).
		Msg("templatize completed")
}

// LogStoreOperation records one store call.
func (l *Logger) LogStoreOperation(operation, id string, duration time.Duration, err error) {
	event := l.zlog.Debug()
	if err != nil {
		event = l.zlog.Error().Err(err)
	}
	event.Str("component", "store").
		Str("operation", operation).
		Str("id", id).
		Dur("duration_ms", duration).
		Msg("store operation completed")
}
