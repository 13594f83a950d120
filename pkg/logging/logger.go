package logging

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/niels/simple-webserver/pkg/config"
	"github.com/rs/zerolog"
)

// Process-wide logger used by the package helpers
var globalLogger = NewLogger(false, os.Stderr)

// InitGlobalLogger routes the global logger to stderr, or to a rotating log
// file when the configuration asks for one. Debug mode with file logging
// writes to both.
func InitGlobalLogger(debug bool, cfg *config.Config) {
	var output io.Writer = os.Stderr

	if cfg != nil && cfg.Logging.LogToFile {
		file := newFileWriter(cfg.Logging)
		if debug {
			output = io.MultiWriter(file, os.Stderr)
		} else {
			output = file
			stderrLogger := NewLogger(false, os.Stderr)
			stderrLogger.Info().
				Str("path", cfg.Logging.LogFilePath).
				Msg("Logging to file only")
		}
	}

	globalLogger = NewLogger(debug, output)
}

func newFileWriter(cfg config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	}
}

// NewLogger creates a JSON logger writing to output. The level is carried by
// the returned logger, so building one never changes another logger.
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLogger replaces the global logger
func SetLogger(logger zerolog.Logger) {
	globalLogger = logger
}

// Debug logs a message at debug level
func Debug(msg string) {
	globalLogger.Debug().Msg(msg)
}

// Info logs a message at info level
func Info(msg string) {
	globalLogger.Info().Msg(msg)
}

// InfoWith logs msg at info level with the given fields attached
func InfoWith(msg string, fields map[string]interface{}) {
	withFields(globalLogger.Info(), fields).Msg(msg)
}

// ErrorWith logs msg at error level with the given fields attached
func ErrorWith(msg string, fields map[string]interface{}) {
	withFields(globalLogger.Error(), fields).Msg(msg)
}

// WithComponent returns a sub-logger tagged with component
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

func withFields(event *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	for k, v := range fields {
		event = addField(event, k, v)
	}
	return event
}

// addField adds a field to the log event based on its type
func addField(event *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return event.Str(key, v)
	case int:
		return event.Int(key, v)
	case int64:
		return event.Int64(key, v)
	case bool:
		return event.Bool(key, v)
	case time.Duration:
		return event.Dur(key, v)
	case error:
		return event.AnErr(key, v)
	default:
		return event.Interface(key, v)
	}
}
