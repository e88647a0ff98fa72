// Package logger configures the process-wide zerolog logger: a console or JSON
// writer on stdout and an optional size-rotated log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level      string
	JSON       bool
	OutputFile string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the logger described by cfg and installs it as the global zerolog logger.
// The returned closer flushes and closes the log file, if any.
func Setup(cfg Config, stdout io.Writer) (io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}

	if stdout == nil {
		stdout = os.Stdout
	}

	var console io.Writer = stdout
	if !cfg.JSON {
		console = zerolog.ConsoleWriter{
			Out:        stdout,
			TimeFormat: "2006-01-02 15:04:05.000",
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("%-5s", i))
			},
			FormatFieldName: func(i interface{}) string {
				return fmt.Sprintf("%s=", i)
			},
		}
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.OutputFile,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		}
		writers = append(writers, file)
		closer = file
	}

	var w io.Writer = writers[0]
	if len(writers) > 1 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
	return closer, nil
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogPanic records a recovered panic together with the current stack.
func LogPanic(recovered interface{}) {
	log.Error().
		Interface("panic", recovered).
		Str("stack", string(debug.Stack())).
		Msg("Recovered from panic")
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
