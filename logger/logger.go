package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Logger is the logging surface the HBase wrapper writes to.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
}

type logger struct {
	zl zerolog.Logger
}

// New wraps an existing zerolog logger.
func New(zl zerolog.Logger) *logger {
	return &logger{zl: zl}
}

// NewStdLogger output log to command line
func NewStdLogger() *logger {
	return NewWriterLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"})
}

// NewWriterLogger writes JSON lines to w.
func NewWriterLogger(w io.Writer) *logger {
	return &logger{
		zl: zerolog.New(w).With().Timestamp().Str("component", "hbaseutils").Logger().Level(zerolog.InfoLevel),
	}
}

// NewFileLogger appends JSON log lines to the file at filePath.
func NewFileLogger(filePath string) (*logger, error) {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("fail to open log file %s: %w", filePath, err)
	}
	return NewWriterLogger(f), nil
}

// Nop discards everything.
func Nop() *logger {
	return &logger{zl: zerolog.Nop()}
}

// ParseLevel accepts debug, info, warn, error and fatal. Empty means info.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l *logger) SetLevel(lvl LogLevel) {
	l.zl = l.zl.Level(lvl.zerolog())
}

func (lvl LogLevel) zerolog() zerolog.Level {
	switch lvl {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFatal:
		return zerolog.FatalLevel
	}
	return zerolog.InfoLevel
}

func (l *logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *logger) Errorf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatalf logs at fatal level without exiting; the caller decides what to do next.
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.zl.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
}
