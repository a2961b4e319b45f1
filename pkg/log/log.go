// Package log provides the process-wide structured logger used by fresheyes.
//
// Call sites log with key/value pairs:
//
//	log.Info("forked repository", "owner", fork.Owner, "repo", fork.Repo)
//
// The logger is backed by zap. Setup replaces the default console logger
// with one honoring the configured level and format.
package log

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported logging granularities.
type Level string

// Format enumerates supported output encodings.
type Format string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"

	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

var levelMapping = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var formatEncoding = map[Format]string{
	FormatConsole: "console",
	FormatJSON:    "json",
}

var current atomic.Pointer[zap.SugaredLogger]

func init() {
	logger, err := New(LevelInfo, FormatConsole)
	if err != nil {
		logger = zap.NewNop()
	}
	current.Store(logger.Sugar())
}

// ParseLevel validates a textual level. An empty string means info.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelInfo, nil
	}
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelMapping[level]; !ok {
		return "", fmt.Errorf("unsupported log level: %s", s)
	}
	return level, nil
}

// ParseFormat validates a textual format. An empty string means console.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatConsole, nil
	}
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := formatEncoding[format]; !ok {
		return "", fmt.Errorf("unsupported log format: %s", s)
	}
	return format, nil
}

// New builds a zap.Logger writing to stderr.
func New(level Level, format Format, opts ...zap.Option) (*zap.Logger, error) {
	zapLevel, ok := levelMapping[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	encoding, ok := formatEncoding[format]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = encoding
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == FormatConsole {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.DisableStacktrace = true
	}

	return cfg.Build(opts...)
}

// Setup parses level and format and installs the resulting logger globally.
func Setup(level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	fmtv, err := ParseFormat(format)
	if err != nil {
		return err
	}
	logger, err := New(lvl, fmtv)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the global logger. A nil logger installs a no-op logger.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	current.Store(logger.Sugar())
}

// L returns the global sugared logger.
func L() *zap.SugaredLogger {
	return current.Load()
}

// Sync flushes buffered log entries.
func Sync() error {
	return L().Sync()
}

func Debug(msg string, keysAndValues ...interface{}) {
	L().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	L().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	L().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	L().Errorw(msg, keysAndValues...)
}
