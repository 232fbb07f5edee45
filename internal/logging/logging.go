// Package logging provides the leveled structured logger shared by the
// family-drop packages. Entries carry a message plus a flat field map; the
// output is JSON in production and a console layout during development.
package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a Logger.
type Options struct {
	Level  string // debug, info, warn, error (default info)
	Format string // json or text (default text)
	Output zapcore.WriteSyncer
}

// Logger wraps a zap logger with the field-map API used by the handlers.
type Logger struct {
	z     *zap.Logger
	level zap.AtomicLevel
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

func init() {
	l, err := New(Options{
		Level:  os.Getenv("FD_LOG_LEVEL"),
		Format: os.Getenv("FD_LOG_FORMAT"),
	})
	if err != nil {
		l, _ = New(Options{})
	}
	defaultLogger = l
}

// ParseLevel maps a configuration string to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(s)
}

// New builds a Logger from options.
func New(opts Options) (*Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	out := opts.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "json":
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "time"
		cfg.MessageKey = "msg"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	case "", "text":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	atom := zap.NewAtomicLevelAt(lvl)
	core := zapcore.NewCore(enc, out, atom)
	return &Logger{
		z:     zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)),
		level: atom,
	}, nil
}

// NewWithCore wraps an existing zap core. Level filtering is left to the core.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{
		z:     zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)),
		level: zap.NewAtomicLevelAt(zapcore.DebugLevel),
	}
}

// Init replaces the process-wide logger.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	SetDefault(l)
	return nil
}

// SetDefault installs l as the process-wide logger.
func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Default returns the process-wide logger.
func Default() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) log(lvl zapcore.Level, msg string, fields map[string]any, err error) {
	ce := l.z.Check(lvl, msg)
	if ce == nil {
		return
	}
	ce.Write(toZapFields(fields, err)...)
}

// toZapFields converts a field map into zap fields in key order so that
// console output is stable between runs.
func toZapFields(fields map[string]any, err error) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	return out
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]any) {
	l.log(zapcore.DebugLevel, msg, fields, nil)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]any) {
	l.log(zapcore.InfoLevel, msg, fields, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.log(zapcore.WarnLevel, msg, fields, nil)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]any, err error) {
	l.log(zapcore.ErrorLevel, msg, fields, err)
}

// Global logging functions

// Debug logs a debug message
func Debug(msg string, fields map[string]any) {
	Default().log(zapcore.DebugLevel, msg, fields, nil)
}

// Info logs an info message
func Info(msg string, fields map[string]any) {
	Default().log(zapcore.InfoLevel, msg, fields, nil)
}

// Warn logs a warning message
func Warn(msg string, fields map[string]any) {
	Default().log(zapcore.WarnLevel, msg, fields, nil)
}

// Error logs an error message
func Error(msg string, fields map[string]any, err error) {
	Default().log(zapcore.ErrorLevel, msg, fields, err)
}

// MaskSecret hides all but the first and last four characters of a secret.
// Values shorter than eight characters are fully masked.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) < 8 {
		return "***"
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
