// Package logging defines the structured logging contract used across the
// catalogue. Components depend on the Logger interface and receive an
// instance through their constructors; the zap dependency never escapes this
// package, so tests can substitute NewNopLogger and the backend can change
// without touching callers.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is one typed key-value pair on a log entry. A concrete struct keeps
// call sites explicit and lets the zap adapter pick the matching typed
// encoder without reflection.
type Field struct {
	Key   string
	Value interface{}
}

// String builds a string-valued Field.
func String(key, val string) Field { return Field{Key: key, Value: val} }

// Int builds an int-valued Field.
func Int(key string, val int) Field { return Field{Key: key, Value: val} }

// Int64 builds an int64-valued Field.
func Int64(key string, val int64) Field { return Field{Key: key, Value: val} }

// Float64 builds a float64-valued Field.
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }

// Bool builds a bool-valued Field.
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

// Duration builds a time.Duration-valued Field.
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

// Err puts an error under the canonical "error" key. A nil error renders as
// the string "<nil>" rather than being dropped, so a mistaken Err(nil) stays
// visible in the output.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any builds a Field from an arbitrary value. Prefer the typed constructors;
// Any falls back to reflection-based encoding.
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }

// Logger is the logging contract every component programs against.
type Logger interface {
	// Debug records high-volume diagnostic detail, normally disabled in
	// production by raising the level to info.
	Debug(msg string, fields ...Field)

	// Info records routine operational events.
	Info(msg string, fields ...Field)

	// Warn records recoverable anomalies worth investigating.
	Warn(msg string, fields ...Field)

	// Error records failures scoped to one request, job, or operation.
	Error(msg string, fields ...Field)

	// Fatal records the message and terminates the process. Startup wiring
	// only; never from a request or job path.
	Fatal(msg string, fields ...Field)

	// With returns a child Logger carrying the given fields on every entry.
	// The receiver is unchanged.
	With(fields ...Field) Logger

	// Named returns a child Logger with name appended to the dotted logger
	// name, e.g. "apiserver" then "apiserver.http".
	Named(name string) Logger
}

// LogConfig holds the parameters for building a Logger. The zero value is
// usable: NewLogger fills in info level, JSON encoding, and stdout/stderr.
type LogConfig struct {
	// Level is the minimum severity to emit: "debug", "info", "warn" or
	// "error" (case-insensitive). Unknown values fall back to "info".
	Level string `yaml:"level" json:"level"`

	// Format picks the encoding. "json" suits aggregation pipelines;
	// "console" and "text" give human-readable output for development.
	Format string `yaml:"format" json:"format"`

	// OutputPaths lists sinks for log entries. "stdout" and "stderr" are
	// recognised; anything else is treated as a file path.
	OutputPaths []string `yaml:"output_paths" json:"output_paths"`

	// ErrorOutputPaths lists sinks for the logger's own internal errors.
	ErrorOutputPaths []string `yaml:"error_output_paths" json:"error_output_paths"`
}

// zapLogger adapts a *zap.Logger to the Logger interface. Fields are
// translated per call; zap pools the resulting zap.Field values internally.
type zapLogger struct {
	z *zap.Logger
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case float64:
			out = append(out, zap.Float64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, toZapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger builds a zap-backed Logger from cfg, applying defaults for any
// unset field. It fails only when zap cannot open an output sink.
func NewLogger(cfg LogConfig) (Logger, error) {
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stdout"}
	}
	if len(cfg.ErrorOutputPaths) == 0 {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	// "text" is the name the config file uses for the console encoding.
	console := cfg.Format == "console" || cfg.Format == "text"

	var encCfg zapcore.EncoderConfig
	encoding := "json"
	if console {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	} else {
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      console,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &zapLogger{z: z}, nil
}

// NewLoggerFromCore wraps an existing zapcore.Core. Used by tests that
// capture output through an observed or buffered core.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)  {}
func (nopLogger) Info(string, ...Field)   {}
func (nopLogger) Warn(string, ...Field)   {}
func (nopLogger) Error(string, ...Field)  {}
func (nopLogger) Fatal(string, ...Field)  {}
func (n nopLogger) With(...Field) Logger  { return n }
func (n nopLogger) Named(string) Logger   { return n }

// NewNopLogger returns a Logger that discards everything, including Fatal.
// Intended for unit tests and optional components that run without logging.
func NewNopLogger() Logger { return nopLogger{} }

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault installs the process-wide fallback Logger. Call once during
// startup, before goroutines that read Default are running. A nil argument
// is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide fallback Logger. Constructor injection is
// preferred; Default exists for code with no injection point.
func Default() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	return l
}

//Personal.AI order the ending
