// Package logger provides structured logging for riskrag.
//
// Messages take a text plus alternating key/value pairs and are written to
// stderr through zap. Without --verbose only warnings and errors are shown;
// verbose mode adds info and debug output, timestamps and section headers.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	sugar             = build(os.Stderr, false)
)

func build(w io.Writer, v bool) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	}
	if v {
		level = zapcore.DebugLevel
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Sugar()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	sugar = build(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sugar = build(output, verbose)
}

// Debug logs a message at debug level. Shown only in verbose mode.
func Debug(msg string, keysAndValues ...any) {
	current().Debugw(msg, sanitize(keysAndValues)...)
}

// Info logs a message at info level. Shown only in verbose mode.
func Info(msg string, keysAndValues ...any) {
	current().Infow(msg, sanitize(keysAndValues)...)
}

// Warn logs a message at warn level.
func Warn(msg string, keysAndValues ...any) {
	current().Warnw(msg, sanitize(keysAndValues)...)
}

// Error logs a message at error level.
func Error(msg string, keysAndValues ...any) {
	current().Errorw(msg, sanitize(keysAndValues)...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current().Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// sanitize masks values whose key names a credential.
func sanitize(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		if isSecretKey(strings.ToLower(key)) {
			out[i+1] = "[REDACTED]"
		}
	}
	return out
}

func isSecretKey(key string) bool {
	for _, marker := range []string{"api_key", "apikey", "token", "secret", "password"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}
