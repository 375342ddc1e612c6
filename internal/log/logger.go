// Package log provides structured logging for the runtime core using zap.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with runtime-event helpers.
type Logger struct {
	*zap.Logger
	onEvent func(kind, detail string) // optional event callback, see SetOnEvent
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	// Shorter timestamps in development
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fallback to no-op if config fails
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// SetOnEvent sets the event callback, invoked alongside every structured
// log line below so a live consumer can subscribe without parsing log
// output.
func (l *Logger) SetOnEvent(fn func(kind, detail string)) {
	l.onEvent = fn
}

func (l *Logger) emit(kind, detail string) {
	if l.onEvent != nil {
		l.onEvent(kind, detail)
	}
}

// Trap logs a recovered trap: its kind, the address or index involved, and
// the Instance it occurred in.
func (l *Logger) Trap(instanceID string, kind string, detail string) {
	l.emit("trap", kind)
	l.Warn("trap",
		zap.String("instance", instanceID),
		zap.String("kind", kind),
		zap.String("detail", detail),
	)
}

// MemoryAccess logs a checked memory access at debug level: the opcode
// name, address, and width.
func (l *Logger) MemoryAccess(op string, addr uint64, width int) {
	l.emit("memory", op)
	l.Debug("memory",
		zap.String("op", op),
		Addr(addr),
		zap.Int("width", width),
	)
}

// TableOp logs a table mutation (fill/copy/init) at debug level.
func (l *Logger) TableOp(op string, dst, src, n uint64) {
	l.emit("table", op)
	l.Debug("table",
		zap.String("op", op),
		zap.Uint64("dst", dst),
		zap.Uint64("src", src),
		zap.Uint64("n", n),
	)
}

// Segue logs a segmented-memory fast-path arm/disarm decision.
func (l *Logger) Segue(armed bool, reason string) {
	l.emit("segue", reason)
	l.Info("segue",
		zap.Bool("armed", armed),
		zap.String("reason", reason),
	)
}

// WithCategory returns a logger with the category field preset.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(zap.String("cat", category)),
		onEvent: l.onEvent,
	}
}

// Hex formats a uint64 as hex string for logging.
func Hex(addr uint64) string {
	return "0x" + hexString(addr)
}

func hexString(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 16)
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}

// Field helpers for common patterns.

// Addr creates an address field.
func Addr(addr uint64) zap.Field {
	return zap.String("addr", Hex(addr))
}

// Size creates a size field.
func Size(size uint64) zap.Field {
	return zap.Uint64("size", size)
}

// Ptr creates a pointer field.
func Ptr(name string, ptr uint64) zap.Field {
	return zap.String(name, Hex(ptr))
}

// Fn creates a function name field.
func Fn(name string) zap.Field {
	return zap.String("fn", name)
}
