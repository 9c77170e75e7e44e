// Package logging provides the structured logger shared by the compiler
// driver, checkers and engines. It is a thin wrapper over zap so that the
// rest of the module never imports zap directly.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core   = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stderr), level)
	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// SetLevel sets the minimum log level. Valid values: "debug", "info",
// "warn", "error".
func SetLevel(lvl string) {
	switch lvl {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Infof logs at info level.
func Infof(format string, args ...any) { logger.Infof(format, args...) }

// Warnf logs at warn level.
func Warnf(format string, args ...any) { logger.Warnf(format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }

// Debugf logs at debug level.
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
