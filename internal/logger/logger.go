package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func getZapLevel(textLevel string) (zap.AtomicLevel, error) {
	level := zap.AtomicLevel{}
	err := level.UnmarshalText([]byte(textLevel))
	return level, err
}

// New builds a sugared logger at level. With a file the output is JSON lines
// appended to it (the TUI owns the terminal); without one it is console text
// on stderr.
func New(textLevel, file string) (*zap.SugaredLogger, error) {
	if textLevel == "" {
		textLevel = "info"
	}
	logLevel, err := getZapLevel(textLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", textLevel, err)
	}

	cfg := zap.Config{
		Encoding:         "console",
		Level:            logLevel,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",

			LevelKey:    "severity",
			EncodeLevel: zapcore.CapitalLevelEncoder,

			TimeKey:    "timestamp",
			EncodeTime: zapcore.RFC3339NanoTimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	if file != "" {
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		cfg.Encoding = "json"
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// WithStderrErrors tees error-level entries of l to stderr, so failures
// stay visible while normal output goes to the log file.
func WithStderrErrors(l *zap.SugaredLogger) *zap.SugaredLogger {
	return withErrorSink(l, zapcore.Lock(os.Stderr))
}

func withErrorSink(l *zap.SugaredLogger, sink zapcore.WriteSyncer) *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:  "message",
		LevelKey:    "severity",
		EncodeLevel: zapcore.CapitalLevelEncoder,
	})
	errCore := zapcore.NewCore(enc, sink, zap.ErrorLevel)
	return l.Desugar().WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, errCore)
	})).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
