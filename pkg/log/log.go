package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel converts a config level name into an atomic level, defaulting
// to info for unknown names.
func ParseLevel(name string) zap.AtomicLevel {
	lvl, err := zap.ParseAtomicLevel(name)
	if err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return lvl
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// InitLog builds the server logger writing console-encoded entries to stdout.
func InitLog(lvl zap.AtomicLevel) *zap.Logger {
	return build(lvl, []string{"stdout"})
}

// InitFileLog builds a logger that writes only to path, for processes whose
// stdout is owned by a terminal UI. An empty path selects
// tmp/webslayer-cli-<timestamp>.log.
func InitFileLog(lvl zap.AtomicLevel, path string) (*zap.Logger, error) {
	if path == "" {
		path = filepath.Join("tmp", fmt.Sprintf("webslayer-cli-%s.log", time.Now().Format("20060102-150405")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	cfg := config(lvl, []string{path})
	cfg.ErrorOutputPaths = []string{path}
	l, err := cfg.Build(zap.AddStacktrace(zap.DPanicLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build file logger: %w", err)
	}
	return l, nil
}

func config(lvl zap.AtomicLevel, outputs []string) *zap.Config {
	return &zap.Config{
		Level:            lvl,
		Encoding:         "console",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
}

func build(lvl zap.AtomicLevel, outputs []string) *zap.Logger {
	plain, err := config(lvl, outputs).Build(zap.AddStacktrace(zap.DPanicLevel))
	if err != nil {
		panic(err)
	}
	return plain
}
