// Package logger is the CLI's file logger. Stdout belongs to the terminal UI,
// so CLI log output goes to a file under tmp/ unless configured otherwise.
package logger

import (
	"fmt"

	"go.uber.org/zap"

	wlog "webslayer-go/pkg/log"
)

var logger = zap.NewNop()

// Init opens the log file and installs it as the global zap logger.
func Init(level, path string) (*zap.Logger, error) {
	l, err := wlog.InitFileLog(wlog.ParseLevel(level), path)
	if err != nil {
		return nil, err
	}
	logger = l
	zap.ReplaceGlobals(l)
	return l, nil
}

// L returns the CLI logger; a no-op logger before Init.
func L() *zap.Logger {
	return logger
}

// Log writes a log message
func Log(format string, v ...any) {
	logger.Info(fmt.Sprintf(format, v...))
}

// LogError writes an error log message
func LogError(err error, format string, v ...any) {
	logger.Error(fmt.Sprintf(format, v...), zap.Error(err))
}

// CloseLog flushes the log file
func CloseLog() {
	_ = logger.Sync()
}
