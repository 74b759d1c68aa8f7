package utils

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewNodeLogger builds the node-wide zap logger: console-encoded cores
// teed across per-level files under basePath. An empty basePath, or any
// file that cannot be opened, falls back to stdout so the relay keeps
// running without its log directory.
func NewNodeLogger(basePath string) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		MessageKey:  "msg",
		TimeKey:     "ts",
		LevelKey:    "level",
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		EncodeLevel: zapcore.CapitalLevelEncoder,
		LineEnding:  zapcore.DefaultLineEnding,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	if basePath == "" {
		core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.DebugLevel)
		return zap.New(core)
	}

	if err := os.MkdirAll(basePath, 0744); err != nil {
		log.Printf("failed to create log dir %s: %v", basePath, err)
	}

	infoOut := zapcore.AddSync(openLogFile(filepath.Join(basePath, "info.log")))
	errorOut := zapcore.AddSync(openLogFile(filepath.Join(basePath, "error.log")))
	dbgOut := zapcore.AddSync(openLogFile(filepath.Join(basePath, "debug.log")))

	infoLv := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == zapcore.InfoLevel })
	errLv := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel })
	dbgLv := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == zapcore.DebugLevel })

	tee := zapcore.NewTee(
		zapcore.NewCore(encoder, infoOut, infoLv),
		zapcore.NewCore(encoder, errorOut, errLv),
		zapcore.NewCore(encoder, dbgOut, dbgLv),
	)
	return zap.New(tee)
}

func openLogFile(path string) *os.File {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file %s: %v", path, err)
		return os.Stdout
	}
	return f
}
