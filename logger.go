package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logConfig struct {
	File  string `help:"Write logs to this file. The terminal belongs to the UI, so nothing is logged by default." type:"path" placeholder:"FILE"`
	Level string `help:"Minimum log level." default:"info" enum:"debug,info,warn,error"`
}

// newLogger builds a development-style console logger writing to the
// configured file. Without a file it returns a no-op logger.
func newLogger(cfg logConfig) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{cfg.File}
	config.ErrorOutputPaths = []string{cfg.File}

	if logsToTerminal(cfg.File) {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	config.EncoderConfig.ConsoleSeparator = " "
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(`15:04:05.000`)
	config.DisableStacktrace = true

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// logsToTerminal reports whether the log sink is a terminal, such as
// /dev/stderr when not running the TUI.
func logsToTerminal(path string) bool {
	var fd uintptr
	switch path {
	case "stderr", "/dev/stderr":
		fd = os.Stderr.Fd()
	case "stdout", "/dev/stdout":
		fd = os.Stdout.Fd()
	default:
		return false
	}
	return isatty.IsTerminal(fd)
}
