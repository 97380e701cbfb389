// Package log builds the zap loggers used by the api and worker binaries.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Options struct {
	// Service is attached to every entry as the "service" field.
	Service string
	Level   string
	Format  string
}

// New builds a logger writing to stdout in the requested format.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = FormatConsole
	}
	if format != FormatConsole && format != FormatJSON {
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "time"
	encoder.LevelKey = "severity"
	encoder.MessageKey = "message"
	encoder.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder.EncodeDuration = zapcore.MillisDurationEncoder
	if format == FormatConsole {
		encoder.EncodeLevel = zapcore.LowercaseLevelEncoder
	}

	cfg := zap.Config{
		Level:            lvl,
		Encoding:         format,
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if opts.Service != "" {
		cfg.InitialFields = map[string]any{"service": opts.Service}
	}

	return cfg.Build(zap.AddStacktrace(zap.DPanicLevel))
}

// Bootstrap returns an info level console logger for failures that happen
// before the configuration is loaded.
func Bootstrap(service string) *zap.Logger {
	return zap.Must(New(Options{Service: service, Level: "info"}))
}

// Setup installs the logger built from opts as the zap global and returns a
// function that flushes it and restores the previous globals.
func Setup(opts Options) (*zap.Logger, func(), error) {
	logger, err := New(opts)
	if err != nil {
		return nil, nil, err
	}

	undo := zap.ReplaceGlobals(logger)

	return logger, func() {
		_ = logger.Sync()
		undo()
	}, nil
}
