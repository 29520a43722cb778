// Package logging builds the logger handed to each pipeline step.
//
// The logger writes to stderr and to the step's log file. Nothing here
// touches a process-wide logger; callers own the instance they get back.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"network-summary/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	config.LoggingConfig
	// SkipHandlers drops the log file sink and only logs to stderr.
	SkipHandlers bool
}

// ParseLevel accepts zap level names as well as the Python-style names
// used in workflow configs (WARNING, CRITICAL).
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "WARNING", "WARN":
		return zapcore.WarnLevel, nil
	case "CRITICAL":
		return zapcore.DPanicLevel, nil
	}
	return zapcore.ParseLevel(strings.ToLower(s))
}

// New returns a logger writing to stderr and, unless SkipHandlers is set,
// to logFile. The returned func closes the file sink.
func New(opts Options, logFile string) (*zap.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, nil, fmt.Errorf("logging.format: unsupported %q", opts.Format)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level),
	}
	closeFn := func() {}

	if !opts.SkipHandlers && logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		sink, closeSink, err := zap.Open(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		cores = append(cores, zapcore.NewCore(enc.Clone(), sink, level))
		closeFn = closeSink
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}

// Step is anything that knows where its log file goes.
type Step interface {
	LogFile() string
}

// ForStep is New with the log file taken from a pipeline step.
func ForStep(opts Options, s Step) (*zap.Logger, func(), error) {
	return New(opts, s.LogFile())
}
