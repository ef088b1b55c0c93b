// Package logging builds the zap loggers used by the slashchat commands.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	grey          = "\033[38;5;240m"
	boldLightGrey = "\033[1;38;5;240m"
	red           = "\033[38;5;9m"
	yellow        = "\033[38;5;11m"
	reset         = "\033[0m"
)

// fullLineColorLevelEncoder colors the entire output line based on log level.
func fullLineColorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var color string
	switch l {
	case zapcore.DebugLevel:
		color = grey
	case zapcore.InfoLevel:
		color = boldLightGrey
	case zapcore.WarnLevel:
		color = yellow
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		color = red
	default:
		color = reset
	}
	enc.AppendString(color + l.CapitalString())
}

// Level returns the level for the verbosity flags: warn by default, info
// with verbose, debug with debug.
func Level(verbose, debug bool) zapcore.Level {
	switch {
	case debug:
		return zapcore.DebugLevel
	case verbose:
		return zapcore.InfoLevel
	}
	return zapcore.WarnLevel
}

func encoderConfig(color, debug bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.FunctionKey = ""
	cfg.MessageKey = "M"
	cfg.StacktraceKey = "S"
	cfg.CallerKey = ""
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.ConsoleSeparator = " "
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		cfg.LineEnding = reset + zapcore.DefaultLineEnding
		cfg.EncodeLevel = fullLineColorLevelEncoder
	}
	if debug {
		cfg.CallerKey = "C"
	}
	return cfg
}

func build(w io.Writer, color, verbose, debug bool) *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(color, debug)),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(Level(verbose, debug)),
	)
	var opts []zap.Option
	// caller locations are useful but noisy
	if debug {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	return zap.New(core, opts...).Sugar()
}

// NewLogger returns a colored console logger writing to stderr.
func NewLogger(stderr io.Writer, verbose, debug bool) (*zap.SugaredLogger, error) {
	if stderr == nil {
		stderr = os.Stderr
	}
	return build(stderr, true, verbose, debug), nil
}

// NewFileLogger returns a plain console logger appending to path, and the
// function that closes the file. An empty path discards all output.
func NewFileLogger(path string, verbose, debug bool) (*zap.SugaredLogger, func() error, error) {
	if path == "" {
		return zap.NewNop().Sugar(), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l := build(f, false, verbose, debug)
	return l, func() error {
		l.Sync()
		return f.Close()
	}, nil
}
