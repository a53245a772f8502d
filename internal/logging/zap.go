// Package logging builds the zap loggers used by the simulator.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logTimeFormat     = "2006-01-02 15:04:05.000"
	consoleFileLength = 12
)

// Options controls where and how verbosely the simulator logs.
type Options struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string

	// File, when set, receives JSON logs through a rotating writer.
	File string

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int
}

// New creates a logger writing human-readable lines to stderr and, when
// opts.File is set, JSON lines to a rotating file.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapConsoleEncoder(), zapcore.Lock(os.Stderr), level),
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapFileEncoder(), zapWriteSyncer(opts), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func zapEncodeConfig(encodeCaller zapcore.CallerEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapEncodeLevel,
		EncodeTime:     zapEncodeTime,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   encodeCaller,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

func zapFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapEncodeConfig(zapcore.ShortCallerEncoder))
}

func zapConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapEncodeConfig(zapConsoleEncodeCaller))
}

func zapEncodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

func zapEncodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(logTimeFormat))
}

// zapConsoleEncodeCaller prints the bare file name padded to a fixed width
// so console lines stay aligned.
func zapConsoleEncodeCaller(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + padFile(caller.File) + "]")
}

func padFile(path string) string {
	file := path
	lo, hi := strings.LastIndex(path, "/")+1, strings.LastIndex(path, ".")
	if lo < hi {
		file = path[lo:hi]
	}

	pad := consoleFileLength - len(file)
	if pad < 0 {
		return file[-pad:]
	}
	return file + strings.Repeat(" ", pad)
}

func zapWriteSyncer(opts Options) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    defaultInt(opts.MaxSizeMB, 100),
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
