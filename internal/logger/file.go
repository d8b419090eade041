package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions describes the rolling log file written next to console output.
type FileOptions struct {
	// Directory receives the log file; it is created when missing.
	Directory string
	// Filename is the active log file name inside Directory.
	Filename string
	// MaxSize is the size in megabytes that triggers rotation.
	MaxSize int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
	// MaxAge is the number of days rotated files are kept.
	MaxAge int
	// Level filters the file entries; nil keeps everything from debug up.
	Level zapcore.LevelEnabler
}

// NewWithFile creates a logger that writes console output to stdout and
// JSON lines to a rotating file. The console honours level, the file honours
// file.Level and records debug messages by default.
func NewWithFile(level zapcore.LevelEnabler, file FileOptions, options ...zap.Option) (*zap.SugaredLogger, func() error, error) {
	if level == nil {
		level = defaultLevel
	}

	if err := os.MkdirAll(file.Directory, 0o750); err != nil {
		return nil, nil, err
	}

	rolling := &lumberjack.Logger{
		Filename:   filepath.Join(file.Directory, file.Filename),
		MaxSize:    file.MaxSize,    // megabytes
		MaxBackups: file.MaxBackups, // files
		MaxAge:     file.MaxAge,     // days
	}

	//nolint:exhaustruct // Default values are fine for the file encoder.
	fileEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		MessageKey:     "message",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})

	fileLevel := file.Level
	if fileLevel == nil {
		fileLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		filterLevel(newConsoleCore(), level),
		filterLevel(zapcore.NewCore(fileEncoder, zapcore.AddSync(rolling), zapcore.DebugLevel), fileLevel),
	)

	return zap.New(core, options...).Sugar(), rolling.Close, nil
}
