package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestContextHelpers verifies that names and fields attached to a context reach the emitted entries.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "installer")
	ctx = WithKV(ctx, "run_id", "r-1")
	ctx = WithFields(ctx, "channel", "vendor", "attempt", 2)

	InfoKV(ctx, "Resolved latest version", "version", "101")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "installer", entries[0].LoggerName)
	require.Equal(t, "Resolved latest version", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "r-1", fields["run_id"])
	require.Equal(t, "vendor", fields["channel"])
	require.Equal(t, int64(2), fields["attempt"])
	require.Equal(t, "101", fields["version"])
}

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithLevel checks that the level option filters entries below the threshold.
func TestWithLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core, WithLevel(zapcore.WarnLevel)).Sugar()
	ctx := ToContext(context.Background(), log)

	Info(ctx, "dropped")
	Warn(ctx, "kept")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}

// TestFilterLevel_FollowsAtomicLevel checks that a filtered core picks up level changes.
func TestFilterLevel_FollowsAtomicLevel(t *testing.T) {
	t.Parallel()

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(filterLevel(core, level)).Sugar()

	require.Equal(t, zapcore.WarnLevel, log.Desugar().Level())

	log.Info("dropped")
	level.SetLevel(zapcore.DebugLevel)
	log.With("key", "value").Debug("kept")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}

// TestNew_ConsoleLevel ensures the console logger reports the requested level.
func TestNew_ConsoleLevel(t *testing.T) {
	t.Parallel()

	log := New(zapcore.ErrorLevel)

	require.Equal(t, zapcore.ErrorLevel, log.Desugar().Level())
	require.Nil(t, log.Desugar().Check(zapcore.WarnLevel, "dropped"))
	require.NotNil(t, log.Desugar().Check(zapcore.ErrorLevel, "kept"))
}

// TestNewWithFile_FileLevel verifies the file core applies its own level.
func TestNewWithFile_FileLevel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	log, closeFile, err := NewWithFile(zapcore.ErrorLevel, FileOptions{
		Directory: dir,
		Filename:  "llc-launcher.log",
		Level:     zapcore.WarnLevel,
	})
	require.NoError(t, err)

	log.Debug("too verbose")
	log.Warn("worth keeping")
	require.NoError(t, closeFile())

	contents, err := os.ReadFile(filepath.Join(dir, "llc-launcher.log"))
	require.NoError(t, err)
	require.NotContains(t, string(contents), "too verbose")
	require.Contains(t, string(contents), "worth keeping")
}

// TestNewWithFile verifies that the rolling file receives debug entries.
func TestNewWithFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "logs")

	log, closeFile, err := NewWithFile(zapcore.ErrorLevel, FileOptions{
		Directory:  dir,
		Filename:   "llc-launcher.log",
		MaxSize:    1,
		MaxBackups: 1,
	})
	require.NoError(t, err)

	log.Debugw("file only", "key", "value")
	require.NoError(t, closeFile())

	contents, err := os.ReadFile(filepath.Join(dir, "llc-launcher.log"))
	require.NoError(t, err)
	require.Contains(t, string(contents), `"message":"file only"`)
	require.Contains(t, string(contents), `"key":"value"`)
}
