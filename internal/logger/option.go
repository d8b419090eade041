package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelFilter replaces the level of the wrapped core with its own enabler, so
// one tee can hold a console following the configured level next to a file
// that keeps debug entries.
type levelFilter struct {
	zapcore.Core

	// level decides which entries reach the wrapped core. An atomic level keeps
	// following SetLevel after the logger is built.
	level zapcore.LevelEnabler
}

// filterLevel wraps core so that only entries enabled by level are written.
//
//nolint:ireturn // zapcore.Core is the unit zap composes.
func filterLevel(core zapcore.Core, level zapcore.LevelEnabler) zapcore.Core {
	if level == nil {
		return core
	}

	return &levelFilter{Core: core, level: level}
}

// Enabled implements zapcore.LevelEnabler.
func (f *levelFilter) Enabled(l zapcore.Level) bool {
	return f.level.Enabled(l)
}

// Level reports the lowest enabled level, used by zap.Logger.Level.
func (f *levelFilter) Level() zapcore.Level {
	return zapcore.LevelOf(f.level)
}

// Check adds the filter itself to the entry so Write goes through the wrapped core.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (f *levelFilter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !f.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, f)
}

// With keeps the filter around the child core.
//
//nolint:ireturn // zapcore.Core is the unit zap composes.
func (f *levelFilter) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilter{Core: f.Core.With(fields), level: f.level}
}

// WithLevel filters every core of a logger through level.
//
//nolint:ireturn // zap.Option is how zap loggers are configured.
func WithLevel(level zapcore.LevelEnabler) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return filterLevel(core, level)
	})
}
