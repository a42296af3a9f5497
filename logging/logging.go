// Package logging contains the leveled, structured logger used while building and querying
// bounding volume hierarchies.
package logging

import (
	"io"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewBlankLogger returns a Debug+ logger in UTC with no appenders. Trees built without a logger
// use one, so build statistics go nowhere until an appender is added.
func NewBlankLogger(name string) Logger {
	return newImpl(name, DEBUG, true)
}

// NewWriterLogger returns a logger writing logs at or above level to w in UTC.
func NewWriterLogger(name string, w io.Writer, level Level) Logger {
	return newImpl(name, level, true, NewWriterAppender(w))
}

// NewTestLogger returns a Debug+ logger writing to the test output in local time.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also records every entry in memory so tests
// can assert on messages and fields.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	return newImpl("", DEBUG, false, &testAppender{tb}, core), logs
}

type testAppender struct {
	tb testing.TB
}

// Write logs through tb.Log so lines stay attached to the test that produced them.
func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	line, err := formatEntry(entry, fields)
	tapp.tb.Log(line)
	return err
}

func (tapp *testAppender) Sync() error {
	return nil
}
