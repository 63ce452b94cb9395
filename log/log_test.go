package log

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

var (
	sampleInt      = 3
	sampleBytes    = []byte("123")
	sampleList     = []int64{2024, 6, 1, 18}
	sampleDuration = time.Second
	sampleTime     = time.Unix(12345678, 0)

	errSample = errors.New("some error")
)

func doLogs() {
	Infof("generated proof %d with %x", sampleInt, sampleBytes)
	Debugw("proof generated", "session", "abc123", "state", "generated")
	Errorf("cannot download setup data: %v", errSample)
	Warnw("various types",
		"publicInputs", sampleList,
		"duration", sampleDuration,
		"time", sampleTime,
	)
	Error(errSample)
}

func TestCheckInvalidChars(t *testing.T) {
	t.Cleanup(func() { panicOnInvalidChars = false })

	v := []byte{'h', 'e', 'l', 'l', 'o', 0xff, 'w', 'o', 'r', 'l', 'd'}
	panicOnInvalidChars = false
	Init("debug", "stderr", nil)
	Debugf("%s", v)
	// should not panic since env var is false. if it panics, test will fail

	// now enable panic and try again: should recover() and never reach t.Errorf()
	panicOnInvalidChars = true
	Init("debug", "stderr", nil)
	defer func() { recover() }()
	Debugf("%s", v)
	t.Errorf("Debugf(%s) should have panicked because of invalid char", v)
}

func TestLevelFiltering(t *testing.T) {
	c := qt.New(t)
	buf := &bytes.Buffer{}
	logTestWriter = buf
	t.Cleanup(func() { Init(LogLevelError, "stderr", nil) })

	Init(LogLevelWarn, logTestWriterName, nil)
	c.Assert(Level(), qt.Equals, LogLevelWarn)
	Debugw("hidden debug line")
	Warnw("visible warning", "code", 7)
	c.Assert(strings.Contains(buf.String(), "hidden debug line"), qt.IsFalse)
	c.Assert(strings.Contains(buf.String(), "visible warning"), qt.IsTrue)
}

func TestErrorOutput(t *testing.T) {
	c := qt.New(t)
	logTestWriter = io.Discard
	errBuf := &bytes.Buffer{}
	t.Cleanup(func() { Init(LogLevelError, "stderr", nil) })

	Init(LogLevelDebug, logTestWriterName, errBuf)
	Infow("info line")
	Errorw(errSample, "error line")
	c.Assert(strings.Contains(errBuf.String(), "info line"), qt.IsFalse)
	c.Assert(strings.Contains(errBuf.String(), "error line"), qt.IsTrue)
}

func BenchmarkLogger(b *testing.B) {
	logTestWriter = io.Discard // to not grow a buffer
	Init("debug", logTestWriterName, nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doLogs()
	}
}
