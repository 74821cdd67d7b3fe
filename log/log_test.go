package log

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

var (
	sampleInt      = 3
	sampleBytes    = []byte("123")
	sampleList     = []int64{10, 0, -10}
	sampleDuration = time.Second
	sampleTime     = time.Unix(12345678, 0)

	errSample = errors.New("some error")
)

func doLogs() {
	Infof("added %d keys to election %x", sampleInt, sampleBytes)
	Debugw("registering collector", "election", "abc123", "index", 1)
	Errorf("cannot commit to storage: %v", errSample)
	Warnw("unexpected share count",
		"list", sampleList,
		"duration", sampleDuration,
		"time", sampleTime,
	)
	Error(errSample)
}

func TestInitAndLog(t *testing.T) {
	c := qt.New(t)
	c.Assert(Init(LogLevelDebug, "stdout", nil), qt.IsNil)
	doLogs()
	c.Assert(Level(), qt.Equals, LogLevelDebug)
}

func BenchmarkLogger(b *testing.B) {
	_ = Init(LogLevelDebug, "stdout", nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doLogs()
	}
}
