package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerCapture(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	Logf("merged %d laps for %s", 57, "VER")
	if got != "merged 57 laps for VER" {
		t.Errorf("captured %q", got)
	}
}

func TestSetLoggerNilIsNoOp(t *testing.T) {
	SetLogger(nil)
	// Must not panic.
	Logf("ignored %d", 1)
	SetLogger(func(string, ...interface{}) {})
}
