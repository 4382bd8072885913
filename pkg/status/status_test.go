package status

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func TestMeterComputesPerSecondRate(t *testing.T) {
	var m meter
	now := time.Unix(1000, 0)

	if got := m.update(900, now); got != 0 {
		t.Fatalf("first sample rate = %v, want 0", got)
	}

	// Sub-second samples keep the previous rate.
	if got := m.update(950, now.Add(500*time.Millisecond)); got != 0 {
		t.Fatalf("sub-second rate = %v, want 0", got)
	}

	if got := m.update(990, now.Add(time.Second)); got != 90 {
		t.Fatalf("rate = %v, want 90", got)
	}

	// The new rate holds until the next full second.
	if got := m.update(1020, now.Add(1500*time.Millisecond)); got != 90 {
		t.Fatalf("held rate = %v, want 90", got)
	}
	if got := m.update(1080, now.Add(2*time.Second)); got != 90 {
		t.Fatalf("second window rate = %v, want 90", got)
	}
}

func TestFormatLayout(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	l := NewLine(nil)
	now := time.Unix(1000, 0)
	s := Snapshot{
		Source:      "alvr",
		Online:      true,
		Calibration: "calibrating",
		Slow:        true,
		Avatar:      "avtr_9f2",
		Ticks:       90,
	}

	line := l.format(s, now)
	for _, want := range []string{"TICK", "RECV", "SEND", "SRC", "alvr", "CAL", "calibrating (slow)", "AVI", "avtr_9f2"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "DROP") {
		t.Fatalf("line %q shows drops at zero", line)
	}

	s.Drops = 3
	if line := l.format(s, now); !strings.Contains(line, "DROP") {
		t.Fatalf("line %q missing drop counter", line)
	}
}

func TestFormatWidthIsStable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	l := NewLine(nil)
	now := time.Unix(1000, 0)

	long := l.format(Snapshot{Source: "openxr", Calibration: "uncalibrated", Avatar: "avtr_0123456789abcdef"}, now)
	short := l.format(Snapshot{Source: "alvr", Calibration: "calibrated", Avatar: "a"}, now)
	if len(long) != len(short) {
		t.Fatalf("width varies: %d vs %d", len(long), len(short))
	}
}
