package source

import (
	"math"
	"testing"

	"github.com/hypebeast/go-osc/osc"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/tracking"
)

func newTestBabble() *Babble {
	return NewBabble(config.Default())
}

func floatMsg(addr string, v float32) *osc.Message {
	msg := osc.NewMessage(addr)
	msg.Append(v)
	return msg
}

func drainOne(t *testing.T, s Source) tracking.RawSample {
	t.Helper()
	got := s.Drain(nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(got))
	}
	return got[0]
}

func findWeight(s tracking.RawSample, shape tracking.Shape) (float32, bool) {
	for _, w := range s.Weights {
		if w.Shape == shape {
			return w.Weight, true
		}
	}
	return 0, false
}

func TestBabbleMapsFaceAddress(t *testing.T) {
	b := newTestBabble()
	b.Dispatch(floatMsg("/cheekPuffLeft", 0.8))

	s := drainOne(t, b)
	w, ok := findWeight(s, tracking.CheekPuffLeft)
	if !ok {
		t.Fatal("cheek puff weight missing")
	}
	if w != 0.8 {
		t.Errorf("want 0.8, got %v", w)
	}
}

func TestBabbleSplitsCompositeAddress(t *testing.T) {
	b := newTestBabble()
	b.Dispatch(floatMsg("/mouthPucker", 0.5))

	s := drainOne(t, b)
	for _, shape := range []tracking.Shape{
		tracking.LipPuckerUpperLeft, tracking.LipPuckerUpperRight,
		tracking.LipPuckerLowerLeft, tracking.LipPuckerLowerRight,
	} {
		if w, ok := findWeight(s, shape); !ok || w != 0.5 {
			t.Errorf("%v: want 0.5, got %v (present=%v)", shape, w, ok)
		}
	}
}

func TestBabbleMergesEyeAxes(t *testing.T) {
	b := newTestBabble()

	b.Dispatch(floatMsg("/avatar/parameters/LeftEyeX", 1))
	s := drainOne(t, b)
	g := s.Gaze[tracking.LeftEye]
	if g == nil {
		t.Fatal("left gaze missing")
	}
	if math.Abs(float64(g.Yaw-etvrGazeRange)) > 1e-6 {
		t.Errorf("yaw: want %v, got %v", etvrGazeRange, g.Yaw)
	}

	// The vertical axis arrives in its own message; the previous yaw
	// must survive the merge.
	b.Dispatch(floatMsg("/avatar/parameters/EyesY", 1))
	s = drainOne(t, b)
	g = s.Gaze[tracking.LeftEye]
	if g == nil {
		t.Fatal("left gaze missing after vertical update")
	}
	if math.Abs(float64(g.Pitch-etvrGazeRange)) > 1e-6 {
		t.Errorf("pitch: want %v, got %v", etvrGazeRange, g.Pitch)
	}
	if math.Abs(float64(g.Yaw-etvrGazeRange)) > 1e-6 {
		t.Errorf("yaw lost on merge: got %v", g.Yaw)
	}
	if s.Gaze[tracking.RightEye] == nil {
		t.Error("vertical axis should update both eyes")
	}
}

func TestBabbleBlinkBecomesOpenness(t *testing.T) {
	b := newTestBabble()
	b.Dispatch(floatMsg("/eyeBlinkLeft", 1))

	s := drainOne(t, b)
	o := s.Openness[tracking.LeftEye]
	if o == nil {
		t.Fatal("left openness missing")
	}
	if *o != 0 {
		t.Errorf("full blink should close the eye, got %v", *o)
	}
	if s.Openness[tracking.RightEye] != nil {
		t.Error("right openness should be untouched")
	}
}

func TestBabbleFoldsBundleIntoOneSample(t *testing.T) {
	b := newTestBabble()
	bundle := &osc.Bundle{
		Messages: []*osc.Message{
			floatMsg("/jawOpen", 0.4),
			floatMsg("/mouthClose", 0.2),
		},
	}
	b.Dispatch(bundle)

	s := drainOne(t, b)
	if w, ok := findWeight(s, tracking.JawOpen); !ok || w != 0.4 {
		t.Errorf("jaw open: got %v (present=%v)", w, ok)
	}
	if w, ok := findWeight(s, tracking.MouthClosed); !ok || w != 0.2 {
		t.Errorf("mouth closed: got %v (present=%v)", w, ok)
	}
}

func TestBabbleIgnoresUnknownAddress(t *testing.T) {
	b := newTestBabble()
	b.Dispatch(floatMsg("/no/such/param", 1))

	if got := b.Drain(nil); len(got) != 0 {
		t.Fatalf("unknown address should produce no samples, got %d", len(got))
	}
}
