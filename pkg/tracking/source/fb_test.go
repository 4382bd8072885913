package source

import (
	"testing"

	"github.com/avosc/avosc/pkg/tracking"
)

func TestApplyFaceWeightsSplitsChannels(t *testing.T) {
	weights := make([]float32, fbWeightCount)
	weights[fbBrowLowererL] = 0.6
	weights[fbLipPuckerR] = 0.3
	weights[fbTongueOut] = 1

	var s tracking.RawSample
	applyFaceWeights(&s, weights)

	for _, c := range []struct {
		shape tracking.Shape
		want  float32
	}{
		{tracking.BrowLowererLeft, 0.6},
		{tracking.BrowPinchLeft, 0.6},
		{tracking.LipPuckerUpperRight, 0.3},
		{tracking.LipPuckerLowerRight, 0.3},
		{tracking.TongueOut, 1},
	} {
		if w, ok := findWeight(s, c.shape); !ok || w != c.want {
			t.Errorf("%v: want %v, got %v (present=%v)", c.shape, c.want, w, ok)
		}
	}
}

func TestApplyFaceWeightsEyeClosureBecomesOpenness(t *testing.T) {
	weights := make([]float32, fbWeightCount)
	weights[fbEyesClosedL] = 1
	weights[fbEyesClosedR] = 0.25

	var s tracking.RawSample
	applyFaceWeights(&s, weights)

	if o := s.Openness[tracking.LeftEye]; o == nil || *o != 0 {
		t.Errorf("left openness: want 0, got %v", o)
	}
	if o := s.Openness[tracking.RightEye]; o == nil || *o != 0.75 {
		t.Errorf("right openness: want 0.75, got %v", o)
	}
}

func TestApplyFaceWeightsAcceptsShortVector(t *testing.T) {
	var s tracking.RawSample
	applyFaceWeights(&s, []float32{0.5, 0.5})

	if w, ok := findWeight(s, tracking.BrowLowererLeft); !ok || w != 0.5 {
		t.Errorf("brow lowerer: got %v (present=%v)", w, ok)
	}
	if s.Openness[tracking.LeftEye] != nil {
		t.Error("short vector should not reach the eye channels")
	}
}
