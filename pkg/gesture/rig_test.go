package gesture

import (
	"math"
	"time"

	"github.com/avosc/avosc/pkg/avatar"
	"github.com/avosc/avosc/pkg/tracking"
)

// rig carries the stateful pieces a processor sees across ticks.
type rig struct {
	store    *avatar.Store
	feedback *avatar.Feedback
	now      time.Time
}

func newRig() *rig {
	return &rig{
		store:    avatar.NewStore(),
		feedback: avatar.NewFeedback(),
		now:      time.Unix(1000, 0),
	}
}

func (r *rig) tick(f *tracking.Frame) *avatar.Tick {
	return &avatar.Tick{
		Now:        r.now,
		Frame:      f,
		Params:     r.store,
		Feedback:   r.feedback,
		Live:       true,
		Calibrated: true,
	}
}

func (r *rig) offlineTick(f *tracking.Frame) *avatar.Tick {
	t := r.tick(f)
	t.Live = false
	return t
}

func (r *rig) advance(d time.Duration) { r.now = r.now.Add(d) }

func (r *rig) floatAt(addr string) float32 {
	v, _ := r.store.Get(addr)
	return v.F
}

func (r *rig) intAt(addr string) int32 {
	v, _ := r.store.Get(addr)
	return v.I
}

func gazeFrame(yawDeg, pitchDeg float32) *tracking.Frame {
	const degToRad = math.Pi / 180
	f := tracking.NewFrame()
	f.HasEyes = true
	g := tracking.Gaze{Yaw: yawDeg * degToRad, Pitch: pitchDeg * degToRad}
	f.Gaze[tracking.LeftEye] = g
	f.Gaze[tracking.RightEye] = g
	return &f
}

func shapeFrame(weights map[tracking.Shape]float32) *tracking.Frame {
	f := tracking.NewFrame()
	f.HasFace = true
	for s, w := range weights {
		f.Shapes[s] = w
	}
	return &f
}

func near(got, want float32) bool {
	return math.Abs(float64(got-want)) < 1e-3
}
