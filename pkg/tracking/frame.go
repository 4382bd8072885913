// Package tracking defines the canonical tracking frame: one tick's
// snapshot of head/eye/face/hand state, assembled from whichever source
// backend is active and consumed by every downstream processor.
package tracking

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a rigid transform in tracking space.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityPose returns a pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: mgl32.QuatIdent()}
}

// Gaze is one eye's direction in radians. Pitch is positive looking up,
// yaw positive looking right.
type Gaze struct {
	Pitch float32
	Yaw   float32
}

// Eye indices for per-eye fields.
const (
	LeftEye  = 0
	RightEye = 1
)

// GazeFromQuat converts an eye orientation into pitch/yaw angles.
// Tracking space looks down -Z, so the rotated forward vector's Y gives
// pitch and its X/Z give yaw.
func GazeFromQuat(q mgl32.Quat) Gaze {
	if q.Len() == 0 {
		return Gaze{}
	}
	fwd := q.Normalize().Rotate(mgl32.Vec3{0, 0, -1})
	pitch := math.Asin(float64(clampSigned(fwd.Y())))
	yaw := math.Atan2(float64(fwd.X()), float64(-fwd.Z()))
	return Gaze{Pitch: float32(pitch), Yaw: float32(yaw)}
}

// Frame is the canonical per-tick snapshot. It is immutable once built;
// the next tick's frame supersedes it. Fields a backend never reported
// stay at their previous values (last-known-value hold), with the HasX
// flags recording whether the field was ever seen this session.
type Frame struct {
	Time time.Time

	Head    Pose
	HasHead bool

	LeftHand     Pose
	HasLeftHand  bool
	RightHand    Pose
	HasRightHand bool

	Gaze     [2]Gaze
	Openness [2]float32
	HasEyes  bool

	Shapes  [NumShapes]float32
	HasFace bool
}

// NewFrame returns a frame with identity poses and open eyes.
func NewFrame() Frame {
	return Frame{
		Head:      IdentityPose(),
		LeftHand:  IdentityPose(),
		RightHand: IdentityPose(),
		Openness:  [2]float32{1, 1},
	}
}

// GazeYaw returns the averaged horizontal gaze angle in radians.
func (f *Frame) GazeYaw() float32 {
	return (f.Gaze[LeftEye].Yaw + f.Gaze[RightEye].Yaw) / 2
}

// GazePitch returns the averaged vertical gaze angle in radians.
func (f *Frame) GazePitch() float32 {
	return (f.Gaze[LeftEye].Pitch + f.Gaze[RightEye].Pitch) / 2
}

// Shape reads one expression weight.
func (f *Frame) Shape(s Shape) float32 {
	if s < 0 || s >= NumShapes {
		return 0
	}
	return f.Shapes[s]
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampSigned(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizePose returns p with a unit-length orientation. A degenerate
// zero quaternion becomes identity rather than NaN.
func normalizePose(p Pose) Pose {
	q := p.Orientation
	if q.Len() == 0 {
		q = mgl32.QuatIdent()
	} else {
		q = q.Normalize()
	}
	return Pose{Position: p.Position, Orientation: q}
}
