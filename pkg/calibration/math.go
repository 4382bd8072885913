package calibration

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/avosc/avosc/pkg/tracking"
)

// meanPosition averages the window's positions.
func meanPosition(poses []tracking.Pose) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, p := range poses {
		sum = sum.Add(p.Position)
	}
	return sum.Mul(1 / float32(len(poses)))
}

// meanOrientation averages the window's orientations by component after
// flipping each quaternion into the first sample's hemisphere. Valid for
// the tight clusters the stability window guarantees.
func meanOrientation(poses []tracking.Pose) mgl32.Quat {
	ref := poses[0].Orientation
	var w float32
	var v mgl32.Vec3
	for _, p := range poses {
		q := p.Orientation
		if ref.Dot(q) < 0 {
			q = mgl32.Quat{W: -q.W, V: q.V.Mul(-1)}
		}
		w += q.W
		v = v.Add(q.V)
	}
	m := mgl32.Quat{W: w, V: v}
	if m.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return m.Normalize()
}

// angleBetween returns the rotation angle in radians separating two unit
// quaternions.
func angleBetween(a, b mgl32.Quat) float32 {
	d := a.Dot(b)
	if d < 0 {
		d = -d
	}
	if d > 1 {
		d = 1
	}
	return float32(2 * math.Acos(float64(d)))
}

// compose returns the transform that applies b in a's frame.
func compose(a, b tracking.Pose) tracking.Pose {
	return tracking.Pose{
		Position:    a.Position.Add(a.Orientation.Rotate(b.Position)),
		Orientation: a.Orientation.Mul(b.Orientation).Normalize(),
	}
}

// intoFrame re-expresses p relative to the reference transform.
func intoFrame(reference, p tracking.Pose) tracking.Pose {
	inv := reference.Orientation.Inverse()
	return tracking.Pose{
		Position:    inv.Rotate(p.Position.Sub(reference.Position)),
		Orientation: inv.Mul(p.Orientation).Normalize(),
	}
}

// offsetPose converts the mount offset into a pose. Angles are given in
// degrees, yaw applied first.
func offsetPose(x, y, z, yawDeg, pitchDeg, rollDeg float64) tracking.Pose {
	const degToRad = math.Pi / 180
	return tracking.Pose{
		Position: mgl32.Vec3{float32(x), float32(y), float32(z)},
		Orientation: mgl32.AnglesToQuat(
			float32(yawDeg*degToRad),
			float32(pitchDeg*degToRad),
			float32(rollDeg*degToRad),
			mgl32.YXZ,
		),
	}
}
