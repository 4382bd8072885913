package tracking

import "time"

// ShapeWeight is one sparse expression measurement.
type ShapeWeight struct {
	Shape  Shape
	Weight float32
}

// RawSample is what a source backend hands the pipeline: whatever subset
// of the canonical fields it measured, in canonical naming, with angles
// in radians and positions in meters. Nil pointer fields were not
// measured in this sample.
type RawSample struct {
	Time time.Time

	Head      *Pose
	LeftHand  *Pose
	RightHand *Pose

	Gaze     [2]*Gaze
	Openness [2]*float32

	Weights []ShapeWeight
}

// Empty reports whether the sample carries no measurements at all.
func (r *RawSample) Empty() bool {
	return r.Head == nil && r.LeftHand == nil && r.RightHand == nil &&
		r.Gaze[LeftEye] == nil && r.Gaze[RightEye] == nil &&
		r.Openness[LeftEye] == nil && r.Openness[RightEye] == nil &&
		len(r.Weights) == 0
}
