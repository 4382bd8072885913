package tracking

// Shape indexes one facial expression weight in Frame.Shapes. The base
// section holds weights a backend reports directly; the combined section
// holds channels derived from the base section every tick, so avatars
// that only bind composite parameters still animate.
type Shape int

// Base shapes.
const (
	EyeSquintLeft Shape = iota
	EyeSquintRight
	EyeWideLeft
	EyeWideRight

	BrowPinchLeft
	BrowPinchRight
	BrowLowererLeft
	BrowLowererRight
	BrowInnerUpLeft
	BrowInnerUpRight
	BrowOuterUpLeft
	BrowOuterUpRight

	NoseSneerLeft
	NoseSneerRight

	CheekSquintLeft
	CheekSquintRight
	CheekPuffLeft
	CheekPuffRight
	CheekSuckLeft
	CheekSuckRight

	JawOpen
	JawLeft
	JawRight
	JawForward

	MouthClosed
	MouthUpperUpLeft
	MouthUpperUpRight
	MouthLowerDownLeft
	MouthLowerDownRight
	MouthUpperLeft
	MouthUpperRight
	MouthLowerLeft
	MouthLowerRight
	MouthCornerPullLeft
	MouthCornerPullRight
	MouthCornerSlantLeft
	MouthCornerSlantRight
	MouthFrownLeft
	MouthFrownRight
	MouthStretchLeft
	MouthStretchRight
	MouthDimpleLeft
	MouthDimpleRight
	MouthRaiserUpper
	MouthRaiserLower
	MouthPressLeft
	MouthPressRight

	LipPuckerUpperLeft
	LipPuckerUpperRight
	LipPuckerLowerLeft
	LipPuckerLowerRight
	LipFunnelUpperLeft
	LipFunnelUpperRight
	LipFunnelLowerLeft
	LipFunnelLowerRight
	LipSuckUpperLeft
	LipSuckUpperRight
	LipSuckLowerLeft
	LipSuckLowerRight

	TongueOut

	numBaseShapes
)

// Combined shapes, derived from the base section every tick.
const (
	EyeLidLeft Shape = numBaseShapes + iota
	EyeLidRight
	BrowUpLeft
	BrowUpRight
	BrowDownLeft
	BrowDownRight
	BrowExpressionLeft
	BrowExpressionRight
	JawX
	MouthX
	SmileFrownLeft
	SmileFrownRight
	SmileSadLeft
	SmileSadRight
	CheekPuffSuckLeft
	CheekPuffSuckRight

	NumShapes
)

// NumBaseShapes is the size of the directly-reported section.
const NumBaseShapes = int(numBaseShapes)

var shapeNames = [NumShapes]string{
	EyeSquintLeft:  "EyeSquintLeft",
	EyeSquintRight: "EyeSquintRight",
	EyeWideLeft:    "EyeWideLeft",
	EyeWideRight:   "EyeWideRight",

	BrowPinchLeft:    "BrowPinchLeft",
	BrowPinchRight:   "BrowPinchRight",
	BrowLowererLeft:  "BrowLowererLeft",
	BrowLowererRight: "BrowLowererRight",
	BrowInnerUpLeft:  "BrowInnerUpLeft",
	BrowInnerUpRight: "BrowInnerUpRight",
	BrowOuterUpLeft:  "BrowOuterUpLeft",
	BrowOuterUpRight: "BrowOuterUpRight",

	NoseSneerLeft:  "NoseSneerLeft",
	NoseSneerRight: "NoseSneerRight",

	CheekSquintLeft:  "CheekSquintLeft",
	CheekSquintRight: "CheekSquintRight",
	CheekPuffLeft:    "CheekPuffLeft",
	CheekPuffRight:   "CheekPuffRight",
	CheekSuckLeft:    "CheekSuckLeft",
	CheekSuckRight:   "CheekSuckRight",

	JawOpen:    "JawOpen",
	JawLeft:    "JawLeft",
	JawRight:   "JawRight",
	JawForward: "JawForward",

	MouthClosed:           "MouthClosed",
	MouthUpperUpLeft:      "MouthUpperUpLeft",
	MouthUpperUpRight:     "MouthUpperUpRight",
	MouthLowerDownLeft:    "MouthLowerDownLeft",
	MouthLowerDownRight:   "MouthLowerDownRight",
	MouthUpperLeft:        "MouthUpperLeft",
	MouthUpperRight:       "MouthUpperRight",
	MouthLowerLeft:        "MouthLowerLeft",
	MouthLowerRight:       "MouthLowerRight",
	MouthCornerPullLeft:   "MouthCornerPullLeft",
	MouthCornerPullRight:  "MouthCornerPullRight",
	MouthCornerSlantLeft:  "MouthCornerSlantLeft",
	MouthCornerSlantRight: "MouthCornerSlantRight",
	MouthFrownLeft:        "MouthFrownLeft",
	MouthFrownRight:       "MouthFrownRight",
	MouthStretchLeft:      "MouthStretchLeft",
	MouthStretchRight:     "MouthStretchRight",
	MouthDimpleLeft:       "MouthDimpleLeft",
	MouthDimpleRight:      "MouthDimpleRight",
	MouthRaiserUpper:      "MouthRaiserUpper",
	MouthRaiserLower:      "MouthRaiserLower",
	MouthPressLeft:        "MouthPressLeft",
	MouthPressRight:       "MouthPressRight",

	LipPuckerUpperLeft:  "LipPuckerUpperLeft",
	LipPuckerUpperRight: "LipPuckerUpperRight",
	LipPuckerLowerLeft:  "LipPuckerLowerLeft",
	LipPuckerLowerRight: "LipPuckerLowerRight",
	LipFunnelUpperLeft:  "LipFunnelUpperLeft",
	LipFunnelUpperRight: "LipFunnelUpperRight",
	LipFunnelLowerLeft:  "LipFunnelLowerLeft",
	LipFunnelLowerRight: "LipFunnelLowerRight",
	LipSuckUpperLeft:    "LipSuckUpperLeft",
	LipSuckUpperRight:   "LipSuckUpperRight",
	LipSuckLowerLeft:    "LipSuckLowerLeft",
	LipSuckLowerRight:   "LipSuckLowerRight",

	TongueOut: "TongueOut",

	EyeLidLeft:          "EyeLidLeft",
	EyeLidRight:         "EyeLidRight",
	BrowUpLeft:          "BrowUpLeft",
	BrowUpRight:         "BrowUpRight",
	BrowDownLeft:        "BrowDownLeft",
	BrowDownRight:       "BrowDownRight",
	BrowExpressionLeft:  "BrowExpressionLeft",
	BrowExpressionRight: "BrowExpressionRight",
	JawX:                "JawX",
	MouthX:              "MouthX",
	SmileFrownLeft:      "SmileFrownLeft",
	SmileFrownRight:     "SmileFrownRight",
	SmileSadLeft:        "SmileSadLeft",
	SmileSadRight:       "SmileSadRight",
	CheekPuffSuckLeft:   "CheekPuffSuckLeft",
	CheekPuffSuckRight:  "CheekPuffSuckRight",
}

// String returns the canonical shape name used in wire parameter paths.
func (s Shape) String() string {
	if s < 0 || s >= NumShapes {
		return "Unknown"
	}
	return shapeNames[s]
}

// ShapeByName resolves a canonical name back to its index.
func ShapeByName(name string) (Shape, bool) {
	s, ok := shapeIndex[name]
	return s, ok
}

var shapeIndex = func() map[string]Shape {
	m := make(map[string]Shape, NumShapes)
	for i := Shape(0); i < NumShapes; i++ {
		m[shapeNames[i]] = i
	}
	return m
}()

// Signed reports whether a shape's weight spans [-1,1] rather than [0,1].
// Only combined difference channels are signed.
func (s Shape) Signed() bool {
	switch s {
	case BrowExpressionLeft, BrowExpressionRight, JawX, MouthX,
		SmileFrownLeft, SmileFrownRight, SmileSadLeft, SmileSadRight,
		CheekPuffSuckLeft, CheekPuffSuckRight:
		return true
	}
	return false
}
