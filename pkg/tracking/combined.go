package tracking

// computeCombined fills the combined section of f.Shapes from the base
// section and the per-eye openness. Difference channels are signed.
func computeCombined(f *Frame) {
	s := &f.Shapes

	// Lid channels blend openness with widening so a surprised face
	// reads beyond a fully-open neutral eye.
	openL := clamp01(f.Openness[LeftEye])
	openR := clamp01(f.Openness[RightEye])
	s[EyeLidLeft] = clamp01(openL*0.75 + s[EyeWideLeft]*openL*0.25)
	s[EyeLidRight] = clamp01(openR*0.75 + s[EyeWideRight]*openR*0.25)

	s[BrowUpLeft] = clamp01((s[BrowInnerUpLeft] + s[BrowOuterUpLeft]) / 2)
	s[BrowUpRight] = clamp01((s[BrowInnerUpRight] + s[BrowOuterUpRight]) / 2)
	s[BrowDownLeft] = clamp01((s[BrowLowererLeft] + s[BrowPinchLeft]) / 2)
	s[BrowDownRight] = clamp01((s[BrowLowererRight] + s[BrowPinchRight]) / 2)
	s[BrowExpressionLeft] = clampSigned(s[BrowUpLeft] - s[BrowDownLeft])
	s[BrowExpressionRight] = clampSigned(s[BrowUpRight] - s[BrowDownRight])

	s[JawX] = clampSigned(s[JawRight] - s[JawLeft])
	s[MouthX] = clampSigned((s[MouthUpperRight]+s[MouthLowerRight])/2 -
		(s[MouthUpperLeft]+s[MouthLowerLeft])/2)

	s[SmileFrownLeft] = clampSigned(s[MouthCornerPullLeft] - s[MouthFrownLeft])
	s[SmileFrownRight] = clampSigned(s[MouthCornerPullRight] - s[MouthFrownRight])
	s[SmileSadLeft] = clampSigned(s[MouthCornerPullLeft] - (s[MouthFrownLeft]+s[MouthStretchLeft])/2)
	s[SmileSadRight] = clampSigned(s[MouthCornerPullRight] - (s[MouthFrownRight]+s[MouthStretchRight])/2)

	s[CheekPuffSuckLeft] = clampSigned(s[CheekPuffLeft] - s[CheekSuckLeft])
	s[CheekPuffSuckRight] = clampSigned(s[CheekPuffRight] - s[CheekSuckRight])
}
