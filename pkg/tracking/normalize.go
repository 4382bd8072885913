package tracking

// Normalize merges one raw sample into the previous frame, producing the
// next frame. It is pure: same inputs, same output, no side effects.
//
// Every field the sample does not carry keeps the previous frame's value
// (last-known-value hold), so a sub-stream dropping a single sample never
// produces a discontinuity. Weights and openness are clamped to their
// valid range and orientations re-normalized, whatever the backend sent.
func Normalize(raw RawSample, prev Frame) Frame {
	f := prev
	if !raw.Time.IsZero() {
		f.Time = raw.Time
	}

	if raw.Head != nil {
		f.Head = normalizePose(*raw.Head)
		f.HasHead = true
	}
	if raw.LeftHand != nil {
		f.LeftHand = normalizePose(*raw.LeftHand)
		f.HasLeftHand = true
	}
	if raw.RightHand != nil {
		f.RightHand = normalizePose(*raw.RightHand)
		f.HasRightHand = true
	}

	for eye := 0; eye < 2; eye++ {
		if g := raw.Gaze[eye]; g != nil {
			f.Gaze[eye] = *g
			f.HasEyes = true
		}
		if o := raw.Openness[eye]; o != nil {
			f.Openness[eye] = clamp01(*o)
			f.HasEyes = true
		}
	}

	// Only base shapes are writable; the combined section is derived.
	for _, sw := range raw.Weights {
		if sw.Shape < 0 || sw.Shape >= numBaseShapes {
			continue
		}
		f.Shapes[sw.Shape] = clamp01(sw.Weight)
		f.HasFace = true
	}

	computeCombined(&f)
	return f
}
