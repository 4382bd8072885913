package source

import "github.com/avosc/avosc/pkg/tracking"

// FB face weight indices, in the wire order of both headset backends:
// the 63 expression weights followed by the 7 tongue weights.
const (
	fbBrowLowererL = iota
	fbBrowLowererR
	fbCheekPuffL
	fbCheekPuffR
	fbCheekRaiserL
	fbCheekRaiserR
	fbCheekSuckL
	fbCheekSuckR
	fbChinRaiserB
	fbChinRaiserT
	fbDimplerL
	fbDimplerR
	fbEyesClosedL
	fbEyesClosedR
	fbEyesLookDownL
	fbEyesLookDownR
	fbEyesLookLeftL
	fbEyesLookLeftR
	fbEyesLookRightL
	fbEyesLookRightR
	fbEyesLookUpL
	fbEyesLookUpR
	fbInnerBrowRaiserL
	fbInnerBrowRaiserR
	fbJawDrop
	fbJawSidewaysLeft
	fbJawSidewaysRight
	fbJawThrust
	fbLidTightenerL
	fbLidTightenerR
	fbLipCornerDepressorL
	fbLipCornerDepressorR
	fbLipCornerPullerL
	fbLipCornerPullerR
	fbLipFunnelerLB
	fbLipFunnelerLT
	fbLipFunnelerRB
	fbLipFunnelerRT
	fbLipPressorL
	fbLipPressorR
	fbLipPuckerL
	fbLipPuckerR
	fbLipStretcherL
	fbLipStretcherR
	fbLipSuckLB
	fbLipSuckLT
	fbLipSuckRB
	fbLipSuckRT
	fbLipTightenerL
	fbLipTightenerR
	fbLipsToward
	fbLowerLipDepressorL
	fbLowerLipDepressorR
	fbMouthLeft
	fbMouthRight
	fbNoseWrinklerL
	fbNoseWrinklerR
	fbOuterBrowRaiserL
	fbOuterBrowRaiserR
	fbUpperLidRaiserL
	fbUpperLidRaiserR
	fbUpperLipRaiserL
	fbUpperLipRaiserR
	fbTongueTipInterdental
	fbTongueTipAlveolar
	fbTongueFrontDorsalPalate
	fbTongueMidDorsalPalate
	fbTongueBackDorsalVelar
	fbTongueRetreat
	fbTongueOut

	fbWeightCount
)

// fbShapeMap translates one FB weight into canonical shapes. Several FB
// channels split (brow lowerer feeds both lowerer and pinch); the gaze
// direction weights are skipped because the eye quaternions carry that.
var fbShapeMap = [fbWeightCount][]tracking.Shape{
	fbBrowLowererL:        {tracking.BrowLowererLeft, tracking.BrowPinchLeft},
	fbBrowLowererR:        {tracking.BrowLowererRight, tracking.BrowPinchRight},
	fbCheekPuffL:          {tracking.CheekPuffLeft},
	fbCheekPuffR:          {tracking.CheekPuffRight},
	fbCheekRaiserL:        {tracking.CheekSquintLeft},
	fbCheekRaiserR:        {tracking.CheekSquintRight},
	fbCheekSuckL:          {tracking.CheekSuckLeft},
	fbCheekSuckR:          {tracking.CheekSuckRight},
	fbChinRaiserB:         {tracking.MouthRaiserLower},
	fbChinRaiserT:         {tracking.MouthRaiserUpper},
	fbDimplerL:            {tracking.MouthDimpleLeft},
	fbDimplerR:            {tracking.MouthDimpleRight},
	fbInnerBrowRaiserL:    {tracking.BrowInnerUpLeft},
	fbInnerBrowRaiserR:    {tracking.BrowInnerUpRight},
	fbJawDrop:             {tracking.JawOpen},
	fbJawSidewaysLeft:     {tracking.JawLeft},
	fbJawSidewaysRight:    {tracking.JawRight},
	fbJawThrust:           {tracking.JawForward},
	fbLidTightenerL:       {tracking.EyeSquintLeft},
	fbLidTightenerR:       {tracking.EyeSquintRight},
	fbLipCornerDepressorL: {tracking.MouthFrownLeft, tracking.MouthCornerSlantLeft},
	fbLipCornerDepressorR: {tracking.MouthFrownRight, tracking.MouthCornerSlantRight},
	fbLipCornerPullerL:    {tracking.MouthCornerPullLeft},
	fbLipCornerPullerR:    {tracking.MouthCornerPullRight},
	fbLipFunnelerLB:       {tracking.LipFunnelLowerLeft},
	fbLipFunnelerLT:       {tracking.LipFunnelUpperLeft},
	fbLipFunnelerRB:       {tracking.LipFunnelLowerRight},
	fbLipFunnelerRT:       {tracking.LipFunnelUpperRight},
	fbLipPressorL:         {tracking.MouthPressLeft},
	fbLipPressorR:         {tracking.MouthPressRight},
	fbLipPuckerL:          {tracking.LipPuckerUpperLeft, tracking.LipPuckerLowerLeft},
	fbLipPuckerR:          {tracking.LipPuckerUpperRight, tracking.LipPuckerLowerRight},
	fbLipStretcherL:       {tracking.MouthStretchLeft},
	fbLipStretcherR:       {tracking.MouthStretchRight},
	fbLipSuckLB:           {tracking.LipSuckLowerLeft},
	fbLipSuckLT:           {tracking.LipSuckUpperLeft},
	fbLipSuckRB:           {tracking.LipSuckLowerRight},
	fbLipSuckRT:           {tracking.LipSuckUpperRight},
	fbLipsToward:          {tracking.MouthClosed},
	fbLowerLipDepressorL:  {tracking.MouthLowerDownLeft},
	fbLowerLipDepressorR:  {tracking.MouthLowerDownRight},
	fbMouthLeft:           {tracking.MouthUpperLeft, tracking.MouthLowerLeft},
	fbMouthRight:          {tracking.MouthUpperRight, tracking.MouthLowerRight},
	fbNoseWrinklerL:       {tracking.NoseSneerLeft},
	fbNoseWrinklerR:       {tracking.NoseSneerRight},
	fbOuterBrowRaiserL:    {tracking.BrowOuterUpLeft},
	fbOuterBrowRaiserR:    {tracking.BrowOuterUpRight},
	fbUpperLidRaiserL:     {tracking.EyeWideLeft},
	fbUpperLidRaiserR:     {tracking.EyeWideRight},
	fbUpperLipRaiserL:     {tracking.MouthUpperUpLeft},
	fbUpperLipRaiserR:     {tracking.MouthUpperUpRight},
	fbTongueOut:           {tracking.TongueOut},
}

// applyFaceWeights folds a raw FB weight vector into the sample. Eye
// closure becomes openness rather than a shape; shorter vectors (no
// tongue tracking) are accepted as-is.
func applyFaceWeights(s *tracking.RawSample, weights []float32) {
	for i, w := range weights {
		if i >= fbWeightCount {
			break
		}
		switch i {
		case fbEyesClosedL:
			o := 1 - w
			s.Openness[tracking.LeftEye] = &o
		case fbEyesClosedR:
			o := 1 - w
			s.Openness[tracking.RightEye] = &o
		default:
			for _, shape := range fbShapeMap[i] {
				s.Weights = append(s.Weights, tracking.ShapeWeight{Shape: shape, Weight: w})
			}
		}
	}
}
