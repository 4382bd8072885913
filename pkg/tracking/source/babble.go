package source

import (
	"context"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/tracking"
)

// Full eye deflection from the face tracker maps to this many radians.
const etvrGazeRange = float32(math.Pi / 6)

// Babble listens for the face and eye trackers' OSC streams on a local
// UDP port. Face weights arrive one message per blend shape under the
// tracker's own address space; eye parameters arrive in avatar
// parameter form with normalized [-1,1] axes.
type Babble struct {
	base
	port    int
	backoff config.BackoffConfig

	// Last seen per-eye angles. Axis messages arrive independently, so
	// each one is folded into this state before a gaze is emitted.
	// Only the server's read goroutine touches it.
	gaze [2]tracking.Gaze
}

var _ Source = (*Babble)(nil)

// NewBabble builds the local-socket adapter.
func NewBabble(cfg config.Config) *Babble {
	return &Babble{
		base:    newBase(config.SourceBabble, cfg.Babble.QueueSize, cfg.StaleAfter.D()),
		port:    cfg.Babble.ListenPort,
		backoff: cfg.Backoff,
	}
}

// Run binds the UDP port and serves until ctx is canceled. The bind is
// retried with backoff so a lingering old process does not kill us.
func (b *Babble) Run(ctx context.Context) error {
	return runWithReconnect(ctx, &b.base, b.backoff, b.connect)
}

func (b *Babble) connect(ctx context.Context) (serveFunc, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", b.port)
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	return func(ctx context.Context) error {
		defer conn.Close()

		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-done:
			}
		}()

		server := &osc.Server{Addr: addr, Dispatcher: b}
		if err := server.Serve(conn); err != nil {
			return fmt.Errorf("serve osc: %w", err)
		}
		return nil
	}, nil
}

// Dispatch folds one OSC packet into a single sample.
func (b *Babble) Dispatch(packet osc.Packet) {
	s := tracking.RawSample{Time: time.Now()}
	b.fold(packet, &s)
	if !s.Empty() {
		b.push(s)
	}
}

func (b *Babble) fold(packet osc.Packet, s *tracking.RawSample) {
	switch p := packet.(type) {
	case *osc.Message:
		b.foldMessage(p, s)
	case *osc.Bundle:
		for _, m := range p.Messages {
			b.foldMessage(m, s)
		}
		for _, sub := range p.Bundles {
			b.fold(sub, s)
		}
	}
}

func (b *Babble) foldMessage(msg *osc.Message, s *tracking.RawSample) {
	if msg == nil || len(msg.Arguments) == 0 {
		return
	}
	w, ok := floatArg(msg.Arguments[0])
	if !ok {
		return
	}

	name := strings.TrimPrefix(msg.Address, "/avatar/parameters")
	name = strings.TrimPrefix(name, "/")

	switch name {
	case "LeftEyeX":
		b.setGaze(s, tracking.LeftEye, w*etvrGazeRange, nil)
	case "RightEyeX":
		b.setGaze(s, tracking.RightEye, w*etvrGazeRange, nil)
	case "EyesY":
		pitch := w * etvrGazeRange
		b.setGaze(s, tracking.LeftEye, 0, &pitch)
		b.setGaze(s, tracking.RightEye, 0, &pitch)
	case "LeftEyeLid", "LeftEyeLidExpandedSqueeze":
		o := clampWeight(w)
		s.Openness[tracking.LeftEye] = &o
	case "RightEyeLid", "RightEyeLidExpandedSqueeze":
		o := clampWeight(w)
		s.Openness[tracking.RightEye] = &o
	case "eyeBlinkLeft":
		o := clampWeight(1 - w)
		s.Openness[tracking.LeftEye] = &o
	case "eyeBlinkRight":
		o := clampWeight(1 - w)
		s.Openness[tracking.RightEye] = &o
	default:
		for _, shape := range babbleShapeMap[name] {
			s.Weights = append(s.Weights, tracking.ShapeWeight{Shape: shape, Weight: w})
		}
	}
}

// setGaze updates one axis of the remembered eye state and emits the
// merged gaze. pitch nil means the message carried only yaw.
func (b *Babble) setGaze(s *tracking.RawSample, eye int, yaw float32, pitch *float32) {
	if pitch != nil {
		b.gaze[eye].Pitch = *pitch
	} else {
		b.gaze[eye].Yaw = yaw
	}
	g := b.gaze[eye]
	s.Gaze[eye] = &g
}

func clampWeight(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func floatArg(v interface{}) (float32, bool) {
	switch x := v.(type) {
	case float32:
		return x, true
	case float64:
		return float32(x), true
	case int32:
		return float32(x), true
	case int64:
		return float32(x), true
	}
	return 0, false
}

// babbleShapeMap translates the tracker's blend shape addresses, sans
// leading slash, into canonical shapes. Unknown addresses are ignored:
// trackers ship more channels than any avatar binds.
var babbleShapeMap = map[string][]tracking.Shape{
	"browDownLeft":        {tracking.BrowLowererLeft, tracking.BrowPinchLeft},
	"browDownRight":       {tracking.BrowLowererRight, tracking.BrowPinchRight},
	"browInnerUp":         {tracking.BrowInnerUpLeft, tracking.BrowInnerUpRight},
	"browInnerUpLeft":     {tracking.BrowInnerUpLeft},
	"browInnerUpRight":    {tracking.BrowInnerUpRight},
	"browOuterUpLeft":     {tracking.BrowOuterUpLeft},
	"browOuterUpRight":    {tracking.BrowOuterUpRight},
	"cheekPuff":           {tracking.CheekPuffLeft, tracking.CheekPuffRight},
	"cheekPuffLeft":       {tracking.CheekPuffLeft},
	"cheekPuffRight":      {tracking.CheekPuffRight},
	"cheekSquintLeft":     {tracking.CheekSquintLeft},
	"cheekSquintRight":    {tracking.CheekSquintRight},
	"cheekSuckLeft":       {tracking.CheekSuckLeft},
	"cheekSuckRight":      {tracking.CheekSuckRight},
	"eyeSquintLeft":       {tracking.EyeSquintLeft},
	"eyeSquintRight":      {tracking.EyeSquintRight},
	"eyeWideLeft":         {tracking.EyeWideLeft},
	"eyeWideRight":        {tracking.EyeWideRight},
	"jawForward":          {tracking.JawForward},
	"jawLeft":             {tracking.JawLeft},
	"jawOpen":             {tracking.JawOpen},
	"jawRight":            {tracking.JawRight},
	"mouthClose":          {tracking.MouthClosed},
	"mouthDimpleLeft":     {tracking.MouthDimpleLeft},
	"mouthDimpleRight":    {tracking.MouthDimpleRight},
	"mouthFrownLeft":      {tracking.MouthFrownLeft, tracking.MouthCornerSlantLeft},
	"mouthFrownRight":     {tracking.MouthFrownRight, tracking.MouthCornerSlantRight},
	"mouthFunnel":         {tracking.LipFunnelUpperLeft, tracking.LipFunnelUpperRight, tracking.LipFunnelLowerLeft, tracking.LipFunnelLowerRight},
	"mouthLeft":           {tracking.MouthUpperLeft, tracking.MouthLowerLeft},
	"mouthLowerDownLeft":  {tracking.MouthLowerDownLeft},
	"mouthLowerDownRight": {tracking.MouthLowerDownRight},
	"mouthPressLeft":      {tracking.MouthPressLeft},
	"mouthPressRight":     {tracking.MouthPressRight},
	"mouthPucker":         {tracking.LipPuckerUpperLeft, tracking.LipPuckerUpperRight, tracking.LipPuckerLowerLeft, tracking.LipPuckerLowerRight},
	"mouthRight":          {tracking.MouthUpperRight, tracking.MouthLowerRight},
	"mouthRollLower":      {tracking.LipSuckLowerLeft, tracking.LipSuckLowerRight},
	"mouthRollUpper":      {tracking.LipSuckUpperLeft, tracking.LipSuckUpperRight},
	"mouthShrugLower":     {tracking.MouthRaiserLower},
	"mouthShrugUpper":     {tracking.MouthRaiserUpper},
	"mouthSmileLeft":      {tracking.MouthCornerPullLeft},
	"mouthSmileRight":     {tracking.MouthCornerPullRight},
	"mouthStretchLeft":    {tracking.MouthStretchLeft},
	"mouthStretchRight":   {tracking.MouthStretchRight},
	"mouthUpperUpLeft":    {tracking.MouthUpperUpLeft},
	"mouthUpperUpRight":   {tracking.MouthUpperUpRight},
	"noseSneerLeft":       {tracking.NoseSneerLeft},
	"noseSneerRight":      {tracking.NoseSneerRight},
	"tongueOut":           {tracking.TongueOut},
}
