// Package gesture holds the stateful tick processors that turn tracked
// motion into avatar inputs: gaze and face driving, locomotion state
// upkeep, and the hands-up ascend shortcut.
package gesture

import (
	"math"
	"time"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/avatar"
	"github.com/avosc/avosc/pkg/tracking"
)

const radToDeg = 180 / math.Pi

// trigger is a debounced threshold detector. The raw condition must
// hold continuously for the hold duration to fire, and once fired it
// stays on until the release condition is met, so a signal hovering at
// the threshold cannot flap.
type trigger struct {
	hold   time.Duration
	since  time.Time
	active bool
}

func (tr *trigger) update(now time.Time, raw, release bool) bool {
	if tr.active {
		if release {
			tr.reset()
		}
		return tr.active
	}
	if !raw {
		tr.since = time.Time{}
		return false
	}
	if tr.since.IsZero() {
		tr.since = now
	}
	if now.Sub(tr.since) >= tr.hold {
		tr.active = true
	}
	return tr.active
}

func (tr *trigger) reset() {
	tr.active = false
	tr.since = time.Time{}
}

// Autopilot drives movement from gaze and face weights for hands-free
// play. Everything is gated on an avatar-declared arm parameter so the
// avatar decides when its wearer trusts face steering.
type Autopilot struct {
	cfg config.AutopilotConfig

	look  trigger
	jump  trigger
	fwd   trigger
	back  trigger
	voice trigger
}

var _ avatar.Processor = (*Autopilot)(nil)

// NewAutopilot builds the processor with its thresholds.
func NewAutopilot(cfg config.AutopilotConfig) *Autopilot {
	hold := cfg.Hold.D()
	return &Autopilot{
		cfg:   cfg,
		look:  trigger{hold: hold},
		jump:  trigger{hold: hold},
		fwd:   trigger{hold: hold},
		back:  trigger{hold: hold},
		voice: trigger{hold: hold},
	}
}

func (a *Autopilot) Name() string { return "autopilot" }

// Process updates every channel. Outputs are edge-triggered inputs, so
// they only hit the wire when they change.
func (a *Autopilot) Process(t *avatar.Tick) {
	if !t.Live || !t.Feedback.Bool(a.cfg.ArmParam) {
		a.neutral(t)
		return
	}

	yawDeg := float64(t.Frame.GazeYaw()) * radToDeg
	pitchDeg := float64(t.Frame.GazePitch()) * radToDeg

	// Steering: looking past the edge turns, with strength growing the
	// further the gaze goes.
	edge := a.cfg.GazeEdgeDeg
	lookOut := 0.0
	if a.look.update(t.Now,
		math.Abs(yawDeg) > edge,
		math.Abs(yawDeg) < edge-a.cfg.GazeMargin) {
		lookOut = clampAxis(yawDeg * a.cfg.LookGain)
	}
	t.Params.SetOnChange(avatar.AddrInputLookHorizontal, avatar.Float(float32(lookOut)))

	// Looking far up jumps.
	if a.jump.update(t.Now,
		pitchDeg > a.cfg.JumpPitchDeg,
		pitchDeg < a.cfg.JumpPitchDeg-a.cfg.GazeMargin) {
		t.RequestJump()
	}

	// Cheeks drive the forward axis: puff forward, suck backward.
	drive := float64(t.Frame.Shape(tracking.CheekPuffSuckLeft)+t.Frame.Shape(tracking.CheekPuffSuckRight)) / 2
	fwd := a.fwd.update(t.Now,
		drive > a.cfg.PuffThresh,
		drive < a.cfg.PuffThresh-a.cfg.Margin)
	back := a.back.update(t.Now,
		drive < -a.cfg.SuckThresh,
		drive > -(a.cfg.SuckThresh-a.cfg.Margin))
	axis := 0.0
	if fwd || back {
		axis = clampAxis(drive * a.cfg.MoveGain)
	}
	t.Params.SetOnChange(avatar.AddrInputVertical, avatar.Float(float32(axis)))

	// Raised brows hold the voice button; it re-arms only after the
	// brows come back down past the release level.
	brow := float64(t.Frame.Shape(tracking.BrowUpLeft)+t.Frame.Shape(tracking.BrowUpRight)) / 2
	voice := int32(0)
	if a.voice.update(t.Now, brow > a.cfg.BrowThresh, brow < a.cfg.BrowRelease) {
		voice = 1
	}
	t.Params.SetOnChange(avatar.AddrInputVoice, avatar.Int(voice))
}

// neutral zeroes every owned output and disarms the triggers.
func (a *Autopilot) neutral(t *avatar.Tick) {
	a.look.reset()
	a.jump.reset()
	a.fwd.reset()
	a.back.reset()
	a.voice.reset()
	t.Params.SetOnChange(avatar.AddrInputLookHorizontal, avatar.Float(0))
	t.Params.SetOnChange(avatar.AddrInputVertical, avatar.Float(0))
	t.Params.SetOnChange(avatar.AddrInputVoice, avatar.Int(0))
}

func clampAxis(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
