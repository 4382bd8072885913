// Package calibration captures a neutral head reference and re-expresses
// every tracked pose relative to it, so downstream processors reason in
// a stable, user-centered space regardless of where the playspace origin
// landed.
package calibration

import (
	"math"
	"time"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/internal/log"
	"github.com/avosc/avosc/pkg/tracking"
)

// State is the calibrator's lifecycle position.
type State int

const (
	// Uncalibrated means no capture has started yet.
	Uncalibrated State = iota
	// Calibrating means a stability window is being collected; frames
	// pass through untransformed.
	Calibrating
	// Calibrated means every frame is re-expressed against the reference.
	Calibrated
)

func (s State) String() string {
	switch s {
	case Uncalibrated:
		return "uncalibrated"
	case Calibrating:
		return "calibrating"
	case Calibrated:
		return "calibrated"
	}
	return "unknown"
}

// Calibrator drives the reference capture and applies it to frames. It
// is owned by the tick loop; no method is safe for concurrent use.
type Calibrator struct {
	cfg    config.CalibrationConfig
	offset tracking.Pose
	fold   bool

	state     State
	window    []tracking.Pose
	reference tracking.Pose
	started   time.Time
	slow      bool
}

// New builds a calibrator. A nonzero mount offset is folded into the
// reference at convergence.
func New(cfg config.CalibrationConfig, off config.HeadOffset) *Calibrator {
	c := &Calibrator{
		cfg:    cfg,
		window: make([]tracking.Pose, 0, cfg.Window),
	}
	if !off.IsZero() {
		c.offset = offsetPose(off.X, off.Y, off.Z, off.Yaw, off.Pitch, off.Roll)
		c.fold = true
	}
	return c
}

// Begin starts (or restarts) a capture. Until it converges, frames pass
// through untransformed.
func (c *Calibrator) Begin(now time.Time) {
	c.state = Calibrating
	c.window = c.window[:0]
	c.started = now
	c.slow = false
	log.Info("calibration started")
}

// State returns the current lifecycle position.
func (c *Calibrator) State() State { return c.state }

// Slow reports whether the current capture has exceeded its time budget.
// The capture keeps running; this only feeds the status surfaces.
func (c *Calibrator) Slow() bool { return c.slow }

// Progress returns how much of the stability window is filled, in [0,1].
func (c *Calibrator) Progress() float64 {
	if c.state == Calibrated {
		return 1
	}
	if c.cfg.Window == 0 {
		return 0
	}
	return float64(len(c.window)) / float64(c.cfg.Window)
}

// Process advances the capture with this tick's frame and, once
// calibrated, rewrites the frame's poses into reference space. live
// gates window accumulation so a stale hold cannot converge on its own
// repetition.
func (c *Calibrator) Process(f *tracking.Frame, live bool, now time.Time) {
	if c.state == Calibrating {
		if live && f.HasHead {
			c.observe(f.Head)
		}
		if c.state == Calibrating && !c.slow && c.cfg.Timeout.D() > 0 && now.Sub(c.started) > c.cfg.Timeout.D() {
			c.slow = true
			log.Warn("calibration exceeding time budget, still passing frames through",
				"elapsed", now.Sub(c.started).Round(time.Second))
		}
	}

	if c.state != Calibrated {
		return
	}
	f.Head = intoFrame(c.reference, f.Head)
	if f.HasLeftHand {
		f.LeftHand = intoFrame(c.reference, f.LeftHand)
	}
	if f.HasRightHand {
		f.RightHand = intoFrame(c.reference, f.RightHand)
	}
}

// observe extends the stability window, restarting it when the head
// moved more than the configured deviation since the previous sample.
func (c *Calibrator) observe(p tracking.Pose) {
	if n := len(c.window); n > 0 {
		prev := c.window[n-1]
		posDev := p.Position.Sub(prev.Position).Len()
		angDev := float64(angleBetween(p.Orientation, prev.Orientation)) * 180 / math.Pi
		if float64(posDev) > c.cfg.MaxPosDev || angDev > c.cfg.MaxAngDevDeg {
			c.window = c.window[:0]
		}
	}
	c.window = append(c.window, p)
	if len(c.window) < c.cfg.Window {
		return
	}

	c.reference = tracking.Pose{
		Position:    meanPosition(c.window),
		Orientation: meanOrientation(c.window),
	}
	if c.fold {
		c.reference = compose(c.reference, c.offset)
	}
	c.state = Calibrated
	c.slow = false
	log.Info("calibration converged",
		"samples", len(c.window),
		"elapsed", time.Since(c.started).Round(time.Millisecond))
	c.window = c.window[:0]
}
