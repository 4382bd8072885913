package avatar

import (
	"time"

	"github.com/avosc/avosc/pkg/tracking"
)

// Tick is the per-tick context handed down the processor chain. The
// frame has already been normalized and calibrated; processors may read
// it, read consumer feedback, and write parameters.
type Tick struct {
	Now   time.Time
	Frame *tracking.Frame

	Params   *Store
	Feedback *Feedback

	// Live is false while the source is offline and the frame is a hold.
	Live bool
	// Calibrated is false while frames still pass through untransformed.
	Calibrated bool
	// AvatarChanged is true on the first tick after a consumer avatar
	// switch.
	AvatarChanged bool

	jump bool
}

// RequestJump asks for the jump input to be held this tick. Several
// stages can request it; the loop writes the merged result once, so
// stages never overwrite each other's hold.
func (t *Tick) RequestJump() { t.jump = true }

// JumpRequested reports whether any stage asked for jump this tick.
func (t *Tick) JumpRequested() bool { return t.jump }

// Processor is one stage of the per-tick chain. Stages run in a fixed
// order on the tick goroutine; they keep their own state between ticks.
type Processor interface {
	Name() string
	Process(t *Tick)
}
