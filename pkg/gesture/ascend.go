package gesture

import (
	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/avatar"
)

// paramEmote is the consumer's active emote slot; a contiguous range of
// slots is reserved for flight.
const paramEmote = "VRCEmote"

// Ascend holds jump while the player flies hands-up: flight emote
// active, the avatar flags itself ready, and both controllers clearly
// above the head. Any condition dropping releases immediately; the
// clearance band keeps hand jitter from toggling it.
type Ascend struct {
	loco config.LocoConfig
	cfg  config.AscendConfig
}

var _ avatar.Processor = (*Ascend)(nil)

// NewAscend builds the processor. The flight emote range comes from the
// locomotion config because the same rig defines it.
func NewAscend(cfg config.AscendConfig, loco config.LocoConfig) *Ascend {
	return &Ascend{loco: loco, cfg: cfg}
}

func (q *Ascend) Name() string { return "ascend" }

func (q *Ascend) Process(t *avatar.Tick) {
	emote := t.Feedback.Int(paramEmote)
	if emote < q.loco.FlightEmoteMin || emote > q.loco.FlightEmoteMax {
		return
	}
	if !t.Feedback.Bool(q.cfg.ReadyParam) {
		return
	}
	f := t.Frame
	if !t.Live || !f.HasHead || !f.HasLeftHand || !f.HasRightHand {
		return
	}
	floor := f.Head.Position.Y() + float32(q.cfg.HeadClearance)
	if f.LeftHand.Position.Y() > floor && f.RightHand.Position.Y() > floor {
		t.RequestJump()
	}
}
