package gesture

import (
	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/avatar"
)

// Feedback parameters of the locomotion rig.
const (
	paramTrackingType = "TrackingType"
	paramLocomotion   = "Go/Locomotion"
)

// locoPoseParams are the rig's pose selections, remembered across
// avatar switches.
var locoPoseParams = []string{"Go/StandIdle", "Go/CrouchIdle", "Go/ProneIdle"}

// Loco keeps the locomotion rig consistent with the tracking setup:
// full-body users get engine locomotion switched off so their legs
// stay theirs, and pose selections survive avatar switches, which would
// otherwise reset them to defaults.
type Loco struct {
	cfg   config.LocoConfig
	saves map[string]avatar.Value
}

var _ avatar.Processor = (*Loco)(nil)

// NewLoco builds the processor.
func NewLoco(cfg config.LocoConfig) *Loco {
	return &Loco{cfg: cfg, saves: make(map[string]avatar.Value)}
}

func (l *Loco) Name() string { return "loco" }

// Process runs on feedback alone, so it works while the source is
// offline too.
func (l *Loco) Process(t *avatar.Tick) {
	if t.AvatarChanged {
		// The switch reset the rig; replay what the user had selected.
		for _, name := range locoPoseParams {
			if v, ok := l.saves[name]; ok {
				t.Params.SetOnChange(avatar.Param(name), v)
			}
		}
	} else {
		for _, name := range locoPoseParams {
			if v, ok := t.Feedback.Lookup(name); ok {
				l.saves[name] = v
			}
		}
	}

	fullBody := t.Feedback.Int(paramTrackingType) > l.cfg.FullBodyType
	t.Params.SetOnChange(avatar.Param(paramLocomotion), avatar.Bool(!fullBody))
}
