package gesture

import (
	"testing"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/avatar"
	"github.com/avosc/avosc/pkg/tracking"
)

func locoCfg() config.LocoConfig {
	return config.LocoConfig{
		FullBodyType:   5,
		FlightEmoteMin: 120,
		FlightEmoteMax: 125,
	}
}

func TestLocoDisablesEngineForFullBody(t *testing.T) {
	r := newRig()
	l := NewLoco(locoCfg())
	f := tracking.NewFrame()

	r.feedback.Update("TrackingType", avatar.Int(6))
	l.Process(r.tick(&f))
	if v, _ := r.store.Get(avatar.Param("Go/Locomotion")); v.B {
		t.Error("full-body tracking should disable engine locomotion")
	}

	r.feedback.Update("TrackingType", avatar.Int(3))
	l.Process(r.tick(&f))
	if v, _ := r.store.Get(avatar.Param("Go/Locomotion")); !v.B {
		t.Error("three-point tracking should keep engine locomotion on")
	}
}

func TestLocoReplaysPoseSavesOnAvatarChange(t *testing.T) {
	r := newRig()
	l := NewLoco(locoCfg())
	f := tracking.NewFrame()

	r.feedback.Update("Go/StandIdle", avatar.Float(2))
	r.feedback.Update("Go/CrouchIdle", avatar.Float(4))
	l.Process(r.tick(&f))

	// The switch clears the reported state.
	r.feedback.SetAvatar("avtr_next")
	if _, ok := r.feedback.Lookup("Go/StandIdle"); ok {
		t.Fatal("avatar switch should clear feedback")
	}

	tk := r.tick(&f)
	tk.AvatarChanged = true
	l.Process(tk)

	if v, ok := r.store.Get(avatar.Param("Go/StandIdle")); !ok || v.F != 2 {
		t.Errorf("stand pose not replayed: %v (present=%v)", v, ok)
	}
	if v, ok := r.store.Get(avatar.Param("Go/CrouchIdle")); !ok || v.F != 4 {
		t.Errorf("crouch pose not replayed: %v (present=%v)", v, ok)
	}
	if _, ok := r.store.Get(avatar.Param("Go/ProneIdle")); ok {
		t.Error("never-reported pose should not be replayed")
	}
}
