// Package bridge drives the pipeline: drain the active source,
// normalize into the canonical frame, calibrate, run the processors,
// encode expressions and ship the tick's messages.
package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/internal/log"
	"github.com/avosc/avosc/pkg/avatar"
	"github.com/avosc/avosc/pkg/calibration"
	"github.com/avosc/avosc/pkg/tracking"
	"github.com/avosc/avosc/pkg/tracking/source"
)

const radToDeg = 180 / 3.141592653589793

// Feedback parameters the consumer toggles to gate expression output.
const (
	paramMotion     = "Motion"
	paramFaceFreeze = "FaceFreeze"
	paramFacePause  = "FacePause"
)

// Sender delivers one tick's outbound messages. *avatar.Client is the
// production implementation.
type Sender interface {
	Send(msgs []*osc.Message) int
}

// ManifestFunc loads the current avatar's parameter manifest.
type ManifestFunc func(ctx context.Context) (*avatar.Manifest, error)

// Deps are the pipeline pieces the bridge drives.
type Deps struct {
	Source   source.Source
	Cal      *calibration.Calibrator
	Procs    []avatar.Processor
	Store    *avatar.Store
	Feedback *avatar.Feedback
	Sender   Sender
	Manifest ManifestFunc // nil disables expression binding
}

// Snapshot is the bridge's published state, safe to read from any
// goroutine.
type Snapshot struct {
	Ticks       uint64  `json:"ticks"`
	Skipped     uint64  `json:"skipped"`
	Live        bool    `json:"live"`
	Calibration string  `json:"calibration"`
	Slow        bool    `json:"slow"`
	Progress    float64 `json:"progress"`
	Avatar      string  `json:"avatar"`
	Bound       int     `json:"bound"`
}

// Bridge owns the tick loop. All pipeline state is confined to that
// loop; the exported surface is the snapshot and the recalibrate
// request.
type Bridge struct {
	cfg config.Config
	d   Deps

	frame   tracking.Frame
	encoder *avatar.Encoder

	lastGen   uint64
	lastRecal bool
	paused    bool

	recalReq atomic.Bool
	ticks    atomic.Uint64
	skipped  atomic.Uint64

	manifests chan *avatar.Manifest
	loading   atomic.Bool

	buf []tracking.RawSample

	mu   sync.Mutex
	snap Snapshot
}

// New builds a bridge. Processors run in the order given.
func New(cfg config.Config, d Deps) *Bridge {
	return &Bridge{
		cfg:       cfg,
		d:         d,
		frame:     tracking.NewFrame(),
		manifests: make(chan *avatar.Manifest, 1),
		buf:       make([]tracking.RawSample, 0, cfg.QueueSize),
	}
}

// Recalibrate asks the loop to restart calibration on its next tick.
func (b *Bridge) Recalibrate() { b.recalReq.Store(true) }

// Snapshot returns the last published state.
func (b *Bridge) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Run ticks until ctx is canceled. A tick that overruns its period
// skips to the next boundary instead of backlogging.
func (b *Bridge) Run(ctx context.Context) error {
	b.requestManifest(ctx)

	ticker := time.NewTicker(b.cfg.TickPeriod())
	defer ticker.Stop()
	log.Info("bridge running",
		"rate", b.cfg.TickRate,
		"source", b.d.Source.Name(),
		"vrc", b.cfg.VRCHost, "port", b.cfg.VRCPort)

	for {
		select {
		case <-ctx.Done():
			log.Info("bridge stopped", "ticks", b.ticks.Load(), "skipped", b.skipped.Load())
			return nil
		case now := <-ticker.C:
			select {
			case <-ticker.C:
				b.skipped.Add(1)
			default:
			}
			b.tick(ctx, now)
		}
	}
}

func (b *Bridge) tick(ctx context.Context, now time.Time) {
	b.ticks.Add(1)

	select {
	case m := <-b.manifests:
		b.swapEncoder(m)
	default:
	}

	avatarChanged := false
	if _, gen := b.d.Feedback.Avatar(); gen != b.lastGen {
		b.lastGen = gen
		avatarChanged = true
		// Everything on-change must re-announce to the new avatar.
		b.d.Store.MarkAllDirty()
		b.requestManifest(ctx)
	}

	trig := b.d.Feedback.Bool(b.cfg.Calibration.TriggerParam)
	if (trig && !b.lastRecal) || b.recalReq.Swap(false) {
		b.d.Cal.Begin(now)
	}
	b.lastRecal = trig

	// Freeze holds the frame but keeps publishing it; the drained
	// samples are discarded so the queue never backs up.
	frozen := b.d.Feedback.Bool(paramMotion) != b.d.Feedback.Bool(paramFaceFreeze)
	b.buf = b.d.Source.Drain(b.buf[:0])
	fresh := len(b.buf) > 0 && !frozen
	if !frozen {
		for _, s := range b.buf {
			b.frame = tracking.Normalize(s, b.frame)
		}
	}

	live := b.d.Source.Online()
	b.d.Cal.Process(&b.frame, live && fresh, now)

	t := &avatar.Tick{
		Now:           now,
		Frame:         &b.frame,
		Params:        b.d.Store,
		Feedback:      b.d.Feedback,
		Live:          live,
		Calibrated:    b.d.Cal.State() == calibration.Calibrated,
		AvatarChanged: avatarChanged,
	}
	for _, p := range b.d.Procs {
		p.Process(t)
	}
	jump := int32(0)
	if t.JumpRequested() {
		jump = 1
	}
	b.d.Store.SetOnChange(avatar.AddrInputJump, avatar.Int(jump))

	pause := b.d.Feedback.Bool(paramFacePause)
	if pause && !b.paused && b.encoder != nil {
		// Going quiet means the stream stops, not just stops changing.
		b.encoder.Release(b.d.Store)
	}
	b.paused = pause

	var eyes []*osc.Message
	if !pause {
		if b.encoder != nil {
			b.encoder.Encode(&b.frame, b.d.Store)
			b.d.Store.SetOnChange(avatar.Param("ExpressionTrackingActive"), avatar.Bool(true))
			b.d.Store.SetOnChange(avatar.Param("LipTrackingActive"), avatar.Bool(true))
		}
		eyes = b.eyeMessages()
	}

	msgs := append(b.d.Store.Flush(), eyes...)
	if len(msgs) > 0 {
		b.d.Sender.Send(msgs)
	}

	b.publish(live)
}

// eyeMessages builds the native eye endpoints. The gaze endpoint wants
// degrees with pitch positive looking down; closure only goes out when
// the avatar has no lid binding of its own.
func (b *Bridge) eyeMessages() []*osc.Message {
	if !b.frame.HasEyes {
		return nil
	}
	msgs := make([]*osc.Message, 0, 2)

	if b.encoder == nil || !b.encoder.Binds(tracking.EyeLidLeft) {
		closed := osc.NewMessage(avatar.AddrEyesClosed)
		closed.Append(1 - b.frame.Openness[tracking.LeftEye])
		msgs = append(msgs, closed)
	}

	l := b.frame.Gaze[tracking.LeftEye]
	r := b.frame.Gaze[tracking.RightEye]
	py := osc.NewMessage(avatar.AddrEyesPitchYaw)
	py.Append(-l.Pitch * radToDeg)
	py.Append(l.Yaw * radToDeg)
	py.Append(-r.Pitch * radToDeg)
	py.Append(r.Yaw * radToDeg)
	return append(msgs, py)
}

func (b *Bridge) swapEncoder(m *avatar.Manifest) {
	if b.encoder != nil {
		b.encoder.Release(b.d.Store)
	}
	b.encoder = avatar.NewEncoder(m)
	log.Info("avatar manifest loaded",
		"avatar", m.Avatar, "params", m.Len(), "bound", b.encoder.Bound())
}

// requestManifest starts one background manifest load; the result is
// swapped in at the top of a later tick.
func (b *Bridge) requestManifest(ctx context.Context) {
	if b.d.Manifest == nil || !b.loading.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer b.loading.Store(false)
		m, err := b.d.Manifest(ctx)
		if err != nil {
			log.Warn("manifest load failed", "err", err)
			return
		}
		select {
		case b.manifests <- m:
		default:
		}
	}()
}

func (b *Bridge) publish(live bool) {
	id, _ := b.d.Feedback.Avatar()
	bound := 0
	if b.encoder != nil {
		bound = b.encoder.Bound()
	}
	snap := Snapshot{
		Ticks:       b.ticks.Load(),
		Skipped:     b.skipped.Load(),
		Live:        live,
		Calibration: b.d.Cal.State().String(),
		Slow:        b.d.Cal.Slow(),
		Progress:    b.d.Cal.Progress(),
		Avatar:      id,
		Bound:       bound,
	}
	b.mu.Lock()
	b.snap = snap
	b.mu.Unlock()
}
