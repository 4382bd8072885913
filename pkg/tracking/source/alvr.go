package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/tracking"
)

// ALVR consumes the streamer's websocket event feed. Each tracking
// event carries head and controller motion, per-eye gaze orientations
// and the FB face weight vector.
type ALVR struct {
	base
	url     string
	backoff config.BackoffConfig
}

var _ Source = (*ALVR)(nil)

// NewALVR builds the event-stream adapter.
func NewALVR(cfg config.Config) *ALVR {
	return &ALVR{
		base:    newBase(config.SourceALVR, cfg.QueueSize, cfg.StaleAfter.D()),
		url:     cfg.ALVR.URL,
		backoff: cfg.Backoff,
	}
}

// Run connects to the event feed and reconnects until ctx is canceled.
func (a *ALVR) Run(ctx context.Context) error {
	return runWithReconnect(ctx, &a.base, a.backoff, a.connect)
}

func (a *ALVR) connect(ctx context.Context) (serveFunc, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	header := http.Header{}
	header.Set("X-ALVR", "true")

	conn, resp, err := dialer.DialContext(ctx, a.url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("dial %s: %w", a.url, err)
	}

	return func(ctx context.Context) error {
		defer conn.Close()

		// Unblock ReadMessage when the context ends.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-done:
			}
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return fmt.Errorf("read event: %w", err)
			}
			a.handleEvent(data)
		}
	}, nil
}

// The event envelope tags each payload with its variant name; anything
// other than a tracking event is ignored.
type alvrEvent struct {
	EventType json.RawMessage `json:"event_type"`
}

type alvrTracking struct {
	HeadMotion        *alvrMotion    `json:"head_motion"`
	ControllerMotions [2]*alvrMotion `json:"controller_motions"`
	EyeGazes          [2]*alvrPose   `json:"eye_gazes"`
	FBFaceExpression  []float32      `json:"fb_face_expression"`
}

type alvrMotion struct {
	Pose alvrPose `json:"pose"`
}

// alvrPose uses the feed's array layout: orientation x,y,z,w.
type alvrPose struct {
	Orientation [4]float32 `json:"orientation"`
	Position    [3]float32 `json:"position"`
}

func (p *alvrPose) pose() *tracking.Pose {
	return &tracking.Pose{
		Position: mgl32.Vec3{p.Position[0], p.Position[1], p.Position[2]},
		Orientation: mgl32.Quat{
			W: p.Orientation[3],
			V: mgl32.Vec3{p.Orientation[0], p.Orientation[1], p.Orientation[2]},
		},
	}
}

func (a *ALVR) handleEvent(data []byte) {
	var ev alvrEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		a.logBadPayload(err)
		return
	}
	var variants map[string]json.RawMessage
	if err := json.Unmarshal(ev.EventType, &variants); err != nil {
		// Unit variants (e.g. connection notices) encode as plain strings.
		return
	}
	raw, ok := variants["Tracking"]
	if !ok {
		return
	}
	var t alvrTracking
	if err := json.Unmarshal(raw, &t); err != nil {
		a.logBadPayload(err)
		return
	}

	s := tracking.RawSample{Time: time.Now()}
	if t.HeadMotion != nil {
		s.Head = t.HeadMotion.Pose.pose()
	}
	if t.ControllerMotions[0] != nil {
		s.LeftHand = t.ControllerMotions[0].Pose.pose()
	}
	if t.ControllerMotions[1] != nil {
		s.RightHand = t.ControllerMotions[1].Pose.pose()
	}
	for eye, gaze := range t.EyeGazes {
		if gaze == nil {
			continue
		}
		g := tracking.GazeFromQuat(gaze.pose().Orientation)
		s.Gaze[eye] = &g
	}
	if len(t.FBFaceExpression) > 0 {
		applyFaceWeights(&s, t.FBFaceExpression)
	}
	if !s.Empty() {
		a.push(s)
	}
}
