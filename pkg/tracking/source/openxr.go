package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/internal/httpc"
	"github.com/avosc/avosc/pkg/tracking"
)

// OpenXR polls a local runtime sidecar for its current device state.
// Unlike the event-stream source there is no session to keep alive, so
// errors only stretch the poll interval, with the gap growing under the
// same backoff policy reconnects use.
type OpenXR struct {
	base
	url      string
	interval time.Duration
	backoff  config.BackoffConfig
	client   *http.Client
}

var _ Source = (*OpenXR)(nil)

// NewOpenXR builds the device-query adapter.
func NewOpenXR(cfg config.Config) *OpenXR {
	return &OpenXR{
		base:     newBase(config.SourceOpenXR, cfg.QueueSize, cfg.StaleAfter.D()),
		url:      cfg.OpenXR.URL,
		interval: cfg.OpenXR.PollInterval.D(),
		backoff:  cfg.Backoff,
		client:   httpc.NewClient(cfg.OpenXR.RequestTimeout.D()),
	}
}

// Run polls until ctx is canceled.
func (o *OpenXR) Run(ctx context.Context) error {
	timer := time.NewTimer(o.interval)
	defer timer.Stop()

	var penalty retry.Backoff
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		next := o.interval
		if err := o.pollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if penalty == nil {
				penalty = newBackoff(o.backoff)
			}
			if d, stop := penalty.Next(); !stop {
				next = d
			}
			o.logDialError(err)
		} else {
			penalty = nil
			o.dialsKO.Store(0)
		}
		timer.Reset(next)
	}
}

func (o *OpenXR) pollOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("poll %s: %w", o.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("poll %s: status %s", o.url, resp.Status)
	}

	var state xrState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	if s := state.sample(); !s.Empty() {
		o.push(s)
	}
	return nil
}

// xrState mirrors the sidecar's state document. Absent devices are null.
type xrState struct {
	Head      *alvrPose `json:"head"`
	LeftHand  *alvrPose `json:"left_hand"`
	RightHand *alvrPose `json:"right_hand"`
	Gaze      *alvrPose `json:"gaze"`
	Face      []float32 `json:"face"`
}

func (st *xrState) sample() tracking.RawSample {
	s := tracking.RawSample{Time: time.Now()}
	if st.Head != nil {
		s.Head = st.Head.pose()
	}
	if st.LeftHand != nil {
		s.LeftHand = st.LeftHand.pose()
	}
	if st.RightHand != nil {
		s.RightHand = st.RightHand.pose()
	}
	if st.Gaze != nil {
		// The runtime reports one combined gaze; both eyes get it.
		g := tracking.GazeFromQuat(st.Gaze.pose().Orientation)
		left, right := g, g
		s.Gaze[tracking.LeftEye] = &left
		s.Gaze[tracking.RightEye] = &right
	}
	if len(st.Face) > 0 {
		applyFaceWeights(&s, st.Face)
	}
	return s
}
