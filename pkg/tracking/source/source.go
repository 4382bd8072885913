// Package source provides the tracking data adapters. Exactly one
// adapter is active per process; each one owns its transport on a
// background goroutine and hands samples to the tick loop through a
// bounded drop-oldest queue.
package source

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/internal/log"
	"github.com/avosc/avosc/pkg/tracking"
)

// Source is a single tracking data provider.
//
// Run owns the connection and blocks until ctx is canceled; it never
// returns early on transport errors, it reconnects instead. Drain and
// Online are safe to call from the tick loop while Run is active.
type Source interface {
	Name() string
	Run(ctx context.Context) error
	Drain(dst []tracking.RawSample) []tracking.RawSample
	Online() bool
	Drops() uint64
}

// New builds the adapter selected by cfg.Source.
func New(cfg config.Config) (Source, error) {
	switch cfg.Source {
	case config.SourceALVR:
		return NewALVR(cfg), nil
	case config.SourceOpenXR:
		return NewOpenXR(cfg), nil
	case config.SourceBabble:
		return NewBabble(cfg), nil
	case config.SourceDummy:
		return NewDummy(), nil
	default:
		return nil, fmt.Errorf("unknown tracking source %q", cfg.Source)
	}
}

// base carries the pieces every adapter shares: the hand-off queue and
// the liveness clock behind Online.
type base struct {
	name    string
	queue   *Queue
	stale   time.Duration
	lastNS  atomic.Int64
	dialsKO atomic.Uint64
	badKO   atomic.Uint64
}

func newBase(name string, queueSize int, stale time.Duration) base {
	return base{name: name, queue: NewQueue(queueSize), stale: stale}
}

func (b *base) Name() string { return b.name }

func (b *base) Drain(dst []tracking.RawSample) []tracking.RawSample {
	return b.queue.Drain(dst)
}

func (b *base) Drops() uint64 { return b.queue.Drops() }

// Online reports whether a sample arrived within the staleness window.
func (b *base) Online() bool {
	last := b.lastNS.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) < b.stale
}

func (b *base) push(s tracking.RawSample) {
	b.queue.Push(s)
	b.lastNS.Store(time.Now().UnixNano())
}

// logDialError keeps reconnect noise down: the first failure and every
// tenth one after it log at warn, the rest at debug.
func (b *base) logDialError(err error) {
	n := b.dialsKO.Add(1)
	if n == 1 || n%10 == 0 {
		log.Warn("source connect failed", "source", b.name, "attempts", n, "error", err)
		return
	}
	log.Debug("source connect failed", "source", b.name, "attempts", n, "error", err)
}

// logBadPayload records a sample that could not be decoded. Dropped
// payloads never stop the stream; the first and every hundredth log at
// warn so a wedged feed is visible without flooding.
func (b *base) logBadPayload(err error) {
	n := b.badKO.Add(1)
	if n == 1 || n%100 == 0 {
		log.Warn("source payload dropped", "source", b.name, "dropped", n, "error", err)
		return
	}
	log.Debug("source payload dropped", "source", b.name, "dropped", n, "error", err)
}

// serveFunc runs an established session until it drops or ctx ends.
type serveFunc func(ctx context.Context) error

// connectFunc establishes one session and returns the loop that serves it.
type connectFunc func(ctx context.Context) (serveFunc, error)

func newBackoff(cfg config.BackoffConfig) retry.Backoff {
	b := retry.NewExponential(cfg.Base.D())
	b = retry.WithCappedDuration(cfg.Cap.D(), b)
	if cfg.JitterPct > 0 {
		b = retry.WithJitterPercent(cfg.JitterPct, b)
	}
	return b
}

// runWithReconnect dials with capped exponential backoff, serves the
// session until it drops, then starts over with a fresh backoff. It
// returns only when ctx is canceled.
func runWithReconnect(ctx context.Context, b *base, cfg config.BackoffConfig, connect connectFunc) error {
	for {
		var serve serveFunc
		err := retry.Do(ctx, newBackoff(cfg), func(ctx context.Context) error {
			s, err := connect(ctx)
			if err != nil {
				b.logDialError(err)
				return retry.RetryableError(err)
			}
			serve = s
			return nil
		})
		if err != nil {
			// Only context cancellation escapes the retry loop.
			return err
		}

		b.dialsKO.Store(0)
		log.Info("source connected", "source", b.name)
		if err := serve(ctx); err != nil && ctx.Err() == nil {
			log.Warn("source disconnected", "source", b.name, "error", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
