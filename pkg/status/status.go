// Package status renders the one-line terminal readout: per-second
// tick/receive/send meters plus source, calibration and avatar state.
package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to a TTY. Users can
	// disable with the NO_COLOR environment variable.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	label = color.New(color.FgCyan)
	good  = color.New(color.FgGreen)
	warn  = color.New(color.FgYellow)
	bad   = color.New(color.FgRed, color.Bold)
)

// Snapshot is one status readout sampled from the pipeline. Counter
// fields are process totals; the renderer turns them into rates.
type Snapshot struct {
	Source      string
	Online      bool
	Calibration string
	Slow        bool
	Avatar      string

	Ticks uint64
	Recv  uint64
	Sent  uint64
	Drops uint64
}

// Provider samples the pipeline state. Called from the render loop, so
// it must be safe to call concurrently with the tick loop.
type Provider func() Snapshot

// meter turns a monotonically increasing total into a per-second rate,
// refreshed once a second.
type meter struct {
	lastTotal uint64
	lastAt    time.Time
	rate      float64
}

func (m *meter) update(total uint64, now time.Time) float64 {
	if m.lastAt.IsZero() {
		m.lastTotal, m.lastAt = total, now
		return 0
	}
	dt := now.Sub(m.lastAt).Seconds()
	if dt < 1 {
		return m.rate
	}
	m.rate = float64(total-m.lastTotal) / dt
	m.lastTotal, m.lastAt = total, now
	return m.rate
}

// Line renders the rolling status line in place.
type Line struct {
	provider Provider
	out      io.Writer
	interval time.Duration

	ticks meter
	recv  meter
	sent  meter
}

// NewLine returns a renderer refreshing at 10 Hz on stdout.
func NewLine(p Provider) *Line {
	return &Line{
		provider: p,
		out:      os.Stdout,
		interval: 100 * time.Millisecond,
	}
}

// SetOutput redirects the rendered line.
func (l *Line) SetOutput(w io.Writer) { l.out = w }

// Run renders until ctx is canceled, then prints a final line and
// returns.
func (l *Line) Run(ctx context.Context) {
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			l.render(time.Now())
			fmt.Fprintln(l.out)
			return
		case now := <-t.C:
			l.render(now)
		}
	}
}

func (l *Line) render(now time.Time) {
	fmt.Fprintf(l.out, "\r%s", l.format(l.provider(), now))
}

// format builds the line. Every field is padded before coloring so the
// rendered width stays constant and shorter values overwrite longer
// ones.
func (l *Line) format(s Snapshot, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %4.0f/s  ", label.Sprint("TICK"), l.ticks.update(s.Ticks, now))
	fmt.Fprintf(&b, "%s %4.0f/s  ", label.Sprint("RECV"), l.recv.update(s.Recv, now))
	fmt.Fprintf(&b, "%s %4.0f/s  ", label.Sprint("SEND"), l.sent.update(s.Sent, now))

	dot := bad.Sprint("●")
	if s.Online {
		dot = good.Sprint("●")
	}
	fmt.Fprintf(&b, "%s %s %s  ", label.Sprint("SRC"), dot, pad(s.Source, 6))

	cal := s.Calibration
	if s.Slow {
		cal += " (slow)"
	}
	cal = pad(cal, 18)
	switch s.Calibration {
	case "calibrated":
		cal = good.Sprint(cal)
	case "calibrating":
		cal = warn.Sprint(cal)
	}
	fmt.Fprintf(&b, "%s %s  ", label.Sprint("CAL"), cal)

	avatar := s.Avatar
	if avatar == "" {
		avatar = "-"
	}
	fmt.Fprintf(&b, "%s %s", label.Sprint("AVI"), pad(avatar, 24))

	if s.Drops > 0 {
		fmt.Fprintf(&b, "  %s %4d", warn.Sprint("DROP"), s.Drops)
	}
	return b.String()
}

// pad fixes a plain string's width before any color wrapping; escape
// codes would break printf width counting.
func pad(s string, w int) string {
	return fmt.Sprintf("%-*.*s", w, w, s)
}
