package paging

import (
	"time"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/avatar"
)

// Wire parameters. Ext* flow consumer→system, Int* system→consumer.
const (
	paramExtIndex = "ExtIndex"
	paramExtValue = "ExtValue"
	paramIntIndex = "IntIndex"
	paramIntValue = "IntValue"
)

// Processor runs the paging exchange. While the consumer reports a
// nonzero ExtIndex it is writing into the table and the outbound stream
// pauses; while it reports zero it is ready, and the processor walks
// the table one slot per cadence step, skipping slots parked at a
// negative value, wrapping forever.
type Processor struct {
	cfg   config.PagingConfig
	table *Table

	cursor   int
	lastStep time.Time
}

var _ avatar.Processor = (*Processor)(nil)

// New builds the processor around a shared table.
func New(cfg config.PagingConfig, table *Table) *Processor {
	return &Processor{cfg: cfg, table: table}
}

func (p *Processor) Name() string { return "paging" }

func (p *Processor) Process(t *avatar.Tick) {
	if ext := t.Feedback.Int(paramExtIndex); ext != 0 {
		if ext > 0 && int(ext) < p.cfg.TableSize {
			p.table.Set(int(ext), t.Feedback.Float(paramExtValue))
		}
		return
	}

	if d := p.cfg.Interval.D(); d > 0 && !p.lastStep.IsZero() && t.Now.Sub(p.lastStep) < d {
		return
	}
	slot, ok := p.next()
	if !ok {
		return
	}
	p.lastStep = t.Now
	t.Params.SetOnChange(avatar.Param(paramIntIndex), avatar.Int(int32(slot.Index)))
	t.Params.SetOnChange(avatar.Param(paramIntValue), avatar.Float(slot.Value))
}

// next finds the following publishable slot in traversal order.
func (p *Processor) next() (Slot, bool) {
	n := p.table.Len()
	for i := 0; i < n; i++ {
		slot := p.table.at((p.cursor + i) % n)
		if slot.Value < 0 {
			continue
		}
		p.cursor = (p.cursor + i + 1) % n
		return slot, true
	}
	return Slot{}, false
}
