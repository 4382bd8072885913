package paging

import (
	"testing"
	"time"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/pkg/avatar"
	"github.com/avosc/avosc/pkg/tracking"
)

func pagingCfg(interval time.Duration) config.PagingConfig {
	return config.PagingConfig{
		Interval:  config.Duration(interval),
		TableSize: 255,
	}
}

type pagingRig struct {
	store    *avatar.Store
	feedback *avatar.Feedback
	now      time.Time
}

func newPagingRig() *pagingRig {
	return &pagingRig{
		store:    avatar.NewStore(),
		feedback: avatar.NewFeedback(),
		now:      time.Unix(1000, 0),
	}
}

func (r *pagingRig) tick() *avatar.Tick {
	f := tracking.NewFrame()
	return &avatar.Tick{
		Now:      r.now,
		Frame:    &f,
		Params:   r.store,
		Feedback: r.feedback,
		Live:     true,
	}
}

func (r *pagingRig) published() (int32, float32) {
	idx, _ := r.store.Get(avatar.Param("IntIndex"))
	val, _ := r.store.Get(avatar.Param("IntValue"))
	return idx.I, val.F
}

func TestCycleFollowsInsertionOrder(t *testing.T) {
	table := NewTable()
	table.Set(5, 1)
	table.Set(2, 2)
	table.Set(9, 3)

	r := newPagingRig()
	p := New(pagingCfg(0), table)

	want := []struct {
		idx int32
		val float32
	}{
		{5, 1}, {2, 2}, {9, 3}, {5, 1}, {2, 2},
	}
	for i, w := range want {
		p.Process(r.tick())
		idx, val := r.published()
		if idx != w.idx || val != w.val {
			t.Fatalf("step %d: want %d/%v, got %d/%v", i, w.idx, w.val, idx, val)
		}
		r.now = r.now.Add(11 * time.Millisecond)
	}
}

func TestConsumerWriteLandsInTable(t *testing.T) {
	table := NewTable()
	table.Set(1, 1)

	r := newPagingRig()
	p := New(pagingCfg(0), table)

	r.feedback.Update("ExtIndex", avatar.Int(7))
	r.feedback.Update("ExtValue", avatar.Float(3.5))
	p.Process(r.tick())

	if v, ok := table.Get(7); !ok || v != 3.5 {
		t.Errorf("write not applied: %v (present=%v)", v, ok)
	}
	if _, ok := r.store.Get(avatar.Param("IntIndex")); ok {
		t.Error("outbound stream should pause during a consumer write")
	}
}

func TestSkipsNegativeSlots(t *testing.T) {
	table := NewTable()
	table.Set(1, 1)
	table.Set(2, -1)
	table.Set(3, 3)

	r := newPagingRig()
	p := New(pagingCfg(0), table)

	want := []int32{1, 3, 1, 3}
	for i, w := range want {
		p.Process(r.tick())
		idx, _ := r.published()
		if idx != w {
			t.Fatalf("step %d: want slot %d, got %d", i, w, idx)
		}
		r.now = r.now.Add(11 * time.Millisecond)
	}
}

func TestAdvanceHonorsCadence(t *testing.T) {
	table := NewTable()
	table.Set(1, 1)
	table.Set(2, 2)

	r := newPagingRig()
	p := New(pagingCfg(250*time.Millisecond), table)

	p.Process(r.tick())
	if idx, _ := r.published(); idx != 1 {
		t.Fatalf("first step should publish slot 1, got %d", idx)
	}

	// Well inside the cadence window: no advance.
	r.now = r.now.Add(100 * time.Millisecond)
	p.Process(r.tick())
	if idx, _ := r.published(); idx != 1 {
		t.Fatalf("advanced inside the cadence window to %d", idx)
	}

	r.now = r.now.Add(200 * time.Millisecond)
	p.Process(r.tick())
	if idx, _ := r.published(); idx != 2 {
		t.Fatalf("cadence elapsed, want slot 2, got %d", idx)
	}
}

func TestResumesAfterConsumerWrite(t *testing.T) {
	table := NewTable()
	table.Set(1, 1)
	table.Set(2, 2)

	r := newPagingRig()
	p := New(pagingCfg(0), table)

	p.Process(r.tick())
	if idx, _ := r.published(); idx != 1 {
		t.Fatalf("want slot 1, got %d", idx)
	}

	r.feedback.Update("ExtIndex", avatar.Int(9))
	r.feedback.Update("ExtValue", avatar.Float(0.5))
	for i := 0; i < 5; i++ {
		p.Process(r.tick())
		r.now = r.now.Add(11 * time.Millisecond)
	}
	if idx, _ := r.published(); idx != 1 {
		t.Fatal("stream should hold position while the consumer writes")
	}

	r.feedback.Update("ExtIndex", avatar.Int(0))
	p.Process(r.tick())
	if idx, _ := r.published(); idx != 2 {
		t.Fatalf("want slot 2 after resume, got %d", idx)
	}
}

func TestEmptyOrAllNegativeTablePublishesNothing(t *testing.T) {
	r := newPagingRig()
	p := New(pagingCfg(0), NewTable())
	p.Process(r.tick())
	if _, ok := r.store.Get(avatar.Param("IntIndex")); ok {
		t.Error("empty table should publish nothing")
	}

	table := NewTable()
	table.Set(4, -2)
	p = New(pagingCfg(0), table)
	p.Process(r.tick())
	if _, ok := r.store.Get(avatar.Param("IntIndex")); ok {
		t.Error("all-negative table should publish nothing")
	}
}
