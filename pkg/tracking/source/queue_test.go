package source

import (
	"sync"
	"testing"
	"time"

	"github.com/avosc/avosc/pkg/tracking"
)

func stamped(i int) tracking.RawSample {
	return tracking.RawSample{Time: time.Unix(0, int64(i))}
}

func TestQueueDropsOldestWhenFull(t *testing.T) {
	q := NewQueue(3)
	for i := 1; i <= 5; i++ {
		q.Push(stamped(i))
	}

	got := q.Drain(nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	for i, want := range []int{3, 4, 5} {
		if got[i].Time.UnixNano() != int64(want) {
			t.Errorf("sample %d: want timestamp %d, got %d", i, want, got[i].Time.UnixNano())
		}
	}
	if q.Drops() != 2 {
		t.Errorf("expected 2 drops, got %d", q.Drops())
	}
}

func TestQueuePopInOrder(t *testing.T) {
	q := NewQueue(4)
	q.Push(stamped(1))
	q.Push(stamped(2))

	s, ok := q.Pop()
	if !ok || s.Time.UnixNano() != 1 {
		t.Fatalf("first pop: ok=%v time=%v", ok, s.Time.UnixNano())
	}
	s, ok = q.Pop()
	if !ok || s.Time.UnixNano() != 2 {
		t.Fatalf("second pop: ok=%v time=%v", ok, s.Time.UnixNano())
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop on empty queue should report not ok")
	}
}

func TestQueueDrainEmpties(t *testing.T) {
	q := NewQueue(4)
	for i := 0; i < 3; i++ {
		q.Push(stamped(i))
	}
	if got := len(q.Drain(nil)); got != 3 {
		t.Fatalf("expected 3 drained, got %d", got)
	}
	if q.Len() != 0 {
		t.Errorf("queue should be empty, has %d", q.Len())
	}
	if got := q.Drain(nil); len(got) != 0 {
		t.Errorf("second drain should be empty, got %d", len(got))
	}
}

func TestQueueAccountsUnderConcurrency(t *testing.T) {
	const total = 1000
	q := NewQueue(8)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push(stamped(i))
		}
	}()

	drained := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		drained += len(q.Drain(nil))
		select {
		case <-done:
			drained += len(q.Drain(nil))
			if got := drained + int(q.Drops()); got != total {
				t.Fatalf("drained %d + dropped %d != pushed %d", drained, q.Drops(), total)
			}
			return
		default:
		}
	}
}
