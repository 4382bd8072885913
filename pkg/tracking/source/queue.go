package source

import (
	"sync"

	"github.com/avosc/avosc/pkg/tracking"
)

// Queue is the bounded hand-off between a source's connection goroutine
// and the tick loop. When full, the oldest unread sample is dropped so
// the consumer always sees the freshest data (bounded staleness), and
// the producer never blocks.
type Queue struct {
	mu    sync.Mutex
	buf   []tracking.RawSample
	head  int
	size  int
	drops uint64
}

// NewQueue creates a queue holding at most capacity samples.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{buf: make([]tracking.RawSample, capacity)}
}

// Push adds a sample, evicting the oldest if the queue is full.
func (q *Queue) Push(s tracking.RawSample) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.drops++
	}
	q.buf[(q.head+q.size)%len(q.buf)] = s
	q.size++
}

// Pop removes and returns the oldest sample.
func (q *Queue) Pop() (tracking.RawSample, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return tracking.RawSample{}, false
	}
	s := q.buf[q.head]
	q.buf[q.head] = tracking.RawSample{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return s, true
}

// Drain appends every queued sample to dst, oldest first, and empties
// the queue.
func (q *Queue) Drain(dst []tracking.RawSample) []tracking.RawSample {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size > 0 {
		dst = append(dst, q.buf[q.head])
		q.buf[q.head] = tracking.RawSample{}
		q.head = (q.head + 1) % len(q.buf)
		q.size--
	}
	return dst
}

// Len returns the number of queued samples.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Drops returns how many samples were evicted unread.
func (q *Queue) Drops() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drops
}
