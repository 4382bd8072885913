package avatar

import (
	"sync"

	"github.com/hypebeast/go-osc/osc"
)

// Store accumulates the outbound parameter state. Entries set with Set
// are streamed every tick; entries set with SetOnChange only go out when
// their value actually changed. Insertion order is preserved so the wire
// traffic stays deterministic.
type Store struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*entry
}

type entry struct {
	value    Value
	onChange bool
	dirty    bool
}

// NewStore returns an empty parameter store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Set records a streamed value: it is sent every tick regardless of
// change, so a dropped packet heals on the next flush.
func (s *Store) Set(addr string, v Value) {
	s.set(addr, v, false)
}

// SetOnChange records an edge-triggered value: it is sent only on the
// flush after it changed.
func (s *Store) SetOnChange(addr string, v Value) {
	s.set(addr, v, true)
}

func (s *Store) set(addr string, v Value, onChange bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[addr]
	if !ok {
		e = &entry{onChange: onChange, dirty: true}
		s.entries[addr] = e
		s.order = append(s.order, addr)
		e.value = v
		return
	}
	e.onChange = onChange
	if !e.value.Equal(v) {
		e.value = v
		e.dirty = true
	}
}

// Get returns the current value for addr.
func (s *Store) Get(addr string) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[addr]
	if !ok {
		return Value{}, false
	}
	return e.value, true
}

// Forget drops an entry so it is no longer flushed at all.
func (s *Store) Forget(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[addr]; !ok {
		return
	}
	delete(s.entries, addr)
	for i, a := range s.order {
		if a == addr {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// MarkAllDirty forces every entry out on the next flush. Used after an
// avatar switch, when the consumer's parameter state is unknown again.
func (s *Store) MarkAllDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.dirty = true
	}
}

// Flush renders the tick's outbound messages in insertion order and
// clears the dirty flags.
func (s *Store) Flush() []*osc.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]*osc.Message, 0, len(s.order))
	for _, addr := range s.order {
		e := s.entries[addr]
		if e.onChange && !e.dirty {
			continue
		}
		e.dirty = false
		msg := osc.NewMessage(addr)
		msg.Append(e.value.Arg())
		msgs = append(msgs, msg)
	}
	return msgs
}

// Snapshot copies the current state for the status surfaces.
func (s *Store) Snapshot() map[string]Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Value, len(s.entries))
	for addr, e := range s.entries {
		out[addr] = e.value
	}
	return out
}
