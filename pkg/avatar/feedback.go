package avatar

import "sync"

// Feedback is the consumer-reported parameter state, written by the
// inbound OSC server and read by processors on the tick loop. Values
// keep the type the consumer sent; the accessors coerce across numeric
// types because avatars disagree on how they declare toggles.
type Feedback struct {
	mu     sync.RWMutex
	values map[string]Value

	avatarID  string
	avatarGen uint64
}

// NewFeedback returns an empty feedback state.
func NewFeedback() *Feedback {
	return &Feedback{values: make(map[string]Value)}
}

// Update records one reported parameter, by bare name.
func (f *Feedback) Update(name string, v Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = v
}

// SetAvatar records an avatar switch. The generation counter lets the
// tick loop detect the switch without string comparison.
func (f *Feedback) SetAvatar(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.avatarID {
		return
	}
	f.avatarID = id
	f.avatarGen++
	// The old avatar's parameter state means nothing to the new one.
	f.values = make(map[string]Value)
}

// Avatar returns the current avatar id and its generation counter.
func (f *Feedback) Avatar() (string, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.avatarID, f.avatarGen
}

// Lookup reads a reported parameter and whether it was ever reported.
func (f *Feedback) Lookup(name string) (Value, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[name]
	return v, ok
}

// Bool reads a toggle-style parameter. Numeric values count as true
// when nonzero.
func (f *Feedback) Bool(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[name]
	if !ok {
		return false
	}
	return v.AsFloat() != 0
}

// Int reads an integer-style parameter, coercing floats.
func (f *Feedback) Int(name string) int32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[name]
	if !ok {
		return 0
	}
	return int32(v.AsFloat())
}

// Float reads a float-style parameter.
func (f *Feedback) Float(name string) float32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[name]
	if !ok {
		return 0
	}
	return float32(v.AsFloat())
}

// Snapshot copies the reported state for the status surfaces.
func (f *Feedback) Snapshot() map[string]Value {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]Value, len(f.values))
	for name, v := range f.values {
		out[name] = v
	}
	return out
}
