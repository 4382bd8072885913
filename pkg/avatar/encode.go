package avatar

import (
	"fmt"
	"math"

	"github.com/avosc/avosc/pkg/tracking"
)

// exprPrefixes are the namespaces avatars bind expression parameters
// under, tried most-specific first.
var exprPrefixes = []string{"FT/v2/", "v2/", ""}

type floatBinding struct {
	shape tracking.Shape
	addr  string
}

// packedBinding is a bit-packed parameter set: magnitude spread over
// power-of-two bool parameters, with an optional sign bool.
type packedBinding struct {
	shape   tracking.Shape
	bits    []string // bit addresses, least significant first
	negAddr string   // empty when the avatar has no sign parameter
}

// Encoder resolves which expression channels the current avatar binds
// and in what encoding, once per manifest, so the per-tick work is a
// flat walk over live bindings.
type Encoder struct {
	floats []floatBinding
	packed []packedBinding
}

// NewEncoder resolves bindings against a manifest. A nil manifest
// yields an encoder that does nothing.
func NewEncoder(m *Manifest) *Encoder {
	e := &Encoder{}
	if m == nil {
		return e
	}
	for s := tracking.Shape(0); s < tracking.NumShapes; s++ {
		e.bind(m, s)
	}
	return e
}

func (e *Encoder) bind(m *Manifest, s tracking.Shape) {
	base := s.String()
	for _, prefix := range exprPrefixes {
		name := prefix + base
		if k, ok := m.Kind(name); ok && k == KindFloat {
			e.floats = append(e.floats, floatBinding{shape: s, addr: Param(name)})
			return
		}

		var bits []string
		for bit := 1; bit <= 128; bit <<= 1 {
			bitName := fmt.Sprintf("%s%d", name, bit)
			if k, ok := m.Kind(bitName); ok && k == KindBool {
				bits = append(bits, Param(bitName))
			} else {
				break
			}
		}
		if len(bits) > 0 {
			pb := packedBinding{shape: s, bits: bits}
			if k, ok := m.Kind(name + "Negative"); ok && k == KindBool {
				pb.negAddr = Param(name + "Negative")
			}
			e.packed = append(e.packed, pb)
			return
		}
	}
}

// Bound returns how many shapes resolved to a binding.
func (e *Encoder) Bound() int { return len(e.floats) + len(e.packed) }

// Binds reports whether a shape resolved to any binding.
func (e *Encoder) Binds(s tracking.Shape) bool {
	for _, b := range e.floats {
		if b.shape == s {
			return true
		}
	}
	for _, b := range e.packed {
		if b.shape == s {
			return true
		}
	}
	return false
}

// Release forgets every bound entry from a store, silencing the
// expression stream until the next Encode.
func (e *Encoder) Release(store *Store) {
	for _, b := range e.floats {
		store.Forget(b.addr)
	}
	for _, b := range e.packed {
		for _, addr := range b.bits {
			store.Forget(addr)
		}
		if b.negAddr != "" {
			store.Forget(b.negAddr)
		}
	}
}

// Encode writes the frame's expression state through every binding.
// Entries are streamed, not edge-triggered: expressions re-send every
// tick.
func (e *Encoder) Encode(f *tracking.Frame, store *Store) {
	for _, b := range e.floats {
		store.Set(b.addr, Float(f.Shape(b.shape)))
	}
	for _, b := range e.packed {
		v := f.Shape(b.shape)
		neg := v < 0
		if neg {
			v = -v
		}
		if v > 1 {
			v = 1
		}
		steps := (1 << len(b.bits)) - 1
		q := int(math.Round(float64(v) * float64(steps)))
		for i, addr := range b.bits {
			store.Set(addr, Bool(q>>i&1 == 1))
		}
		if b.negAddr != "" {
			store.Set(b.negAddr, Bool(neg))
		}
	}
}
