// Package avatar models the consumer side of the pipeline: the typed
// parameter surface sent to the avatar runtime, the feedback parameters
// it reports back, and the manifest describing what the current avatar
// binds.
package avatar

import "fmt"

// Kind tags a wire value's type.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
)

// Value is one typed wire value. The zero value is false.
type Value struct {
	Kind Kind
	B    bool
	I    int32
	F    float32
}

// Bool wraps a bool value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int wraps an int32 value.
func Int(v int32) Value { return Value{Kind: KindInt, I: v} }

// Float wraps a float32 value.
func Float(v float32) Value { return Value{Kind: KindFloat, F: v} }

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(o Value) bool { return v == o }

// Arg returns the value in the form the OSC encoder expects.
func (v Value) Arg() interface{} {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindInt:
		return v.I
	default:
		return v.F
	}
}

// AsFloat coerces the payload to a float64 for threshold comparisons.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindBool:
		if v.B {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.I)
	default:
		return float64(v.F)
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%t", v.B)
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	default:
		return fmt.Sprintf("%.3f", v.F)
	}
}
