// Package interp implements the tree-walking evaluator: the Environment
// chain, the runtime value model, and the class/instance/callable
// machinery described by the specification.
package interp

import "strconv"

// Value is the interface every runtime value implements, matching the
// teacher's interp.Value pattern (Type()/String() rather than `any`) so
// the Interpreter's type switches stay exhaustive and compiler-checked.
type Value interface {
	Type() string
	String() string
}

// Nil is the sole value of nil type.
type Nil struct{}

func (Nil) Type() string   { return "NIL" }
func (Nil) String() string { return "nil" }

// Boolean wraps a bool runtime value.
type Boolean struct{ Value bool }

func (Boolean) Type() string { return "BOOLEAN" }
func (b Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Number wraps an IEEE-754 double runtime value.
type Number struct{ Value float64 }

func (Number) Type() string { return "NUMBER" }
func (n Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// String wraps an immutable text runtime value.
type String struct{ Value string }

func (String) Type() string     { return "STRING" }
func (s String) String() string { return s.Value }

// isTruthy implements the language's truthiness rule: nil and false are
// false, everything else (including 0 and "") is true.
func isTruthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Boolean:
		return val.Value
	default:
		return true
	}
}

// isEqual implements structural equality by variant: numbers by value,
// strings by content, bools by value, nil equal to nil. Callables,
// classes, and instances only ever compare equal to themselves (handled
// naturally here since they are distinct pointer types never produced
// with duplicate identity).
func isEqual(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.Value == bv.Value
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *Native:
		bv, ok := b.(*Native)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	default:
		return false
	}
}
