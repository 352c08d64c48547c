package interp

import (
	"time"

	"github.com/smbl64/lox/internal/config"
)

// Native wraps a Go function as a callable Lox value. The only native in
// the language is clock, grounded directly in the reference
// implementation's native.rs, which defines exactly this one native and
// nothing else.
type Native struct {
	name  string
	arity int
	fn    func(i *Interpreter, args []Value) (Value, error)
}

func (n *Native) Arity() int { return n.arity }

func (n *Native) Call(i *Interpreter, args []Value) (Value, error) {
	return n.fn(i, args)
}

func (n *Native) Type() string   { return "NATIVE" }
func (n *Native) String() string { return "<native fn>" }

// newClock returns the `clock` native: arity 0, returning the current
// wall-clock time as a Number. precision selects whether the unit is
// seconds (the historical, script-visible default) or milliseconds, per
// the .loxrc.yaml `clock.precision` setting.
func newClock(precision config.ClockPrecision) *Native {
	return &Native{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []Value) (Value, error) {
			now := time.Now()
			if precision == config.ClockMilliseconds {
				return Number{Value: float64(now.UnixNano()) / 1e6}, nil
			}
			return Number{Value: float64(now.UnixNano()) / 1e9}, nil
		},
	}
}
