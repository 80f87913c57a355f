package interp

import "time"

// nativeClock implements clock(), the one native function jlox wires
// in by default.
type nativeClock struct{}

func (nativeClock) Arity() int { return 0 }

func (nativeClock) Call(*Interpreter, []interface{}) (interface{}, error) {
	return float64(time.Now().UnixNano()) / float64(time.Second), nil
}

func (nativeClock) String() string { return "<native fn>" }
