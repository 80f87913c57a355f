package interp

// Callable is implemented by anything `(...)` can invoke: user
// functions, bound methods, classes (as constructors), and natives.
type Callable interface {
	Arity() int
	Call(it *Interpreter, args []interface{}) (interface{}, error)
	String() string
}
