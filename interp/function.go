package interp

import (
	"errors"
	"fmt"

	"github.com/loxlang/golox/ast"
)

// Function is a user-defined function or method. Closure is the
// *Environment live at the point of declaration, captured by
// reference rather than copied, which is what lets a closure observe
// later writes to a captured variable.
type Function struct {
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

// Call binds each parameter in a fresh scope nested under the
// closure, runs the body, and unwraps a returnSignal into its Value.
// A method's initializer always yields `this`, regardless of what (if
// anything) the body's own return statements produced — the resolver
// already rejected `return <expr>;` inside init().
func (f *Function) Call(it *Interpreter, args []interface{}) (interface{}, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := it.executeBlock(f.Declaration.Body, env)
	if err != nil {
		var ret *returnSignal
		if errors.As(err, &ret) {
			if f.IsInitializer {
				return f.Closure.GetAt(0, "this"), nil
			}
			return ret.Value, nil
		}
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

// Bind returns a copy of f whose closure has `this` bound to
// instance, one scope out from the method's own closure.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}
