/*
Package interp is the tree-walking evaluator: it consumes the AST the
parser built plus the side table the resolver populated, and runs the
program directly, node by node, without a visitor interface, since
Go's type switch already gives double dispatch for free.
*/
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/resolver"
	"github.com/loxlang/golox/token"
)

// Interpreter holds everything one program run needs: the global
// scope, the current scope, the resolver's side table, and where
// diagnostics and output go.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	locals  resolver.Table
	logger  hclog.Logger
	out     io.Writer
}

// New builds an Interpreter with clock() registered in its global
// scope. out defaults to os.Stdout when nil. The returned Interpreter
// is long-lived: a REPL driver calls Interpret repeatedly against the
// same instance so globals declared on one line survive to the next.
func New(logger hclog.Logger, out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	globals := NewEnvironment(nil)
	globals.Define("clock", nativeClock{})
	return &Interpreter{Globals: globals, env: globals, logger: logger, out: out}
}

// Interpret runs a parsed, resolved program against sink. A runtime
// error aborts the run and is reported to sink, matching jlox's
// interpret(): one uncaught RuntimeError per run, not per statement.
func (it *Interpreter) Interpret(stmts []ast.Stmt, locals resolver.Table, sink *errsink.Sink) {
	it.locals = locals
	defer func() {
		if r := recover(); r != nil {
			sink.ReportRuntime(errors.Wrap(fmt.Errorf("%v", r), "internal interpreter error"))
		}
	}()
	for _, stmt := range stmts {
		if err := it.execute(stmt); err != nil {
			sink.ReportRuntime(err)
			return
		}
	}
}

func (it *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := it.evaluate(s.Expr)
		return err
	case *ast.Print:
		v, err := it.evaluate(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(it.out, stringify(v))
		return nil
	case *ast.Var:
		var v interface{}
		if s.Init != nil {
			var err error
			v, err = it.evaluate(s.Init)
			if err != nil {
				return err
			}
		}
		it.env.Define(s.Name.Lexeme, v)
		return nil
	case *ast.Block:
		return it.executeBlock(s.Stmts, NewEnvironment(it.env))
	case *ast.If:
		cond, err := it.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return it.execute(s.Then)
		}
		if s.Else != nil {
			return it.execute(s.Else)
		}
		return nil
	case *ast.While:
		for {
			cond, err := it.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := it.execute(s.Body); err != nil {
				return err
			}
		}
	case *ast.Function:
		fn := &Function{Declaration: s, Closure: it.env}
		it.env.Define(s.Name.Lexeme, fn)
		return nil
	case *ast.Return:
		var v interface{}
		if s.Value != nil {
			var err error
			v, err = it.evaluate(s.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{Value: v}
	case *ast.Class:
		return it.executeClass(s)
	}
	return nil
}

func (it *Interpreter) executeClass(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		sup, err := it.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := sup.(*Class)
		if !ok {
			return &RuntimeError{Token: s.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	it.env.Define(s.Name.Lexeme, nil)

	env := it.env
	if s.Superclass != nil {
		env = NewEnvironment(it.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function)
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Declaration:   m,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	return it.env.Assign(s.Name, class)
}

// executeBlock runs stmts in env, restoring the interpreter's current
// scope afterward regardless of how the block exits (normally, via a
// returnSignal, or via a runtime error) — mirrors a deferred scope-pop.
func (it *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, stmt := range stmts {
		if err := it.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) evaluate(expr ast.Expr) (interface{}, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Grouping:
		return it.evaluate(e.Inner)
	case *ast.Unary:
		return it.evalUnary(e)
	case *ast.Binary:
		return it.evalBinary(e)
	case *ast.Logical:
		return it.evalLogical(e)
	case *ast.Variable:
		return it.lookUpVariable(e.Name, e)
	case *ast.Assign:
		return it.evalAssign(e)
	case *ast.Call:
		return it.evalCall(e)
	case *ast.Get:
		return it.evalGet(e)
	case *ast.Set:
		return it.evalSet(e)
	case *ast.This:
		return it.lookUpVariable(e.Keyword, e)
	case *ast.Super:
		return it.evalSuper(e)
	}
	return nil, nil
}

func (it *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (interface{}, error) {
	if distance, ok := it.locals[expr]; ok {
		return it.env.GetAt(distance, name.Lexeme), nil
	}
	return it.Globals.Get(name)
}

func (it *Interpreter) evalAssign(e *ast.Assign) (interface{}, error) {
	v, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := it.locals[e]; ok {
		it.env.AssignAt(distance, e.Name, v)
		return v, nil
	}
	if err := it.Globals.Assign(e.Name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (it *Interpreter) evalLogical(e *ast.Logical) (interface{}, error) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.Or {
		if isTruthy(left) {
			return left, nil
		}
	} else {
		if !isTruthy(left) {
			return left, nil
		}
	}
	return it.evaluate(e.Right)
}

func (it *Interpreter) evalUnary(e *ast.Unary) (interface{}, error) {
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.Minus:
		n, err := it.checkNumberOperand(e.Op, right)
		if err != nil {
			return nil, err
		}
		return -n, nil
	case token.Bang:
		return !isTruthy(right), nil
	}
	return nil, nil
}

func (it *Interpreter) evalBinary(e *ast.Binary) (interface{}, error) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Plus:
		if ln, lok := left.(float64); lok {
			if rn, rok := right.(float64); rok {
				return ln + rn, nil
			}
		}
		if ls, lok := left.(string); lok {
			if rs, rok := right.(string); rok {
				return ls + rs, nil
			}
		}
		return nil, &RuntimeError{Token: e.Op, Message: "Operands must be two numbers or two strings."}
	case token.Minus:
		ln, rn, err := it.checkNumberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.Star:
		ln, rn, err := it.checkNumberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.Slash:
		ln, rn, err := it.checkNumberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case token.Greater:
		ln, rn, err := it.checkNumberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln > rn, nil
	case token.GreaterEqual:
		ln, rn, err := it.checkNumberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln >= rn, nil
	case token.Less:
		ln, rn, err := it.checkNumberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln < rn, nil
	case token.LessEqual:
		ln, rn, err := it.checkNumberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln <= rn, nil
	case token.BangEqual:
		return !isEqual(left, right), nil
	case token.EqualEqual:
		return isEqual(left, right), nil
	}
	return nil, nil
}

func (it *Interpreter) evalCall(e *ast.Call) (interface{}, error) {
	callee, err := it.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(e.Args))
	for i, a := range e.Args {
		v, err := it.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: e.RParen, Message: "Can only call functions and classes."}
	}
	if len(args) != callable.Arity() {
		return nil, &RuntimeError{Token: e.RParen, Message: fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args))}
	}
	return callable.Call(it, args)
}

func (it *Interpreter) evalGet(e *ast.Get) (interface{}, error) {
	obj, err := it.evaluate(e.Obj)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, &RuntimeError{Token: e.Name, Message: "Only instances have properties."}
	}
	v, found := instance.Get(e.Name.Lexeme)
	if !found {
		return nil, &RuntimeError{Token: e.Name, Message: fmt.Sprintf("Undefined property '%s'.", e.Name.Lexeme)}
	}
	return v, nil
}

func (it *Interpreter) evalSet(e *ast.Set) (interface{}, error) {
	obj, err := it.evaluate(e.Obj)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, &RuntimeError{Token: e.Name, Message: "Only instances have fields."}
	}
	v, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, v)
	return v, nil
}

func (it *Interpreter) evalSuper(e *ast.Super) (interface{}, error) {
	distance := it.locals[e]
	superclass := it.env.GetAt(distance, "super").(*Class)
	// "this" always lives one scope nearer than "super", since the
	// resolver opens the this-scope after the super-scope.
	instance := it.env.GetAt(distance-1, "this").(*Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, &RuntimeError{Token: e.Method, Message: fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme)}
	}
	return method.Bind(instance), nil
}

func (it *Interpreter) checkNumberOperand(op token.Token, v interface{}) (float64, error) {
	if n, ok := v.(float64); ok {
		return n, nil
	}
	return 0, &RuntimeError{Token: op, Message: "Operand must be a number."}
}

func (it *Interpreter) checkNumberOperands(op token.Token, a, b interface{}) (float64, float64, error) {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if !aok || !bok {
		return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	return an, bn, nil
}
