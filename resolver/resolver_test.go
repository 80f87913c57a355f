package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/lexer"
	"github.com/loxlang/golox/parser"
)

func resolve(t *testing.T, src string) ([]ast.Stmt, Table, *errsink.Sink) {
	t.Helper()
	sink := errsink.New()
	toks := lexer.New(src, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	require.False(t, sink.HadError(), "unexpected parse error")
	table := New(sink).Resolve(stmts)
	return stmts, table, sink
}

func TestResolve_LocalVariableGetsDepth(t *testing.T) {
	stmts, table, sink := resolve(t, `
		{
			var a = 1;
			{
				var b = a;
				print b;
			}
		}
	`)
	assert.False(t, sink.HadError())

	block := stmts[0].(*ast.Block).Stmts[1].(*ast.Block)
	varB := block.Stmts[0].(*ast.Var)
	ref := varB.Init.(*ast.Variable)
	depth, ok := table[ref]
	require.True(t, ok)
	assert.Equal(t, 1, depth)
}

func TestResolve_GlobalReferenceIsAbsentFromTable(t *testing.T) {
	_, table, sink := resolve(t, `
		var a = 1;
		print a;
	`)
	assert.False(t, sink.HadError())
	assert.Empty(t, table)
}

func TestResolve_ReadInOwnInitializerIsAnError(t *testing.T) {
	_, _, sink := resolve(t, `
		var a = 1;
		{
			var a = a;
		}
	`)
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "own initializer")
}

func TestResolve_DuplicateLocalIsAnError(t *testing.T) {
	_, _, sink := resolve(t, `
		{
			var a = 1;
			var a = 2;
		}
	`)
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "Already a variable")
}

func TestResolve_DuplicateGlobalIsAllowed(t *testing.T) {
	_, _, sink := resolve(t, `
		var a = 1;
		var a = 2;
	`)
	assert.False(t, sink.HadError())
}

func TestResolve_TopLevelReturnIsAnError(t *testing.T) {
	_, _, sink := resolve(t, "return 1;")
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "Can't return from top-level code.")
}

func TestResolve_ReturnInsideFunctionIsFine(t *testing.T) {
	_, _, sink := resolve(t, "fun f() { return 1; }")
	assert.False(t, sink.HadError())
}

func TestResolve_ThisOutsideClassIsAnError(t *testing.T) {
	_, _, sink := resolve(t, "print this;")
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "Can't use 'this' outside of a class.")
}

func TestResolve_ThisInsideMethodIsFine(t *testing.T) {
	_, _, sink := resolve(t, `
		class A { greet() { print this; } }
	`)
	assert.False(t, sink.HadError())
}

func TestResolve_ReturnValueFromInitializerIsAnError(t *testing.T) {
	_, _, sink := resolve(t, `
		class A { init() { return 1; } }
	`)
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "Can't return a value from an initializer.")
}

func TestResolve_BareReturnFromInitializerIsFine(t *testing.T) {
	_, _, sink := resolve(t, `
		class A { init() { return; } }
	`)
	assert.False(t, sink.HadError())
}

func TestResolve_ClassInheritingFromItselfIsAnError(t *testing.T) {
	_, _, sink := resolve(t, "class A < A {}")
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "A class can't inherit from itself.")
}

func TestResolve_SuperInClassWithoutSuperclassIsAnError(t *testing.T) {
	_, _, sink := resolve(t, "class A { greet() { super.greet(); } }")
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "Can't use 'super' in a class with no superclass.")
}

func TestResolve_SuperInSubclassIsFine(t *testing.T) {
	_, _, sink := resolve(t, `
		class A { greet() { print "a"; } }
		class B < A { greet() { super.greet(); } }
	`)
	assert.False(t, sink.HadError())
}

func TestResolve_ClosureCapturesEnclosingLocalDepth(t *testing.T) {
	stmts, table, sink := resolve(t, `
		fun outer() {
			var count = 0;
			fun inner() {
				count = count + 1;
				return count;
			}
			return inner;
		}
	`)
	assert.False(t, sink.HadError())

	outerFn := stmts[0].(*ast.Function)
	innerFn := outerFn.Body[1].(*ast.Function)
	assign := innerFn.Body[0].(*ast.Expression).Expr.(*ast.Assign)
	depth, ok := table[assign]
	require.True(t, ok)
	assert.Equal(t, 1, depth)
}
