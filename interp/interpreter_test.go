package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/lexer"
	"github.com/loxlang/golox/parser"
	"github.com/loxlang/golox/resolver"
)

func run(t *testing.T, src string) (string, *errsink.Sink) {
	t.Helper()
	sink := errsink.New()
	toks := lexer.New(src, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	require.False(t, sink.HadError(), "parse error: %v", sink.Errors())
	locals := resolver.New(sink).Resolve(stmts)
	require.False(t, sink.HadError(), "resolve error: %v", sink.Errors())

	var buf bytes.Buffer
	it := New(nil, &buf)
	it.Interpret(stmts, locals, sink)
	return buf.String(), sink
}

func TestInterpret_ArithmeticAndPrint(t *testing.T) {
	out, sink := run(t, `print 1 + 2 * 3;`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "7\n", out)
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, sink := run(t, `print "foo" + "bar";`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "foobar\n", out)
}

func TestInterpret_PrintStripsTrailingZero(t *testing.T) {
	out, sink := run(t, `print 6 / 2;`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "3\n", out)
}

func TestInterpret_AddingNumberAndStringIsRuntimeError(t *testing.T) {
	_, sink := run(t, `print 1 + "a";`)
	assert.True(t, sink.HadRuntimeError())
	assert.Contains(t, sink.RuntimeError().Error(), "Operands must be two numbers or two strings.")
}

func TestInterpret_DivisionByZeroYieldsIEEE754Infinity(t *testing.T) {
	out, sink := run(t, `print 1 / 0;`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "+Inf\n", out)
}

func TestInterpret_VariablesAndBlocks(t *testing.T) {
	out, sink := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "inner\nouter\n", out)
}

func TestInterpret_IfElse(t *testing.T) {
	out, sink := run(t, `
		if (1 < 2) print "yes"; else print "no";
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "yes\n", out)
}

func TestInterpret_WhileLoop(t *testing.T) {
	out, sink := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpret_ForLoopDesugaring(t *testing.T) {
	out, sink := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpret_LogicalShortCircuit(t *testing.T) {
	out, sink := run(t, `
		print false and (1 + "a");
		print true or (1 + "a");
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "false\ntrue\n", out)
}

func TestInterpret_FunctionsAndReturn(t *testing.T) {
	out, sink := run(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(2, 3);
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "5\n", out)
}

func TestInterpret_ClosureCapturesByReference(t *testing.T) {
	out, sink := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpret_Recursion(t *testing.T) {
	out, sink := run(t, `
		fun fib(n) {
			if (n <= 1) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "55\n", out)
}

func TestInterpret_ClassesFieldsAndMethods(t *testing.T) {
	out, sink := run(t, `
		class Greeter {
			init(name) {
				this.name = name;
			}
			greet() {
				print "Hello, " + this.name;
			}
		}
		var g = Greeter("world");
		g.greet();
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "Hello, world\n", out)
}

func TestInterpret_Inheritance(t *testing.T) {
	out, sink := run(t, `
		class Animal {
			speak() {
				print "...";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "Woof";
			}
		}
		Dog().speak();
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "...\nWoof\n", out)
}

func TestInterpret_UndefinedVariableIsRuntimeError(t *testing.T) {
	_, sink := run(t, `print nope;`)
	assert.True(t, sink.HadRuntimeError())
	assert.Contains(t, sink.RuntimeError().Error(), "Undefined variable 'nope'.")
}

func TestInterpret_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, sink := run(t, `var x = 1; x();`)
	assert.True(t, sink.HadRuntimeError())
	assert.Contains(t, sink.RuntimeError().Error(), "Can only call functions and classes.")
}

func TestInterpret_WrongArityIsRuntimeError(t *testing.T) {
	_, sink := run(t, `fun f(a, b) { return a + b; } f(1);`)
	assert.True(t, sink.HadRuntimeError())
	assert.Contains(t, sink.RuntimeError().Error(), "Expected 2 arguments but got 1.")
}

func TestInterpret_ClockIsRegisteredAndCallable(t *testing.T) {
	out, sink := run(t, `print clock() > 0;`)
	assert.False(t, sink.HadRuntimeError())
	assert.Equal(t, "true\n", out)
}

func TestInterpret_FieldCanShadowMethodName(t *testing.T) {
	out, sink := run(t, `
		class Box {
			value() { return "method"; }
		}
		var b = Box();
		b.value = "field";
		print b.value;
	`)
	assert.False(t, sink.HadRuntimeError())
	assert.True(t, strings.Contains(out, "field"))
}
