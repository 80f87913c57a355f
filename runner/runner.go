/*
Package runner implements the shared "scan → parse → resolve →
interpret" pipeline used by both file mode and the REPL, so neither
entry point duplicates the four stages on its own.
*/
package runner

import (
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/interp"
	"github.com/loxlang/golox/lexer"
	"github.com/loxlang/golox/parser"
	"github.com/loxlang/golox/resolver"
)

// Runner owns one long-lived Interpreter (so the REPL keeps variables
// across prompts) plus the logger every stage reports through.
type Runner struct {
	Logger hclog.Logger
	Interp *interp.Interpreter
}

// New builds a Runner whose print output goes to out and whose
// interpreter is freshly constructed (with clock() registered).
func New(logger hclog.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{
		Logger: logger,
		Interp: interp.New(logger.Named("interp"), out),
	}
}

// Result reports what stage (if any) failed, so the CLI can map it to
// an exit code.
type Result struct {
	CompileError bool
	RuntimeError bool
	Errors       []error
}

// Run executes one whole file against the Runner's persistent
// interpreter state.
func (r *Runner) Run(source string) Result {
	return r.run(source)
}

// RunREPLLine runs one line typed at the REPL prompt. Unlike Run, a
// bare expression typed with no trailing semicolon (`1 + 2`,
// `counter()`) is accepted and has its value echoed, the way an
// interactive jlox session does — a REPL-only ergonomics feature, not
// a language change, so Run (file mode) never does this and still
// requires the trailing semicolon the grammar names.
func (r *Runner) RunREPLLine(source string) Result {
	trimmed := strings.TrimSpace(source)
	if trimmed != "" && !strings.HasSuffix(trimmed, ";") && !strings.HasSuffix(trimmed, "}") {
		if stmts, locals, sink, ok := r.tryParseAndResolve(trimmed + ";"); ok {
			return r.interpretEchoed(stmts, locals, sink)
		}
	}
	return r.run(source)
}

// tryParseAndResolve parses and resolves source against a scratch
// sink, reporting success only if both stages are clean.
func (r *Runner) tryParseAndResolve(source string) ([]ast.Stmt, resolver.Table, *errsink.Sink, bool) {
	sink := errsink.New()
	toks := lexer.New(source, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	if sink.HadError() {
		return nil, nil, nil, false
	}
	stmts = echoBareExpression(stmts)
	locals := resolver.New(sink).Resolve(stmts)
	if sink.HadError() {
		return nil, nil, nil, false
	}
	return stmts, locals, sink, true
}

func (r *Runner) interpretEchoed(stmts []ast.Stmt, locals resolver.Table, sink *errsink.Sink) Result {
	r.Interp.Interpret(stmts, locals, sink)
	if sink.HadRuntimeError() {
		return Result{RuntimeError: true, Errors: []error{sink.RuntimeError()}}
	}
	return Result{}
}

func (r *Runner) run(source string) Result {
	sink := errsink.New()

	r.Logger.Trace("scanning", "bytes", len(source))
	toks := lexer.New(source, sink).ScanTokens()

	r.Logger.Trace("parsing", "tokens", len(toks))
	stmts := parser.New(toks, sink).Parse()

	if sink.HadError() {
		return Result{CompileError: true, Errors: sink.Errors()}
	}

	r.Logger.Trace("resolving")
	locals := resolver.New(sink).Resolve(stmts)

	if sink.HadError() {
		return Result{CompileError: true, Errors: sink.Errors()}
	}

	r.Logger.Trace("interpreting", "statements", len(stmts))
	r.Interp.Interpret(stmts, locals, sink)

	if sink.HadRuntimeError() {
		return Result{RuntimeError: true, Errors: []error{sink.RuntimeError()}}
	}
	return Result{}
}

// echoBareExpression rewrites a single top-level expression statement
// into a Print of the same expression, so typing `1 + 2` at the REPL
// shows `3` the way it would in jlox's REPL.
func echoBareExpression(stmts []ast.Stmt) []ast.Stmt {
	if len(stmts) != 1 {
		return stmts
	}
	exprStmt, ok := stmts[0].(*ast.Expression)
	if !ok {
		return stmts
	}
	return []ast.Stmt{&ast.Print{Expr: exprStmt.Expr}}
}
