/*
Package resolver implements the static pre-evaluation pass: it walks
the AST once, resolving every variable reference to a lexical scope
distance (written into a side table the interpreter later reads) and
diagnosing a handful of static errors jlox catches before a program
ever runs.

It holds a stack of plain "is this name declared yet" maps, mirroring
a runtime scope chain in shape only — the resolver never evaluates
anything, it only tracks shape.
*/
package resolver

import (
	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/token"
)

// Table is the resolution side table: for every Variable/Assign/
// This/Super node the resolver could bind, the number of
// environment hops from its use site up to the defining scope.
// Absence means "resolve against globals at runtime."
type Table map[ast.Expr]int

type functionKind int

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Resolver performs the static pass. Construct one per compile unit.
type Resolver struct {
	sink    *errsink.Sink
	table   Table
	scopes  []map[string]bool
	fnKind  functionKind
	clsKind classKind
}

// New creates a Resolver that writes into a fresh Table and reports
// static errors to sink.
func New(sink *errsink.Sink) *Resolver {
	return &Resolver{sink: sink, table: make(Table)}
}

// Resolve walks stmts and returns the populated side table. Call this
// once per program; the interpreter should not run if the Sink
// reports an error afterward.
func (r *Resolver) Resolve(stmts []ast.Stmt) Table {
	r.resolveStmts(stmts)
	return r.table
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *ast.Var:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Return:
		if r.fnKind == fnNone {
			r.sink.Report(s.Keyword.Line, " at '"+s.Keyword.Lexeme+"'", "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.fnKind == fnInitializer {
				r.sink.Report(s.Keyword.Line, " at '"+s.Keyword.Lexeme+"'", "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case *ast.Class:
		r.resolveClass(s)
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.clsKind
	r.clsKind = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.sink.Report(s.Superclass.Name.Line, " at '"+s.Superclass.Name.Lexeme+"'", "A class can't inherit from itself.")
		}
		r.clsKind = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()
	if s.Superclass != nil {
		r.endScope()
	}
	r.clsKind = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFn := r.fnKind
	r.fnKind = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.fnKind = enclosingFn
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.sink.Report(e.Name.Line, " at '"+e.Name.Lexeme+"'", "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Obj)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Obj)
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Literal:
		// nothing to resolve
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.This:
		if r.clsKind == classNone {
			r.sink.Report(e.Keyword.Line, " at 'this'", "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Super:
		switch r.clsKind {
		case classNone:
			r.sink.Report(e.Keyword.Line, " at 'super'", "Can't use 'super' outside of a class.")
		case classClass:
			r.sink.Report(e.Keyword.Line, " at 'super'", "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	}
}

// resolveLocal walks the scope stack from innermost outward, writing
// the first matching depth into the side table. An expr is keyed
// directly (Variable/Assign); This/Super key on themselves too, via
// the interface value wrapping their own pointer.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.table[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: resolves against globals at runtime
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare inserts name into the innermost scope as not-yet-defined.
// Redeclaring a name already present in that same scope is an error,
// except at global scope where shadowing/redeclaration is allowed
// (there is no stack frame to pollute).
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.sink.Report(name.Line, " at '"+name.Lexeme+"'", "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
