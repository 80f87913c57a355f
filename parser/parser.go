/*
Package parser implements the recursive-descent parser for Lox.

Lox's grammar is small enough to write directly as the classic
recursive-descent chain, rather than a Pratt-style prefix/infix
function table: each precedence level gets its own method, the way
most jlox ports structure it. Syntax errors are reported to the
errsink.Sink instead of aborting the whole parse, with panic-mode
synchronisation at the next statement boundary.
*/
package parser

import (
	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/token"
)

const maxArgs = 255

// Parser turns a token stream into a list of statements.
type Parser struct {
	tokens  []token.Token
	sink    *errsink.Sink
	current int
}

// New creates a Parser over tokens that reports syntax errors to sink.
func New(tokens []token.Token, sink *errsink.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

// parseError signals a synchronise-and-continue syntax error; it never
// escapes this package.
type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

// Parse parses the whole token stream and returns every statement it
// could recover. The overall parse "succeeds" iff the Sink has no
// compile error afterward.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// declaration → classDecl | funDecl | varDecl | statement
func (p *Parser) declaration() ast.Stmt {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*parseError); ok {
				p.synchronize()
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName := p.consume(token.Identifier, "Expect superclass name.")
		superclass = &ast.Variable{Name: superName}
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RightBrace, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

// function → IDENT "(" parameters? ")" block
func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")
	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Init: init}
}

// statement → exprStmt | forStmt | ifStmt | printStmt
//           | returnStmt | whileStmt | block
func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		return &ast.Block{Stmts: p.block()}
	default:
		return p.expressionStatement()
	}
}

// forStmt desugars to a Block/While/Expression chain at parse time;
// the resolver and interpreter never see a dedicated For node.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
		init = nil
	case p.match(token.Var):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var incr ast.Expr
	if !p.check(token.RightParen) {
		incr = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if incr != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.Expression{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	body = &ast.While{Cond: cond, Body: body}
	if init != nil {
		body = &ast.Block{Stmts: []ast.Stmt{init, body}}
	}
	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Cond: cond, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) printStatement() ast.Stmt {
	value := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return &ast.Print{Expr: value}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.Expression{Expr: expr}
}

// expression → assignment
func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment → (call ".")? IDENT "=" assignment | logic_or
func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Obj: target.Obj, Name: target.Name, Value: value}
		}
		p.errorAt(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

// call → primary ( "(" args? ")" | "." IDENT )*
func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = &ast.Get{Obj: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	rparen := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, RParen: rparen, Args: args}
}

// primary → "true"|"false"|"nil"|"this" | NUMBER | STRING | IDENT
//         | "(" expression ")" | "super" "." IDENT
func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false}
	case p.match(token.True):
		return &ast.Literal{Value: true}
	case p.match(token.Nil):
		return &ast.Literal{Value: nil}
	case p.match(token.Number, token.String):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Inner: expr}
	}
	panic(p.errorAt(p.peek(), "Expect expression."))
}

// Token-stream helpers.

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

// errorAt reports a syntax error at tok and returns a parseError so
// callers inside expression parsing can panic to unwind to the
// nearest declaration() synchronisation point.
func (p *Parser) errorAt(tok token.Token, message string) *parseError {
	where := ""
	switch {
	case tok.Kind == token.EOF:
		where = " at end"
	default:
		where = " at '" + tok.Lexeme + "'"
	}
	p.sink.Report(tok.Line, where, message)
	return &parseError{msg: message}
}

// synchronize discards tokens until it is positioned at what looks
// like the start of the next statement: stop after a ';' or before a
// statement-starting keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
