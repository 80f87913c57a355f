/*
Package lexer implements the streaming tokeniser for Lox source text.

It scans one byte at a time with a start/current/line cursor driven by
advance/peek, covering Lox's token set: single and compound operators,
string and number literals, identifiers/keywords, and line/block
comments.
*/
package lexer

import (
	"strconv"

	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/token"
)

// Lexer scans Lox source text into tokens. It reports lexical errors
// (unterminated strings, unexpected characters) to its Sink and keeps
// scanning so a single run surfaces every lexical problem at once.
type Lexer struct {
	src     string
	sink    *errsink.Sink
	start   int // index of the lexeme currently being scanned
	current int // index of the next unconsumed byte
	line    int
}

// New creates a Lexer over src that reports errors to sink.
func New(src string, sink *errsink.Sink) *Lexer {
	return &Lexer{src: src, sink: sink, line: 1}
}

// ScanTokens tokenises the entire source and returns every token
// followed by exactly one EOF token.
func (l *Lexer) ScanTokens() []token.Token {
	var tokens []token.Token
	for {
		l.start = l.current
		tok, ok := l.scanToken()
		if ok {
			tokens = append(tokens, tok)
		}
		if l.isAtEnd() {
			tokens = append(tokens, token.New(token.EOF, "", l.line))
			return tokens
		}
	}
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.src)
}

func (l *Lexer) advance() byte {
	c := l.src[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.src) {
		return 0
	}
	return l.src[l.current+1]
}

// match consumes the next byte only if it equals want, and reports whether it did.
func (l *Lexer) match(want byte) bool {
	if l.isAtEnd() || l.src[l.current] != want {
		return false
	}
	l.current++
	return true
}

// scanToken produces at most one token from the cursor, skipping
// whitespace and comments. ok is false when nothing was emitted
// (whitespace, comment, or a lexical error that was already reported).
func (l *Lexer) scanToken() (token.Token, bool) {
	if l.isAtEnd() {
		return token.Token{}, false
	}
	c := l.advance()
	switch c {
	case '(':
		return l.emit(token.LeftParen), true
	case ')':
		return l.emit(token.RightParen), true
	case '{':
		return l.emit(token.LeftBrace), true
	case '}':
		return l.emit(token.RightBrace), true
	case ',':
		return l.emit(token.Comma), true
	case '.':
		return l.emit(token.Dot), true
	case '-':
		return l.emit(token.Minus), true
	case '+':
		return l.emit(token.Plus), true
	case ';':
		return l.emit(token.Semicolon), true
	case '*':
		return l.emit(token.Star), true
	case '!':
		if l.match('=') {
			return l.emit(token.BangEqual), true
		}
		return l.emit(token.Bang), true
	case '=':
		if l.match('=') {
			return l.emit(token.EqualEqual), true
		}
		return l.emit(token.Equal), true
	case '<':
		if l.match('=') {
			return l.emit(token.LessEqual), true
		}
		return l.emit(token.Less), true
	case '>':
		if l.match('=') {
			return l.emit(token.GreaterEqual), true
		}
		return l.emit(token.Greater), true
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
			return token.Token{}, false
		}
		if l.match('*') {
			l.skipBlockComment()
			return token.Token{}, false
		}
		return l.emit(token.Slash), true
	case ' ', '\r', '\t':
		return token.Token{}, false
	case '\n':
		l.line++
		return token.Token{}, false
	case '"':
		return l.scanString()
	default:
		if isDigit(c) {
			return l.scanNumber()
		}
		if isAlpha(c) {
			return l.scanIdentifier()
		}
		l.sink.Report(l.line, "", "Unexpected character.")
		return token.Token{}, false
	}
}

// skipBlockComment consumes a /* ... */ comment. Nesting is permitted,
// a common jlox extension left to the implementer.
func (l *Lexer) skipBlockComment() {
	depth := 1
	for depth > 0 && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			depth--
			continue
		}
		if l.peek() == '/' && l.peekNext() == '*' {
			l.advance()
			l.advance()
			depth++
			continue
		}
		l.advance()
	}
}

func (l *Lexer) scanString() (token.Token, bool) {
	startLine := l.line
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.isAtEnd() {
		l.sink.Report(startLine, "", "Unterminated string.")
		return token.Token{}, false
	}
	l.advance() // closing quote
	value := l.src[l.start+1 : l.current-1]
	return token.NewLiteral(token.String, l.src[l.start:l.current], value, startLine), true
}

func (l *Lexer) scanNumber() (token.Token, bool) {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	lexeme := l.src[l.start:l.current]
	value, _ := strconv.ParseFloat(lexeme, 64)
	return token.NewLiteral(token.Number, lexeme, value, l.line), true
}

func (l *Lexer) scanIdentifier() (token.Token, bool) {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	lexeme := l.src[l.start:l.current]
	kind, isKeyword := token.Keywords[lexeme]
	if !isKeyword {
		kind = token.Identifier
	}
	return l.emit(kind), true
}

func (l *Lexer) emit(kind token.Kind) token.Token {
	return token.New(kind, l.src[l.start:l.current], l.line)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
