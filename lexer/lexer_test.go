package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/loxlang/golox/errsink"
	"github.com/loxlang/golox/token"
)

func scan(t *testing.T, src string) ([]token.Token, *errsink.Sink) {
	t.Helper()
	sink := errsink.New()
	toks := New(src, sink).ScanTokens()
	return toks, sink
}

func TestScanTokens_Punctuation(t *testing.T) {
	toks, sink := scan(t, "(){},.-+;*")
	assert.False(t, sink.HadError())
	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon, token.Star,
		token.EOF,
	}
	var got []token.Kind
	for _, tok := range toks {
		got = append(got, tok.Kind)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected token kinds (-want +got):\n%s", diff)
	}
}

func TestScanTokens_CompoundOperators(t *testing.T) {
	tests := []struct {
		input string
		kinds []token.Kind
	}{
		{"!", []token.Kind{token.Bang, token.EOF}},
		{"!=", []token.Kind{token.BangEqual, token.EOF}},
		{"=", []token.Kind{token.Equal, token.EOF}},
		{"==", []token.Kind{token.EqualEqual, token.EOF}},
		{"<=", []token.Kind{token.LessEqual, token.EOF}},
		{">=", []token.Kind{token.GreaterEqual, token.EOF}},
		{"< <", []token.Kind{token.Less, token.Less, token.EOF}},
	}
	for _, tt := range tests {
		toks, sink := scan(t, tt.input)
		assert.False(t, sink.HadError(), "input %q", tt.input)
		var got []token.Kind
		for _, tok := range toks {
			got = append(got, tok.Kind)
		}
		assert.Equal(t, tt.kinds, got, "input %q", tt.input)
	}
}

func TestScanTokens_StringLiteral(t *testing.T) {
	toks, sink := scan(t, `"hello world"`)
	assert.False(t, sink.HadError())
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestScanTokens_MultilineString(t *testing.T) {
	toks, sink := scan(t, "\"line1\nline2\"\nprint 1;")
	assert.False(t, sink.HadError())
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "line1\nline2", toks[0].Literal)
	// the literal closes on line 2, so the print keyword after the next newline is on line 3
	for _, tok := range toks {
		if tok.Kind == token.Print {
			assert.Equal(t, 3, tok.Line)
		}
	}
}

func TestScanTokens_UnterminatedString(t *testing.T) {
	_, sink := scan(t, `"unterminated`)
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "Unterminated string.")
}

func TestScanTokens_Numbers(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"123", 123},
		{"3.14", 3.14},
		{"0.5", 0.5},
	}
	for _, tt := range tests {
		toks, sink := scan(t, tt.input)
		assert.False(t, sink.HadError())
		assert.Equal(t, token.Number, toks[0].Kind)
		assert.Equal(t, tt.value, toks[0].Literal)
	}
}

func TestScanTokens_TrailingDotNotConsumed(t *testing.T) {
	toks, sink := scan(t, "123.")
	assert.False(t, sink.HadError())
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, float64(123), toks[0].Literal)
	assert.Equal(t, token.Dot, toks[1].Kind)
}

func TestScanTokens_Keywords(t *testing.T) {
	toks, sink := scan(t, "and class else false fun for if nil or print return super this true var while")
	assert.False(t, sink.HadError())
	want := []token.Kind{
		token.And, token.Class, token.Else, token.False, token.Fun, token.For,
		token.If, token.Nil, token.Or, token.Print, token.Return, token.Super,
		token.This, token.True, token.Var, token.While, token.EOF,
	}
	var got []token.Kind
	for _, tok := range toks {
		got = append(got, tok.Kind)
	}
	assert.Equal(t, want, got)
}

func TestScanTokens_IdentifierNotKeyword(t *testing.T) {
	toks, sink := scan(t, "classify")
	assert.False(t, sink.HadError())
	assert.Equal(t, token.Identifier, toks[0].Kind)
}

func TestScanTokens_LineComment(t *testing.T) {
	toks, sink := scan(t, "1 // a comment\n2")
	assert.False(t, sink.HadError())
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanTokens_BlockComment(t *testing.T) {
	toks, sink := scan(t, "1 /* spans\nlines */ 2")
	assert.False(t, sink.HadError())
	assert.Equal(t, 2, len(toks)-1) // two numbers plus EOF
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanTokens_UnexpectedCharacter(t *testing.T) {
	_, sink := scan(t, "@")
	assert.True(t, sink.HadError())
	assert.Contains(t, sink.Errors()[0].Error(), "Unexpected character.")
}

func TestScanTokens_EndsWithExactlyOneEOF(t *testing.T) {
	toks, _ := scan(t, "var x = 1;")
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	count := 0
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
