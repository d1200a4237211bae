package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Kind == EOF {
			break
		}
		toks = append(toks, tok)
	}
	require.NoError(t, l.Err())
	return toks
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexer_Operators(t *testing.T) {
	toks := lexAll(t, "a // b ~= c .. d ... :: << >> <= >= == ~ & | #")
	assert.Equal(t, []Kind{
		Name, DoubleSlash, Name, NotEqual, Name, Concat, Name, Ellipsis,
		DoubleColon, ShiftLeft, ShiftRight, LessEqual, GreaterEqual, Equal,
		Tilde, Ampersand, Pipe, Hash,
	}, kinds(toks))
}

func TestLexer_Keywords(t *testing.T) {
	toks := lexAll(t, "local function require goto until")
	assert.Equal(t, []Kind{Local, Function, Name, Goto, Until}, kinds(toks))
	assert.Equal(t, "require", toks[2].Value)
}

func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		value string
		quote byte
		level int
	}{
		{"double", `"abc"`, "abc", '"', 0},
		{"single", `'a"b'`, `a"b`, '\'', 0},
		{"escapes", `"a\tb\n\\\""`, "a\tb\n\\\"", '"', 0},
		{"hex", `"\x41\x62"`, "Ab", '"', 0},
		{"decimal", `"\65\066"`, "AB", '"', 0},
		{"unicode", `"\u{48}\u{e9}"`, "Hé", '"', 0},
		{"z skips whitespace", "\"a\\z  \n  b\"", "ab", '"', 0},
		{"long", "[[abc]]", "abc", 0, 0},
		{"long leading newline", "[[\nabc]]", "abc", 0, 0},
		{"long level", "[==[a]]b]==]", "a]]b", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.src)
			require.Len(t, toks, 1)
			assert.Equal(t, String, toks[0].Kind)
			assert.Equal(t, tt.value, toks[0].Value)
			assert.Equal(t, tt.quote, toks[0].Quote)
			assert.Equal(t, tt.level, toks[0].Level)
			assert.Equal(t, tt.src, toks[0].Text)
		})
	}
}

func TestLexer_Numbers(t *testing.T) {
	for _, src := range []string{"3", "3.0", "3.1416", "314.16e-2", "0.31416E1", "34e1", "0x0.1E", "0xA23p-4", "0X1.921FB54442D18P+1", ".5", "1ULL", "0x10LL"} {
		t.Run(src, func(t *testing.T) {
			toks := lexAll(t, src)
			require.Len(t, toks, 1)
			assert.Equal(t, Number, toks[0].Kind)
			assert.Equal(t, src, toks[0].Text)
		})
	}
}

func TestLexer_Comments(t *testing.T) {
	toks := lexAll(t, "a --[==[ long\ncomment ]==] b -- line\nc")
	assert.Equal(t, []Kind{Name, Name, Name}, kinds(toks))
	assert.Equal(t, 3, toks[2].Line)
}

func TestLexer_Trivia(t *testing.T) {
	src := "a = 1 -- c\n  -- d\nb()"
	toks := lexAll(t, src)
	require.Len(t, toks, 6)

	b := toks[3]
	assert.Equal(t, "b", b.Text)
	assert.Equal(t, 11, b.LeadStart, "trailing trivia of '1' ends after the first newline")
	assert.Equal(t, 18, b.Start)
	assert.Equal(t, "  -- d\n", src[b.LeadStart:b.Start])
	assert.Equal(t, 3, b.Line)
	assert.Equal(t, 1, b.Col)

	eq := toks[1]
	assert.Equal(t, eq.Start, eq.LeadStart, "same-line whitespace trails the previous token")
}

func TestLexer_Shebang(t *testing.T) {
	toks := lexAll(t, "#!/usr/bin/env lua\nprint(1)")
	require.NotEmpty(t, toks)
	assert.Equal(t, "print", toks[0].Text)
	assert.Equal(t, 2, toks[0].Line)
	assert.Equal(t, 19, toks[0].LeadStart)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unfinished string", `"abc`, "unfinished string"},
		{"newline in string", "'ab\ncd'", "unfinished string"},
		{"unfinished long string", "[[abc", "unfinished long string"},
		{"bad delimiter", "[=abc", "invalid long string delimiter"},
		{"bad hex escape", `"\xZZ"`, "hexadecimal digit expected"},
		{"unexpected symbol", "a $ b", "unexpected symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLexer(tt.src)
			for l.NextToken().Kind != EOF {
			}
			require.Error(t, l.Err())
			assert.Contains(t, l.Err().Error(), tt.msg)
		})
	}
}
