package syntax

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer splits Lua source into tokens. It accepts the lexical syntax of Lua
// 5.1 through 5.4 and LuaJIT.
type Lexer struct {
	input     string
	position  int // offset of the current byte
	line      int
	lineStart int
	err       *Error
}

// NewLexer returns a lexer positioned at the start of input. A leading
// shebang line is skipped.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	if strings.HasPrefix(input, "#") {
		for l.ch() != 0 && l.ch() != '\n' {
			l.readChar()
		}
		if l.ch() == '\n' {
			l.readChar()
		}
	}
	return l
}

// Err returns the first error encountered, if any.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// NextToken returns the next token. After an error it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	if l.err != nil {
		return Token{Kind: EOF, Start: len(l.input), End: len(l.input), LeadStart: len(l.input)}
	}
	lead := l.position
	l.skipTrivia()
	tok := l.scan()
	tok.LeadStart = lead
	if l.err != nil {
		return Token{Kind: EOF, Start: len(l.input), End: len(l.input), LeadStart: len(l.input)}
	}
	l.skipTrailingTrivia()
	return tok
}

func (l *Lexer) ch() byte {
	if l.position >= len(l.input) {
		return 0
	}
	return l.input[l.position]
}

func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) readChar() {
	if l.atEOF() {
		return
	}
	if l.input[l.position] == '\n' {
		l.line++
		l.lineStart = l.position + 1
	}
	l.position++
}

func (l *Lexer) pos() Pos {
	return Pos{Line: l.line, Col: l.position - l.lineStart + 1}
}

func (l *Lexer) fail(p Pos, msg string) {
	if l.err == nil {
		l.err = &Error{Pos: p, Msg: msg}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Bytes >= 0x80 are accepted in identifiers, as LuaJIT does.
func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func (l *Lexer) skipTrivia() {
	for !l.atEOF() {
		c := l.ch()
		switch {
		case isSpace(c) || c == '\n':
			l.readChar()
		case c == '-' && l.peekChar() == '-':
			l.skipComment()
		default:
			return
		}
	}
}

// skipTrailingTrivia consumes whitespace and comments up to and including the
// end of the current line.
func (l *Lexer) skipTrailingTrivia() {
	for !l.atEOF() {
		c := l.ch()
		switch {
		case isSpace(c):
			l.readChar()
		case c == '\n':
			l.readChar()
			return
		case c == '-' && l.peekChar() == '-':
			l.skipComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	start := l.pos()
	l.readChar()
	l.readChar()
	if l.ch() == '[' {
		if level, ok := l.longBracketLevel(); ok {
			l.readLongBracket(level, start)
			return
		}
	}
	for !l.atEOF() && l.ch() != '\n' {
		l.readChar()
	}
}

// longBracketLevel checks for an opening long bracket at the current
// position without consuming it.
func (l *Lexer) longBracketLevel() (int, bool) {
	n := 1
	for l.peekAt(n) == '=' {
		n++
	}
	if l.peekAt(n) == '[' {
		return n - 1, true
	}
	return 0, false
}

// readLongBracket consumes an opening long bracket of the given level, its
// contents and the closing bracket, returning the contents.
func (l *Lexer) readLongBracket(level int, start Pos) string {
	for i := 0; i < level+2; i++ {
		l.readChar()
	}
	// A newline directly after the opening bracket is not part of the string.
	if l.ch() == '\r' && l.peekChar() == '\n' {
		l.readChar()
		l.readChar()
	} else if l.ch() == '\n' || l.ch() == '\r' {
		l.readChar()
	}
	closing := "]" + strings.Repeat("=", level) + "]"
	contentStart := l.position
	for {
		if l.atEOF() {
			l.fail(start, "unfinished long string or comment")
			return ""
		}
		if l.ch() == ']' && strings.HasPrefix(l.input[l.position:], closing) {
			content := l.input[contentStart:l.position]
			for range closing {
				l.readChar()
			}
			return content
		}
		l.readChar()
	}
}

func (l *Lexer) scan() Token {
	start := l.position
	p := l.pos()
	tok := Token{Start: start, Line: p.Line, Col: p.Col}

	finish := func(k Kind, width int) Token {
		for i := 0; i < width; i++ {
			l.readChar()
		}
		tok.Kind = k
		tok.End = l.position
		tok.Text = l.input[start:tok.End]
		return tok
	}

	if l.atEOF() {
		tok.Kind = EOF
		tok.End = start
		return tok
	}

	c := l.ch()
	switch {
	case isNameStart(c):
		for isNameChar(l.ch()) {
			l.readChar()
		}
		tok.End = l.position
		tok.Text = l.input[start:tok.End]
		if kw, ok := keywords[tok.Text]; ok {
			tok.Kind = kw
		} else {
			tok.Kind = Name
			tok.Value = tok.Text
		}
		return tok
	case isDigit(c) || (c == '.' && isDigit(l.peekChar())):
		l.readNumber()
		tok.Kind = Number
		tok.End = l.position
		tok.Text = l.input[start:tok.End]
		return tok
	case c == '"' || c == '\'':
		tok.Value = l.readShortString(c, p)
		tok.Kind = String
		tok.Quote = c
		tok.End = l.position
		tok.Text = l.input[start:tok.End]
		return tok
	case c == '[':
		if level, ok := l.longBracketLevel(); ok {
			tok.Value = l.readLongBracket(level, p)
			tok.Kind = String
			tok.Level = level
			tok.End = l.position
			tok.Text = l.input[start:tok.End]
			return tok
		}
		if l.peekChar() == '=' {
			l.fail(p, "invalid long string delimiter")
			return tok
		}
		return finish(LBracket, 1)
	}

	next := l.peekChar()
	switch c {
	case '+':
		return finish(Plus, 1)
	case '-':
		return finish(Minus, 1)
	case '*':
		return finish(Star, 1)
	case '/':
		if next == '/' {
			return finish(DoubleSlash, 2)
		}
		return finish(Slash, 1)
	case '%':
		return finish(Percent, 1)
	case '^':
		return finish(Caret, 1)
	case '#':
		return finish(Hash, 1)
	case '&':
		return finish(Ampersand, 1)
	case '~':
		if next == '=' {
			return finish(NotEqual, 2)
		}
		return finish(Tilde, 1)
	case '|':
		return finish(Pipe, 1)
	case '<':
		switch next {
		case '<':
			return finish(ShiftLeft, 2)
		case '=':
			return finish(LessEqual, 2)
		}
		return finish(Less, 1)
	case '>':
		switch next {
		case '>':
			return finish(ShiftRight, 2)
		case '=':
			return finish(GreaterEqual, 2)
		}
		return finish(Greater, 1)
	case '=':
		if next == '=' {
			return finish(Equal, 2)
		}
		return finish(Assign, 1)
	case '(':
		return finish(LParen, 1)
	case ')':
		return finish(RParen, 1)
	case '{':
		return finish(LBrace, 1)
	case '}':
		return finish(RBrace, 1)
	case ']':
		return finish(RBracket, 1)
	case ';':
		return finish(Semicolon, 1)
	case ':':
		if next == ':' {
			return finish(DoubleColon, 2)
		}
		return finish(Colon, 1)
	case ',':
		return finish(Comma, 1)
	case '.':
		if next == '.' {
			if l.peekAt(2) == '.' {
				return finish(Ellipsis, 3)
			}
			return finish(Concat, 2)
		}
		return finish(Dot, 1)
	}

	l.fail(p, "unexpected symbol "+quoteByte(c))
	return tok
}

func quoteByte(c byte) string {
	if c >= 0x20 && c < 0x7f {
		return "'" + string(c) + "'"
	}
	return "<\\" + strconv.Itoa(int(c)) + ">"
}

// readNumber consumes a numeral. Malformed numerals are accepted: the value
// is never evaluated, and trailing letters cover LuaJIT suffixes (LL, ULL, i).
func (l *Lexer) readNumber() {
	expo := "Ee"
	if l.ch() == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		expo = "Pp"
		l.readChar()
		l.readChar()
	}
	for {
		c := l.ch()
		switch {
		case strings.IndexByte(expo, c) >= 0 && c != 0:
			l.readChar()
			if l.ch() == '+' || l.ch() == '-' {
				l.readChar()
			}
		case isHexDigit(c) || c == '.':
			l.readChar()
		default:
			for isNameChar(l.ch()) {
				l.readChar()
			}
			return
		}
	}
}

func (l *Lexer) readShortString(quote byte, start Pos) string {
	var b strings.Builder
	l.readChar()
	for {
		if l.atEOF() {
			l.fail(start, "unfinished string")
			return ""
		}
		c := l.ch()
		switch c {
		case quote:
			l.readChar()
			return b.String()
		case '\n':
			l.fail(start, "unfinished string")
			return ""
		case '\\':
			l.readEscape(&b)
			if l.err != nil {
				return ""
			}
		default:
			b.WriteByte(c)
			l.readChar()
		}
	}
}

var simpleEscapes = map[byte]byte{
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r',
	't': '\t', 'v': '\v', '\\': '\\', '"': '"', '\'': '\'',
}

func (l *Lexer) readEscape(b *strings.Builder) {
	p := l.pos()
	l.readChar()
	c := l.ch()
	if r, ok := simpleEscapes[c]; ok {
		b.WriteByte(r)
		l.readChar()
		return
	}
	switch {
	case c == '\n':
		b.WriteByte('\n')
		l.readChar()
	case c == '\r':
		b.WriteByte('\n')
		l.readChar()
		if l.ch() == '\n' {
			l.readChar()
		}
	case c == 'x':
		l.readChar()
		v := 0
		for i := 0; i < 2; i++ {
			d := l.ch()
			if !isHexDigit(d) {
				l.fail(p, "hexadecimal digit expected")
				return
			}
			v = v*16 + hexVal(d)
			l.readChar()
		}
		b.WriteByte(byte(v))
	case c == 'z':
		l.readChar()
		for isSpace(l.ch()) || l.ch() == '\n' {
			l.readChar()
		}
	case isDigit(c):
		v := 0
		for i := 0; i < 3 && isDigit(l.ch()); i++ {
			v = v*10 + int(l.ch()-'0')
			l.readChar()
		}
		if v > 255 {
			l.fail(p, "decimal escape too large")
			return
		}
		b.WriteByte(byte(v))
	case c == 'u':
		l.readChar()
		if l.ch() != '{' {
			l.fail(p, "missing '{' in \\u{xxxx}")
			return
		}
		l.readChar()
		v := 0
		digits := 0
		for isHexDigit(l.ch()) {
			v = v*16 + hexVal(l.ch())
			digits++
			l.readChar()
		}
		if digits == 0 || l.ch() != '}' {
			l.fail(p, "malformed \\u{xxxx} escape")
			return
		}
		l.readChar()
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], rune(v))
		b.Write(buf[:n])
	case c == 0 && l.atEOF():
		l.fail(p, "unfinished string")
	default:
		// Lua 5.1 keeps unknown escapes as the bare character.
		b.WriteByte(c)
		l.readChar()
	}
}

func hexVal(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
