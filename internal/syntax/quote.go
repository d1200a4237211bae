package syntax

import "strings"

// Quote renders value as a short string literal delimited by q, which must
// be '"' or '\''.
func Quote(value string, q byte) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte(q)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case q, '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// QuoteLong renders value as a long bracket string of at least the given
// level. The level grows until the closing bracket cannot occur in value.
func QuoteLong(value string, level int) string {
	for strings.Contains(value+"]", "]"+strings.Repeat("=", level)+"]") {
		level++
	}
	eq := strings.Repeat("=", level)
	lead := ""
	if strings.HasPrefix(value, "\n") || strings.HasPrefix(value, "\r") {
		// The first newline of a long string is not part of its value.
		lead = "\n"
	}
	return "[" + eq + "[" + lead + value + "]" + eq + "]"
}

// QuoteLike renders value with the same delimiters as the string token tok.
func QuoteLike(value string, tok Token) string {
	if tok.IsLong() {
		return QuoteLong(value, tok.Level)
	}
	q := tok.Quote
	if q != '"' && q != '\'' {
		q = '\''
	}
	return Quote(value, q)
}
