package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, `'a.b'`, Quote("a.b", '\''))
	assert.Equal(t, `"it's"`, Quote("it's", '"'))
	assert.Equal(t, `'it\'s'`, Quote("it's", '\''))
	assert.Equal(t, `'a\\b\n'`, Quote("a\\b\n", '\''))
}

func TestQuoteLong(t *testing.T) {
	assert.Equal(t, "[[abc]]", QuoteLong("abc", 0))
	assert.Equal(t, "[==[abc]==]", QuoteLong("abc", 2))
	assert.Equal(t, "[=[a]]b]=]", QuoteLong("a]]b", 0))
	assert.Equal(t, "[=[a]]=]", QuoteLong("a]", 0))
	assert.Equal(t, "[[\n\nx]]", QuoteLong("\nx", 0))
}

// Quoted values must lex back to themselves.
func TestQuote_RoundTrip(t *testing.T) {
	values := []string{"plain", "a'b\"c", "back\\slash", "line\nbreak", "]]", "a]=]b", "\nlead"}
	for _, v := range values {
		for _, lit := range []string{Quote(v, '\''), Quote(v, '"'), QuoteLong(v, 0), QuoteLong(v, 1)} {
			toks := lexAll(t, lit)
			require.Len(t, toks, 1, lit)
			assert.Equal(t, v, toks[0].Value, lit)
		}
	}
}
