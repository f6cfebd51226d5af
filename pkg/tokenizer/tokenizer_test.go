package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

func raw(s string) *string {
	return &s
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []sdk.Token
	}{
		{
			name:     "collapses white space",
			input:    " What's   the time ",
			expected: sdk.Tokens("What's", "the", "time"),
		},
		{
			name:  "double quoted span",
			input: ` "Hello world" to md5 `,
			expected: []sdk.Token{
				{Data: sdk.Bytes("Hello world"), RawText: raw(`"Hello world"`), MediaType: sdk.DefaultMediaType},
				sdk.Tk("to"),
				sdk.Tk("md5"),
			},
		},
		{
			name:     "punctuation stays attached",
			input:    ` (1 + 1) * 2 `,
			expected: sdk.Tokens("(1", "+", "1)", "*", "2"),
		},
		{
			name:  "escaped quotes",
			input: ` " \" \" " `,
			expected: []sdk.Token{
				{Data: sdk.Bytes(` " " `), RawText: raw(`" \" \" "`), MediaType: sdk.DefaultMediaType},
			},
		},
		{
			name:  "single quoted span",
			input: `base64 'it\'s'`,
			expected: []sdk.Token{
				sdk.Tk("base64"),
				{Data: sdk.Bytes("it's"), RawText: raw(`'it\'s'`), MediaType: sdk.DefaultMediaType},
			},
		},
		{
			name:     "hash prefix",
			input:    " #ffffff ",
			expected: sdk.Tokens("#ffffff"),
		},
		{
			name:     "ideographic space",
			input:    "roll　dice",
			expected: sdk.Tokens("roll", "dice"),
		},
		{
			name:     "quote glued to a word falls back",
			input:    `"abc"def ghi`,
			expected: sdk.Tokens(`"abc"def`, "ghi"),
		},
		{
			name:     "unterminated quote",
			input:    `"abc def`,
			expected: sdk.Tokens(`"abc`, "def"),
		},
		{
			name:     "empty",
			input:    "   ",
			expected: []sdk.Token{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}
