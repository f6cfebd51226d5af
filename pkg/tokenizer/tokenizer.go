// Package tokenizer splits a request into tokens with shell-like quoting.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// Tokenize splits input on white space. A single or double quoted span
// followed by white space or the end of input becomes one token whose RawText
// keeps the quotes. Malformed quoting falls back to plain white space splitting.
func Tokenize(input string) []sdk.Token {
	tokens, ok := parse(input)
	if ok {
		return tokens
	}
	fields := strings.Fields(input)
	tokens = make([]sdk.Token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, sdk.Tk(f))
	}
	return tokens
}

func parse(input string) ([]sdk.Token, bool) {
	tokens := []sdk.Token{}
	i := 0
	for {
		i = skipSpace(input, i)
		if i >= len(input) {
			return tokens, true
		}

		if q := input[i]; q == '"' || q == '\'' {
			if end, ok := closingQuote(input, i+1, q); ok {
				next := end + 1
				if next < len(input) && !startsWithSpace(input[next:]) {
					return nil, false
				}
				raw := input[i:next]
				escaped := `\` + string(q)
				data := strings.ReplaceAll(input[i+1:end], escaped, string(q))
				tokens = append(tokens, sdk.Token{
					Data:      sdk.Bytes(data),
					RawText:   &raw,
					MediaType: sdk.DefaultMediaType,
				})
				i = next
				continue
			}
		}

		start := i
		for i < len(input) && !startsWithSpace(input[i:]) {
			_, size := utf8.DecodeRuneInString(input[i:])
			i += size
		}
		tokens = append(tokens, sdk.Tk(input[start:i]))
	}
}

// closingQuote returns the index of the quote ending a span that starts at
// from. An escaped quote does not end the span.
func closingQuote(input string, from int, q byte) (int, bool) {
	for j := from; j < len(input); j++ {
		switch input[j] {
		case '\\':
			if j+1 < len(input) && input[j+1] == q {
				j++
			}
		case q:
			return j, true
		}
	}
	return 0, false
}

func skipSpace(input string, i int) int {
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
