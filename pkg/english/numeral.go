package english

import (
	"strconv"
	"strings"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

var units = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

var teens = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fourty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseNumeral parses an English numeral between zero and ninety-nine.
// "twenty two", "twenty-two" and "twentytwo" are all accepted.
func ParseNumeral(text string) (int, bool) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == '-'
	})
	switch len(words) {
	case 1:
		w := words[0]
		if w == "zero" {
			return 0, true
		}
		if n, ok := units[w]; ok {
			return n, true
		}
		if n, ok := teens[w]; ok {
			return n, true
		}
		if n, ok := tens[w]; ok {
			return n, true
		}
		for prefix, t := range tens {
			if u, ok := units[strings.TrimPrefix(w, prefix)]; ok && strings.HasPrefix(w, prefix) {
				return t + u, true
			}
		}
	case 2:
		t, ok := tens[words[0]]
		if !ok {
			return 0, false
		}
		if u, ok := units[words[1]]; ok {
			return t + u, true
		}
	}
	return 0, false
}

// NumeralParser merges spelled-out numbers into a single digit token.
// It satisfies preprocessor.TokenParser.
type NumeralParser struct{}

// Parse implements preprocessor.TokenParser.
func (NumeralParser) Parse(tokens []sdk.Token) (sdk.Token, bool) {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Tag != "" {
			return sdk.Token{}, false
		}
		words = append(words, t.AsUTF8())
	}
	n, ok := ParseNumeral(strings.Join(words, " "))
	if !ok {
		return sdk.Token{}, false
	}
	return sdk.Tk(strconv.Itoa(n)), true
}
