// Package english holds the text normalization helpers shared by skills and
// the feature labeler.
package english

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/jinzhu/inflection"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Words this short are left alone by Singularize; the suffix rules turn
// "as" into "a" and "this" into "thi".
const minInflectLength = 4

// Singularize returns the singular form of an English word.
func Singularize(word string) string {
	if len(word) < minInflectLength || isStopWord(word) {
		return word
	}
	return inflection.Singular(word)
}

// Pluralize returns word unchanged for n == 1 and its plural otherwise.
// Acronyms such as "UUID" take a lower-case "s".
func Pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	if len(word) > 1 && strings.ToUpper(word) == word && strings.ToLower(word) != word {
		return word + "s"
	}
	return inflection.Plural(word)
}

// Transliterate strips diacritics and folds compatibility characters so that
// "Café" and "Cafe" compare equal. Characters with no ASCII decomposition are kept.
func Transliterate(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Normalize maps a word to the form used for comparisons and token features:
// trailing punctuation trimmed, transliterated, lower-cased, singular, snake_case.
// If nothing is left the original text is returned.
func Normalize(text string) string {
	trimmed := strings.TrimRightFunc(text, isASCIIPunct)
	normalized := toSnakeCase(Singularize(strings.ToLower(Transliterate(trimmed))))
	if normalized == "" {
		return text
	}
	return normalized
}

// NormalizedEq reports whether a matches any of candidates after
// normalization, within the given edit distance.
func NormalizedEq(a string, candidates []string, tolerance int) bool {
	na := Normalize(a)
	for _, c := range candidates {
		if levenshtein.ComputeDistance(Normalize(c), na) <= tolerance {
			return true
		}
	}
	return false
}

func isASCIIPunct(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsPunct(r) || strings.ContainsRune("$+<=>^`|~", r)
}

func toSnakeCase(s string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && len(current) > 0 && unicode.IsLower(current[len(current)-1]) {
				flush()
			}
			current = append(current, unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()
	return strings.Join(words, "_")
}
