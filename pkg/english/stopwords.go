package english

import "strings"

// StopWords are function words that carry no entity information.
var StopWords = []string{
	"a", "about", "after", "all", "an", "and", "any", "are", "as", "at",
	"be", "been", "before", "but", "by", "can", "could", "do", "does", "for",
	"from", "had", "has", "have", "he", "her", "him", "his", "how", "i",
	"if", "in", "into", "is", "it", "its", "me", "my", "no", "not",
	"of", "on", "or", "our", "please", "she", "should", "so", "some", "than",
	"that", "the", "their", "them", "then", "there", "these", "they", "this", "those",
	"to", "us", "was", "we", "were", "what", "when", "where", "which", "who",
	"why", "will", "with", "would", "you", "your",
}

var stopWordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(StopWords))
	for _, w := range StopWords {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopWord reports whether word is a stop word, ignoring case.
func IsStopWord(word string) bool {
	return isStopWord(strings.ToLower(word))
}

func isStopWord(word string) bool {
	_, ok := stopWordSet[word]
	return ok
}
