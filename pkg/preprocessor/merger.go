// Package preprocessor provides token rewriting helpers for skills.
package preprocessor

import "github.com/yozuk/yozuk-sub000/pkg/sdk"

// TokenParser recognizes a contiguous span of tokens as one semantic unit.
type TokenParser interface {
	Parse(tokens []sdk.Token) (sdk.Token, bool)
}

// TokenParserFunc adapts a function to TokenParser.
type TokenParserFunc func(tokens []sdk.Token) (sdk.Token, bool)

// Parse implements TokenParser.
func (f TokenParserFunc) Parse(tokens []sdk.Token) (sdk.Token, bool) {
	return f(tokens)
}

// TokenMerger replaces the longest recognizable spans with merged tokens.
type TokenMerger struct {
	parser TokenParser
}

// NewTokenMerger returns a Preprocessor merging spans recognized by parser.
func NewTokenMerger(parser TokenParser) *TokenMerger {
	return &TokenMerger{parser: parser}
}

// Preprocess tries every window starting at the head of the remaining tokens,
// longest first. The first recognized window is replaced by the merged token;
// when none matches the head token is kept as is.
func (m *TokenMerger) Preprocess(tokens []sdk.Token) []sdk.Token {
	output := make([]sdk.Token, 0, len(tokens))
	rest := tokens
	for len(rest) > 0 {
		merged := false
		for n := len(rest); n >= 1; n-- {
			if tok, ok := m.parser.Parse(rest[:n]); ok {
				output = append(output, tok)
				rest = rest[n:]
				merged = true
				break
			}
		}
		if !merged {
			output = append(output, rest[0])
			rest = rest[1:]
		}
	}
	return output
}
