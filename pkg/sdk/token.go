// Package sdk defines the data types and the skill contract shared by the
// dispatcher, the training pipeline and every skill implementation.
package sdk

import (
	"encoding/json"
	"math"
	"unicode/utf8"
)

// DefaultMediaType is the media type of tokens produced by the tokenizer.
const DefaultMediaType = "text/plain"

// Token is the atomic unit of a request. An empty Tag means the token is untagged.
// Tags assigned by preprocessors are never overwritten by the tagger.
type Token struct {
	Data      Bytes   `json:"data"`
	Tag       string  `json:"tag,omitempty"`
	RawText   *string `json:"raw_text,omitempty"`
	MediaType string  `json:"media_type,omitempty"`
}

// Tk builds an untagged plain text token.
func Tk(data string) Token {
	return Token{Data: Bytes(data), MediaType: DefaultMediaType}
}

// TkTag builds a plain text token carrying a tag.
func TkTag(data, tag string) Token {
	return Token{Data: Bytes(data), Tag: tag, MediaType: DefaultMediaType}
}

// TkMedia builds an untagged token with an explicit media type.
func TkMedia(data, mediaType string) Token {
	return Token{Data: Bytes(data), MediaType: mediaType}
}

// Tokens builds a sequence of untagged plain text tokens.
func Tokens(data ...string) []Token {
	tokens := make([]Token, 0, len(data))
	for _, d := range data {
		tokens = append(tokens, Tk(d))
	}
	return tokens
}

// AsUTF8 returns the token text, or an empty string when the data is not valid UTF-8.
func (t Token) AsUTF8() string {
	if !utf8.Valid(t.Data) {
		return ""
	}
	return string(t.Data)
}

// GetMediaType returns the media type, falling back to text/plain.
func (t Token) GetMediaType() string {
	if t.MediaType == "" {
		return DefaultMediaType
	}
	return t.MediaType
}

// Clone returns a deep copy so a skill can rewrite its private token sequence.
func (t Token) Clone() Token {
	c := t
	c.Data = append(Bytes(nil), t.Data...)
	if t.RawText != nil {
		raw := *t.RawText
		c.RawText = &raw
	}
	return c
}

// CloneTokens deep-copies a token sequence.
func CloneTokens(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[i] = t.Clone()
	}
	return out
}

// ShannonEntropy returns the byte-level Shannon entropy of the token data in bits.
func (t Token) ShannonEntropy() float64 {
	return ShannonEntropy(t.Data)
}

// ShannonEntropy returns the byte-level Shannon entropy of data in bits.
func ShannonEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	n := float64(len(data))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// UnmarshalJSON fills in the default media type for tokens sent without one.
func (t *Token) UnmarshalJSON(data []byte) error {
	type rawToken Token
	var raw rawToken
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Token(raw)
	if t.MediaType == "" {
		t.MediaType = DefaultMediaType
	}
	return nil
}
