// Package labeler turns token sequences into the per-token feature lists fed
// to the tagger.
package labeler

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"github.com/yozuk/yozuk-sub000/pkg/english"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

const (
	// MaxTokenEntropy is the highest Shannon entropy a token may have to get a token feature.
	MaxTokenEntropy = 3.0
	// MaxTokenLength is the longest normalized ASCII form, in bytes, that gets a token feature.
	MaxTokenLength = 20
)

var neighborOffsets = []int{-2, -1, 1, 2}

// FeatureLabeler combines every skill labeler with generic token and neighbor features.
type FeatureLabeler struct {
	labelers []sdk.Labeler
}

// New returns a FeatureLabeler over labelers. Their order is the order in
// which features appear in each list.
func New(labelers []sdk.Labeler) *FeatureLabeler {
	return &FeatureLabeler{labelers: labelers}
}

// FromSkills collects the labelers of every skill.
func FromSkills(skills []*sdk.Skill) *FeatureLabeler {
	var labelers []sdk.Labeler
	for _, s := range skills {
		if s == nil {
			continue
		}
		labelers = append(labelers, s.Labelers...)
	}
	return New(labelers)
}

// LabelFeatures returns one feature list per token.
func (l *FeatureLabeler) LabelFeatures(tokens []sdk.Token) [][]sdk.Feature {
	features := make([][]sdk.Feature, len(tokens))
	for _, labeler := range l.labelers {
		for i, list := range labeler.LabelFeatures(tokens) {
			if i >= len(features) {
				break
			}
			features[i] = append(features[i], list...)
		}
	}

	for i, token := range tokens {
		if f, ok := tokenFeature(token); ok {
			features[i] = append(features[i], f)
		}
	}

	// Neighbor features are derived from the lists above only, so they never cascade.
	neighbors := make([][]sdk.Feature, len(features))
	for i, list := range features {
		for _, offset := range neighborOffsets {
			j := i + offset
			if j < 0 || j >= len(features) || sdk.HasNonEntity(features[j]) {
				continue
			}
			for _, f := range list {
				f.Pos = -offset
				neighbors[j] = append(neighbors[j], f)
			}
		}
	}

	for i := range features {
		features[i] = append(features[i], neighbors[i]...)
	}
	return features
}

func tokenFeature(token sdk.Token) (sdk.Feature, bool) {
	if token.ShannonEntropy() > MaxTokenEntropy {
		return sdk.Feature{}, false
	}
	text := english.Normalize(token.AsUTF8())
	if !isASCII(text) {
		encoded, err := idna.Punycode.ToASCII(text)
		if err != nil {
			return sdk.Feature{}, false
		}
		text = encoded
	}
	if len(text) > MaxTokenLength {
		return sdk.Feature{}, false
	}
	return sdk.Feature{Name: fmt.Sprintf("token:%s", text)}, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
