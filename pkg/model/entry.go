package model

import (
	"github.com/pkg/errors"

	"github.com/yozuk/yozuk-sub000/pkg/labeler"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/seqtag"
)

// ModelEntry is the trained tagger of one skill.
type ModelEntry struct {
	tagger *seqtag.Tagger
}

// NewModelEntry decodes a model blob.
func NewModelEntry(blob []byte) (*ModelEntry, error) {
	tagger, err := seqtag.NewTagger(blob)
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "invalid tagger blob: %v", err)
	}
	return &ModelEntry{tagger: tagger}, nil
}

// Tag returns one tag per feature list.
func (e *ModelEntry) Tag(features [][]sdk.Feature) []string {
	return e.tagger.Tag(FeatureItems(features, 1.0))
}

// TagTokens labels and tags tokens. Tokens that already carry a tag keep it.
func (e *ModelEntry) TagTokens(l *labeler.FeatureLabeler, tokens []sdk.Token) []sdk.Token {
	tags := e.Tag(l.LabelFeatures(tokens))
	out := make([]sdk.Token, len(tokens))
	for i, token := range tokens {
		out[i] = token
		if token.Tag == "" && i < len(tags) {
			out[i].Tag = tags[i]
		}
	}
	return out
}

// FeatureItems converts feature lists into tagger items, giving every
// attribute the same value.
func FeatureItems(features [][]sdk.Feature, value float64) []seqtag.Item {
	items := make([]seqtag.Item, len(features))
	for i, list := range features {
		item := make(seqtag.Item, len(list))
		for j, f := range list {
			item[j] = seqtag.Attribute{Name: f.String(), Value: value}
		}
		items[i] = item
	}
	return items
}
