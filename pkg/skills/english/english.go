// Package english contributes stop-word features shared by every skill.
package english

import (
	"github.com/yozuk/yozuk-sub000/pkg/english"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// Entry is the registry descriptor of the skill. It has no command.
var Entry = sdk.SkillEntry{
	ModelID: sdk.ModelIDFromString("TT6SRME5RFLd13Rl6gwL4"),
	Init: func(sdk.Environment, sdk.SkillConfig) (*sdk.Skill, error) {
		return sdk.NewSkillBuilder().AddLabeler(Labeler{}).Build(), nil
	},
}

// Labeler marks stop words.
type Labeler struct{}

func (Labeler) LabelFeatures(tokens []sdk.Token) [][]sdk.Feature {
	out := make([][]sdk.Feature, len(tokens))
	for i, token := range tokens {
		if english.IsStopWord(token.AsUTF8()) {
			out[i] = []sdk.Feature{{Name: "english:stop", NonEntity: true}}
		}
	}
	return out
}
