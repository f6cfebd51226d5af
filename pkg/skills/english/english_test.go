package english

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

func TestLabeler(t *testing.T) {
	features := Labeler{}.LabelFeatures(sdk.Tokens("Hello", "To", "base64"))
	stop := []sdk.Feature{{Name: "english:stop", NonEntity: true}}
	assert.Equal(t, [][]sdk.Feature{nil, stop, nil}, features)
}

func TestEntryHasNoCommand(t *testing.T) {
	skill, err := Entry.Init(sdk.Environment{}, sdk.SkillConfig{})
	assert.NoError(t, err)
	assert.Nil(t, skill.Command)
	assert.Len(t, skill.Labelers, 1)
}
