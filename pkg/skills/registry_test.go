package skills

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yozuk/yozuk-sub000/pkg/model"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

func TestRegistryEntries(t *testing.T) {
	seenKeys := map[string]bool{}
	seenIDs := map[[sdk.ModelIDLength]byte]bool{}
	for _, e := range Skills {
		assert.True(t, strings.HasPrefix(e.Key, KeyPrefix), e.Key)
		assert.False(t, seenKeys[e.Key], "duplicate key %s", e.Key)
		assert.False(t, seenIDs[e.Entry.ModelID], "duplicate model id for %s", e.Key)
		seenKeys[e.Key] = true
		seenIDs[e.Entry.ModelID] = true

		config, err := sdk.NewSkillConfig(e.Entry.ConfigSchema, nil)
		require.NoError(t, err, e.Key)
		skill, err := e.Entry.Init(sdk.Environment{}, config)
		require.NoError(t, err, e.Key)
		require.NotNil(t, skill, e.Key)
	}
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest(Skills), Digest(Skills))
	assert.NotEqual(t, Digest(Skills), Digest(Skills[1:]))
	assert.Equal(t, model.Digest([]byte(ModelRootID)), Digest(nil))
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(Skills, "yozuk-skill-dice")
	require.True(t, ok)
	assert.Equal(t, "yozuk-skill-dice", e.Key)

	_, ok = Lookup(Skills, "yozuk-skill-missing")
	assert.False(t, ok)
}

func TestFilterByAllowlist(t *testing.T) {
	assert.Equal(t, Skills, FilterByAllowlist(Skills, nil))

	filtered := FilterByAllowlist(Skills, []string{"uuid", "yozuk-skill-base64", "missing"})
	assert.Equal(t, []string{"yozuk-skill-base64", "yozuk-skill-uuid"}, Keys(filtered))
}
