package uuid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

func TestTranslator(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []sdk.Token
		expected []string
	}{
		{
			name:     "single",
			tokens:   []sdk.Token{sdk.TkTag("uuid", "command:uuid")},
			expected: []string{"-n", "1"},
		},
		{
			name:     "counted plural",
			tokens:   []sdk.Token{sdk.Tk("generate"), sdk.TkTag("10", "input:count"), sdk.TkTag("uuids.", "command:uuid")},
			expected: []string{"-n", "10"},
		},
		{
			name:     "guid",
			tokens:   []sdk.Token{sdk.TkTag("4", "input:count"), sdk.TkTag("GUIDs", "command:uuid")},
			expected: []string{"-n", "4"},
		},
		{
			name:   "other word",
			tokens: []sdk.Token{sdk.TkTag("ulid", "command:uuid")},
		},
		{
			name:   "invalid count",
			tokens: []sdk.Token{sdk.TkTag("-3", "input:count"), sdk.TkTag("uuid", "command:uuid")},
		},
		{
			name:   "no command",
			tokens: []sdk.Token{sdk.TkTag("3", "input:count")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, ok := Translator{}.Translate(tt.tokens, nil)
			if tt.expected == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.expected, args.Args)
		})
	}
}

func TestCommand(t *testing.T) {
	output, err := Command{}.Run(sdk.NewCommandArgs("yozuk-skill-uuid", "-n", "3"), nil, sdk.I18n{})
	require.NoError(t, err)
	assert.Equal(t, "UUID Generator", output.Title)
	require.Len(t, output.Blocks, 2)
	assert.Equal(t, sdk.NewComment("Generating 3 UUIDs"), output.Blocks[0])

	lines := strings.Split(string(output.Blocks[1].(sdk.Data).Data), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		id, err := uuid.Parse(line)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
	}

	output, err = Command{}.Run(sdk.NewCommandArgs("yozuk-skill-uuid"), nil, sdk.I18n{})
	require.NoError(t, err)
	assert.Equal(t, sdk.NewComment("Generating 1 UUID"), output.Blocks[0])
}

func TestCommandLimits(t *testing.T) {
	_, err := Command{}.Run(sdk.NewCommandArgs("yozuk-skill-uuid", "-n", "31"), nil, sdk.I18n{})
	require.Error(t, err)
	assert.Equal(t, "Too many UUIDs (max 30)", err.Error())

	_, err = Command{}.Run(sdk.NewCommandArgs("yozuk-skill-uuid", "-n", "0"), nil, sdk.I18n{})
	assert.Error(t, err)

	_, err = Command{}.Run(sdk.NewCommandArgs("yozuk-skill-uuid", "-n", "many"), nil, sdk.I18n{})
	assert.Error(t, err)
}

func TestLabeler(t *testing.T) {
	features := Labeler{}.LabelFeatures(sdk.Tokens("f47ac10b-58cc-4372-a567-0e02b2c3d479", "uuid"))
	assert.Equal(t, [][]sdk.Feature{{{Name: "format:uuid", NonEntity: true}}, nil}, features)
}

func TestSuggests(t *testing.T) {
	assert.Contains(t, Suggests{}.Suggest(nil), "Generate UUID")
}
