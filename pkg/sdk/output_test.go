package sdk

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputJSON(t *testing.T) {
	out := NewOutput("Base64 Encoder").
		AddBlock(NewTextData("SGVsbG8="), NewComment("encoded"), CommandList{Commands: []string{"base64 decode"}}).
		AddMetadata(Value{Value: "SGVsbG8="}, Docs{URL: "https://example.com"})

	data, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "primary", decoded["mode"])
	blocks := decoded["blocks"].([]any)
	require.Len(t, blocks, 3)
	assert.Equal(t, "data", blocks[0].(map[string]any)["type"])
	assert.Equal(t, "comment", blocks[1].(map[string]any)["type"])
	assert.Equal(t, "command_list", blocks[2].(map[string]any)["type"])

	var back Output
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, out.Title, back.Title)
	assert.Equal(t, out.Blocks, back.Blocks)
	require.Len(t, back.Metadata, 2)
	assert.Equal(t, Docs{URL: "https://example.com"}, back.Metadata[1])
}

func TestOutputUnknownBlockSkipped(t *testing.T) {
	var out Output
	err := json.Unmarshal([]byte(`{"title":"x","mode":"attachment","blocks":[{"type":"hologram"},{"type":"comment","text":"hi","media_type":"text/plain"}],"metadata":[]}`), &out)
	require.NoError(t, err)
	assert.Equal(t, OutputModeAttachment, out.Mode)
	assert.False(t, out.IsPrimary())
	assert.Equal(t, []Block{NewComment("hi")}, out.Blocks)
}

func TestOutputBuildersCopy(t *testing.T) {
	base := NewOutput("t").AddBlock(NewComment("a"))
	extended := base.AddBlock(NewComment("b"))
	assert.Len(t, base.Blocks, 1)
	assert.Len(t, extended.Blocks, 2)
	assert.True(t, Output{}.IsPrimary())
}

func TestErrorOutput(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		out := ErrorOutput(errors.New("boom"), "digest")
		assert.Equal(t, "digest", out.Title)
		assert.Equal(t, []Block{NewComment("boom")}, out.Blocks)
	})

	t.Run("wrapped error", func(t *testing.T) {
		out := ErrorOutput(WrapCommandError(errors.New("bad flag")), "dice")
		assert.Equal(t, "dice", out.Title)
		assert.Equal(t, []Block{NewComment("bad flag")}, out.Blocks)
	})

	t.Run("skill rendered output", func(t *testing.T) {
		rendered := NewOutput("Dice").AddBlock(NewComment("too many rolls"))
		err := NewCommandError(rendered)
		assert.Equal(t, "too many rolls", err.Error())
		assert.Equal(t, rendered, ErrorOutput(errors.Wrap(err, "run"), "dice"))
	})
}
