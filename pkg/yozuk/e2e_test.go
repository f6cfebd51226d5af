package yozuk

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yozuk/yozuk-sub000/pkg/modelgen"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/tokenizer"
)

var (
	bundledOnce   sync.Once
	bundledEngine *Engine
	bundledErr    error
)

// bundled trains the compiled registry once per test binary.
func bundled(t *testing.T) *Engine {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping model training in short mode")
	}
	bundledOnce.Do(func() {
		b, err := NewBuilder()
		if err != nil {
			bundledErr = err
			return
		}
		ms, err := modelgen.Generate(context.Background(), b.entries)
		if err != nil {
			bundledErr = err
			return
		}
		bundledEngine, bundledErr = b.Build(ms)
	})
	require.NoError(t, bundledErr)
	require.NoError(t, bundledEngine.InitErrors())
	return bundledEngine
}

func TestBundledResolution(t *testing.T) {
	e := bundled(t)
	binary := []*sdk.InputStream{sdk.NewInputStreamBytes([]byte{0x00, 0xff, 0xfe, 0x80, 0x01}, "")}

	tests := []struct {
		name     string
		tokens   []sdk.Token
		streams  []*sdk.InputStream
		expected sdk.CommandArgs
	}{
		{
			name:     "base64 encode",
			tokens:   sdk.Tokens("Hello World!", "to", "Base64"),
			expected: sdk.NewCommandArgs("yozuk-skill-base64", "--mode", "encode").AddTextData("Hello World!"),
		},
		{
			name:     "digest of stream",
			tokens:   sdk.Tokens("md5"),
			streams:  binary,
			expected: sdk.NewCommandArgs("yozuk-skill-digest", "--algorithm", "md5"),
		},
		{
			name:     "dice count",
			tokens:   sdk.Tokens("roll", "10", "dice"),
			expected: sdk.NewCommandArgs("yozuk-skill-dice", "10d6"),
		},
		{
			name:     "uuid count",
			tokens:   tokenizer.Tokenize("generate 3 uuids"),
			expected: sdk.NewCommandArgs("yozuk-skill-uuid", "-n", "3"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := e.GetCommands(context.Background(), tt.tokens, tt.streams)
			require.NotEmpty(t, cmds)
			assert.Empty(t, cmp.Diff(tt.expected, cmds[0], cmpopts.EquateEmpty()))
		})
	}
}

func TestBundledRun(t *testing.T) {
	e := bundled(t)
	ctx := context.Background()

	cmds := e.GetCommands(ctx, tokenizer.Tokenize("generate 3 uuids"), nil)
	require.NotEmpty(t, cmds)
	outputs, err := e.RunCommands(ctx, cmds[:1], nil, nil)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "UUID Generator", outputs[0].Title)

	outputs, err = e.RunCommands(ctx, []sdk.CommandArgs{sdk.NewCommandArgs("yozuk-skill-numeric", "255")}, nil, nil)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, sdk.OutputModeAttachment, outputs[0].Mode)
}

func TestBundledUnknownRequest(t *testing.T) {
	e := bundled(t)
	assert.Empty(t, e.GetCommands(context.Background(), tokenizer.Tokenize("what a lovely afternoon"), nil))
}
