package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

func names(features []sdk.Feature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, f.Name)
	}
	return out
}

func TestLabeler(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{input: "10", expected: []string{"numeric", "numeric:positive", "numeric:integer"}},
		{input: "-2.5", expected: []string{"numeric", "numeric:negative", "numeric:float"}},
		{input: "0", expected: []string{"numeric", "numeric:zero", "numeric:integer"}},
		{input: "1e3", expected: []string{"numeric", "numeric:positive", "numeric:integer"}},
		{input: "0xff", expected: []string{}},
		{input: "1/3", expected: []string{}},
		{input: "dice", expected: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			features := Labeler{}.LabelFeatures(sdk.Tokens(tt.input))
			require.Len(t, features, 1)
			assert.Equal(t, tt.expected, names(features[0]))
		})
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		input string
		value string
		base  int
		ok    bool
	}{
		{input: "255", value: "255", base: 10, ok: true},
		{input: "0xff", value: "255", base: 16, ok: true},
		{input: "0XFF", value: "255", base: 16, ok: true},
		{input: "0b11111111", value: "255", base: 2, ok: true},
		{input: "0o377", value: "255", base: 8, ok: true},
		{input: "-0x10", value: "-16", base: 16, ok: true},
		{input: "+7", value: "7", base: 10, ok: true},
		{input: "010", value: "10", base: 10, ok: true},
		{input: "0x"},
		{input: "--1"},
		{input: "1_000"},
		{input: "0b102"},
		{input: "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, base, ok := ParseInteger(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.value, n.String())
				assert.Equal(t, tt.base, base)
			}
		})
	}
}

func TestTranslator(t *testing.T) {
	for _, input := range []string{"0xff", "0b11111111", "0o377", "255"} {
		args, ok := Translator{}.Translate(sdk.Tokens(input), nil)
		require.True(t, ok, input)
		assert.Equal(t, []string{input}, args.Args)
	}

	_, ok := Translator{}.Translate(sdk.Tokens("255", "dice"), nil)
	assert.False(t, ok)
	_, ok = Translator{}.Translate(sdk.Tokens("ff"), nil)
	assert.False(t, ok)
}

func TestCommand(t *testing.T) {
	output, err := Command{}.Run(sdk.NewCommandArgs("yozuk-skill-numeric", "0xff"), nil, sdk.I18n{})
	require.NoError(t, err)
	assert.Equal(t, sdk.OutputModeAttachment, output.Mode)
	assert.False(t, output.IsPrimary())
	assert.Equal(t, []sdk.Block{
		sdk.Data{Data: sdk.Bytes("0b11111111"), Title: "Binary", MediaType: sdk.DefaultMediaType},
		sdk.Data{Data: sdk.Bytes("0o377"), Title: "Octal", MediaType: sdk.DefaultMediaType},
		sdk.Data{Data: sdk.Bytes("255"), Title: "Decimal", MediaType: sdk.DefaultMediaType},
	}, output.Blocks)
	assert.Equal(t, []sdk.Metadata{sdk.Value{Value: "255"}}, output.Metadata)

	output, err = Command{}.Run(sdk.NewCommandArgs("yozuk-skill-numeric", "-10"), nil, sdk.I18n{})
	require.NoError(t, err)
	require.Len(t, output.Blocks, 3)
	assert.Equal(t, "-0xa", string(output.Blocks[2].(sdk.Data).Data))

	_, err = Command{}.Run(sdk.NewCommandArgs("yozuk-skill-numeric", "ten"), nil, sdk.I18n{})
	assert.Error(t, err)
	_, err = Command{}.Run(sdk.NewCommandArgs("yozuk-skill-numeric"), nil, sdk.I18n{})
	assert.Error(t, err)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, -100, sdk.CommandPriority(Command{}))
}
