package dice

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

type fixedSource struct {
	values []int
	next   int
}

func (s *fixedSource) IntN(n int) (int, error) {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n, nil
}

type failingSource struct{}

func (failingSource) IntN(int) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		specs []Spec
		rolls int
	}{
		{input: "2d6", specs: []Spec{{Count: 2, Sides: 6}}, rolls: 2},
		{input: "6d", specs: []Spec{{Count: 6, Sides: 6}}, rolls: 6},
		{input: "100d1000", specs: []Spec{{Count: 100, Sides: 1000}}, rolls: 100},
		{
			input: "(2d6+5d100)*4d10+100",
			specs: []Spec{{Count: 2, Sides: 6}, {Count: 5, Sides: 100}, {Count: 4, Sides: 10}},
			rolls: 11,
		},
		{input: "1 + 2", rolls: 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			exp, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.specs, exp.Specs())
			assert.Equal(t, tt.rolls, exp.Rolls())
			assert.Equal(t, len(tt.specs) > 0, exp.HasDice())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "2d6+", "(2d6", "2d6)", "0d6", "2d0", "10dice", "d6", "roll", "99999999999d6"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestPreprocessor(t *testing.T) {
	tokens := sdk.Tokens("(", "2d6", "+", "5d100", ")", "*", "4d10", "+100")
	merged := Preprocessor().Preprocess(tokens)
	require.Len(t, merged, 1)
	assert.Equal(t, "(2d6+5d100)*4d10+100", merged[0].AsUTF8())
	assert.Equal(t, MediaType, merged[0].MediaType)

	plain := sdk.Tokens("roll", "10", "dice")
	assert.Equal(t, plain, Preprocessor().Preprocess(plain))

	merged = Preprocessor().Preprocess(sdk.Tokens("roll", "3d6", "+", "1"))
	require.Len(t, merged, 2)
	assert.Equal(t, sdk.Tk("roll"), merged[0])
	assert.Equal(t, sdk.TkMedia("3d6+1", MediaType), merged[1])
}

func TestTranslator(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []sdk.Token
		expected []string
	}{
		{
			name:     "count",
			tokens:   []sdk.Token{sdk.Tk("roll"), sdk.TkTag("10", "input:count"), sdk.TkTag("dice", "command:dice")},
			expected: []string{"10d6"},
		},
		{
			name:     "single die",
			tokens:   []sdk.Token{sdk.Tk("roll"), sdk.Tk("a"), sdk.TkTag("die", "command:dice")},
			expected: []string{"1d6"},
		},
		{
			name:     "expression",
			tokens:   []sdk.Token{sdk.TkMedia("2d6", MediaType)},
			expected: []string{"2d6"},
		},
		{
			name:   "two expressions",
			tokens: []sdk.Token{sdk.TkMedia("2d6", MediaType), sdk.TkMedia("1d4", MediaType)},
		},
		{
			name:   "expression with other words",
			tokens: []sdk.Token{sdk.Tk("md5"), sdk.TkMedia("2d6", MediaType)},
		},
		{
			name:   "bad count",
			tokens: []sdk.Token{sdk.TkTag("many", "input:count"), sdk.TkTag("dice", "command:dice")},
		},
		{
			name:   "unrelated command word",
			tokens: []sdk.Token{sdk.TkTag("coin", "command:dice")},
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
	cmd := Command{Source: &fixedSource{values: []int{2, 4}}}
	output, err := cmd.Run(sdk.NewCommandArgs("yozuk-skill-dice", "2d6+3"), nil, sdk.I18n{})
	require.NoError(t, err)
	assert.Equal(t, "Dice", output.Title)
	assert.Equal(t, []sdk.Block{sdk.NewTextData("11 (3 5)")}, output.Blocks)
	assert.Equal(t, []sdk.Metadata{sdk.Value{Value: int64(11)}}, output.Metadata)

	output, err = cmd.Run(sdk.NewCommandArgs("yozuk-skill-dice", "(1", "+", "2)", "*", "3"), nil, sdk.I18n{})
	require.NoError(t, err)
	assert.Equal(t, []sdk.Block{sdk.NewTextData("9")}, output.Blocks)
}

func TestCommandSecureSource(t *testing.T) {
	output, err := Command{Secure: true}.Run(sdk.NewCommandArgs("yozuk-skill-dice", "3d6"), nil, sdk.I18n{})
	require.NoError(t, err)
	require.Len(t, output.Metadata, 1)
	total := output.Metadata[0].(sdk.Value).Value.(int64)
	assert.GreaterOrEqual(t, total, int64(3))
	assert.LessOrEqual(t, total, int64(18))
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		expr    string
		message string
	}{
		{expr: "1d6/0", message: "Division by zero"},
		{expr: "101d6", message: "Too many rolls (max 100)"},
		{expr: "50d6+51d6", message: "Too many rolls (max 100)"},
		{expr: "2147483647*2147483647*2147483647", message: "Result out of range"},
		{expr: "0-2147483647*2147483647*2147483647", message: "Result out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Command{}.Run(sdk.NewCommandArgs("yozuk-skill-dice", tt.expr), nil, sdk.I18n{})
			require.Error(t, err)
			output := sdk.ErrorOutput(err, "yozuk-skill-dice")
			assert.Equal(t, "Dice", output.Title)
			assert.Equal(t, []sdk.Block{sdk.NewComment(tt.message)}, output.Blocks)
		})
	}

	_, err := Command{}.Run(sdk.NewCommandArgs("yozuk-skill-dice", "two"), nil, sdk.I18n{})
	assert.Error(t, err)
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := add(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = sub(math.MinInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = mul(math.MinInt64, -1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = mul(1<<32, 1<<31)
	assert.ErrorIs(t, err, ErrOverflow)

	v, err := mul(-(1 << 31), 1<<31)
	require.NoError(t, err)
	assert.Equal(t, int64(-(1 << 62)), v)
	v, err = add(math.MaxInt64, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-1), v)

	exp, err := Parse("2147483647*2147483647*2")
	require.NoError(t, err)
	result, err := exp.Roll(&fixedSource{values: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, int64(2147483647*2147483647*2), result.Total)
}

func TestSourceFailureIsReturned(t *testing.T) {
	_, err := Command{Source: failingSource{}}.Run(sdk.NewCommandArgs("yozuk-skill-dice", "2d6"), nil, sdk.I18n{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy source unavailable")

	exp, err := Parse("1+3d6")
	require.NoError(t, err)
	_, err = exp.Roll(failingSource{})
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	config, err := sdk.NewSkillConfig(Entry.ConfigSchema, map[string]any{"secure": true})
	require.NoError(t, err)
	skill, err := Entry.Init(sdk.Environment{}, config)
	require.NoError(t, err)
	assert.Equal(t, Command{Secure: true}, skill.Command)

	_, err = sdk.NewSkillConfig(Entry.ConfigSchema, map[string]any{"secure": "yes"})
	assert.Error(t, err)
	_, err = sdk.NewSkillConfig(Entry.ConfigSchema, map[string]any{"sides": 20})
	assert.Error(t, err)
}
