// Package dice rolls dice expressions such as "3d6+2".
package dice

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/yozuk/yozuk-sub000/pkg/english"
	"github.com/yozuk/yozuk-sub000/pkg/preprocessor"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// MediaType marks a token holding a merged dice expression.
const MediaType = "text/vnd.yozuk.dice"

const title = "Dice"

// Config is the skill configuration.
type Config struct {
	// Secure draws every roll from crypto/rand.
	Secure bool `json:"secure,omitempty" jsonschema:"description=Use a cryptographically secure random source"`
}

// Entry is the registry descriptor of the skill.
var Entry = sdk.SkillEntry{
	ModelID:      sdk.ModelIDFromString("Szq9sPvc3_bTUeMJSGjnC"),
	ConfigSchema: sdk.GenerateSchema[Config](),
	Init: func(_ sdk.Environment, config sdk.SkillConfig) (*sdk.Skill, error) {
		var cfg Config
		if err := config.Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode dice config")
		}
		return sdk.NewSkillBuilder().
			AddCorpus(Corpus{}).
			AddPreprocessor(preprocessor.NewTokenMerger(english.NumeralParser{})).
			AddPreprocessor(Preprocessor()).
			AddTranslator(Translator{}).
			SetCommand(Command{Secure: cfg.Secure}).
			Build(), nil
	},
}

// Corpus is the training data of the skill.
type Corpus struct{}

func (Corpus) TrainingData() [][]sdk.Token {
	data := [][]sdk.Token{
		{sdk.Tk("roll"), sdk.TkTag("dice", "command:dice")},
		{sdk.Tk("roll"), sdk.Tk("a"), sdk.TkTag("die", "command:dice")},
		{sdk.Tk("roll"), sdk.Tk("the"), sdk.TkTag("dice", "command:dice")},
		{sdk.Tk("throw"), sdk.Tk("a"), sdk.TkTag("die", "command:dice")},
		{sdk.TkTag("dice", "command:dice")},
	}
	for _, verb := range []string{"roll", "throw"} {
		for n := 2; n <= 10; n++ {
			data = append(data, []sdk.Token{
				sdk.Tk(verb),
				sdk.TkTag(strconv.Itoa(n), "input:count"),
				sdk.TkTag("dice", "command:dice"),
			})
		}
	}
	return data
}

// Preprocessor merges the tokens of a dice expression into one token.
func Preprocessor() *preprocessor.TokenMerger {
	return preprocessor.NewTokenMerger(preprocessor.TokenParserFunc(parseTokens))
}

func parseTokens(tokens []sdk.Token) (sdk.Token, bool) {
	var sb strings.Builder
	for _, t := range tokens {
		if t.Tag != "" || t.GetMediaType() != sdk.DefaultMediaType {
			return sdk.Token{}, false
		}
		sb.Write(t.Data)
	}
	text := sb.String()
	exp, err := Parse(text)
	if err != nil || !exp.HasDice() {
		return sdk.Token{}, false
	}
	return sdk.TkMedia(text, MediaType), true
}

// Translator resolves "roll N dice" and bare dice expressions.
type Translator struct{}

func (Translator) Translate(tokens []sdk.Token, _ []*sdk.InputStream) (sdk.CommandArgs, bool) {
	var commands, counts []sdk.Token
	for _, t := range tokens {
		switch t.Tag {
		case "command:dice":
			commands = append(commands, t)
		case "input:count":
			counts = append(counts, t)
		}
	}
	if len(commands) == 1 && english.NormalizedEq(commands[0].AsUTF8(), []string{"dice", "die"}, 0) {
		count := 1
		if len(counts) > 0 {
			n, err := strconv.Atoi(counts[0].AsUTF8())
			if err != nil || n <= 0 {
				return sdk.CommandArgs{}, false
			}
			count = n
		}
		return sdk.NewCommandArgs(fmt.Sprintf("%dd%d", count, defaultSides)), true
	}

	var exprs []string
	for _, t := range tokens {
		if t.GetMediaType() != MediaType {
			return sdk.CommandArgs{}, false
		}
		exprs = append(exprs, t.AsUTF8())
	}
	if len(exprs) != 1 {
		return sdk.CommandArgs{}, false
	}
	return sdk.NewCommandArgs(exprs[0]), true
}

// Command evaluates a dice expression.
type Command struct {
	Secure bool
	// Source overrides the random source; used by tests.
	Source Source
}

func (c Command) Run(args sdk.CommandArgs, _ []*sdk.InputStream, _ sdk.I18n) (sdk.Output, error) {
	fs := pflag.NewFlagSet(args.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args.Args[1:]); err != nil {
		return sdk.Output{}, sdk.WrapCommandError(errors.Wrap(err, "invalid arguments"))
	}

	exp, err := Parse(strings.Join(fs.Args(), ""))
	if err != nil {
		return sdk.Output{}, failure(fmt.Sprintf("Invalid dice expression: %v", err))
	}

	src := c.Source
	if src == nil {
		src = newSource(c.Secure)
	}
	result, err := exp.Roll(src)
	if err != nil {
		switch {
		case errors.Is(err, ErrDivisionByZero):
			return sdk.Output{}, failure("Division by zero")
		case errors.Is(err, ErrTooManyRolls):
			return sdk.Output{}, failure(fmt.Sprintf("Too many rolls (max %d)", MaxRolls))
		case errors.Is(err, ErrOverflow):
			return sdk.Output{}, failure("Result out of range")
		}
		return sdk.Output{}, sdk.WrapCommandError(err)
	}

	return sdk.NewOutput(title).
		AddBlock(sdk.NewTextData(formatResult(result))).
		AddMetadata(sdk.Value{Value: result.Total}), nil
}

func failure(text string) *sdk.CommandError {
	return sdk.NewCommandError(sdk.NewOutput(title).AddBlock(sdk.NewComment(text)))
}

func formatResult(r Result) string {
	total := strconv.FormatInt(r.Total, 10)
	if len(r.Rolls) == 0 {
		return total
	}
	rolls := make([]string, len(r.Rolls))
	for i, v := range r.Rolls {
		rolls[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s (%s)", total, strings.Join(rolls, " "))
}
