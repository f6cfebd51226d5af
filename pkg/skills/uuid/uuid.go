// Package uuid generates random UUIDs.
package uuid

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/yozuk/yozuk-sub000/pkg/english"
	"github.com/yozuk/yozuk-sub000/pkg/preprocessor"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// MaxCount bounds the number of UUIDs generated by one command.
const MaxCount = 30

const title = "UUID Generator"

var commandWords = []string{"uuid", "guid"}

// Entry is the registry descriptor of the skill.
var Entry = sdk.SkillEntry{
	ModelID: sdk.ModelIDFromString("tzUyypo_Lz2T95dun91YX"),
	Init: func(sdk.Environment, sdk.SkillConfig) (*sdk.Skill, error) {
		return sdk.NewSkillBuilder().
			AddCorpus(Corpus{}).
			AddLabeler(Labeler{}).
			AddPreprocessor(preprocessor.NewTokenMerger(english.NumeralParser{})).
			AddSuggests(Suggests{}).
			AddTranslator(Translator{}).
			SetCommand(Command{}).
			Build(), nil
	},
}

// Corpus is the training data of the skill.
type Corpus struct{}

func (Corpus) TrainingData() [][]sdk.Token {
	var data [][]sdk.Token
	for _, name := range []string{"UUID", "uuid", "GUID", "guid"} {
		data = append(data, []sdk.Token{sdk.TkTag(name, "command:uuid")})
		for _, verb := range []string{"generate", "new", "create"} {
			data = append(data, []sdk.Token{sdk.Tk(verb), sdk.TkTag(name, "command:uuid")})
		}
		for n := 1; n <= 10; n++ {
			plural := english.Pluralize(name, n)
			count := strconv.Itoa(n)
			data = append(data,
				[]sdk.Token{sdk.TkTag(count, "input:count"), sdk.TkTag(plural, "command:uuid")},
				[]sdk.Token{sdk.Tk("generate"), sdk.TkTag(count, "input:count"), sdk.TkTag(plural, "command:uuid")},
			)
		}
	}
	return data
}

// Labeler marks tokens that already are UUIDs.
type Labeler struct{}

func (Labeler) LabelFeatures(tokens []sdk.Token) [][]sdk.Feature {
	out := make([][]sdk.Feature, len(tokens))
	for i, token := range tokens {
		if _, err := uuid.Parse(token.AsUTF8()); err == nil {
			out[i] = []sdk.Feature{{Name: "format:uuid", NonEntity: true}}
		}
	}
	return out
}

// Suggests offers the canonical requests of the skill.
type Suggests struct{}

func (Suggests) Suggest([]sdk.Token) []string {
	return []string{"UUID", "GUID", "Generate UUID", "Generate GUID", "New UUID", "New GUID"}
}

// Translator resolves "generate N uuids".
type Translator struct{}

func (Translator) Translate(tokens []sdk.Token, _ []*sdk.InputStream) (sdk.CommandArgs, bool) {
	matched := false
	count := "1"
	for _, t := range tokens {
		switch t.Tag {
		case "command:uuid":
			if !english.NormalizedEq(t.AsUTF8(), commandWords, 0) {
				return sdk.CommandArgs{}, false
			}
			matched = true
		case "input:count":
			if _, err := strconv.ParseUint(t.AsUTF8(), 10, 32); err != nil {
				return sdk.CommandArgs{}, false
			}
			count = t.AsUTF8()
		}
	}
	if !matched {
		return sdk.CommandArgs{}, false
	}
	return sdk.NewCommandArgs("-n", count), true
}

// Command generates version 4 UUIDs.
type Command struct{}

func (Command) Run(args sdk.CommandArgs, _ []*sdk.InputStream, _ sdk.I18n) (sdk.Output, error) {
	fs := pflag.NewFlagSet(args.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.IntP("count", "n", 1, "number of UUIDs")
	if err := fs.Parse(args.Args[1:]); err != nil {
		return sdk.Output{}, sdk.WrapCommandError(errors.Wrap(err, "invalid arguments"))
	}
	if *n < 1 {
		return sdk.Output{}, sdk.NewCommandError(sdk.NewOutput(title).
			AddBlock(sdk.NewComment("Count must be at least 1")))
	}
	if *n > MaxCount {
		return sdk.Output{}, sdk.NewCommandError(sdk.NewOutput(title).
			AddBlock(sdk.NewComment(fmt.Sprintf("Too many UUIDs (max %d)", MaxCount))))
	}

	ids := make([]string, 0, *n)
	for i := 0; i < *n; i++ {
		id, err := uuid.NewRandom()
		if err != nil {
			return sdk.Output{}, sdk.WrapCommandError(errors.Wrap(err, "failed to generate uuid"))
		}
		ids = append(ids, id.String())
	}

	return sdk.NewOutput(title).
		AddBlock(sdk.NewComment(fmt.Sprintf("Generating %d %s", *n, english.Pluralize("UUID", *n)))).
		AddBlock(sdk.NewTextData(strings.Join(ids, "\n"))), nil
}
