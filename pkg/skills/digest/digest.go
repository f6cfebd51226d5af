// Package digest computes message digests and checksums.
package digest

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/yozuk/yozuk-sub000/pkg/english"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// Entry is the registry descriptor of the skill.
var Entry = sdk.SkillEntry{
	ModelID: sdk.ModelIDFromString("ZHvxjqf7uAilPbetXFrU-"),
	Init: func(sdk.Environment, sdk.SkillConfig) (*sdk.Skill, error) {
		return sdk.NewSkillBuilder().
			AddCorpus(Corpus{}).
			AddTranslator(Translator{}).
			SetCommand(Command{}).
			Build(), nil
	},
}

const title = "Digest"

// Corpus is the training data of the skill.
type Corpus struct{}

func (Corpus) TrainingData() [][]sdk.Token {
	inputs := []string{
		"Hello World",
		"😍😗😋",
		"quick brown fox jumps over the lazy dog",
		"Veterinarian",
	}
	keywords := allKeywords()

	var data [][]sdk.Token
	for _, input := range inputs {
		for _, prefix := range []string{"as", "to", "in", "into"} {
			for _, keyword := range keywords {
				data = append(data, []sdk.Token{
					sdk.TkTag(input, "input:data"),
					sdk.Tk(prefix),
					sdk.TkTag(keyword, "digest:keyword"),
				})
			}
		}
	}
	for _, keyword := range keywords {
		data = append(data,
			[]sdk.Token{sdk.TkTag(keyword, "digest:keyword")},
			[]sdk.Token{sdk.TkTag(keyword, "digest:keyword"), sdk.TkTag(keyword, "digest:keyword")},
		)
	}
	return data
}

// Translator resolves one or more algorithm names and an optional literal input.
type Translator struct{}

func (Translator) Translate(tokens []sdk.Token, _ []*sdk.InputStream) (sdk.CommandArgs, bool) {
	var inputs, keywords []string
	for _, t := range tokens {
		switch t.Tag {
		case "input:data":
			inputs = append(inputs, "--input", t.AsUTF8())
		case "digest:keyword":
			if len(matchAlgorithms(t.AsUTF8())) == 0 {
				return sdk.CommandArgs{}, false
			}
			keywords = append(keywords, "--algorithm", t.AsUTF8())
		}
	}
	if len(keywords) == 0 {
		return sdk.CommandArgs{}, false
	}
	return sdk.NewCommandArgs(inputs...).AddArgs(keywords...), true
}

func matchAlgorithms(name string) []algorithm {
	var out []algorithm
	for _, a := range algorithms {
		if english.NormalizedEq(name, a.keywords, 0) {
			out = append(out, a)
		}
	}
	return out
}

// Command hashes the first literal input, or the first stream when there is none.
type Command struct{}

func (Command) Run(args sdk.CommandArgs, streams []*sdk.InputStream, _ sdk.I18n) (sdk.Output, error) {
	fs := pflag.NewFlagSet(args.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	names := fs.StringArrayP("algorithm", "a", nil, "digest algorithm")
	inputs := fs.StringArrayP("input", "i", nil, "literal input")
	if err := fs.Parse(args.Args[1:]); err != nil {
		return sdk.Output{}, sdk.WrapCommandError(errors.Wrap(err, "invalid arguments"))
	}

	selected := map[string]algorithm{}
	for _, name := range *names {
		matched := matchAlgorithms(name)
		if len(matched) == 0 {
			return sdk.Output{}, sdk.NewCommandError(sdk.NewOutput(title).
				AddBlock(sdk.NewComment(fmt.Sprintf("Unsupported algorithm: %s", name))))
		}
		for _, a := range matched {
			selected[a.name] = a
		}
	}

	var source io.Reader
	switch {
	case len(*inputs) > 0:
		source = strings.NewReader((*inputs)[0])
	case len(streams) > 0:
		source = streams[0].Reader()
	default:
		return sdk.Output{}, sdk.NewCommandError(sdk.NewOutput(title).
			AddBlock(sdk.NewComment("No valid input source provided")))
	}

	result, err := computeHash(source, selected)
	if err != nil {
		return sdk.Output{}, sdk.WrapCommandError(err)
	}
	return sdk.NewOutput(title).AddBlock(sdk.NewTextData(result)), nil
}

func computeHash(r io.Reader, selected map[string]algorithm) (string, error) {
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)

	writers := make([]io.Writer, 0, len(names))
	hashes := make(map[string]hash.Hash, len(names))
	for _, name := range names {
		h := selected[name].init()
		hashes[name] = h
		writers = append(writers, h)
	}
	if _, err := io.Copy(io.MultiWriter(writers...), r); err != nil {
		return "", errors.Wrap(err, "failed to read input")
	}

	if len(names) == 1 {
		return hex.EncodeToString(hashes[names[0]].Sum(nil)), nil
	}
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, hex.EncodeToString(hashes[name].Sum(nil))))
	}
	return strings.Join(lines, "\n"), nil
}
