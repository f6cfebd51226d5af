// Package numeric labels numeric tokens and converts integers between bases.
package numeric

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// Entry is the registry descriptor of the skill.
var Entry = sdk.SkillEntry{
	ModelID: sdk.ModelIDFromString("nSz49UpiDtQLWUfAUZEq1"),
	Init: func(sdk.Environment, sdk.SkillConfig) (*sdk.Skill, error) {
		return sdk.NewSkillBuilder().
			AddLabeler(Labeler{}).
			AddTranslator(Translator{}).
			SetCommand(Command{}).
			Build(), nil
	},
}

// Labeler marks tokens that read as decimal numbers with their sign and kind.
type Labeler struct{}

func (Labeler) LabelFeatures(tokens []sdk.Token) [][]sdk.Feature {
	out := make([][]sdk.Feature, len(tokens))
	for i, token := range tokens {
		out[i] = labelNumeric(token.AsUTF8())
	}
	return out
}

func labelNumeric(text string) []sdk.Feature {
	if text == "" || strings.ContainsRune(text, '/') || hasRadixPrefix(strings.TrimLeft(text, "+-")) {
		return nil
	}
	n, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil
	}
	features := []sdk.Feature{{Name: "numeric"}}
	switch n.Sign() {
	case 1:
		features = append(features, sdk.Feature{Name: "numeric:positive"})
	case -1:
		features = append(features, sdk.Feature{Name: "numeric:negative"})
	default:
		features = append(features, sdk.Feature{Name: "numeric:zero"})
	}
	if n.IsInt() {
		features = append(features, sdk.Feature{Name: "numeric:integer"})
	} else {
		features = append(features, sdk.Feature{Name: "numeric:float"})
	}
	return features
}

func hasRadixPrefix(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "0b") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0x")
}

// ParseInteger parses a signed integer written in decimal or with a 0b, 0o
// or 0x prefix. It returns the value and its base.
func ParseInteger(text string) (*big.Int, int, bool) {
	body := text
	negative := false
	switch {
	case strings.HasPrefix(body, "-"):
		negative = true
		body = body[1:]
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	}
	if body == "" || strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
		return nil, 0, false
	}

	base := 10
	if hasRadixPrefix(body) {
		switch strings.ToLower(body[:2]) {
		case "0b":
			base = 2
		case "0o":
			base = 8
		default:
			base = 16
		}
		body = body[2:]
	}
	if body == "" || strings.Contains(body, "_") {
		return nil, 0, false
	}
	n, ok := new(big.Int).SetString(body, base)
	if !ok {
		return nil, 0, false
	}
	if negative {
		n.Neg(n)
	}
	return n, base, true
}

// Translator matches a request made of a single integer.
type Translator struct{}

func (Translator) Translate(tokens []sdk.Token, _ []*sdk.InputStream) (sdk.CommandArgs, bool) {
	if len(tokens) != 1 {
		return sdk.CommandArgs{}, false
	}
	text := tokens[0].AsUTF8()
	if _, _, ok := ParseInteger(text); !ok {
		return sdk.CommandArgs{}, false
	}
	return sdk.NewCommandArgs(text), true
}

var radixes = []struct {
	base   int
	prefix string
	title  string
}{
	{base: 2, prefix: "0b", title: "Binary"},
	{base: 8, prefix: "0o", title: "Octal"},
	{base: 10, prefix: "", title: "Decimal"},
	{base: 16, prefix: "0x", title: "Hexadecimal"},
}

// Command shows an integer in the bases it was not written in.
type Command struct{}

func (Command) Priority() int {
	return -100
}

func (Command) Run(args sdk.CommandArgs, _ []*sdk.InputStream, _ sdk.I18n) (sdk.Output, error) {
	// Negative numbers look like flags, so the argument is taken verbatim.
	if len(args.Args) != 2 {
		return sdk.Output{}, sdk.WrapCommandError(errors.New("expected exactly one number"))
	}
	n, base, ok := ParseInteger(args.Args[1])
	if !ok {
		return sdk.Output{}, sdk.WrapCommandError(errors.Errorf("invalid integer: %s", args.Args[1]))
	}

	out := sdk.NewOutput("Numeric").SetMode(sdk.OutputModeAttachment)
	for _, r := range radixes {
		if r.base == base {
			continue
		}
		out = out.AddBlock(sdk.Data{
			Data:      sdk.Bytes(formatInt(n, r.base, r.prefix)),
			Title:     r.title,
			MediaType: sdk.DefaultMediaType,
		})
	}
	return out.AddMetadata(sdk.Value{Value: n.String()}), nil
}

func formatInt(n *big.Int, base int, prefix string) string {
	if n.Sign() < 0 {
		return "-" + prefix + new(big.Int).Neg(n).Text(base)
	}
	return prefix + n.Text(base)
}
