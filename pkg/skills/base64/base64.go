// Package base64 encodes and decodes Base64 text.
package base64

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/net/html/charset"

	"github.com/yozuk/yozuk-sub000/pkg/english"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// Entry is the registry descriptor of the skill.
var Entry = sdk.SkillEntry{
	ModelID: sdk.ModelIDFromString("-6zq-7vR7Ax6tHYBelhCl"),
	Init: func(sdk.Environment, sdk.SkillConfig) (*sdk.Skill, error) {
		return sdk.NewSkillBuilder().
			AddLabeler(Labeler{}).
			AddCorpus(Corpus{}).
			AddTranslator(Translator{}).
			SetCommand(Command{}).
			Build(), nil
	},
}

const minEntropy = 2.5

func looksLikeBase64(token sdk.Token) bool {
	if token.ShannonEntropy() < minEntropy {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(token.AsUTF8())
	return err == nil
}

// Corpus is the training data of the skill.
type Corpus struct{}

func (Corpus) TrainingData() [][]sdk.Token {
	inputs := []string{
		"Hello World",
		"😍😗😋",
		"quick brown fox jumps over the lazy dog",
		"Veterinarian",
	}
	var data [][]sdk.Token
	for _, input := range inputs {
		for _, prefix := range []string{"as", "to", "in", "into"} {
			data = append(data, []sdk.Token{
				sdk.TkTag(input, "input:data"),
				sdk.Tk(prefix),
				sdk.TkTag("Base64", "command:base64"),
			})
		}
	}
	for _, input := range inputs {
		for i := 0; i < 4; i++ {
			data = append(data, []sdk.Token{
				sdk.TkTag("Base64", "command:base64"),
				sdk.Tk("of"),
				sdk.TkTag(input, "input:data"),
			})
		}
	}
	for i := 0; i < 10; i++ {
		data = append(data, []sdk.Token{sdk.TkTag("Base64", "command:base64")})
	}
	for i := 0; i < 10; i++ {
		data = append(data, []sdk.Token{sdk.TkTag("SGVsbG8gV29ybGQh", "input:base64")})
	}
	return data
}

// Labeler marks tokens that decode as Base64.
type Labeler struct{}

func (Labeler) LabelFeatures(tokens []sdk.Token) [][]sdk.Feature {
	out := make([][]sdk.Feature, len(tokens))
	for i, token := range tokens {
		if looksLikeBase64(token) {
			out[i] = []sdk.Feature{{Name: "encoding:base64", NonEntity: true}}
		}
	}
	return out
}

// Translator resolves encode requests first and falls back to decoding.
type Translator struct{}

func (Translator) Translate(tokens []sdk.Token, streams []*sdk.InputStream) (sdk.CommandArgs, bool) {
	for _, token := range tokens {
		if token.Tag != "command:base64" || !english.NormalizedEq(token.AsUTF8(), []string{"Base64"}, 0) {
			continue
		}
		var inputs [][]byte
		for _, t := range tokens {
			if t.Tag == "input:data" {
				inputs = append(inputs, t.Data)
			}
		}
		if len(inputs) > 0 || len(streams) > 0 {
			return sdk.NewCommandArgs("--mode", "encode").AddData(inputs...), true
		}
		break
	}

	var candidates []sdk.Token
	for _, t := range tokens {
		if t.Tag == "input:base64" {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) > 1 {
		return sdk.CommandArgs{}, false
	}

	var inputs [][]byte
	for _, t := range candidates {
		if looksLikeBase64(t) {
			inputs = append(inputs, t.Data)
		}
	}
	if len(inputs) > 0 || (len(streams) > 0 && allASCIIStreams(streams)) {
		return sdk.NewCommandArgs("--mode", "decode").AddData(inputs...), true
	}
	return sdk.CommandArgs{}, false
}

func allASCIIStreams(streams []*sdk.InputStream) bool {
	for _, s := range streams {
		header := s.Header()
		if len(header) == 0 {
			return false
		}
		for _, b := range header {
			if b >= 0x80 {
				return false
			}
		}
	}
	return true
}

// Command runs the encoder or the decoder.
type Command struct{}

func (Command) Priority() int {
	return -100
}

func (Command) Run(args sdk.CommandArgs, streams []*sdk.InputStream, _ sdk.I18n) (sdk.Output, error) {
	fs := pflag.NewFlagSet(args.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	mode := fs.StringP("mode", "m", "", "encode or decode")
	if err := fs.Parse(args.Args[1:]); err != nil {
		return sdk.Output{}, sdk.WrapCommandError(errors.Wrap(err, "invalid arguments"))
	}

	payloads := make([][]byte, 0, len(args.Data)+len(streams))
	for _, d := range args.Data {
		payloads = append(payloads, d)
	}
	for _, s := range streams {
		payloads = append(payloads, s.Bytes())
	}

	switch *mode {
	case "encode":
		out := sdk.NewOutput("Base64 Encoder")
		for _, p := range payloads {
			out = out.AddBlock(sdk.NewTextData(base64.StdEncoding.EncodeToString(p)))
		}
		return out, nil
	case "decode":
		out := sdk.NewOutput("Base64 Decoder").AddBlock(sdk.NewComment("Decoding Base64 string"))
		for _, p := range payloads {
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(p)))
			if err != nil {
				continue
			}
			out = out.AddBlock(sdk.Data{Data: decoded, MediaType: detectMediaType(decoded)})
		}
		return out, nil
	default:
		return sdk.Output{}, sdk.WrapCommandError(errors.Errorf("unknown mode %q", *mode))
	}
}

// detectMediaType sniffs decoded data. Unknown binary data that carries an
// encoding marker is reported as text in that encoding.
func detectMediaType(data []byte) string {
	mediaType := http.DetectContentType(data)
	if mediaType != "application/octet-stream" {
		return mediaType
	}
	if _, name, certain := charset.DetermineEncoding(data, ""); certain {
		return fmt.Sprintf("text/plain; charset=%s", name)
	}
	return mediaType
}
