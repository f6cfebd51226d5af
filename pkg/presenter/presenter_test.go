package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

func newTest() (*Presenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewWithOptions(&out, &errOut, ColorNever), &out, &errOut
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		yozuk    string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "always", ColorNever},
		{"always", "", "always", ColorAlways},
		{"force", "", "force", ColorAlways},
		{"never", "", "never", ColorNever},
		{"off", "", "off", ColorNever},
		{"default", "", "", ColorAuto},
		{"unknown", "", "rainbow", ColorAuto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("YOZUK_COLOR", tt.yozuk)
			assert.Equal(t, tt.expected, DetectColorMode())
		})
	}
}

func TestOutputs(t *testing.T) {
	p, out, _ := newTest()
	p.Outputs([]sdk.Output{
		sdk.NewOutput("Dice").
			AddBlock(sdk.NewComment("Rolling 2d6")).
			AddBlock(sdk.NewTextData("7 (3 4)\n")),
		sdk.NewOutput("Numeric").
			AddBlock(sdk.Data{Title: "Hexadecimal", Data: sdk.Bytes("0xff"), MediaType: "text/plain"}).
			AddBlock(sdk.NewData([]byte{0xff, 0x00, 0xfe})).
			AddBlock(sdk.Spoiler{Title: "Secret", Data: sdk.Bytes("hunter2")}).
			AddBlock(sdk.CommandList{Commands: []string{"roll 3d6"}}),
	})
	assert.Equal(t, "Dice\nRolling 2d6\n7 (3 4)\n\n"+
		"Numeric\nHexadecimal: 0xff\n<application/octet-stream, 3 B>\nSecret: ********\n  - roll 3d6\n", out.String())

	out.Reset()
	p.RevealSpoilers(true)
	p.Outputs([]sdk.Output{sdk.NewOutput("S").AddBlock(sdk.Spoiler{Title: "Secret", Data: sdk.Bytes("hunter2")})})
	assert.Equal(t, "S\nSecret: hunter2\n", out.String())
}

func TestDiagnostics(t *testing.T) {
	p, out, errOut := newTest()
	p.Failures([]sdk.Output{sdk.NewOutput("Dice").AddBlock(sdk.NewComment("Division by zero"))})
	p.Suggest("Generate UUID")
	p.Warning("skill disabled")
	p.Error(errors.New("boom"), "load model")
	p.Error(errors.New("bare"), "")
	p.Error(nil, "ignored")
	p.Success("done")

	assert.Equal(t, "Dice\nDivision by zero\nDid you mean \"Generate UUID\"?\nwarning: skill disabled\n"+
		"error: load model: boom\nerror: bare\n", errOut.String())
	assert.Equal(t, "done\n", out.String())
}
