// Package presenter renders command outputs and diagnostics on a terminal.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

// ColorMode selects whether escape sequences are written.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// DetectColorMode reads NO_COLOR and YOZUK_COLOR.
func DetectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	switch os.Getenv("YOZUK_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Presenter writes results to out and diagnostics to errOut.
type Presenter struct {
	out     io.Writer
	errOut  io.Writer
	spoiler bool
}

// New returns a Presenter on stdout and stderr.
func New() *Presenter {
	return NewWithOptions(os.Stdout, os.Stderr, DetectColorMode())
}

// NewWithOptions returns a Presenter on the given writers.
func NewWithOptions(out, errOut io.Writer, mode ColorMode) *Presenter {
	switch mode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &Presenter{out: out, errOut: errOut}
}

// RevealSpoilers prints spoiler blocks instead of masking them.
func (p *Presenter) RevealSpoilers(reveal bool) {
	p.spoiler = reveal
}

// Outputs renders every output in order.
func (p *Presenter) Outputs(outputs []sdk.Output) {
	for i, o := range outputs {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		p.output(p.out, o, color.New(color.FgCyan, color.Bold))
	}
}

// Failures renders the outputs of failed commands on errOut.
func (p *Presenter) Failures(outputs []sdk.Output) {
	for _, o := range outputs {
		p.output(p.errOut, o, color.New(color.FgRed, color.Bold))
	}
}

func (p *Presenter) output(w io.Writer, o sdk.Output, title *color.Color) {
	title.Fprintf(w, "%s\n", o.Title)
	for _, block := range o.Blocks {
		switch b := block.(type) {
		case sdk.Comment:
			color.New(color.Faint).Fprintf(w, "%s\n", b.Text)
		case sdk.Data:
			if b.Title != "" {
				color.New(color.Bold).Fprintf(w, "%s: ", b.Title)
			}
			fmt.Fprintln(w, renderData(b.Data, b.MediaType))
		case sdk.Spoiler:
			text := strings.Repeat("*", 8)
			if p.spoiler {
				text = renderData(b.Data, sdk.DefaultMediaType)
			}
			fmt.Fprintf(w, "%s: %s\n", b.Title, text)
		case sdk.CommandList:
			for _, c := range b.Commands {
				fmt.Fprintf(w, "  - %s\n", c)
			}
		case sdk.Preview:
			fmt.Fprintf(w, "[%s] %s\n", b.Kind, b.Value)
		}
	}
}

func renderData(data []byte, mediaType string) string {
	if utf8.Valid(data) && isText(mediaType) {
		return strings.TrimRight(string(data), "\n")
	}
	return fmt.Sprintf("<%s, %s>", mediaType, humanize.Bytes(uint64(len(data))))
}

func isText(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/json" || mediaType == ""
}

// Suggest prints a did-you-mean hint.
func (p *Presenter) Suggest(suggestion string) {
	color.New(color.FgYellow).Fprintf(p.errOut, "Did you mean %q?\n", suggestion)
}

// Warning prints a warning on errOut.
func (p *Presenter) Warning(message string) {
	color.New(color.FgYellow, color.Bold).Fprintf(p.errOut, "warning: %s\n", message)
}

// Error prints err on errOut.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}
	errColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errColor.Fprintf(p.errOut, "error: %s: %v\n", context, err)
		return
	}
	errColor.Fprintf(p.errOut, "error: %v\n", err)
}

// Success prints message on out.
func (p *Presenter) Success(message string) {
	color.New(color.FgGreen, color.Bold).Fprintf(p.out, "%s\n", message)
}
