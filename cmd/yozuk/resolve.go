package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/tokenizer"
)

// ResolveConfig holds the flags of the resolve command.
type ResolveConfig struct {
	Format   string
	Tokenize bool
}

// NewResolveConfig returns the defaults.
func NewResolveConfig() *ResolveConfig {
	return &ResolveConfig{Format: "json"}
}

// Validate rejects unknown formats.
func (c *ResolveConfig) Validate() error {
	if c.Format != "json" && c.Format != "yaml" {
		return errors.Errorf("unsupported format %q, use json or yaml", c.Format)
	}
	return nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <query...>",
	Short: "Print the candidate commands of a request",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := getResolveConfigFromFlags(cmd)
		if err := rc.Validate(); err != nil {
			return err
		}
		engine, err := loadEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		streams, err := openStreams(cmd, nil, cfg.StreamLimit)
		if err != nil {
			return err
		}

		commands := engine.GetCommands(cmd.Context(), queryTokens(args, rc.Tokenize), streams)
		if commands == nil {
			commands = []sdk.CommandArgs{}
		}
		return printCommands(cmd.OutOrStdout(), commands, rc.Format)
	},
}

func init() {
	defaults := NewResolveConfig()
	resolveCmd.Flags().StringP("format", "f", defaults.Format, "Output format (json, yaml)")
	resolveCmd.Flags().BoolP("tokenize", "t", defaults.Tokenize, "Split the query with shell-style quoting instead of one token per argument")
}

func getResolveConfigFromFlags(cmd *cobra.Command) *ResolveConfig {
	rc := NewResolveConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		rc.Format = format
	}
	if tokenize, err := cmd.Flags().GetBool("tokenize"); err == nil {
		rc.Tokenize = tokenize
	}
	return rc
}

// queryTokens makes one token per argument, or tokenizes the joined
// arguments when tokenize is set.
func queryTokens(args []string, tokenize bool) []sdk.Token {
	if tokenize {
		return tokenizer.Tokenize(strings.Join(args, " "))
	}
	return sdk.Tokens(args...)
}

type commandView struct {
	Args []string `json:"args" yaml:"args"`
	Data []string `json:"data,omitempty" yaml:"data,omitempty"`
}

func printCommands(w io.Writer, commands []sdk.CommandArgs, format string) error {
	if format == "yaml" {
		views := make([]commandView, len(commands))
		for i, c := range commands {
			views[i] = commandView{Args: c.Args}
			for _, d := range c.Data {
				views[i].Data = append(views[i].Data, d.String())
			}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return errors.Wrap(err, "failed to encode commands")
		}
		return enc.Close()
	}

	data, err := json.MarshalIndent(commands, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode commands")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
