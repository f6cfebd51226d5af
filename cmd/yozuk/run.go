package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/yozuk"
)

// RunConfig holds the flags of the run command.
type RunConfig struct {
	DryRun   bool
	Direct   bool
	Tokenize bool
	Reveal   bool
	Inputs   []string
}

// NewRunConfig returns the defaults.
func NewRunConfig() *RunConfig {
	return &RunConfig{}
}

var errNotUnderstood = errors.New("sorry, I can't understand your request")

var runCmd = &cobra.Command{
	Use:   "run <query...>",
	Short: "Resolve a request and run its commands",
	Long: `Resolve a request and run every candidate command. Piped stdin and files
given with --input are passed to the commands as input streams.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := getRunConfigFromFlags(cmd)
		ctx := cmd.Context()

		engine, err := loadEngine(ctx, cfg)
		if err != nil {
			return err
		}
		streams, err := openStreams(cmd, rc.Inputs, cfg.StreamLimit)
		if err != nil {
			return err
		}
		if len(args) == 0 && len(streams) == 0 {
			return errors.New("nothing to do: give a query or an input")
		}

		var commands []sdk.CommandArgs
		if rc.Direct {
			commands = []sdk.CommandArgs{sdk.NewCommandArgs(args...)}
		} else {
			tokens := queryTokens(args, rc.Tokenize)
			commands = engine.GetCommands(ctx, tokens, streams)
			if len(commands) == 0 {
				if suggestion, ok := engine.Suggest(tokens); ok {
					out.Suggest(suggestion)
				}
				return errNotUnderstood
			}
		}
		redirected := len(commands) == 1 && commands[0].Name() == yozuk.RedirectKey
		if rc.DryRun || redirected {
			return printCommands(cmd.OutOrStdout(), commands, "json")
		}

		outputs, err := engine.RunCommands(ctx, commands, streams, nil)
		var failed *yozuk.CommandsError
		if errors.As(err, &failed) {
			out.Failures(failed.Outputs)
			return errors.New("command failed")
		}
		if err != nil {
			return err
		}
		out.RevealSpoilers(rc.Reveal)
		out.Outputs(outputs)
		return nil
	},
}

func init() {
	defaults := NewRunConfig()
	runCmd.Flags().BoolP("dry-run", "n", defaults.DryRun, "Print the resolved commands without running them")
	runCmd.Flags().Bool("direct", defaults.Direct, "Treat the arguments as command arguments, skill key first")
	runCmd.Flags().BoolP("tokenize", "t", defaults.Tokenize, "Split the query with shell-style quoting instead of one token per argument")
	runCmd.Flags().Bool("reveal", defaults.Reveal, "Print spoiler blocks in clear")
	runCmd.Flags().StringArrayP("input", "i", defaults.Inputs, "Input file passed as a stream (repeatable)")
}

func getRunConfigFromFlags(cmd *cobra.Command) *RunConfig {
	rc := NewRunConfig()
	if v, err := cmd.Flags().GetBool("dry-run"); err == nil {
		rc.DryRun = v
	}
	if v, err := cmd.Flags().GetBool("direct"); err == nil {
		rc.Direct = v
	}
	if v, err := cmd.Flags().GetBool("tokenize"); err == nil {
		rc.Tokenize = v
	}
	if v, err := cmd.Flags().GetBool("reveal"); err == nil {
		rc.Reveal = v
	}
	if v, err := cmd.Flags().GetStringArray("input"); err == nil {
		rc.Inputs = v
	}
	return rc
}
