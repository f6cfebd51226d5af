// Package yozuk resolves free text requests into skill commands and runs them.
package yozuk

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yozuk/yozuk-sub000/pkg/english"
	"github.com/yozuk/yozuk-sub000/pkg/labeler"
	"github.com/yozuk/yozuk-sub000/pkg/model"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/telemetry"
)

// RedirectKey is args[0] of commands produced by a redirection.
const RedirectKey = "yozuk-redirect"

// MaxSuggestDistance is the largest edit distance accepted by Suggest.
const MaxSuggestDistance = 3

// Redirection maps an exact request to fixed command arguments.
type Redirection struct {
	Tokens []string `json:"tokens" mapstructure:"tokens"`
	Args   []string `json:"args" mapstructure:"args"`
}

func (r Redirection) matches(tokens []sdk.Token) bool {
	if len(tokens) != len(r.Tokens) {
		return false
	}
	for i, t := range tokens {
		if !english.NormalizedEq(t.AsUTF8(), []string{r.Tokens[i]}, 0) {
			return false
		}
	}
	return true
}

// CommandsError is returned by RunCommands when any command of the batch failed.
// It carries one Output per failed command.
type CommandsError struct {
	Outputs []sdk.Output
}

func (e *CommandsError) Error() string {
	titles := make([]string, 0, len(e.Outputs))
	for _, o := range e.Outputs {
		titles = append(titles, o.Title)
	}
	return fmt.Sprintf("failed to run commands: %s", strings.Join(titles, ", "))
}

type commandCache struct {
	key   string
	skill *sdk.Skill
	model *model.ModelEntry
}

func (c *commandCache) resolve(l *labeler.FeatureLabeler, tokens []sdk.Token, streams []*sdk.InputStream) (sdk.CommandArgs, bool) {
	tokens = c.skill.Preprocess(sdk.CloneTokens(tokens))
	if c.model != nil {
		tokens = c.model.TagTokens(l, tokens)
	}
	for _, tr := range c.skill.Translators {
		if args, ok := tr.Translate(tokens, streams); ok {
			return sdk.CommandArgs{
				Args: append([]string{c.key}, args.Args...),
				Data: args.Data,
			}, true
		}
	}
	return sdk.CommandArgs{}, false
}

// Engine is an initialized skill set bound to its trained models. It is
// immutable and safe for concurrent use.
type Engine struct {
	modelSet     *model.ModelSet
	skills       []*sdk.Skill
	labeler      *labeler.FeatureLabeler
	commands     []*commandCache
	byIndex      []*commandCache
	redirections []Redirection
	i18n         sdk.I18n
	log          *logrus.Entry
	workers      int
	initErr      error
}

// InitErrors returns the failures of skills dropped at startup, or nil.
func (e *Engine) InitErrors() error {
	return e.initErr
}

// Keys returns the keys of the skills that can run commands, in registration order.
func (e *Engine) Keys() []string {
	keys := make([]string, len(e.commands))
	for i, c := range e.commands {
		keys[i] = c.key
	}
	return keys
}

type candidate struct {
	priority int
	args     sdk.CommandArgs
}

// GetCommands returns the candidate commands for tokens, highest priority
// first. Candidates of equal priority keep registration order. An empty
// result means the request was not understood.
func (e *Engine) GetCommands(ctx context.Context, tokens []sdk.Token, streams []*sdk.InputStream) []sdk.CommandArgs {
	var result []sdk.CommandArgs
	telemetry.WithSpanFunc(ctx, "yozuk.get_commands", func(ctx context.Context) {
		result = e.getCommands(ctx, tokens, streams)
		telemetry.SetAttributes(ctx, attribute.Int("yozuk.candidates", len(result)))
	}, attribute.Int("yozuk.tokens", len(tokens)), attribute.Int("yozuk.streams", len(streams)))
	return result
}

func (e *Engine) getCommands(ctx context.Context, tokens []sdk.Token, streams []*sdk.InputStream) []sdk.CommandArgs {
	log := e.log.WithContext(ctx)
	log.WithField("tokens", tokens).Debug("resolving request")

	for _, r := range e.redirections {
		if r.matches(tokens) {
			log.WithField("args", r.Args).Debug("request redirected")
			return []sdk.CommandArgs{sdk.NewCommandArgs(append([]string{RedirectKey}, r.Args...)...)}
		}
	}

	results := make([]*candidate, len(e.commands))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, c := range e.commands {
		g.Go(func() error {
			if args, ok := c.resolve(e.labeler, tokens, streams); ok {
				results[i] = &candidate{priority: sdk.CommandPriority(c.skill.Command), args: args}
			}
			return nil
		})
	}
	_ = g.Wait()

	var candidates []candidate
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, *r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority > candidates[j].priority
	})

	commands := make([]sdk.CommandArgs, len(candidates))
	for i, c := range candidates {
		commands[i] = c.args
	}
	log.WithField("commands", commands).Debug("resolved candidates")
	return commands
}

// RunCommands runs commands in order. Only the first primary output is kept;
// attachments follow it in order. If any command fails, the error is a
// *CommandsError holding only the failures and no output is returned. A nil
// i18n falls back to the builder default.
func (e *Engine) RunCommands(ctx context.Context, commands []sdk.CommandArgs, streams []*sdk.InputStream, i18n *sdk.I18n) ([]sdk.Output, error) {
	var outputs []sdk.Output
	err := telemetry.WithSpan(ctx, "yozuk.run_commands", func(ctx context.Context) error {
		var err error
		outputs, err = e.runCommands(ctx, commands, streams, i18n)
		return err
	}, attribute.Int("yozuk.commands", len(commands)))
	return outputs, err
}

func (e *Engine) runCommands(ctx context.Context, commands []sdk.CommandArgs, streams []*sdk.InputStream, i18n *sdk.I18n) ([]sdk.Output, error) {
	log := e.log.WithContext(ctx)
	locale := e.i18n
	if i18n != nil {
		locale = *i18n
	}

	var primary *sdk.Output
	var secondary, failures []sdk.Output
	for _, args := range commands {
		cache := e.lookup(args.Name())
		if cache == nil {
			log.WithField("command", args.Name()).Debug("skipping unknown command")
			continue
		}

		output, err := cache.skill.Command.Run(args, streams, locale)
		if err != nil {
			log.WithError(err).WithField("skill", cache.key).Debug("command failed")
			failures = append(failures, sdk.ErrorOutput(err, cache.key))
			continue
		}
		switch {
		case !output.IsPrimary():
			secondary = append(secondary, output)
		case primary == nil:
			primary = &output
		}
	}

	if len(failures) > 0 {
		return nil, &CommandsError{Outputs: failures}
	}
	var outputs []sdk.Output
	if primary != nil {
		outputs = append(outputs, *primary)
	}
	return append(outputs, secondary...), nil
}

func (e *Engine) lookup(key string) *commandCache {
	index, ok := e.modelSet.GetIndex(key)
	if !ok || index >= len(e.byIndex) {
		return nil
	}
	return e.byIndex[index]
}

// Suggest returns the skill suggestion closest to tokens, if one is within
// MaxSuggestDistance edits.
func (e *Engine) Suggest(tokens []sdk.Token) (string, bool) {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.AsUTF8()
	}
	input := strings.ToLower(strings.Join(words, " "))

	best, bestDistance := "", MaxSuggestDistance+1
	for _, skill := range e.skills {
		for _, s := range skill.Suggests {
			for _, suggestion := range s.Suggest(tokens) {
				d := levenshtein.ComputeDistance(input, strings.ToLower(suggestion))
				if d < bestDistance {
					best, bestDistance = suggestion, d
				}
			}
		}
	}
	return best, bestDistance <= MaxSuggestDistance
}
