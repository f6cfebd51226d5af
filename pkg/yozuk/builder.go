package yozuk

import (
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yozuk/yozuk-sub000/pkg/labeler"
	"github.com/yozuk/yozuk-sub000/pkg/logger"
	"github.com/yozuk/yozuk-sub000/pkg/model"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/skills"
)

// Builder assembles an Engine.
type Builder struct {
	entries      []skills.NamedSkillEntry
	allowed      []string
	configs      map[string]map[string]any
	redirections []Redirection
	i18n         sdk.I18n
	env          sdk.Environment
	log          *logrus.Entry
	workers      int
}

// Option configures a Builder.
type Option func(*Builder) error

// WithSkills replaces the compiled registry. The registry digest is computed
// over these entries.
func WithSkills(entries []skills.NamedSkillEntry) Option {
	return func(b *Builder) error {
		b.entries = entries
		return nil
	}
}

// WithAllowlist initializes only the named skills. The registry digest still
// covers every entry.
func WithAllowlist(names ...string) Option {
	return func(b *Builder) error {
		b.allowed = names
		return nil
	}
}

// WithSkillConfig sets the raw config of the skill registered under key.
func WithSkillConfig(key string, values map[string]any) Option {
	return func(b *Builder) error {
		if b.configs == nil {
			b.configs = map[string]map[string]any{}
		}
		b.configs[key] = values
		return nil
	}
}

// WithRedirection maps an exact request to fixed command arguments.
func WithRedirection(tokens []string, args []string) Option {
	return func(b *Builder) error {
		if len(tokens) == 0 {
			return errors.New("redirection needs at least one token")
		}
		b.redirections = append(b.redirections, Redirection{Tokens: tokens, Args: args})
		return nil
	}
}

// WithI18n sets the locale used when RunCommands gets none.
func WithI18n(i18n sdk.I18n) Option {
	return func(b *Builder) error {
		b.i18n = i18n
		return nil
	}
}

// WithEnvironment sets the environment handed to skill constructors.
func WithEnvironment(env sdk.Environment) Option {
	return func(b *Builder) error {
		b.env = env
		return nil
	}
}

// WithLogger sets the logger of the engine.
func WithLogger(log *logrus.Entry) Option {
	return func(b *Builder) error {
		b.log = log
		return nil
	}
}

// WithWorkerLimit bounds the number of skills resolved concurrently.
func WithWorkerLimit(n int) Option {
	return func(b *Builder) error {
		if n < 1 {
			return errors.Errorf("worker limit must be positive, got %d", n)
		}
		b.workers = n
		return nil
	}
}

// NewBuilder returns a Builder over the compiled registry.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		entries: skills.Skills,
		log:     logger.L,
		workers: max(runtime.NumCPU(), 2),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Digest returns the registry digest a model set must carry.
func (b *Builder) Digest() [model.DigestLength]byte {
	return skills.Digest(b.entries)
}

// Load verifies data against the registry digest and builds the engine.
func (b *Builder) Load(data []byte) (*Engine, error) {
	ms, err := model.Load(data, b.Digest())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load model set")
	}
	return b.Build(ms)
}

// Build initializes every skill and binds commands to their trained models.
// A skill that fails to initialize is dropped and reported by
// Engine.InitErrors. A model blob that cannot be decoded is fatal.
func (b *Builder) Build(ms *model.ModelSet) (*Engine, error) {
	if ms == nil {
		return nil, errors.New("model set is required")
	}
	log := b.log.WithField("component", "yozuk")

	enabled := map[string]bool{}
	for _, e := range skills.FilterByAllowlist(b.entries, b.allowed) {
		enabled[e.Key] = true
	}

	e := &Engine{
		modelSet:     ms,
		byIndex:      make([]*commandCache, ms.Len()),
		redirections: b.redirections,
		i18n:         b.i18n,
		log:          log,
		workers:      b.workers,
	}

	var initErrs *multierror.Error
	var loaded []*sdk.Skill
	for _, entry := range b.entries {
		if !enabled[entry.Key] {
			log.WithField("skill", entry.Key).Debug("skill disabled")
			continue
		}
		skill, err := initSkill(entry, b.env, b.configs[entry.Key])
		if err != nil {
			log.WithError(err).WithField("skill", entry.Key).Error("failed to initialize skill")
			initErrs = multierror.Append(initErrs, err)
			continue
		}
		loaded = append(loaded, skill)
		e.skills = append(e.skills, skill)

		if skill.Command == nil {
			continue
		}
		index, ok := ms.GetIndex(entry.Key)
		if !ok {
			log.WithField("skill", entry.Key).Debug("skill has no model entry")
			continue
		}
		cache := &commandCache{key: entry.Key, skill: skill}
		if blob, ok := ms.Get(entry.Key); ok {
			cache.model, err = model.NewModelEntry(blob)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to load model of %s", entry.Key)
			}
		}
		e.commands = append(e.commands, cache)
		e.byIndex[index] = cache
	}

	e.labeler = labeler.FromSkills(loaded)
	e.initErr = initErrs.ErrorOrNil()
	return e, nil
}

func initSkill(entry skills.NamedSkillEntry, env sdk.Environment, values map[string]any) (*sdk.Skill, error) {
	config, err := sdk.NewSkillConfig(entry.Entry.ConfigSchema, values)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config for %s", entry.Key)
	}
	skill, err := entry.Entry.Init(env, config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to initialize %s", entry.Key)
	}
	if skill == nil {
		return nil, errors.Errorf("%s returned no skill", entry.Key)
	}
	return skill, nil
}
