// Package modelgen trains one tagger per skill from the corpora of the whole
// registry and packages the results into a ModelSet.
package modelgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yozuk/yozuk-sub000/pkg/labeler"
	"github.com/yozuk/yozuk-sub000/pkg/logger"
	"github.com/yozuk/yozuk-sub000/pkg/model"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/seqtag"
	"github.com/yozuk/yozuk-sub000/pkg/skills"
	"github.com/yozuk/yozuk-sub000/pkg/telemetry"
)

// NegativeWeightScale scales the weight of examples borrowed from other skills.
const NegativeWeightScale = 0.01

// Greetings are the lead-ins every example is repeated with.
var Greetings = [][]string{
	{"Yozuk,"},
	{"Hi", "Yozuk,"},
}

// Cache stores trained blobs keyed by skill and training fingerprint.
type Cache interface {
	Get(ctx context.Context, key, fingerprint string) ([]byte, bool, error)
	Put(ctx context.Context, key, fingerprint string, blob []byte) error
}

type generator struct {
	env     sdk.Environment
	cache   Cache
	log     *logrus.Entry
	workers int
	epochs  int
}

// Option configures Generate.
type Option func(*generator) error

// WithEnvironment sets the environment handed to skill constructors.
func WithEnvironment(env sdk.Environment) Option {
	return func(g *generator) error {
		g.env = env
		return nil
	}
}

// WithCache reuses blobs whose training fingerprint did not change.
func WithCache(cache Cache) Option {
	return func(g *generator) error {
		g.cache = cache
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(g *generator) error {
		g.log = log
		return nil
	}
}

// WithWorkerLimit bounds the number of skills trained concurrently.
func WithWorkerLimit(n int) Option {
	return func(g *generator) error {
		if n < 1 {
			return errors.Errorf("worker limit must be positive, got %d", n)
		}
		g.workers = n
		return nil
	}
}

// WithEpochs sets the number of training passes.
func WithEpochs(n int) Option {
	return func(g *generator) error {
		if n < 1 {
			return errors.Errorf("epochs must be positive, got %d", n)
		}
		g.epochs = n
		return nil
	}
}

func newGenerator(opts []Option) (*generator, error) {
	g := &generator{
		log:     logger.L,
		workers: runtime.NumCPU(),
		epochs:  seqtag.DefaultEpochs,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Sequence is one labeled training sequence.
type Sequence struct {
	Items  []seqtag.Item `cbor:"1,keyasint"`
	Labels []string      `cbor:"2,keyasint"`
	Weight float64       `cbor:"3,keyasint"`
}

// Generate trains a model for every entry that has training data. Entries
// without data get an empty range in the returned set.
func Generate(ctx context.Context, entries []skills.NamedSkillEntry, opts ...Option) (*model.ModelSet, error) {
	g, err := newGenerator(opts)
	if err != nil {
		return nil, err
	}

	loaded := make([]*sdk.Skill, len(entries))
	var initErrs *multierror.Error
	for i, e := range entries {
		skill, err := initDefault(e, g.env)
		if err != nil {
			initErrs = multierror.Append(initErrs, err)
			continue
		}
		loaded[i] = skill
	}
	if err := initErrs.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize skills for training")
	}
	l := labeler.FromSkills(loaded)

	blobs := make([][]byte, len(entries))
	var (
		mu        sync.Mutex
		trainErrs *multierror.Error
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, e := range entries {
		eg.Go(func() error {
			blob, err := g.learn(egCtx, e, i, loaded, l)
			if err != nil {
				g.log.WithError(err).WithField("skill", e.Key).Error("failed to train skill")
				mu.Lock()
				trainErrs = multierror.Append(trainErrs, errors.Wrapf(err, "failed to train %s", e.Key))
				mu.Unlock()
				return nil
			}
			blobs[i] = blob
			return nil
		})
	}
	_ = eg.Wait()
	if err := trainErrs.ErrorOrNil(); err != nil {
		return nil, err
	}

	keyed := make(map[string][]byte, len(entries))
	for i, e := range entries {
		if blobs[i] != nil {
			keyed[e.Key] = blobs[i]
		}
	}
	return model.NewModelSet(skills.Keys(entries), keyed), nil
}

func initDefault(e skills.NamedSkillEntry, env sdk.Environment) (*sdk.Skill, error) {
	config, err := sdk.NewSkillConfig(e.Entry.ConfigSchema, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid default config for %s", e.Key)
	}
	skill, err := e.Entry.Init(env, config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to initialize %s", e.Key)
	}
	if skill == nil {
		return nil, errors.Errorf("%s returned no skill", e.Key)
	}
	return skill, nil
}

// Sequences builds the training sequences of the skill at index. The skill's
// own examples keep their tags; every other skill's examples are scaled by
// NegativeWeightScale and tagged "-" or "*". Each example goes through the
// preprocessors of the skill that owns it.
func Sequences(index int, loaded []*sdk.Skill, l *labeler.FeatureLabeler) []Sequence {
	self := loaded[index]
	var out []Sequence
	for _, ex := range self.TrainingExamples() {
		for _, tokens := range Wordiness(self.Preprocess(sdk.CloneTokens(ex.Tokens))) {
			out = append(out, sequence(l, tokens, ex.Weight, keepLabel))
		}
	}
	if len(out) == 0 {
		return nil
	}
	for i, other := range loaded {
		if i == index {
			continue
		}
		for _, ex := range other.TrainingExamples() {
			for _, tokens := range Wordiness(other.Preprocess(sdk.CloneTokens(ex.Tokens))) {
				out = append(out, sequence(l, tokens, ex.Weight*NegativeWeightScale, collapseLabel))
			}
		}
	}
	return out
}

func keepLabel(tag string) string {
	return tag
}

func collapseLabel(tag string) string {
	if tag == "-" {
		return "-"
	}
	return "*"
}

func sequence(l *labeler.FeatureLabeler, tokens []sdk.Token, weight float64, label func(string) string) Sequence {
	labels := make([]string, len(tokens))
	for i, t := range tokens {
		labels[i] = label(t.Tag)
	}
	return Sequence{
		Items:  model.FeatureItems(l.LabelFeatures(tokens), weight),
		Labels: labels,
		Weight: weight,
	}
}

// Wordiness returns tokens prefixed with every greeting, followed by tokens itself.
func Wordiness(tokens []sdk.Token) [][]sdk.Token {
	out := make([][]sdk.Token, 0, len(Greetings)+1)
	for _, greeting := range Greetings {
		variant := sdk.Tokens(greeting...)
		variant = append(variant, sdk.CloneTokens(tokens)...)
		out = append(out, variant)
	}
	return append(out, tokens)
}

func (g *generator) learn(ctx context.Context, e skills.NamedSkillEntry, index int, loaded []*sdk.Skill, l *labeler.FeatureLabeler) ([]byte, error) {
	var blob []byte
	err := telemetry.WithSpan(ctx, "modelgen.train", func(ctx context.Context) error {
		log := g.log.WithField("skill", e.Key)
		seqs := Sequences(index, loaded, l)
		if len(seqs) == 0 {
			log.Debug("no training data")
			return nil
		}

		fingerprint, err := Fingerprint(e.Entry.ModelID, g.epochs, seqs)
		if err != nil {
			return err
		}
		if g.cache != nil {
			cached, ok, err := g.cache.Get(ctx, e.Key, fingerprint)
			if err != nil {
				log.WithError(err).Warn("failed to read model cache")
			} else if ok {
				log.Debug("reusing cached model")
				blob = cached
				return nil
			}
		}

		trainer := seqtag.NewTrainer(seqtag.WithEpochs(g.epochs))
		for _, s := range seqs {
			if err := trainer.Append(s.Items, s.Labels, s.Weight); err != nil {
				return err
			}
		}
		log.WithField("sequences", trainer.Len()).Info("training skill model")
		blob, err = trainer.Train()
		if err != nil {
			return err
		}

		if g.cache != nil {
			if err := g.cache.Put(ctx, e.Key, fingerprint, blob); err != nil {
				log.WithError(err).Warn("failed to write model cache")
			}
		}
		return nil
	}, attribute.String("yozuk.skill", e.Key))
	return blob, err
}

// Fingerprint identifies a training run: the model id, the epochs and every
// sequence in order.
func Fingerprint(modelID [sdk.ModelIDLength]byte, epochs int, seqs []Sequence) (string, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return "", errors.Wrap(err, "failed to create cbor encoder")
	}
	h := sha256.New()
	h.Write(modelID[:])
	enc := mode.NewEncoder(h)
	if err := enc.Encode(epochs); err != nil {
		return "", errors.Wrap(err, "failed to encode epochs")
	}
	for _, s := range seqs {
		if err := enc.Encode(s); err != nil {
			return "", errors.Wrap(err, "failed to encode sequence")
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteFile writes the model set of entries to path. An existing file that
// already carries the registry digest and parses is kept; the result reports
// whether the file was regenerated.
func WriteFile(ctx context.Context, path string, entries []skills.NamedSkillEntry, opts ...Option) (bool, error) {
	digest := skills.Digest(entries)
	if data, err := os.ReadFile(path); err == nil {
		if _, err := model.Load(data, digest); err == nil {
			return false, nil
		}
	}

	ms, err := Generate(ctx, entries, opts...)
	if err != nil {
		return false, err
	}
	data, err := ms.Bytes(digest)
	if err != nil {
		return false, errors.Wrap(err, "failed to encode model set")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrap(err, "failed to create output directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, errors.Wrap(err, "failed to write model set")
	}
	if err := tmp.Close(); err != nil {
		return false, errors.Wrap(err, "failed to close model set")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, errors.Wrap(err, "failed to move model set into place")
	}
	return true, nil
}
