// Package seqtag implements a first-order linear-chain sequence tagger trained
// with the averaged structured perceptron. Callers only deal with attributes,
// label strings and the opaque model blob.
package seqtag

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// DefaultEpochs is the number of passes over the training data.
const DefaultEpochs = 20

// ErrNoTrainingData is returned when Train is called without instances.
var ErrNoTrainingData = errors.New("no training data")

// Attribute is a named observation with a real value.
type Attribute struct {
	Name  string
	Value float64
}

// Item is the set of attributes observed at one position.
type Item []Attribute

type instance struct {
	items  []Item
	labels []string
	weight float64
}

// Trainer accumulates labeled sequences.
type Trainer struct {
	epochs    int
	seed      uint64
	instances []instance
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithEpochs overrides the number of training passes.
func WithEpochs(n int) TrainerOption {
	return func(t *Trainer) {
		if n > 0 {
			t.epochs = n
		}
	}
}

// WithSeed sets the seed of the per-epoch shuffle.
func WithSeed(seed uint64) TrainerOption {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// NewTrainer returns an empty trainer.
func NewTrainer(opts ...TrainerOption) *Trainer {
	t := &Trainer{epochs: DefaultEpochs, seed: 1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Append adds one labeled sequence. weight scales the transition updates made
// for it; attribute values scale the observation updates.
func (t *Trainer) Append(items []Item, labels []string, weight float64) error {
	if len(items) != len(labels) {
		return errors.Errorf("sequence has %d items but %d labels", len(items), len(labels))
	}
	if len(items) == 0 {
		return nil
	}
	if weight <= 0 {
		weight = 1.0
	}
	t.instances = append(t.instances, instance{items: items, labels: labels, weight: weight})
	return nil
}

// Len returns the number of sequences appended so far.
func (t *Trainer) Len() int {
	return len(t.instances)
}

// Train fits a model on the appended sequences and returns its encoded blob.
// The result depends only on the sequences, their order and the seed.
func (t *Trainer) Train() ([]byte, error) {
	if len(t.instances) == 0 {
		return nil, ErrNoTrainingData
	}

	labels := collectLabels(t.instances)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	w := newWeights(len(labels))
	acc := newWeights(len(labels))
	step := 1.0

	order := make([]int, len(t.instances))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(t.seed, uint64(len(t.instances))))

	gold := make([][]int, len(t.instances))
	for i, inst := range t.instances {
		gold[i] = make([]int, len(inst.labels))
		for j, l := range inst.labels {
			gold[i][j] = index[l]
		}
	}

	for epoch := 0; epoch < t.epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, n := range order {
			inst := t.instances[n]
			pred := w.viterbi(inst.items)
			if !equalPath(pred, gold[n]) {
				w.update(acc, step, inst, gold[n], pred)
			}
			step++
		}
	}

	m := &model{
		Labels:      labels,
		Start:       average(w.start, acc.start, step),
		Transitions: make([][]float64, len(labels)),
		Attributes:  make(map[string][]float64, len(w.attrs)),
	}
	for i := range w.trans {
		m.Transitions[i] = average(w.trans[i], acc.trans[i], step)
	}
	for name, v := range w.attrs {
		avg := average(v, acc.attrs[name], step)
		if !allZero(avg) {
			m.Attributes[name] = avg
		}
	}
	return m.encode()
}

// Tagger decodes label sequences with a trained model.
type Tagger struct {
	w      *weights
	labels []string
}

// NewTagger decodes a blob produced by Trainer.Train.
func NewTagger(blob []byte) (*Tagger, error) {
	var m model
	if err := cbor.Unmarshal(blob, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode tagger model")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	w := &weights{
		start: m.Start,
		trans: m.Transitions,
		attrs: m.Attributes,
		n:     len(m.Labels),
	}
	if w.attrs == nil {
		w.attrs = map[string][]float64{}
	}
	return &Tagger{w: w, labels: m.Labels}, nil
}

// Labels returns the label set of the model in sorted order.
func (t *Tagger) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Tag returns the most likely label of every item.
func (t *Tagger) Tag(items []Item) []string {
	path := t.w.viterbi(items)
	out := make([]string, len(path))
	for i, y := range path {
		out[i] = t.labels[y]
	}
	return out
}

type model struct {
	Labels      []string             `cbor:"1,keyasint"`
	Start       []float64            `cbor:"2,keyasint"`
	Transitions [][]float64          `cbor:"3,keyasint"`
	Attributes  map[string][]float64 `cbor:"4,keyasint"`
}

func (m *model) encode() ([]byte, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cbor encoder")
	}
	data, err := em.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode tagger model")
	}
	return data, nil
}

func (m *model) validate() error {
	n := len(m.Labels)
	if n == 0 {
		return errors.New("tagger model has no labels")
	}
	if len(m.Start) != n || len(m.Transitions) != n {
		return errors.New("tagger model has inconsistent dimensions")
	}
	for _, row := range m.Transitions {
		if len(row) != n {
			return errors.New("tagger model has inconsistent transitions")
		}
	}
	for name, v := range m.Attributes {
		if len(v) != n {
			return errors.Errorf("tagger model attribute %q has %d weights", name, len(v))
		}
	}
	return nil
}

type weights struct {
	n     int
	start []float64
	trans [][]float64
	attrs map[string][]float64
}

func newWeights(n int) *weights {
	w := &weights{
		n:     n,
		start: make([]float64, n),
		trans: make([][]float64, n),
		attrs: map[string][]float64{},
	}
	for i := range w.trans {
		w.trans[i] = make([]float64, n)
	}
	return w
}

func (w *weights) emissions(item Item) []float64 {
	scores := make([]float64, w.n)
	for _, a := range item {
		v, ok := w.attrs[a.Name]
		if !ok {
			continue
		}
		for y := range scores {
			scores[y] += a.Value * v[y]
		}
	}
	return scores
}

// viterbi returns the highest scoring label path. Ties go to the lower label index.
func (w *weights) viterbi(items []Item) []int {
	if len(items) == 0 {
		return []int{}
	}
	n := len(items)
	score := make([][]float64, n)
	back := make([][]int, n)

	emit := w.emissions(items[0])
	score[0] = make([]float64, w.n)
	for y := 0; y < w.n; y++ {
		score[0][y] = w.start[y] + emit[y]
	}

	for t := 1; t < n; t++ {
		emit = w.emissions(items[t])
		score[t] = make([]float64, w.n)
		back[t] = make([]int, w.n)
		for y := 0; y < w.n; y++ {
			best, arg := math.Inf(-1), 0
			for p := 0; p < w.n; p++ {
				if s := score[t-1][p] + w.trans[p][y]; s > best {
					best, arg = s, p
				}
			}
			score[t][y] = best + emit[y]
			back[t][y] = arg
		}
	}

	path := make([]int, n)
	best := math.Inf(-1)
	for y := 0; y < w.n; y++ {
		if score[n-1][y] > best {
			best = score[n-1][y]
			path[n-1] = y
		}
	}
	for t := n - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path
}

// update moves the weights toward the gold path. acc collects step-scaled
// updates so the averaged weights are w - acc/step.
func (w *weights) update(acc *weights, step float64, inst instance, gold, pred []int) {
	for t, item := range inst.items {
		if gold[t] != pred[t] {
			for _, a := range item {
				w.addAttr(acc, step, a.Name, gold[t], a.Value)
				w.addAttr(acc, step, a.Name, pred[t], -a.Value)
			}
		}
		if t == 0 {
			if gold[0] != pred[0] {
				w.start[gold[0]] += inst.weight
				acc.start[gold[0]] += step * inst.weight
				w.start[pred[0]] -= inst.weight
				acc.start[pred[0]] -= step * inst.weight
			}
			continue
		}
		if gold[t-1] != pred[t-1] || gold[t] != pred[t] {
			w.trans[gold[t-1]][gold[t]] += inst.weight
			acc.trans[gold[t-1]][gold[t]] += step * inst.weight
			w.trans[pred[t-1]][pred[t]] -= inst.weight
			acc.trans[pred[t-1]][pred[t]] -= step * inst.weight
		}
	}
}

func (w *weights) addAttr(acc *weights, step float64, name string, y int, delta float64) {
	v, ok := w.attrs[name]
	if !ok {
		v = make([]float64, w.n)
		w.attrs[name] = v
		acc.attrs[name] = make([]float64, w.n)
	}
	v[y] += delta
	acc.attrs[name][y] += step * delta
}

func collectLabels(instances []instance) []string {
	seen := map[string]struct{}{}
	for _, inst := range instances {
		for _, l := range inst.labels {
			seen[l] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func average(w, acc []float64, step float64) []float64 {
	out := make([]float64, len(w))
	for i := range w {
		out[i] = w[i] - acc[i]/step
	}
	return out
}

func allZero(v []float64) bool {
	for _, x := range v {
		if math.Abs(x) > 1e-12 {
			return false
		}
	}
	return true
}

func equalPath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
