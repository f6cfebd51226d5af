package sdk

// ModelIDLength is the size of a skill's static model identifier.
const ModelIDLength = 21

// Corpus supplies labeled training sentences.
type Corpus interface {
	TrainingData() [][]Token
}

// WeightedCorpus is a Corpus whose examples carry a non-default weight.
type WeightedCorpus interface {
	Corpus
	Weight() float64
}

// CorpusWeight returns the declared weight of c, 1.0 by default.
func CorpusWeight(c Corpus) float64 {
	if w, ok := c.(WeightedCorpus); ok {
		return w.Weight()
	}
	return 1.0
}

// Labeler contributes features for every token of a sequence. The result must
// have one entry per input token.
type Labeler interface {
	LabelFeatures(tokens []Token) [][]Feature
}

// Preprocessor rewrites a token sequence before tagging.
type Preprocessor interface {
	Preprocess(tokens []Token) []Token
}

// Translator turns tagged tokens into command arguments. The returned args do
// not include the skill key.
type Translator interface {
	Translate(tokens []Token, streams []*InputStream) (CommandArgs, bool)
}

// Command executes resolved arguments. args.Args[0] is the skill key.
// Failures may be returned as *CommandError to control the rendered output.
type Command interface {
	Run(args CommandArgs, streams []*InputStream, i18n I18n) (Output, error)
}

// Prioritized is implemented by commands that rank above or below the default 0.
type Prioritized interface {
	Priority() int
}

// CommandPriority returns the priority of cmd, 0 unless it implements Prioritized.
func CommandPriority(cmd Command) int {
	if p, ok := cmd.(Prioritized); ok {
		return p.Priority()
	}
	return 0
}

// Suggests proposes complete requests close to what the user typed.
type Suggests interface {
	Suggest(tokens []Token) []string
}

// Skill is the assembled set of components a skill contributes.
type Skill struct {
	Corpora       []Corpus
	Labelers      []Labeler
	Preprocessors []Preprocessor
	Translators   []Translator
	Suggests      []Suggests
	Command       Command
}

// SkillBuilder assembles a Skill.
type SkillBuilder struct {
	skill Skill
}

// NewSkillBuilder returns an empty builder.
func NewSkillBuilder() *SkillBuilder {
	return &SkillBuilder{}
}

func (b *SkillBuilder) AddCorpus(c Corpus) *SkillBuilder {
	b.skill.Corpora = append(b.skill.Corpora, c)
	return b
}

func (b *SkillBuilder) AddLabeler(l Labeler) *SkillBuilder {
	b.skill.Labelers = append(b.skill.Labelers, l)
	return b
}

func (b *SkillBuilder) AddPreprocessor(p Preprocessor) *SkillBuilder {
	b.skill.Preprocessors = append(b.skill.Preprocessors, p)
	return b
}

func (b *SkillBuilder) AddTranslator(t Translator) *SkillBuilder {
	b.skill.Translators = append(b.skill.Translators, t)
	return b
}

func (b *SkillBuilder) AddSuggests(s Suggests) *SkillBuilder {
	b.skill.Suggests = append(b.skill.Suggests, s)
	return b
}

// SetCommand sets the skill's command, replacing any previous one.
func (b *SkillBuilder) SetCommand(c Command) *SkillBuilder {
	b.skill.Command = c
	return b
}

// Build returns the assembled skill.
func (b *SkillBuilder) Build() *Skill {
	s := b.skill
	return &s
}

// Environment is the process level context handed to skill constructors.
type Environment struct {
	BuildInfo string
}

// SkillEntry is the static descriptor of a skill.
type SkillEntry struct {
	ModelID      [ModelIDLength]byte
	ConfigSchema string
	Init         func(env Environment, config SkillConfig) (*Skill, error)
}

// ModelIDFromString converts a 21 character identifier into a ModelID.
// It panics on a wrong length since identifiers are compile time constants.
func ModelIDFromString(id string) [ModelIDLength]byte {
	if len(id) != ModelIDLength {
		panic("model id must be 21 bytes: " + id)
	}
	var out [ModelIDLength]byte
	copy(out[:], id)
	return out
}

// TrainingExamples returns every example of every corpus paired with its weight.
func (s *Skill) TrainingExamples() []WeightedExample {
	var out []WeightedExample
	for _, c := range s.Corpora {
		w := CorpusWeight(c)
		for _, ex := range c.TrainingData() {
			out = append(out, WeightedExample{Tokens: ex, Weight: w})
		}
	}
	return out
}

// Preprocess runs every preprocessor in registration order.
func (s *Skill) Preprocess(tokens []Token) []Token {
	for _, p := range s.Preprocessors {
		tokens = p.Preprocess(tokens)
	}
	return tokens
}

// WeightedExample is a training sentence with its corpus weight.
type WeightedExample struct {
	Tokens []Token
	Weight float64
}
