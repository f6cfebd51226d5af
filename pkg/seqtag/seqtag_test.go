package seqtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(names ...string) Item {
	out := make(Item, 0, len(names))
	for _, n := range names {
		out = append(out, Attribute{Name: n, Value: 1.0})
	}
	return out
}

func trainToy(t *testing.T) []byte {
	t.Helper()
	tr := NewTrainer()
	words := []string{"apple", "pear", "plum", "fig"}
	for _, w := range words {
		require.NoError(t, tr.Append(
			[]Item{item("w:"+w, "next:to"), item("w:to"), item("w:hash", "prev:to")},
			[]string{"input", "", "command"},
			1.0,
		))
		require.NoError(t, tr.Append(
			[]Item{item("w:hash", "next:of"), item("w:of"), item("w:"+w, "prev:of")},
			[]string{"command", "", "input"},
			1.0,
		))
	}
	require.NoError(t, tr.Append([]Item{item("w:hash")}, []string{"command"}, 1.0))
	blob, err := tr.Train()
	require.NoError(t, err)
	return blob
}

func TestTrainAndTag(t *testing.T) {
	tagger, err := NewTagger(trainToy(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "command", "input"}, tagger.Labels())

	// "kiwi" was never seen; context decides.
	assert.Equal(t,
		[]string{"input", "", "command"},
		tagger.Tag([]Item{item("w:kiwi", "next:to"), item("w:to"), item("w:hash", "prev:to")}),
	)
	assert.Equal(t,
		[]string{"command", "", "input"},
		tagger.Tag([]Item{item("w:hash", "next:of"), item("w:of"), item("w:kiwi", "prev:of")}),
	)
	assert.Equal(t, []string{"command"}, tagger.Tag([]Item{item("w:hash")}))
	assert.Empty(t, tagger.Tag(nil))
}

func TestTrainDeterministic(t *testing.T) {
	assert.Equal(t, trainToy(t), trainToy(t))
}

func TestTrainerErrors(t *testing.T) {
	tr := NewTrainer(WithEpochs(3), WithSeed(7))
	_, err := tr.Train()
	assert.ErrorIs(t, err, ErrNoTrainingData)

	assert.Error(t, tr.Append([]Item{item("a")}, []string{"x", "y"}, 1.0))
	require.NoError(t, tr.Append(nil, nil, 1.0))
	assert.Equal(t, 0, tr.Len())
}

func TestNewTaggerRejectsGarbage(t *testing.T) {
	_, err := NewTagger([]byte("not a model"))
	assert.Error(t, err)

	_, err = NewTagger(nil)
	assert.Error(t, err)
}

func TestSingleLabelModel(t *testing.T) {
	tr := NewTrainer()
	require.NoError(t, tr.Append([]Item{item("a"), item("b")}, []string{"", ""}, 1.0))
	blob, err := tr.Train()
	require.NoError(t, err)

	tagger, err := NewTagger(blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", ""}, tagger.Tag([]Item{item("a"), item("z"), nil}))
}
