package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testIndex builds a 3-dimensional index over a small animal vocabulary with
// controlled pairwise similarities: cat~kitten is high, cat~dog is low.
func testIndex(t *testing.T) *Index {
	t.Helper()

	vocab := []string{"cat", "dog", "kitten", "puppy"}
	vectors := []float32{
		1, 0, 0, // cat
		0.3, 0.954, 0, // dog
		0.8, 0, 0.6, // kitten
		0.1, 0.99, 0.1, // puppy
	}
	idx, err := New(vocab, vectors, 3)
	require.NoError(t, err)
	return idx
}

func TestNew(t *testing.T) {
	t.Run("CountMismatch", func(t *testing.T) {
		_, err := New([]string{"a", "b"}, make([]float32, 9), 3)
		var ie *ErrIntegrity
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, 2, ie.VocabularyWords)
		assert.Equal(t, 3, ie.DeclaredVectors)
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := New([]string{"a"}, nil, 0)
		var de *ErrInvalidDimension
		assert.ErrorAs(t, err, &de)
	})

	t.Run("ZeroVectorLeftUnnormalized", func(t *testing.T) {
		idx, err := New([]string{"a", "b"}, []float32{0, 0, 0, 1, 0, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, idx.Stats().ZeroRows)

		v, ok := idx.Vector("a")
		require.True(t, ok)
		assert.Equal(t, []float32{0, 0, 0}, v)
	})
}

func TestSearch(t *testing.T) {
	idx := testIndex(t)

	t.Run("NotInitialized", func(t *testing.T) {
		var empty Index
		_, err := empty.Search("cat", 1)
		assert.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("InvalidK", func(t *testing.T) {
		_, err := idx.Search("cat", 0)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("UnknownWordIsEmpty", func(t *testing.T) {
		got, err := idx.Search("zebra", 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("NearestFirst", func(t *testing.T) {
		got, err := idx.Search("cat", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "kitten", got[0].Word)
		assert.InDelta(t, 0.8, got[0].Similarity, 0.01)
	})

	t.Run("ExcludesQueryWord", func(t *testing.T) {
		got, err := idx.Search("CAT", 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, c := range got {
			assert.NotEqual(t, "cat", c.Word)
		}
	})

	t.Run("KExceedsVocabulary", func(t *testing.T) {
		got, err := idx.Search("dog", 100)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("SimilarityClamped", func(t *testing.T) {
		// Opposite vectors have raw inner product -1; results clamp to 0.
		neg, err := New([]string{"up", "down"}, []float32{1, 0, -1, 0}, 2)
		require.NoError(t, err)
		got, serr := neg.Search("up", 1)
		require.NoError(t, serr)
		require.Len(t, got, 1)
		assert.Equal(t, float32(0), got[0].Similarity)
	})

	t.Run("DescendingOrder", func(t *testing.T) {
		got, err := idx.Search("cat", 3)
		require.NoError(t, err)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Similarity, got[i].Similarity)
		}
	})
}

func TestSimilarity(t *testing.T) {
	idx := testIndex(t)
	assert.InDelta(t, 0.8, idx.Similarity("cat", "kitten"), 0.01)
	assert.InDelta(t, 0.3, idx.Similarity("cat", "dog"), 0.01)
	assert.Equal(t, float32(0), idx.Similarity("cat", "zebra"))
}

func TestContains(t *testing.T) {
	idx := testIndex(t)
	assert.True(t, idx.Contains("Kitten"))
	assert.False(t, idx.Contains("zebra"))

	var empty Index
	assert.False(t, empty.Contains("cat"))
}
