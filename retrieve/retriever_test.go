package retrieve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridword/themegen/embedding"
)

type stubFreq struct {
	up     bool
	scores map[string]uint64
}

func (s stubFreq) Available() bool { return s.up }

func (s stubFreq) Has(word string) bool {
	_, ok := s.scores[strings.ToLower(word)]
	return ok
}

func (s stubFreq) Score(word string) (uint64, bool) {
	c, ok := s.scores[strings.ToLower(word)]
	return c, ok
}

type stubLemma struct {
	up    bool
	forms map[string]string
}

func (s stubLemma) Available() bool { return s.up }

func (s stubLemma) CanonicalForm(word string) string {
	lower := strings.ToLower(word)
	if f, ok := s.forms[lower]; ok {
		return f
	}
	return lower
}

// animalLemma maps the inflections used in these tests to their base forms.
var animalLemma = stubLemma{up: true, forms: map[string]string{
	"cats":    "cat",
	"dogs":    "dog",
	"kittens": "kitten",
}}

// testIndex builds a 3-dimensional index where cat's neighborhood is, in
// order: cats (0.95), kitten (0.8), dog (0.3), puppy (0.1).
func testIndex(t *testing.T) *embedding.Index {
	t.Helper()

	vocab := []string{"cat", "cats", "kitten", "dog", "puppy"}
	vectors := []float32{
		1, 0, 0, // cat
		0.95, 0, 0.312, // cats
		0.8, 0, 0.6, // kitten
		0.3, 0.954, 0, // dog
		0.1, 0, 0.995, // puppy
	}
	idx, err := embedding.New(vocab, vectors, 3)
	require.NoError(t, err)
	return idx
}

func TestRetrieve(t *testing.T) {
	idx := testIndex(t)

	t.Run("InvalidK", func(t *testing.T) {
		r := New(idx, nil, nil)
		_, err := r.Retrieve("cat", 0, nil, 0)
		assert.ErrorIs(t, err, embedding.ErrInvalidK)
	})

	t.Run("NotInitialized", func(t *testing.T) {
		r := New(&embedding.Index{}, nil, nil)
		_, err := r.Retrieve("cat", 1, nil, 0)
		assert.ErrorIs(t, err, embedding.ErrNotInitialized)
	})

	t.Run("ThemeCollidesWithExisting", func(t *testing.T) {
		// "dogs" and "dog" share a canonical form, so retrieval is refused
		// before the index is ever consulted.
		r := New(idx, nil, animalLemma)
		got, err := r.Retrieve("dogs", 1, []string{"dog"}, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("InflectionOfThemeFiltered", func(t *testing.T) {
		// "cats" is cat's nearest neighbor but canonicalizes to the theme.
		r := New(idx, nil, animalLemma)
		got, err := r.Retrieve("cat", 1, nil, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "kitten", got[0].Word)
		assert.InDelta(t, 0.8, got[0].Similarity, 0.01)
	})

	t.Run("DegradedThemeGateUsesContainment", func(t *testing.T) {
		// Without a resolver, "cats" still falls to the containment check.
		r := New(idx, nil, nil)
		got, err := r.Retrieve("cat", 1, nil, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "kitten", got[0].Word)
	})

	t.Run("FrequencyGateRejectsRareWords", func(t *testing.T) {
		oracle := stubFreq{up: true, scores: map[string]uint64{"kitten": 10}}
		r := New(idx, oracle, animalLemma)
		got, err := r.Retrieve("cat", 1, nil, 100)
		require.NoError(t, err)
		require.Len(t, got, 1)
		// kitten is known and below threshold; dog is unknown and admitted.
		assert.Equal(t, "dog", got[0].Word)
	})

	t.Run("UnknownWordPassesFrequencyGate", func(t *testing.T) {
		oracle := stubFreq{up: true, scores: map[string]uint64{"dog": 1}}
		r := New(idx, oracle, animalLemma)
		got, err := r.Retrieve("cat", 1, nil, 100)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "kitten", got[0].Word)
	})

	t.Run("ExistingCanonicalCollision", func(t *testing.T) {
		r := New(idx, nil, animalLemma)
		got, err := r.Retrieve("cat", 1, []string{"kittens"}, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "dog", got[0].Word)
	})

	t.Run("DegradedExistingGateUsesContainment", func(t *testing.T) {
		r := New(idx, nil, nil)
		got, err := r.Retrieve("cat", 1, []string{"kittenish"}, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "dog", got[0].Word)
	})

	t.Run("DescendingOrder", func(t *testing.T) {
		r := New(idx, nil, animalLemma)
		got, err := r.Retrieve("cat", 3, nil, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "kitten", got[0].Word)
		assert.Equal(t, "dog", got[1].Word)
		assert.Equal(t, "puppy", got[2].Word)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Similarity, got[i].Similarity)
		}
	})

	t.Run("NeverReturnsThemeWord", func(t *testing.T) {
		r := New(idx, nil, nil)
		got, err := r.Retrieve("dog", 10, nil, 0)
		require.NoError(t, err)
		for _, c := range got {
			assert.NotEqual(t, "dog", c.Word)
		}
	})

	t.Run("UnknownThemeIsEmpty", func(t *testing.T) {
		r := New(idx, nil, nil)
		got, err := r.Retrieve("zebra", 2, nil, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestHasMatchingCanonicalForm(t *testing.T) {
	t.Run("ExactMatchAlwaysCollides", func(t *testing.T) {
		assert.True(t, HasMatchingCanonicalForm(nil, "Dog", []string{"dog"}))
	})

	t.Run("CanonicalEquality", func(t *testing.T) {
		assert.True(t, HasMatchingCanonicalForm(animalLemma, "dogs", []string{"dog"}))
		assert.True(t, HasMatchingCanonicalForm(animalLemma, "dog", []string{"dogs"}))
	})

	t.Run("NoResolverNoInflectionMatch", func(t *testing.T) {
		assert.False(t, HasMatchingCanonicalForm(nil, "dogs", []string{"dog"}))
	})

	t.Run("DisjointWords", func(t *testing.T) {
		assert.False(t, HasMatchingCanonicalForm(animalLemma, "cat", []string{"dog", "puppy"}))
	})
}
