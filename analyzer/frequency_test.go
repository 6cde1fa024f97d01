package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountFrequenciesMergesCase(t *testing.T) {
	got := CountFrequencies([]string{"Fox", "fox", "FOX", "dog"})
	assert.Equal(t, []WordCount{{"fox", 3}, {"dog", 1}}, got)
}

func TestCountFrequenciesStableTies(t *testing.T) {
	words := []string{"zeta", "alpha", "beta", "alpha", "zeta", "gamma", "2024"}
	got := CountFrequencies(words)
	assert.Equal(t, []WordCount{
		{"zeta", 2}, {"alpha", 2}, {"beta", 1}, {"gamma", 1}, {"2024", 1},
	}, got)
}

func TestCountFrequenciesDoesNotMutateInput(t *testing.T) {
	words := []string{"B", "a", "B"}
	CountFrequencies(words)
	assert.Equal(t, []string{"B", "a", "B"}, words)
}

func TestTopK(t *testing.T) {
	words := []string{"a", "b", "c", "d", "a", "b", "a"}

	t.Run("truncates", func(t *testing.T) {
		got := TopK(words, 2)
		assert.Equal(t, []WordCount{{"a", 3}, {"b", 2}}, got)
	})

	t.Run("k larger than table", func(t *testing.T) {
		got := TopK(words, 10)
		require.Len(t, got, 4)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
		}
	})

	t.Run("non-positive k", func(t *testing.T) {
		assert.Empty(t, TopK(words, 0))
		assert.Empty(t, TopK(words, -3))
	})

	t.Run("no words", func(t *testing.T) {
		assert.Empty(t, TopK(nil, 5))
	})
}

func TestRank(t *testing.T) {
	table := CountFrequencies([]string{"b", "a", "b", "c", "a", "b"})

	top := rank(table, 2)
	assert.Equal(t, []WordCount{{"b", 3}, {"a", 2}}, top)
	assert.Equal(t, len(top), cap(top), "appending must not write into the full table")

	assert.Equal(t, table, rank(table, 10))
	assert.Empty(t, rank(table, 0))
	assert.Equal(t, TopK([]string{"b", "a", "b", "c", "a", "b"}, 2), top)
}
