package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"Apex Motors", "apex motors", 0}, // normalized before comparing
		{"acme", "acme inc", 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.s1, tt.s2), "%q vs %q", tt.s1, tt.s2)
	}
}

func TestNameSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, NameSimilarity("Apex Motors", "  apex   MOTORS "))
}

func TestNameSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, NameSimilarity("", "Apex Motors"))
	assert.Equal(t, 0.0, NameSimilarity("Apex Motors", ""))
}

func TestNameSimilarityReorderedTokens(t *testing.T) {
	score := NameSimilarity("Motors Apex", "Apex Motors")
	assert.Greater(t, score, 0.65, "reordered tokens should still score above threshold")
}

func TestNameSimilarityTypo(t *testing.T) {
	// "Motros" vs "Motors" is a transposition (edit distance 2), so the
	// token pass treats the word as unshared; the char-level score carries
	// the match above the 0.65 cutoff.
	score := NameSimilarity("Apex Motros", "Apex Motors")
	assert.Greater(t, score, 0.65)
	assert.Less(t, score, 1.0)
}

func TestNameSimilarityUnrelated(t *testing.T) {
	score := NameSimilarity("Apex Motors", "Zenith Logistics")
	assert.Less(t, score, 0.4)
}

func TestNameSimilarityMonotonic(t *testing.T) {
	// A closer string must never score below a farther one.
	close := NameSimilarity("Apex Motors", "Apex Motor")
	far := NameSimilarity("Apex Motors", "Apex")
	assert.GreaterOrEqual(t, close, far)
}
