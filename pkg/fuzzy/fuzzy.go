package fuzzy

import (
	"strings"
)

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func LevenshteinDistance(s1, s2 string) int {
	s1 = Normalize(s1)
	s2 = Normalize(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// NameSimilarity scores how closely two free-text names refer to the same
// entity, as a value in [0, 1]. 1.0 means the normalized strings are equal.
// The score blends whole-string edit distance with token overlap so that
// word reordering ("Motors Apex" vs "Apex Motors") still scores high.
func NameSimilarity(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	// Character-level similarity from edit distance
	dist := LevenshteinDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	charScore := 1.0 - float64(dist)/float64(maxLen)
	if charScore < 0 {
		charScore = 0
	}

	// Token-level overlap (order-insensitive)
	tokenScore := tokenOverlap(strings.Fields(a), strings.Fields(b))

	// Take the stronger signal, lightly weighted toward the other
	if tokenScore > charScore {
		return 0.7*tokenScore + 0.3*charScore
	}
	return 0.7*charScore + 0.3*tokenScore
}

// tokenOverlap returns the share of tokens shared between two token sets,
// counting near-equal tokens (edit distance <= 1) as shared.
func tokenOverlap(t1, t2 []string) float64 {
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}

	matched := 0
	used := make([]bool, len(t2))
	for _, w1 := range t1 {
		for j, w2 := range t2 {
			if used[j] {
				continue
			}
			if w1 == w2 || LevenshteinDistance(w1, w2) <= 1 {
				matched++
				used[j] = true
				break
			}
		}
	}

	total := len(t1)
	if len(t2) > total {
		total = len(t2)
	}
	return float64(matched) / float64(total)
}

// Normalize lowercases and collapses whitespace for comparison.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
