package match

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// Normalize case-folds s and strips separators, so that "order_item",
// "Order-Item" and "OrderItem" compare equal.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// Distance computes the Levenshtein distance between a and b in runes: the
// minimum number of single-rune insertions, deletions or substitutions that
// turn one into the other.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return len(rb)
	}

	// Two rows of the matrix, sized by the shorter string.
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Similarity scores normalized a and b between 0 (nothing in common) and 1
// (equal).
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(na, nb))/float64(longest)
}

// Scored is a candidate with its similarity to the requested name.
type Scored struct {
	Name  string
	Score float64
}

// Rank returns the candidates scoring at least minScore against name, best
// first. Ties keep the order of candidates.
func Rank(name string, candidates []string, minScore float64) []Scored {
	var out []Scored
	for _, c := range candidates {
		if s := Similarity(name, c); s >= minScore {
			out = append(out, Scored{Name: c, Score: s})
		}
	}

	slices.SortStableFunc(out, func(x, y Scored) int { return cmp.Compare(y.Score, x.Score) })

	return out
}

// Suggest returns at most limit candidate names close to name, best first.
func Suggest(name string, candidates []string, minScore float64, limit int) []string {
	ranked := Rank(name, candidates, minScore)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.Name
	}

	return out
}
