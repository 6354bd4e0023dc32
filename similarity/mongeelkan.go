package similarity

import "strings"

// MongeElkan aligns each token of a with its best Levenshtein match in b and
// averages those scores. Not symmetric. Token-less inputs fall back to
// Levenshtein over the whole strings. The inner scorer is Levenshtein, not a
// secondstring-style Jaro-Winkler, and low token scores are averaged as they
// are rather than clamped to 0.
func MongeElkan(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return Levenshtein(a, b)
	}

	var sum float64
	for _, x := range ta {
		best := 0.0
		for _, y := range tb {
			if s := Levenshtein(x, y); s > best {
				best = s
			}
		}
		sum += best
	}
	return sum / float64(len(ta))
}
