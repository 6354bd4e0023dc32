// Package features writes the per-fold benchmark files: identity records,
// ground-truth equality pairs and all-pairs similarity features.
package features

import (
	"fmt"
	"strconv"
	"strings"
)

// Relation names one output file family.
type Relation string

const (
	AuthorName    Relation = "authorName"
	PaperTitle    Relation = "paperTitle"
	AuthorOf      Relation = "authorOf"
	SameAuthor    Relation = "sameAuthor"
	SamePaper     Relation = "samePaper"
	SimName       Relation = "simName"
	SimTitle      Relation = "simTitle"
	SameInitials  Relation = "sameInitials"
	SameNumTokens Relation = "sameNumTokens"

	SameAuthorTruth Relation = "sameAuthor_truth"
	SamePaperTruth  Relation = "samePaper_truth"
)

// Relations are the files written for every fold, in write order.
var Relations = []Relation{
	AuthorName,
	PaperTitle,
	AuthorOf,
	SameAuthor,
	SamePaper,
	SimName,
	SimTitle,
	SameInitials,
	SameNumTokens,
}

// FileName returns "<relation>.<fold>.txt".
func FileName(rel Relation, fold int) string {
	return fmt.Sprintf("%s.%d.txt", rel, fold)
}

// truthValue is the literal score of a ground-truth pair.
const truthValue = "1.0"

// FormatScore renders a score as its shortest decimal form, keeping at least
// one fractional digit: 1 -> "1.0", 0.75 -> "0.75".
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// sharesInitials reports whether a and b have the same number of tokens and
// each token pair starts with the same rune.
func sharesInitials(a, b string) bool {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if firstRune(ta[i]) != firstRune(tb[i]) {
			return false
		}
	}
	return true
}

// sameTokenCount reports whether a and b split into the same number of tokens.
func sameTokenCount(a, b string) bool {
	return len(strings.Fields(a)) == len(strings.Fields(b))
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func join(fields ...string) string {
	return strings.Join(fields, "\t")
}
