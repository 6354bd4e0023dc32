// Package mangle injects reproducible typographic noise into names and titles.
package mangle

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/erbench/bib"
	"github.com/teranos/erbench/partition"
	"github.com/teranos/erbench/randx"
)

// Target is the record field a group's noise is applied to.
type Target int

const (
	Titles Target = iota
	Names
)

func (t Target) String() string {
	if t == Names {
		return "names"
	}
	return "titles"
}

// String splits s on whitespace and, in every token, replaces each rune after
// the first with a random lowercase letter with probability p. Tokens are
// rejoined with single spaces.
//
// One Float64 is drawn per rune at position >= 1, plus one IntN(26) per
// replaced rune, in reading order.
func String(s string, p float64, rng randx.Source) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		runes := []rune(tok)
		for j := 1; j < len(runes); j++ {
			if rng.Float64() < p {
				runes[j] = rune('a' + rng.IntN(26))
			}
		}
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}

// Stats counts what Groups touched.
type Stats struct {
	NameGroups  int
	TitleGroups int
	Names       int
	Titles      int
}

// Groups mangles each group independently. One Bool per group picks the
// target; the noise is then applied once per distinct author id (names) or
// paper id (titles) and written to every record carrying that id, so all
// mentions of a paper keep the same mangled title.
//
// Groups, clusters and records are visited in their given order.
func Groups(groups []partition.Group, idx *bib.Index, p float64, rng randx.Source, logger *zap.SugaredLogger) Stats {
	var stats Stats
	for _, g := range groups {
		target := Titles
		if rng.Bool() {
			target = Names
		}

		switch target {
		case Names:
			stats.NameGroups++
			stats.Names += apply(g, idx, p, rng,
				func(r *bib.Record) int { return r.AuthorID },
				func(r *bib.Record) *string { return &r.AuthorName })
		case Titles:
			stats.TitleGroups++
			stats.Titles += apply(g, idx, p, rng,
				func(r *bib.Record) int { return r.PaperID },
				func(r *bib.Record) *string { return &r.Title })
		}
	}

	logger.Debugw("Mangled entity groups",
		"name_groups", stats.NameGroups,
		"title_groups", stats.TitleGroups,
		"names", stats.Names,
		"titles", stats.Titles,
		"mangle_prob", p)
	return stats
}

// apply mangles field once per distinct key across the group's records and
// returns the number of distinct keys.
func apply(g partition.Group, idx *bib.Index, p float64, rng randx.Source,
	key func(*bib.Record) int, field func(*bib.Record) *string) int {

	mangled := make(map[int]string)
	for _, cluster := range g {
		for _, r := range idx.AuthorClusterRecords[cluster] {
			k := key(r)
			v, ok := mangled[k]
			if !ok {
				v = String(*field(r), p, rng)
				mangled[k] = v
			}
			*field(r) = v
		}
	}
	return len(mangled)
}
