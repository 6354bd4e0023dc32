// Package partition splits author clusters into entity groups: the connected
// components of the author-cluster / paper-cluster bipartite graph, projected
// onto author cluster ids.
package partition

import (
	"sort"

	"github.com/teranos/erbench/bib"
)

// Group is one entity group: author cluster ids in ascending order.
type Group []int

// EntityGroups computes the entity groups of idx.
//
// Start ids are taken in ascending order, so the result is the same for the
// same input regardless of map iteration order. Groups come out ordered by
// their smallest member. Each author and paper cluster is expanded once.
func EntityGroups(idx *bib.Index) []Group {
	w := newWalker(idx)
	var groups []Group
	for _, id := range idx.AuthorClusterIDs() {
		if w.seenAuthor[id] {
			continue
		}
		groups = append(groups, w.collect(id))
	}
	return groups
}

// walker holds the traversal state shared across every component.
type walker struct {
	idx        *bib.Index
	stack      []int
	seenAuthor map[int]bool
	seenPaper  map[int]bool
}

func newWalker(idx *bib.Index) *walker {
	return &walker{
		idx:        idx,
		seenAuthor: make(map[int]bool, len(idx.AuthorClusterPapers)),
		seenPaper:  make(map[int]bool, len(idx.PaperClusterAuthors)),
	}
}

// push marks an author cluster visited and schedules it.
func (w *walker) push(id int) {
	w.seenAuthor[id] = true
	w.stack = append(w.stack, id)
}

func (w *walker) pop() int {
	id := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return id
}

// collect drains the component reachable from start.
func (w *walker) collect(start int) Group {
	var group Group
	w.push(start)
	for len(w.stack) > 0 {
		id := w.pop()
		group = append(group, id)

		for _, paper := range w.idx.AuthorClusterPapers[id] {
			if w.seenPaper[paper] {
				continue
			}
			w.seenPaper[paper] = true
			for _, author := range w.idx.PaperClusterAuthors[paper] {
				if !w.seenAuthor[author] {
					w.push(author)
				}
			}
		}
	}
	sort.Ints(group)
	return group
}

// Stats summarises a partition for logging.
type Stats struct {
	Groups         int
	AuthorClusters int
	Largest        int
	Singletons     int
}

// Summarize returns size statistics over groups.
func Summarize(groups []Group) Stats {
	s := Stats{Groups: len(groups)}
	for _, g := range groups {
		s.AuthorClusters += len(g)
		if len(g) > s.Largest {
			s.Largest = len(g)
		}
		if len(g) == 1 {
			s.Singletons++
		}
	}
	return s
}
