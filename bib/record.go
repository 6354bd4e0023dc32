// Package bib loads raw bibliographic records and indexes them by cluster.
package bib

import "sort"

// Record is one author mention on one paper, with its ground-truth cluster labels.
//
// AuthorName and Title may be rewritten once by the noise stage; every other
// field is fixed after loading.
type Record struct {
	AuthorID        int
	AuthorClusterID int
	AuthorName      string
	PaperID         int
	PaperClusterID  int
	Title           string
}

// Index holds the loaded records and the author-cluster / paper-cluster adjacency.
// Adjacency lists may contain repeats when several records share a cluster pair.
type Index struct {
	// Records in input order
	Records []*Record
	// AuthorClusterPapers maps an author cluster to the paper clusters it co-occurs with
	AuthorClusterPapers map[int][]int
	// PaperClusterAuthors maps a paper cluster to the author clusters it co-occurs with
	PaperClusterAuthors map[int][]int
	// AuthorClusterRecords maps an author cluster to its records in input order
	AuthorClusterRecords map[int][]*Record
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		AuthorClusterPapers:  make(map[int][]int),
		PaperClusterAuthors:  make(map[int][]int),
		AuthorClusterRecords: make(map[int][]*Record),
	}
}

// Add appends r and links its clusters in both directions.
func (idx *Index) Add(r *Record) {
	idx.Records = append(idx.Records, r)
	idx.AuthorClusterPapers[r.AuthorClusterID] = append(idx.AuthorClusterPapers[r.AuthorClusterID], r.PaperClusterID)
	idx.PaperClusterAuthors[r.PaperClusterID] = append(idx.PaperClusterAuthors[r.PaperClusterID], r.AuthorClusterID)
	idx.AuthorClusterRecords[r.AuthorClusterID] = append(idx.AuthorClusterRecords[r.AuthorClusterID], r)
}

// AuthorClusterIDs returns every author cluster id in ascending order.
func (idx *Index) AuthorClusterIDs() []int {
	ids := make([]int, 0, len(idx.AuthorClusterPapers))
	for id := range idx.AuthorClusterPapers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of records.
func (idx *Index) Len() int {
	return len(idx.Records)
}
