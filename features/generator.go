package features

import (
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/erbench/bib"
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/fold"
	"github.com/teranos/erbench/internal/lineio"
	"github.com/teranos/erbench/logger"
	"github.com/teranos/erbench/similarity"
)

// Options configure a Generator.
type Options struct {
	OutDir          string
	Threshold       float64
	NameSimilarity  similarity.Func
	TitleSimilarity similarity.Func
}

// Generator writes the feature files of one fold at a time.
type Generator struct {
	idx    *bib.Index
	opts   Options
	logger *zap.SugaredLogger
}

// NewGenerator validates opts and returns a generator over idx.
func NewGenerator(idx *bib.Index, opts Options, logger *zap.SugaredLogger) (*Generator, error) {
	if opts.NameSimilarity == nil || opts.TitleSimilarity == nil {
		return nil, errors.NewInvalidConfig("name and title similarity functions are required")
	}
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		return nil, errors.NewInvalidConfig("similarity threshold must be in (0,1], got %g", opts.Threshold)
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	return &Generator{idx: idx, opts: opts, logger: logger}, nil
}

// FoldResult describes the files written for one fold.
type FoldResult struct {
	Fold           int
	AuthorClusters int
	Records        int
	Names          int
	Titles         int
	// Files maps each relation to its output path
	Files map[Relation]string
	// Written counts lines written per relation, before deduplication
	Written map[Relation]int
	// Scored counts similarity evaluations for SimName and SimTitle
	Scored   map[Relation]int
	Duration time.Duration

	sameAuthor pairSet
	samePaper  pairSet
}

// Paths returns the output paths in Relations order.
func (r *FoldResult) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, rel := range Relations {
		if p, ok := r.Files[rel]; ok {
			paths = append(paths, p)
		}
	}
	for _, rel := range []Relation{SameAuthorTruth, SamePaperTruth} {
		if p, ok := r.Files[rel]; ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// foldWriter holds one open writer per relation.
type foldWriter struct {
	w map[Relation]*lineio.Writer
}

func (g *Generator) open(n int) (*foldWriter, error) {
	fw := &foldWriter{w: make(map[Relation]*lineio.Writer, len(Relations))}
	for _, rel := range Relations {
		w, err := lineio.Create(filepath.Join(g.opts.OutDir, FileName(rel, n)))
		if err != nil {
			fw.close()
			return nil, err
		}
		fw.w[rel] = w
	}
	return fw, nil
}

func (fw *foldWriter) emit(rel Relation, fields ...string) error {
	return fw.w[rel].WriteLine(join(fields...))
}

// close closes every writer and returns the first failure.
func (fw *foldWriter) close() error {
	var first error
	for _, rel := range Relations {
		if w, ok := fw.w[rel]; ok {
			if err := w.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// Fold writes the nine relation files of fold n, truncating earlier content.
// Lines may repeat; a dedup pass is expected afterwards.
func (g *Generator) Fold(n int, f fold.Fold) (res *FoldResult, err error) {
	start := time.Now()
	fw, err := g.open(n)
	if err != nil {
		return nil, err
	}

	out := &FoldResult{
		Fold:           n,
		AuthorClusters: len(f),
		Files:          make(map[Relation]string, len(Relations)),
		Written:        make(map[Relation]int, len(Relations)),
		Scored:         make(map[Relation]int, 2),
		sameAuthor:     make(pairSet),
		samePaper:      make(pairSet),
	}
	defer func() {
		for rel, w := range fw.w {
			out.Files[rel] = w.Path()
			out.Written[rel] = w.Lines()
		}
		if cerr := fw.close(); cerr != nil && err == nil {
			res, err = nil, cerr
		}
	}()

	var (
		names, titles   []string
		seenName        = make(map[string]bool)
		seenTitle       = make(map[string]bool)
		seenPaperTitle  = make(map[string]bool)
		paperClusters   []int
		paperIDs        = make(map[int][]int)
		seenClusterPair = make(map[[2]int]bool)
	)

	for _, cluster := range f {
		var authorIDs []int
		seenAuthor := make(map[int]bool)

		for _, r := range g.idx.AuthorClusterRecords[cluster] {
			out.Records++
			aid, pid := strconv.Itoa(r.AuthorID), strconv.Itoa(r.PaperID)

			if err := fw.emit(AuthorName, aid, r.AuthorName); err != nil {
				return nil, err
			}
			if err := fw.emit(AuthorOf, aid, pid); err != nil {
				return nil, err
			}
			if pt := join(pid, r.Title); !seenPaperTitle[pt] {
				seenPaperTitle[pt] = true
				if err := fw.emit(PaperTitle, pid, r.Title); err != nil {
					return nil, err
				}
			}

			if !seenAuthor[r.AuthorID] {
				seenAuthor[r.AuthorID] = true
				authorIDs = append(authorIDs, r.AuthorID)
			}
			if _, ok := paperIDs[r.PaperClusterID]; !ok {
				paperClusters = append(paperClusters, r.PaperClusterID)
			}
			if key := [2]int{r.PaperClusterID, r.PaperID}; !seenClusterPair[key] {
				seenClusterPair[key] = true
				paperIDs[r.PaperClusterID] = append(paperIDs[r.PaperClusterID], r.PaperID)
			}
			if !seenName[r.AuthorName] {
				seenName[r.AuthorName] = true
				names = append(names, r.AuthorName)
			}
			if !seenTitle[r.Title] {
				seenTitle[r.Title] = true
				titles = append(titles, r.Title)
			}
		}

		for a0, a1 := range AllPairs(authorIDs) {
			s0, s1 := strconv.Itoa(a0), strconv.Itoa(a1)
			out.sameAuthor.add(s0, s1)
			if err := fw.emit(SameAuthor, s0, s1, truthValue); err != nil {
				return nil, err
			}
		}
	}

	for _, pc := range paperClusters {
		for p0, p1 := range AllPairs(paperIDs[pc]) {
			s0, s1 := strconv.Itoa(p0), strconv.Itoa(p1)
			out.samePaper.add(s0, s1)
			if err := fw.emit(SamePaper, s0, s1, truthValue); err != nil {
				return nil, err
			}
		}
	}

	for n0, n1 := range AllPairs(names) {
		out.Scored[SimName]++
		if sim := g.opts.NameSimilarity(n0, n1); sim > g.opts.Threshold {
			if err := fw.emit(SimName, n0, n1, FormatScore(sim)); err != nil {
				return nil, err
			}
		}
		if sharesInitials(n0, n1) {
			if err := fw.emit(SameInitials, n0, n1); err != nil {
				return nil, err
			}
		}
	}

	for t0, t1 := range AllPairs(titles) {
		out.Scored[SimTitle]++
		if sim := g.opts.TitleSimilarity(t0, t1); sim > g.opts.Threshold {
			if err := fw.emit(SimTitle, t0, t1, FormatScore(sim)); err != nil {
				return nil, err
			}
		}
		if sameTokenCount(t0, t1) {
			if err := fw.emit(SameNumTokens, t0, t1); err != nil {
				return nil, err
			}
		}
	}

	out.Names, out.Titles = len(names), len(titles)
	out.Duration = time.Since(start)

	g.logger.Infow("Wrote fold features",
		logger.FieldFold, n,
		logger.FieldClusters, out.AuthorClusters,
		logger.FieldRecords, out.Records,
		"names", out.Names,
		"titles", out.Titles,
		logger.FieldDurationMS, out.Duration.Milliseconds())
	return out, nil
}
