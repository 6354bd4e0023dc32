// Package citeseer turns a CiteSeer-style author/paper record dump into
// entity-resolution benchmark folds.
package citeseer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/bib"
	"github.com/teranos/erbench/dedup"
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/features"
	"github.com/teranos/erbench/fold"
	"github.com/teranos/erbench/logger"
	"github.com/teranos/erbench/mangle"
	"github.com/teranos/erbench/metrics"
	"github.com/teranos/erbench/partition"
	"github.com/teranos/erbench/randx"
	"github.com/teranos/erbench/similarity"
	"github.com/teranos/erbench/version"
)

// Stage names used in logs and metrics.
const (
	StageLoad      = "load"
	StagePartition = "partition"
	StageMangle    = "mangle"
	StageFolds     = "folds"
	StageFeatures  = "features"
	StageOutputs   = "outputs"
)

// ManifestFile is written to the output directory after a successful run.
const ManifestFile = "manifest.toml"

// CiteseerIxProcessor runs the prep pipeline once.
type CiteseerIxProcessor struct {
	params          am.PrepConfig
	runID           string
	rng             randx.Source
	metrics         *metrics.Recorder
	metricsTextfile string
	sampleRSS       func() (uint64, error)
	logger          *zap.SugaredLogger
}

// PrepResult represents the result of a prep run
type PrepResult struct {
	RunID          string        `json:"run_id"`
	Params         am.PrepConfig `json:"params"`
	Records        int           `json:"records"`
	AuthorClusters int           `json:"author_clusters"`
	EntityGroups   int           `json:"entity_groups"`
	LargestGroup   int           `json:"largest_group"`
	MangledNames   int           `json:"mangled_names"`
	MangledTitles  int           `json:"mangled_titles"`
	Folds          []FoldSummary `json:"folds"`
	ClusterBalance Balance       `json:"cluster_balance"`
	RecordBalance  Balance       `json:"record_balance"`
	PeakRSSBytes   uint64        `json:"peak_rss_bytes,omitempty"`
	ManifestPath   string        `json:"manifest_path,omitempty"`
	MetricsPath    string        `json:"metrics_path,omitempty"`
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
}

// FoldSummary describes the output of one fold
type FoldSummary struct {
	Fold           int            `json:"fold" toml:"fold"`
	AuthorClusters int            `json:"author_clusters" toml:"author_clusters"`
	Records        int            `json:"records" toml:"records"`
	Names          int            `json:"names" toml:"names"`
	Titles         int            `json:"titles" toml:"titles"`
	Lines          map[string]int `json:"lines" toml:"lines"`
	DurationMS     int64          `json:"duration_ms" toml:"duration_ms"`
}

// Balance is the mean and standard deviation of a per-fold size
type Balance struct {
	Mean   float64 `json:"mean" toml:"mean"`
	StdDev float64 `json:"stddev" toml:"stddev"`
}

// NewCiteseerIxProcessor creates a processor for params. The random source
// defaults to one seeded from params.Seed.
func NewCiteseerIxProcessor(params am.PrepConfig, logger *zap.SugaredLogger) *CiteseerIxProcessor {
	if params.OutDir == "" {
		params.OutDir = am.DefaultOutDir
	}
	return &CiteseerIxProcessor{
		params:    params,
		runID:     uuid.NewString(),
		rng:       randx.New(params.Seed),
		metrics:   metrics.New(),
		sampleRSS: ProcessRSS,
		logger:    logger,
	}
}

// SetRandom replaces the random source; the seed in params is then only recorded.
func (p *CiteseerIxProcessor) SetRandom(rng randx.Source) { p.rng = rng }

// SetRunID overrides the generated run id.
func (p *CiteseerIxProcessor) SetRunID(id string) { p.runID = id }

// RunID returns the id this run is recorded under.
func (p *CiteseerIxProcessor) RunID() string { return p.runID }

// SetMetricsTextfile enables the prometheus textfile, written under the
// output directory. Empty disables it.
func (p *CiteseerIxProcessor) SetMetricsTextfile(name string) { p.metricsTextfile = name }

// Metrics exposes the run's recorder.
func (p *CiteseerIxProcessor) Metrics() *metrics.Recorder { return p.metrics }

// Process runs every stage in order. ctx is checked between stages and
// between folds. On failure the partial result is returned with the error.
func (p *CiteseerIxProcessor) Process(ctx context.Context) (*PrepResult, error) {
	result := &PrepResult{
		RunID:     p.runID,
		Params:    p.params,
		StartTime: time.Now(),
	}
	log := p.logger.With(logger.FieldRunID, p.runID)

	if err := p.process(ctx, result, log); err != nil {
		result.EndTime = time.Now()
		result.Success = false
		result.Message = err.Error()
		log.Errorw("Prep run failed", logger.FieldError, err)
		return result, err
	}

	result.EndTime = time.Now()
	result.Success = true
	result.Message = fmt.Sprintf("Wrote %d folds for %d records in %d entity groups",
		len(result.Folds), result.Records, result.EntityGroups)
	log.Infow("Prep run finished",
		logger.FieldDurationMS, result.EndTime.Sub(result.StartTime).Milliseconds(),
		logger.FieldRecords, result.Records,
		logger.FieldGroups, result.EntityGroups)
	return result, nil
}

func (p *CiteseerIxProcessor) process(ctx context.Context, result *PrepResult, log *zap.SugaredLogger) error {
	nameSim, err := similarity.Lookup(p.params.NameSimilarity)
	if err != nil {
		return err
	}
	titleSim, err := similarity.Lookup(p.params.TitleSimilarity)
	if err != nil {
		return err
	}
	if p.params.Folds < 1 {
		return errors.NewInvalidConfig("number of folds must be >= 1, got %d", p.params.Folds)
	}
	if err := os.MkdirAll(p.params.OutDir, am.DefaultDirPermissions); err != nil {
		return errors.WrapFileUnavailable(err, p.params.OutDir)
	}

	// Load
	var idx *bib.Index
	if err := p.stage(ctx, StageLoad, result, log, func() error {
		var err error
		idx, err = bib.Load(p.params.Input, log.Named(StageLoad))
		return err
	}); err != nil {
		return err
	}
	result.Records = idx.Len()
	p.metrics.RecordsLoaded(idx.Len())

	// Partition
	var groups []partition.Group
	if err := p.stage(ctx, StagePartition, result, log, func() error {
		groups = partition.EntityGroups(idx)
		return nil
	}); err != nil {
		return err
	}
	stats := partition.Summarize(groups)
	result.AuthorClusters = stats.AuthorClusters
	result.EntityGroups = stats.Groups
	result.LargestGroup = stats.Largest
	p.metrics.EntityGroups(stats.Groups, stats.Largest)
	log.Infow("Partitioned author clusters",
		logger.FieldClusters, stats.AuthorClusters,
		logger.FieldGroups, stats.Groups,
		"largest", stats.Largest,
		"singletons", stats.Singletons)

	// Mangle
	if err := p.stage(ctx, StageMangle, result, log, func() error {
		ms := mangle.Groups(groups, idx, p.params.MangleProb, p.rng, log.Named(StageMangle))
		result.MangledNames, result.MangledTitles = ms.Names, ms.Titles
		p.metrics.Mangled(mangle.Names.String(), ms.Names)
		p.metrics.Mangled(mangle.Titles.String(), ms.Titles)
		return nil
	}); err != nil {
		return err
	}

	// Folds
	var folds []fold.Fold
	if err := p.stage(ctx, StageFolds, result, log, func() error {
		var err error
		folds, err = fold.Assign(groups, p.params.Folds, p.rng)
		return err
	}); err != nil {
		return err
	}

	// Features, one fold at a time
	gen, err := features.NewGenerator(idx, features.Options{
		OutDir:          p.params.OutDir,
		Threshold:       p.params.SimThreshold,
		NameSimilarity:  nameSim,
		TitleSimilarity: titleSim,
	}, log.Named(StageFeatures))
	if err != nil {
		return err
	}
	if err := p.stage(ctx, StageFeatures, result, log, func() error {
		for n, f := range folds {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "before fold %d", n)
			}
			summary, err := p.writeFold(gen, n, f, log)
			if err != nil {
				return errors.Wrapf(err, "fold %d", n)
			}
			result.Folds = append(result.Folds, *summary)
		}
		return nil
	}); err != nil {
		return err
	}

	result.ClusterBalance = balance(folds, fold.Clusters)
	result.RecordBalance = balance(folds, func(f fold.Fold) int {
		n := 0
		for _, c := range f {
			n += len(idx.AuthorClusterRecords[c])
		}
		return n
	})

	// Manifest and metrics
	return p.stage(ctx, StageOutputs, result, log, func() error {
		return p.writeOutputs(result)
	})
}

// stage runs fn after a context check, then records its duration and RSS.
func (p *CiteseerIxProcessor) stage(ctx context.Context, name string, result *PrepResult, log *zap.SugaredLogger, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "before %s", name)
	}
	start := time.Now()
	if err := fn(); err != nil {
		return err
	}
	d := time.Since(start)
	p.metrics.Stage(name, d)

	fields := []interface{}{logger.FieldOperation, name, logger.FieldDurationMS, d.Milliseconds()}
	if rss, err := p.sampleRSS(); err == nil {
		p.metrics.ResidentMemory(name, rss)
		if rss > result.PeakRSSBytes {
			result.PeakRSSBytes = rss
		}
		fields = append(fields, logger.FieldRSSBytes, rss)
	} else {
		log.Debugw("RSS sample unavailable", logger.FieldError, err)
	}
	log.Debugw("Stage complete", fields...)
	return nil
}

// writeFold writes, dedups and optionally labels one fold.
func (p *CiteseerIxProcessor) writeFold(gen *features.Generator, n int, f fold.Fold, log *zap.SugaredLogger) (*FoldSummary, error) {
	res, err := gen.Fold(n, f)
	if err != nil {
		return nil, err
	}

	results, err := dedup.Files(res.Paths(), log.Named("dedup"))
	if err != nil {
		return nil, err
	}

	if p.params.WriteTruth {
		if err := gen.WriteTruth(res); err != nil {
			return nil, err
		}
		// truth objects are distinct, no dedup needed
		for _, rel := range []features.Relation{features.SameAuthorTruth, features.SamePaperTruth} {
			results = append(results, dedup.Result{
				Path:   res.Files[rel],
				Before: res.Written[rel],
				After:  res.Written[rel],
			})
		}
	}

	summary := &FoldSummary{
		Fold:           n,
		AuthorClusters: res.AuthorClusters,
		Records:        res.Records,
		Names:          res.Names,
		Titles:         res.Titles,
		Lines:          make(map[string]int, len(results)),
		DurationMS:     res.Duration.Milliseconds(),
	}
	for _, r := range results {
		rel := relationOf(r.Path, n)
		summary.Lines[rel] = r.After
		p.metrics.Lines(rel, n, r.Before, r.After)
	}
	p.metrics.Fold(n, res.AuthorClusters, res.Records)
	p.metrics.PairsScored(string(features.SimName), res.Scored[features.SimName])
	p.metrics.PairsScored(string(features.SimTitle), res.Scored[features.SimTitle])

	log.Infow("Fold complete",
		logger.FieldFold, n,
		logger.FieldClusters, res.AuthorClusters,
		logger.FieldRecords, res.Records)
	return summary, nil
}

func (p *CiteseerIxProcessor) writeOutputs(result *PrepResult) error {
	if p.metricsTextfile != "" {
		p.metrics.Succeeded(time.Now())
		path := filepath.Join(p.params.OutDir, p.metricsTextfile)
		if err := p.metrics.WriteTextfile(path); err != nil {
			return err
		}
		result.MetricsPath = path
	}

	path := filepath.Join(p.params.OutDir, ManifestFile)
	if err := WriteManifest(path, NewManifest(result, version.Get())); err != nil {
		return err
	}
	result.ManifestPath = path
	return nil
}

// relationOf recovers the relation name from "<dir>/<relation>.<fold>.txt".
func relationOf(path string, n int) string {
	base := filepath.Base(path)
	suffix := fmt.Sprintf(".%d.txt", n)
	if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
		return base[:len(base)-len(suffix)]
	}
	return base
}

func balance(folds []fold.Fold, size func(fold.Fold) int) Balance {
	mean, std := fold.Balance(folds, size)
	return Balance{Mean: mean, StdDev: std}
}
