// Package metrics collects per-run prep metrics in a private prometheus
// registry and writes them as a node-exporter textfile when the run ends.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/teranos/erbench/errors"
)

const namespace = "erbench"

// Recorder holds the metrics of one prep run.
type Recorder struct {
	reg *prometheus.Registry

	recordsLoaded   prometheus.Gauge
	entityGroups    prometheus.Gauge
	largestGroup    prometheus.Gauge
	mangledFields   *prometheus.CounterVec
	foldClusters    *prometheus.GaugeVec
	foldRecords     *prometheus.GaugeVec
	linesWritten    *prometheus.GaugeVec
	duplicateLines  *prometheus.CounterVec
	pairsScored     *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	residentMemory  *prometheus.GaugeVec
	lastSuccessTime prometheus.Gauge
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		recordsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Input records parsed",
		}),
		entityGroups: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entity_groups",
			Help:      "Connected entity groups found",
		}),
		largestGroup: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entity_group_largest_size",
			Help:      "Author clusters in the largest entity group",
		}),
		mangledFields: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mangled_fields_total",
			Help:      "Distinct names or titles passed through the noise injector",
		}, []string{"target"}),
		foldClusters: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fold_author_clusters",
			Help:      "Author clusters assigned to a fold",
		}, []string{"fold"}),
		foldRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fold_records",
			Help:      "Records covered by a fold",
		}, []string{"fold"}),
		linesWritten: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lines_written",
			Help:      "Distinct lines in an output file after deduplication",
		}, []string{"relation", "fold"}),
		duplicateLines: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_lines_removed_total",
			Help:      "Lines dropped by the dedup pass",
		}, []string{"relation"}),
		pairsScored: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_scored_total",
			Help:      "Similarity evaluations performed",
		}, []string{"relation"}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		residentMemory: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resident_memory_bytes",
			Help:      "Process RSS sampled after a stage",
		}, []string{"stage"}),
		lastSuccessTime: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the run finished successfully",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) RecordsLoaded(n int) { r.recordsLoaded.Set(float64(n)) }

// EntityGroups records the group count and the largest group size.
func (r *Recorder) EntityGroups(n, largest int) {
	r.entityGroups.Set(float64(n))
	r.largestGroup.Set(float64(largest))
}

func (r *Recorder) Mangled(target string, n int) {
	r.mangledFields.WithLabelValues(target).Add(float64(n))
}

// Fold records the size of fold n.
func (r *Recorder) Fold(n, clusters, records int) {
	label := strconv.Itoa(n)
	r.foldClusters.WithLabelValues(label).Set(float64(clusters))
	r.foldRecords.WithLabelValues(label).Set(float64(records))
}

// Lines records the dedup outcome of one output file.
func (r *Recorder) Lines(relation string, fold, before, after int) {
	r.linesWritten.WithLabelValues(relation, strconv.Itoa(fold)).Set(float64(after))
	r.duplicateLines.WithLabelValues(relation).Add(float64(before - after))
}

func (r *Recorder) PairsScored(relation string, n int) {
	r.pairsScored.WithLabelValues(relation).Add(float64(n))
}

func (r *Recorder) Stage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *Recorder) ResidentMemory(stage string, bytes uint64) {
	r.residentMemory.WithLabelValues(stage).Set(float64(bytes))
}

// Succeeded stamps the completion time.
func (r *Recorder) Succeeded(at time.Time) {
	r.lastSuccessTime.Set(float64(at.Unix()))
}

// WriteTextfile writes every metric in text exposition format to path.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return errors.WrapFileUnavailable(err, path)
	}
	return nil
}
