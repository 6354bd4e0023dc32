package citeseer

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/version"
)

// Manifest describes a finished prep run next to its fold files.
type Manifest struct {
	RunID      string        `toml:"run_id"`
	Tool       version.Info  `toml:"tool"`
	CreatedAt  time.Time     `toml:"created_at"`
	DurationMS int64         `toml:"duration_ms"`
	Params     am.PrepConfig `toml:"params"`
	Dataset    DatasetStats  `toml:"dataset"`
	Balance    FoldBalance   `toml:"balance"`
	Host       HostStats     `toml:"host"`
	Folds      []FoldSummary `toml:"folds"`
}

// DatasetStats summarises the input after partitioning and noise.
type DatasetStats struct {
	Records        int `toml:"records"`
	AuthorClusters int `toml:"author_clusters"`
	EntityGroups   int `toml:"entity_groups"`
	LargestGroup   int `toml:"largest_group"`
	MangledNames   int `toml:"mangled_names"`
	MangledTitles  int `toml:"mangled_titles"`
}

// FoldBalance reports how evenly the folds were filled.
type FoldBalance struct {
	AuthorClusters Balance `toml:"author_clusters"`
	Records        Balance `toml:"records"`
}

// HostStats records the memory picture of the machine that ran the prep.
type HostStats struct {
	PeakRSSBytes         uint64 `toml:"peak_rss_bytes"`
	MemoryTotalBytes     uint64 `toml:"memory_total_bytes,omitempty"`
	MemoryAvailableBytes uint64 `toml:"memory_available_bytes,omitempty"`
}

// NewManifest builds a manifest from a run result. Host memory is best effort.
func NewManifest(result *PrepResult, tool version.Info) *Manifest {
	m := &Manifest{
		RunID:      result.RunID,
		Tool:       tool,
		CreatedAt:  result.StartTime.UTC().Truncate(time.Second),
		DurationMS: time.Since(result.StartTime).Milliseconds(),
		Params:     result.Params,
		Dataset: DatasetStats{
			Records:        result.Records,
			AuthorClusters: result.AuthorClusters,
			EntityGroups:   result.EntityGroups,
			LargestGroup:   result.LargestGroup,
			MangledNames:   result.MangledNames,
			MangledTitles:  result.MangledTitles,
		},
		Balance: FoldBalance{
			AuthorClusters: result.ClusterBalance,
			Records:        result.RecordBalance,
		},
		Host:  HostStats{PeakRSSBytes: result.PeakRSSBytes},
		Folds: result.Folds,
	}
	if total, avail, err := HostMemory(); err == nil {
		m.Host.MemoryTotalBytes = total
		m.Host.MemoryAvailableBytes = avail
	}
	return m
}

// WriteManifest writes m as TOML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to encode manifest")
	}
	if err := os.WriteFile(path, data, am.DefaultFilePermissions); err != nil {
		return errors.WrapFileUnavailable(err, path)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileUnavailable(err, path)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to decode manifest %s", path)
	}
	return &m, nil
}
