// Package am holds erbench configuration ("I am"): defaults, the TOML file
// cascade, environment overrides and validation.
package am

// Config represents the erbench configuration
type Config struct {
	Prep     PrepConfig     `mapstructure:"prep" toml:"prep" json:"prep" yaml:"prep"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics" toml:"metrics" json:"metrics" yaml:"metrics"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// PrepConfig configures a benchmark preparation run. Every value can be
// overridden by the matching `erbench prep` flag.
type PrepConfig struct {
	Input           string  `mapstructure:"input" toml:"input" json:"input" yaml:"input"`                                         // raw record file
	Folds           int     `mapstructure:"folds" toml:"folds" json:"folds" yaml:"folds"`                                         // number of folds (>= 1)
	Seed            int64   `mapstructure:"seed" toml:"seed" json:"seed" yaml:"seed"`                                             // random seed
	OutDir          string  `mapstructure:"out_dir" toml:"out_dir" json:"out_dir" yaml:"out_dir"`                                 // fold file directory
	SimThreshold    float64 `mapstructure:"sim_threshold" toml:"sim_threshold" json:"sim_threshold" yaml:"sim_threshold"`         // in (0,1]
	MangleProb      float64 `mapstructure:"mangle_prob" toml:"mangle_prob" json:"mangle_prob" yaml:"mangle_prob"`                 // in [0,1]
	NameSimilarity  string  `mapstructure:"name_similarity" toml:"name_similarity" json:"name_similarity" yaml:"name_similarity"` // levenshtein, dice, monge_elkan
	TitleSimilarity string  `mapstructure:"title_similarity" toml:"title_similarity" json:"title_similarity" yaml:"title_similarity"`
	WriteTruth      bool    `mapstructure:"write_truth" toml:"write_truth" json:"write_truth" yaml:"write_truth"` // also write *_truth fold files
}

// DatabaseConfig configures the SQLite run ledger
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// MetricsConfig configures the prometheus textfile written after a run
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" toml:"textfile" json:"textfile" yaml:"textfile"` // file name under prep.out_dir, empty disables
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
