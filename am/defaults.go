package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values shared with the CLI flag definitions
const (
	DefaultFolds           = 2
	DefaultSeed            = 1
	DefaultOutDir          = "."
	DefaultSimThreshold    = 0.5
	DefaultMangleProb      = 0.0
	DefaultNameSimilarity  = "levenshtein"
	DefaultTitleSimilarity = "dice"
	DefaultDatabasePath    = "erbench.db"
	DefaultMetricsTextfile = "erbench.prom"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("prep.input", "")
	v.SetDefault("prep.folds", DefaultFolds)
	v.SetDefault("prep.seed", DefaultSeed)
	v.SetDefault("prep.out_dir", DefaultOutDir)
	v.SetDefault("prep.sim_threshold", DefaultSimThreshold)
	v.SetDefault("prep.mangle_prob", DefaultMangleProb)
	v.SetDefault("prep.name_similarity", DefaultNameSimilarity)
	v.SetDefault("prep.title_similarity", DefaultTitleSimilarity)
	v.SetDefault("prep.write_truth", false)

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("metrics.textfile", DefaultMetricsTextfile)

	v.SetDefault("log.json", false)
}

// BindEnvVars explicitly binds the settings most often overridden per machine
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "ERBENCH_DATABASE_PATH")
	v.BindEnv("prep.out_dir", "ERBENCH_OUT_DIR")
	v.BindEnv("log.json", "ERBENCH_LOG_JSON")
}

// GetDatabasePath returns the configured ledger path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Prep: {Input: %s, Folds: %d, Seed: %d, OutDir: %s}, Database: %s}",
		c.Prep.Input, c.Prep.Folds, c.Prep.Seed, c.Prep.OutDir, c.Database.Path)
}
