package am

import (
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/similarity"
)

// Validate checks that the configuration is valid.
// Input and output paths are checked by the prep command, which may supply
// them from flags.
func (c *Config) Validate() error {
	if c.Prep.Folds < 1 {
		return errors.NewInvalidConfig("prep.folds must be >= 1, got %d", c.Prep.Folds)
	}

	// Threshold in (0,1]
	if c.Prep.SimThreshold <= 0 || c.Prep.SimThreshold > 1 {
		return errors.NewInvalidConfig("prep.sim_threshold must be in (0,1], got %g", c.Prep.SimThreshold)
	}

	// Probability in [0,1]
	if c.Prep.MangleProb < 0 || c.Prep.MangleProb > 1 {
		return errors.NewInvalidConfig("prep.mangle_prob must be in [0,1], got %g", c.Prep.MangleProb)
	}

	if _, err := similarity.Lookup(c.Prep.NameSimilarity); err != nil {
		return errors.Wrap(err, "prep.name_similarity")
	}
	if _, err := similarity.Lookup(c.Prep.TitleSimilarity); err != nil {
		return errors.Wrap(err, "prep.title_similarity")
	}

	if c.Database.Enabled && c.Database.Path == "" {
		return errors.NewInvalidConfig("database.path cannot be empty when the ledger is enabled")
	}

	return nil
}
