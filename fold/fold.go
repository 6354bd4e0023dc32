// Package fold distributes whole entity groups across cross-validation folds.
package fold

import (
	"gonum.org/v1/gonum/stat"

	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/partition"
	"github.com/teranos/erbench/randx"
)

// Fold is the ordered list of author cluster ids assigned to one fold.
type Fold []int

// Assign deals groups into k folds in rounds: each round visits folds 0..k-1
// and gives each one a uniformly drawn remaining group, removed by swapping
// with the last. The last round stops when groups run out, so trailing folds
// may be one group short. groups is not modified.
func Assign(groups []partition.Group, k int, rng randx.Source) ([]Fold, error) {
	if k < 1 {
		return nil, errors.NewInvalidConfig("number of folds must be >= 1, got %d", k)
	}

	remaining := make([]partition.Group, len(groups))
	copy(remaining, groups)

	folds := make([]Fold, k)
	for len(remaining) > 0 {
		for f := 0; f < k && len(remaining) > 0; f++ {
			i := rng.IntN(len(remaining))
			folds[f] = append(folds[f], remaining[i]...)

			last := len(remaining) - 1
			remaining[i] = remaining[last]
			remaining = remaining[:last]
		}
	}
	return folds, nil
}

// Balance returns the mean and sample standard deviation of per-fold sizes.
// size reports the weight of one fold, e.g. its author cluster or record count.
func Balance(folds []Fold, size func(Fold) int) (mean, std float64) {
	if len(folds) == 0 {
		return 0, 0
	}
	xs := make([]float64, len(folds))
	for i, f := range folds {
		xs[i] = float64(size(f))
	}
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

// Clusters is a Balance size function counting author clusters.
func Clusters(f Fold) int { return len(f) }
