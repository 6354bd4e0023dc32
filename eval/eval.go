// Package eval scores predicted same-entity pairs against ground truth:
// precision, recall and F1 over score thresholds, and the area under the
// precision/recall curve.
package eval

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/integrate"

	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/internal/lineio"
)

// Pair is an ordered pair of object ids.
type Pair struct {
	A, B string
}

// Scores maps pairs to their score. A later line for the same pair wins.
type Scores map[Pair]float64

// ParseScores parses "a b [score]" lines separated by any whitespace.
// A missing score counts as 1.
func ParseScores(lines []string) (Scores, error) {
	scores := make(Scores, len(lines))
	for i, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			return nil, errors.NewMalformedRecord("line %d: expected at least 2 fields, got %d", i+1, len(tokens))
		}
		v := 1.0
		if len(tokens) > 2 {
			var err error
			if v, err = strconv.ParseFloat(tokens[2], 64); err != nil {
				return nil, errors.NewMalformedRecord("line %d: score %q is not a number", i+1, tokens[2])
			}
		}
		scores[Pair{tokens[0], tokens[1]}] = v
	}
	return scores, nil
}

// ReadScores loads a pair file.
func ReadScores(path string) (Scores, error) {
	lines, err := lineio.ReadLines(path)
	if err != nil {
		return nil, err
	}
	scores, err := ParseScores(lines)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return scores, nil
}

// positives returns the truth pairs labelled with a score above zero.
func positives(truth Scores) map[Pair]bool {
	pos := make(map[Pair]bool, len(truth))
	for p, v := range truth {
		if v > 0 {
			pos[p] = true
		}
	}
	return pos
}

// Point is the quality of predictions kept at one threshold.
type Point struct {
	Threshold float64 `json:"threshold"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Thresholds returns 0.0, 0.1, ..., 1.0.
func Thresholds() []float64 {
	ts := make([]float64, 11)
	for i := range ts {
		ts[i] = float64(i) / 10
	}
	return ts
}

// Evaluate computes a Point per threshold. A prediction is kept when its
// score is >= the threshold. Zero denominators give 0.
func Evaluate(pred, truth Scores, thresholds []float64) []Point {
	pos := positives(truth)
	points := make([]Point, 0, len(thresholds))
	for _, t := range thresholds {
		var tp, kept int
		for p, v := range pred {
			if v < t {
				continue
			}
			kept++
			if pos[p] {
				tp++
			}
		}
		pt := Point{
			Threshold: t,
			Precision: ratio(tp, kept),
			Recall:    ratio(tp, len(pos)),
		}
		if pt.Precision+pt.Recall > 0 {
			pt.F1 = 2 * pt.Precision * pt.Recall / (pt.Precision + pt.Recall)
		}
		points = append(points, pt)
	}
	return points
}

// AUC walks predictions from highest to lowest score (ties by pair) and
// integrates precision over recall with the trapezoid rule. The curve starts
// at recall 0, precision 0.
func AUC(pred, truth Scores) float64 {
	if len(pred) == 0 {
		return 0
	}
	pos := positives(truth)

	ranked := make([]Pair, 0, len(pred))
	for p := range pred {
		ranked = append(ranked, p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := pred[ranked[i]], pred[ranked[j]]
		if si != sj {
			return si > sj
		}
		if ranked[i].A != ranked[j].A {
			return ranked[i].A < ranked[j].A
		}
		return ranked[i].B < ranked[j].B
	})

	recall := make([]float64, 0, len(ranked)+1)
	precision := make([]float64, 0, len(ranked)+1)
	recall = append(recall, 0)
	precision = append(precision, 0)

	tp := 0
	for i, p := range ranked {
		if pos[p] {
			tp++
		}
		recall = append(recall, ratio(tp, len(pos)))
		precision = append(precision, ratio(tp, i+1))
	}
	return integrate.Trapezoidal(recall, precision)
}

// Report is the outcome of evaluating one prediction file.
type Report struct {
	Predictions int     `json:"predictions"`
	Positives   int     `json:"positives"`
	Points      []Point `json:"points"`
	AUC         float64 `json:"auc"`
}

// Files evaluates the predictions at predPath against truthPath.
func Files(predPath, truthPath string) (*Report, error) {
	pred, err := ReadScores(predPath)
	if err != nil {
		return nil, err
	}
	truth, err := ReadScores(truthPath)
	if err != nil {
		return nil, err
	}
	return &Report{
		Predictions: len(pred),
		Positives:   len(positives(truth)),
		Points:      Evaluate(pred, truth, Thresholds()),
		AUC:         AUC(pred, truth),
	}, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
