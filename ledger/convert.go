package ledger

import (
	"github.com/teranos/erbench/ixgest/citeseer"
	"github.com/teranos/erbench/version"
)

// FromPrepResult converts a processor result into a ledger row. runErr is the
// error Process returned, if any.
func FromPrepResult(result *citeseer.PrepResult, runErr error) *Run {
	run := &Run{
		ID:              result.RunID,
		Status:          StatusSucceeded,
		Input:           result.Params.Input,
		OutDir:          result.Params.OutDir,
		NumFolds:        result.Params.Folds,
		Seed:            result.Params.Seed,
		SimThreshold:    result.Params.SimThreshold,
		MangleProb:      result.Params.MangleProb,
		NameSimilarity:  result.Params.NameSimilarity,
		TitleSimilarity: result.Params.TitleSimilarity,
		WriteTruth:      result.Params.WriteTruth,
		Records:         result.Records,
		AuthorClusters:  result.AuthorClusters,
		EntityGroups:    result.EntityGroups,
		ToolVersion:     version.Get().Version,
		StartedAt:       result.StartTime,
		FinishedAt:      result.EndTime,
	}
	if runErr != nil || !result.Success {
		run.Status = StatusFailed
		run.Error = result.Message
		if runErr != nil {
			run.Error = runErr.Error()
		}
	}

	for _, f := range result.Folds {
		run.Folds = append(run.Folds, Fold{
			Fold:           f.Fold,
			AuthorClusters: f.AuthorClusters,
			Records:        f.Records,
			Names:          f.Names,
			Titles:         f.Titles,
			DurationMS:     f.DurationMS,
			Lines:          f.Lines,
		})
	}
	return run
}
