package features

import (
	"path/filepath"
	"strings"

	"github.com/teranos/erbench/internal/lineio"
	"github.com/teranos/erbench/logger"
)

// WriteTruth writes the sameAuthor_truth and samePaper_truth files of a fold
// already written by Fold. Objects are read back from the first column of the
// authorName and paperTitle files, so run it after deduplication to keep the
// object lists small. Paths are added to res.Files.
func (g *Generator) WriteTruth(res *FoldResult) error {
	jobs := []struct {
		objects Relation
		out     Relation
		truth   pairSet
	}{
		{AuthorName, SameAuthorTruth, res.sameAuthor},
		{PaperTitle, SamePaperTruth, res.samePaper},
	}

	for _, job := range jobs {
		out := filepath.Join(g.opts.OutDir, FileName(job.out, res.Fold))
		n, err := writeObjectPairs(res.Files[job.objects], job.truth, out)
		if err != nil {
			return err
		}
		res.Files[job.out] = out
		res.Written[job.out] = n

		g.logger.Debugw("Wrote truth file",
			logger.FieldFold, res.Fold,
			logger.FieldRelation, string(job.out),
			logger.FieldCount, n)
	}
	return nil
}

// writeObjectPairs labels every ordered pair of objects found in objectsPath
// with 1.0 when linked in truth and 0.0 otherwise.
func writeObjectPairs(objectsPath string, truth pairSet, outPath string) (int, error) {
	lines, err := lineio.ReadLines(objectsPath)
	if err != nil {
		return 0, err
	}

	var objects []string
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		id, _, _ := strings.Cut(line, "\t")
		if !seen[id] {
			seen[id] = true
			objects = append(objects, id)
		}
	}

	w, err := lineio.Create(outPath)
	if err != nil {
		return 0, err
	}
	for x0, x1 := range AllPairs(objects) {
		v := "0.0"
		if truth.linked(x0, x1) {
			v = truthValue
		}
		if err := w.WriteLine(join(x0, x1, v)); err != nil {
			w.Close()
			return 0, err
		}
	}
	return w.Lines(), w.Close()
}
