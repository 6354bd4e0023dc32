// Package dedup rewrites line files so each distinct line appears once.
package dedup

import (
	"go.uber.org/zap"

	"github.com/teranos/erbench/internal/lineio"
	"github.com/teranos/erbench/logger"
)

// Result reports line counts before and after a dedup pass.
type Result struct {
	Path   string
	Before int
	After  int
}

// Removed is the number of dropped duplicate lines.
func (r Result) Removed() int { return r.Before - r.After }

// Lines returns the distinct lines in first-seen order.
func Lines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

// File reads path, keeps one copy of every distinct line and overwrites the
// file. Blank lines and surrounding whitespace are dropped on the way.
func File(path string) (Result, error) {
	lines, err := lineio.ReadLines(path)
	if err != nil {
		return Result{}, err
	}
	unique := Lines(lines)
	if err := lineio.WriteLines(path, unique); err != nil {
		return Result{}, err
	}
	return Result{Path: path, Before: len(lines), After: len(unique)}, nil
}

// Files dedups each path in order and stops at the first failure.
func Files(paths []string, log *zap.SugaredLogger) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		r, err := File(p)
		if err != nil {
			return results, err
		}
		log.Debugw("Deduplicated file",
			logger.FieldPath, p,
			logger.FieldCount, r.Before,
			logger.FieldUniqueLines, r.After)
		results = append(results, r)
	}
	return results, nil
}
