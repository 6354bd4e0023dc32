package bib

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/internal/lineio"
)

// NumFields is the number of '|' separated fields on a record line:
// authorId, authorClusterId, authorName, two unused fields, paperId,
// paperClusterId, title.
const NumFields = 8

var fieldSep = regexp.MustCompile(`\s+\|\s+`)

// Load reads the record file at path and indexes it.
// A line with the wrong field count or a non-numeric id aborts the load.
func Load(path string, logger *zap.SugaredLogger) (*Index, error) {
	lines, err := lineio.ReadLines(path)
	if err != nil {
		return nil, err
	}
	logger.Infow("Read bibliographic entries", "path", path, "count", len(lines))

	idx, err := ParseLines(lines)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	logger.Infow("Indexed records",
		"records", idx.Len(),
		"author_clusters", len(idx.AuthorClusterPapers),
		"paper_clusters", len(idx.PaperClusterAuthors))
	return idx, nil
}

// ParseLines parses already trimmed, non-empty lines. Line numbers in errors
// are 1-based positions in lines.
func ParseLines(lines []string) (*Index, error) {
	idx := NewIndex()
	for i, line := range lines {
		r, err := ParseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		idx.Add(r)
	}
	return idx, nil
}

// ParseLine parses one record line. Underscores in the author name become spaces.
func ParseLine(line string) (*Record, error) {
	tokens := fieldSep.Split(strings.TrimSpace(line), -1)
	if len(tokens) != NumFields {
		return nil, errors.WithHint(
			errors.NewMalformedRecord("expected %d fields, got %d", NumFields, len(tokens)),
			"fields are separated by whitespace-padded '|'")
	}

	var r Record
	var err error
	if r.AuthorID, err = parseID(tokens[0], "author id"); err != nil {
		return nil, err
	}
	if r.AuthorClusterID, err = parseID(tokens[1], "author cluster id"); err != nil {
		return nil, err
	}
	if r.PaperID, err = parseID(tokens[5], "paper id"); err != nil {
		return nil, err
	}
	if r.PaperClusterID, err = parseID(tokens[6], "paper cluster id"); err != nil {
		return nil, err
	}
	r.AuthorName = strings.ReplaceAll(tokens[2], "_", " ")
	r.Title = tokens[7]
	return &r, nil
}

func parseID(token, field string) (int, error) {
	id, err := strconv.Atoi(token)
	if err != nil {
		return 0, errors.NewMalformedRecord("%s %q is not an integer", field, token)
	}
	return id, nil
}
