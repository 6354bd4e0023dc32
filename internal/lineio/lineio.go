// Package lineio reads and writes newline-delimited text files.
//
// Every failure is reported as errors.ErrFileUnavailable naming the path, and
// files are closed on all paths.
package lineio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/teranos/erbench/errors"
)

const filePerm = 0644

// maxLineBytes bounds a single line; titles in bibliographic dumps can be long.
const maxLineBytes = 16 * 1024 * 1024

// ReadLines returns all non-empty lines of path, trimmed of surrounding whitespace.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapFileUnavailable(err, path)
	}
	defer f.Close()

	lines, err := readTrimmed(f)
	if err != nil {
		return nil, errors.WrapFileUnavailable(err, path)
	}
	return lines, nil
}

func readTrimmed(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Writer writes lines to a file through a buffer and counts them.
type Writer struct {
	path  string
	f     *os.File
	w     *bufio.Writer
	lines int
}

// Create opens path for writing, truncating any previous content.
func Create(path string) (*Writer, error) {
	return open(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

func open(path string, flag int) (*Writer, error) {
	f, err := os.OpenFile(path, flag, filePerm)
	if err != nil {
		return nil, errors.WrapFileUnavailable(err, path)
	}
	return &Writer{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) error {
	if _, err := w.w.WriteString(s); err != nil {
		return errors.WrapFileUnavailable(err, w.path)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return errors.WrapFileUnavailable(err, w.path)
	}
	w.lines++
	return nil
}

// Lines returns the number of lines written so far.
func (w *Writer) Lines() int {
	return w.lines
}

// Path returns the file being written.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes buffered lines and closes the file. The file is closed even
// when the flush fails.
func (w *Writer) Close() error {
	flushErr := w.w.Flush()
	closeErr := w.f.Close()
	if flushErr != nil {
		return errors.WrapFileUnavailable(flushErr, w.path)
	}
	if closeErr != nil {
		return errors.WrapFileUnavailable(closeErr, w.path)
	}
	return nil
}

// WriteLines replaces the content of path with lines.
func WriteLines(path string, lines []string) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	return writeAll(w, lines)
}

func writeAll(w *Writer, lines []string) error {
	for _, line := range lines {
		if err := w.WriteLine(line); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
