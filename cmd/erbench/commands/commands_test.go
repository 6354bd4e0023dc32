package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/eval"
	"github.com/teranos/erbench/features"
	"github.com/teranos/erbench/ixgest/citeseer"
	"github.com/teranos/erbench/ledger"
	"github.com/teranos/erbench/version"
)

// testRoot mirrors the erbench root. Subcommands keep merged persistent
// flags between executions, so every test shares it and sets --json explicitly.
var testRoot = func() *cobra.Command {
	root := &cobra.Command{Use: "erbench", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().CountP("verbose", "v", "")
	root.PersistentFlags().Bool("json", false, "")
	root.AddCommand(PrepCmd, EvalCmd, RunsCmd, AmCmd, VersionCmd)
	return root
}()

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	testRoot.SetOut(&out)
	testRoot.SetErr(&out)
	testRoot.SetArgs(args)
	err := testRoot.Execute()
	return out.String(), err
}

// isolateConfig keeps user and project config files out of the test
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	am.Reset()
	t.Cleanup(am.Reset)
}

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestVersionCmd_JSON(t *testing.T) {
	out, err := execute(t, "version", "--json=true")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Get().Version, info.Version)
	assert.NotEmpty(t, info.Platform)
}

func TestAmCmd(t *testing.T) {
	isolateConfig(t)

	out, err := execute(t, "am", "get", "prep.folds", "--json=false")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, err = execute(t, "am", "get", "prep.no_such_key", "--json=false")
	assert.True(t, errors.IsNotFoundError(err))

	out, err = execute(t, "am", "show", "--format", "yaml", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "name_similarity: levenshtein")

	out, err = execute(t, "am", "show", "--format", "toml", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "[prep]")

	_, err = execute(t, "am", "show", "--format", "xml", "--json=false")
	assert.True(t, errors.IsInvalidConfig(err))

	out, err = execute(t, "am", "validate", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
}

func TestPrepCmd_MissingInput(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "prep", "--input", "", "--no-ledger", "--json=true")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
	assert.Contains(t, errors.FlattenHints(err), "--input")
}

func TestPrepCmd_InvalidThreshold(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "records.txt", "7 | 3 | john_doe | x | y | 101 | 3 | Deep Learning Systems")

	_, err := execute(t, "prep", "--input", input, "--out-dir", dir, "--sim-threshold", "0", "--no-ledger", "--json=true")
	assert.True(t, errors.IsInvalidConfig(err))

	// reset for later tests sharing the flag set
	require.NoError(t, PrepCmd.Flags().Set("sim-threshold", "0.5"))
}

func TestPrepAndRunsCmds(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	outDir := filepath.Join(dir, "folds")
	dbPath := filepath.Join(dir, "ledger.db")
	input := writeFile(t, dir, "records.txt",
		"1 | 1 | john_doe | - | - | 10 | 1 | Deep Learning Systems",
		"2 | 1 | j_doe | - | - | 11 | 2 | Learning Deep Systems",
		"3 | 2 | ann_lee | - | - | 12 | 2 | Learning Deep Systems",
		"4 | 3 | bob_ray | - | - | 13 | 3 | Graph Mining",
	)

	out, err := execute(t, "prep",
		"--input", input,
		"--out-dir", outDir,
		"--folds", "2",
		"--seed", "7",
		"--db", dbPath,
		"--no-ledger=false",
		"--json=true")
	require.NoError(t, err)

	var result citeseer.PrepResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 4, result.Records)
	assert.Equal(t, 3, result.AuthorClusters)
	assert.Equal(t, 2, result.EntityGroups)
	require.Len(t, result.Folds, 2)
	assert.FileExists(t, filepath.Join(outDir, "authorName.0.txt"))
	assert.FileExists(t, filepath.Join(outDir, "sameInitials.1.txt"))
	assert.FileExists(t, filepath.Join(outDir, citeseer.ManifestFile))

	out, err = execute(t, "runs", "ls", "--db", dbPath, "--json=true")
	require.NoError(t, err)
	var runs []ledger.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, result.RunID, runs[0].ID)
	assert.Equal(t, ledger.StatusSucceeded, runs[0].Status)

	out, err = execute(t, "runs", "show", result.RunID[:8], "--db", dbPath, "--json=true")
	require.NoError(t, err)
	var run ledger.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, result.RunID, run.ID)
	assert.Len(t, run.Folds, 2)

	_, err = execute(t, "runs", "rm", result.RunID, "--db", dbPath, "--json=true")
	require.NoError(t, err)

	_, err = execute(t, "runs", "show", result.RunID, "--db", dbPath, "--json=true")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestPrepCmd_FailedRunIsRecorded(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger.db")

	_, err := execute(t, "prep",
		"--input", filepath.Join(dir, "missing.txt"),
		"--out-dir", dir,
		"--db", dbPath,
		"--no-ledger=false",
		"--json=true")
	require.Error(t, err)
	assert.True(t, errors.IsFileUnavailable(err))

	out, err := execute(t, "runs", "ls", "--db", dbPath, "--json=true")
	require.NoError(t, err)
	var runs []ledger.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, ledger.StatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "missing.txt")
}

func TestEvalCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	pred := writeFile(t, dir, "pred.txt", "a b 0.9", "a c 0.2")
	truth := writeFile(t, dir, "truth.txt", "a\tb\t1.0")

	out, err := execute(t, "eval", pred, truth, "--json=true")
	require.NoError(t, err)

	var report eval.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Predictions)
	assert.Equal(t, 1, report.Positives)
	require.Len(t, report.Points, 11)
	assert.InDelta(t, 1.0, report.Points[5].Precision, 1e-9)
	assert.InDelta(t, 1.0, report.Points[5].Recall, 1e-9)
}

func TestEvalCmd_ExamplesNameWrittenFiles(t *testing.T) {
	assert.Contains(t, EvalCmd.Long, features.FileName(features.SameAuthorTruth, 0))
}

func TestEvalCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "eval", "/nonexistent/pred.txt", "/nonexistent/truth.txt", "--json=true")
	assert.True(t, errors.IsFileUnavailable(err))
}
