package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/display"
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/ixgest/citeseer"
	"github.com/teranos/erbench/ledger"
	"github.com/teranos/erbench/logger"
	"github.com/teranos/erbench/similarity"
)

// PrepCmd represents the prep command
var PrepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Prepare benchmark folds from a record file",
	Long: `Prepare entity resolution benchmark folds from a CiteSeer-style record file.

Records are grouped into entity groups (author clusters connected through
shared paper clusters), optionally mangled, dealt round-robin into folds and
written as nine tab-delimited feature files per fold:
  authorName, paperTitle, authorOf, sameAuthor, samePaper,
  simName, simTitle, sameInitials, sameNumTokens

Every flag may also come from the [prep] section of am.toml.

Examples:
  erbench prep --input citeseer.txt --folds 5 --seed 7 --out-dir folds/
  erbench prep --input citeseer.txt --mangle-prob 0.1 --write-truth
  erbench prep --input citeseer.txt --name-similarity monge_elkan --json`,
	Args: cobra.NoArgs,
	RunE: runPrep,
}

func init() {
	flags := PrepCmd.Flags()
	flags.String("input", "", "Record file to read (required)")
	flags.Int("folds", am.DefaultFolds, "Number of folds (>= 1)")
	flags.Int64("seed", am.DefaultSeed, "Random seed for mangling and fold assignment")
	flags.String("out-dir", am.DefaultOutDir, "Directory for fold files")
	flags.Float64("sim-threshold", am.DefaultSimThreshold, "Minimum similarity for simName/simTitle lines, in (0,1]")
	flags.Float64("mangle-prob", am.DefaultMangleProb, "Per-character mangle probability, in [0,1]")
	flags.String("name-similarity", am.DefaultNameSimilarity, "Author name similarity: "+strings.Join(similarity.Names(), ", "))
	flags.String("title-similarity", am.DefaultTitleSimilarity, "Paper title similarity: "+strings.Join(similarity.Names(), ", "))
	flags.Bool("write-truth", false, "Also write sameAuthor_truth/samePaper_truth fold files")
	flags.Bool("no-ledger", false, "Do not record this run in the run ledger")
	flags.String("db", "", "Run ledger path (default from database.path)")
}

// prepFlagKeys maps prep flags to their config keys
var prepFlagKeys = map[string]string{
	"input":            "prep.input",
	"folds":            "prep.folds",
	"seed":             "prep.seed",
	"out-dir":          "prep.out_dir",
	"sim-threshold":    "prep.sim_threshold",
	"mangle-prob":      "prep.mangle_prob",
	"name-similarity":  "prep.name_similarity",
	"title-similarity": "prep.title_similarity",
	"write-truth":      "prep.write_truth",
}

func loadPrepConfig(cmd *cobra.Command) (*am.Config, error) {
	v := am.GetViper()
	for flag, key := range prepFlagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, errors.Wrapf(err, "failed to bind --%s", flag)
		}
	}

	cfg, err := am.LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); noLedger {
		cfg.Database.Enabled = false
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if cfg.Prep.Input == "" {
		return nil, errors.WithHint(
			errors.NewInvalidConfig("no input file"),
			"pass --input or set prep.input in am.toml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPrep(cmd *cobra.Command, args []string) error {
	useJSON := display.ShouldOutputJSON(cmd)

	cfg, err := loadPrepConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	processor := citeseer.NewCiteseerIxProcessor(cfg.Prep, logger.ComponentLogger("prep"))
	processor.SetMetricsTextfile(cfg.Metrics.Textfile)

	if !useJSON {
		pterm.DefaultHeader.WithFullWidth().Printf("erbench prep - Benchmark Fold Generation")
		pterm.Println()
		pterm.Info.Printf("Input: %s\n", cfg.Prep.Input)
		pterm.Info.Printf("Folds: %d, seed: %d, output: %s\n", cfg.Prep.Folds, cfg.Prep.Seed, cfg.Prep.OutDir)
		pterm.Info.Printf("Similarity: %s (names), %s (titles), threshold %g\n",
			cfg.Prep.NameSimilarity, cfg.Prep.TitleSimilarity, cfg.Prep.SimThreshold)
		if verbosity, _ := cmd.Flags().GetCount("verbose"); verbosity > 0 {
			pterm.Info.Printf("Log level: %s\n", logger.LevelName(verbosity))
		}
		if cfg.Prep.MangleProb > 0 {
			pterm.Warning.Printf("Mangling enabled: p=%g\n", cfg.Prep.MangleProb)
		}
		pterm.Println()
	}

	var spinner *pterm.SpinnerPrinter
	if !useJSON {
		spinner, _ = pterm.DefaultSpinner.Start("Generating folds...")
	}

	result, runErr := processor.Process(ctx)

	if spinner != nil {
		spinner.Stop()
	}

	if cfg.Database.Enabled {
		recordRun(ctx, cfg.GetDatabasePath(), result, runErr)
	}

	if runErr != nil {
		if !useJSON {
			pterm.Error.Printf("Prep run %s failed\n", processor.RunID())
		}
		return runErr
	}

	if useJSON {
		return display.WriteJSON(cmd.OutOrStdout(), result)
	}
	printPrepResult(result)
	return nil
}

// recordRun writes the run to the ledger. Ledger failures are logged and do
// not change the outcome of the run.
func recordRun(ctx context.Context, dbPath string, result *citeseer.PrepResult, runErr error) {
	log := logger.ComponentLogger("ledger")

	database, store, err := openLedger(dbPath)
	if err != nil {
		log.Warnw("Run not recorded", logger.FieldError, err)
		return
	}
	defer database.Close()

	// record even when the run was cancelled
	if err := store.Record(context.WithoutCancel(ctx), ledger.FromPrepResult(result, runErr)); err != nil {
		log.Warnw("Run not recorded", logger.FieldRunID, result.RunID, logger.FieldError, err)
	}
}

func printPrepResult(result *citeseer.PrepResult) {
	pterm.Success.Println(result.Message)
	pterm.Println()

	pterm.Info.Println("Statistics:")
	pterm.Printf("  Run: %s\n", result.RunID)
	pterm.Printf("  Records: %d\n", result.Records)
	pterm.Printf("  Author clusters: %d\n", result.AuthorClusters)
	pterm.Printf("  Entity groups: %d (largest %d)\n", result.EntityGroups, result.LargestGroup)
	if result.MangledNames+result.MangledTitles > 0 {
		pterm.Printf("  Mangled: %d names, %d titles\n", result.MangledNames, result.MangledTitles)
	}
	pterm.Printf("  Clusters per fold: %.1f ± %.1f\n", result.ClusterBalance.Mean, result.ClusterBalance.StdDev)
	pterm.Printf("  Records per fold: %.1f ± %.1f\n", result.RecordBalance.Mean, result.RecordBalance.StdDev)
	if result.PeakRSSBytes > 0 {
		pterm.Printf("  Peak RSS: %.1f MiB\n", float64(result.PeakRSSBytes)/(1<<20))
	}
	pterm.Printf("  Processing time: %s\n", result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	pterm.Println()

	rows := make([][]string, 0, len(result.Folds))
	for _, f := range result.Folds {
		rows = append(rows, []string{
			fmt.Sprint(f.Fold),
			fmt.Sprint(f.AuthorClusters),
			fmt.Sprint(f.Records),
			fmt.Sprint(f.Lines["sameAuthor"]),
			fmt.Sprint(f.Lines["simName"]),
			fmt.Sprint(f.Lines["simTitle"]),
		})
	}
	_ = display.Table([]string{"Fold", "Clusters", "Records", "sameAuthor", "simName", "simTitle"}, rows)

	if result.ManifestPath != "" {
		pterm.Info.Printf("Manifest: %s\n", result.ManifestPath)
	}
	if result.MetricsPath != "" {
		pterm.Info.Printf("Metrics: %s\n", result.MetricsPath)
	}
}
