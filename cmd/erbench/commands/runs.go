package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/erbench/display"
	"github.com/teranos/erbench/ledger"
)

// RunsCmd represents the runs command
var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run ledger",
	Long: `Inspect prep runs recorded in the run ledger.

Examples:
  erbench runs ls               # List recent runs, newest first
  erbench runs ls --limit 50    # List more runs
  erbench runs show 3f2a        # Show a run and its folds by id prefix
  erbench runs rm 3f2a          # Remove a run from the ledger`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsLs,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run and its folds",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a run from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsRm,
}

func init() {
	RunsCmd.PersistentFlags().String("db", "", "Run ledger path (default from database.path)")
	runsLsCmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 for all)")

	RunsCmd.AddCommand(runsLsCmd)
	RunsCmd.AddCommand(runsShowCmd)
	RunsCmd.AddCommand(runsRmCmd)
}

func runRunsLs(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	limit, _ := cmd.Flags().GetInt("limit")

	database, store, err := openLedger(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), runs)
	}

	if len(runs) == 0 {
		pterm.Info.Println("No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			r.Status,
			r.Input,
			fmt.Sprint(r.NumFolds),
			fmt.Sprint(r.Seed),
			fmt.Sprint(r.Records),
			r.Duration().Round(time.Millisecond).String(),
		})
	}
	return display.Table([]string{"ID", "Started", "Status", "Input", "Folds", "Seed", "Records", "Duration"}, rows)
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	database, store, err := openLedger(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), run)
	}
	printRun(run)
	return nil
}

func runRunsRm(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	database, store, err := openLedger(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := store.Delete(cmd.Context(), run.ID); err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), map[string]string{"deleted": run.ID})
	}
	pterm.Success.Printf("Removed run %s\n", run.ID)
	return nil
}

func printRun(run *ledger.Run) {
	status := pterm.Success
	if run.Status != ledger.StatusSucceeded {
		status = pterm.Error
	}
	status.Printf("Run %s %s\n", run.ID, run.Status)
	if run.Error != "" {
		pterm.Printf("  Error: %s\n", run.Error)
	}
	pterm.Printf("  Input: %s\n", run.Input)
	pterm.Printf("  Output: %s\n", run.OutDir)
	pterm.Printf("  Folds: %d, seed: %d, write truth: %t\n", run.NumFolds, run.Seed, run.WriteTruth)
	pterm.Printf("  Similarity: %s (names), %s (titles), threshold %g\n",
		run.NameSimilarity, run.TitleSimilarity, run.SimThreshold)
	pterm.Printf("  Mangle probability: %g\n", run.MangleProb)
	pterm.Printf("  Records: %d, author clusters: %d, entity groups: %d\n",
		run.Records, run.AuthorClusters, run.EntityGroups)
	pterm.Printf("  Started: %s (%s)\n", run.StartedAt.Local().Format(time.DateTime), run.Duration().Round(time.Millisecond))
	if run.ToolVersion != "" {
		pterm.Printf("  erbench: %s\n", run.ToolVersion)
	}
	pterm.Println()

	if len(run.Folds) == 0 {
		return
	}
	rows := make([][]string, 0, len(run.Folds))
	for _, f := range run.Folds {
		rows = append(rows, []string{
			fmt.Sprint(f.Fold),
			fmt.Sprint(f.AuthorClusters),
			fmt.Sprint(f.Records),
			fmt.Sprint(f.Names),
			fmt.Sprint(f.Titles),
			fmt.Sprint(f.Lines["sameAuthor"]),
			fmt.Sprint(f.Lines["simName"]),
			fmt.Sprint(f.DurationMS),
		})
	}
	_ = display.Table([]string{"Fold", "Clusters", "Records", "Names", "Titles", "sameAuthor", "simName", "ms"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
