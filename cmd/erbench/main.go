package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/cmd/erbench/commands"
	"github.com/teranos/erbench/errors"
	"github.com/teranos/erbench/logger"
)

var rootCmd = &cobra.Command{
	Use:   "erbench",
	Short: "erbench - Entity resolution benchmark preparation",
	Long: `erbench - Entity resolution benchmark preparation.

erbench turns a CiteSeer-style author/paper record dump into cross-validation
folds of relational feature files for collective entity resolution.

Available commands:
  prep    - Partition, mangle and fold records, then write feature files
  eval    - Score predicted pairs against a truth file
  runs    - Inspect the run ledger
  am      - Manage erbench configuration ("I am")
  version - Show build information

Examples:
  erbench prep --input citeseer.txt --folds 5 --seed 7 --out-dir folds/
  erbench eval predictions.txt folds/sameAuthor_truth.0.txt
  erbench runs ls
  erbench am show --format yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json")
		if cfg, err := am.Load(); err == nil && cfg.Log.JSON {
			jsonLogs = true
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results and logs as JSON")

	// Add commands
	rootCmd.AddCommand(commands.PrepCmd)
	rootCmd.AddCommand(commands.EvalCmd)
	rootCmd.AddCommand(commands.RunsCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
