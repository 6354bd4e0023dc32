package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/erbench/display"
	"github.com/teranos/erbench/eval"
)

// EvalCmd represents the eval command
var EvalCmd = &cobra.Command{
	Use:   "eval <predictions> <truth>",
	Short: "Score predicted pairs against a truth file",
	Long: `Score predicted same-entity pairs against ground truth.

Both files hold one "a b [score]" pair per line; a missing score counts as 1.
Truth pairs with a score above zero are positives. Precision, recall and F1
are reported at thresholds 0.0 to 1.0, plus the area under the
precision/recall curve.

Examples:
  erbench eval predictions.txt folds/sameAuthor_truth.0.txt
  erbench eval predictions.txt folds/sameAuthor_truth.0.txt --json`,
	Args: cobra.ExactArgs(2),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	report, err := eval.Files(args[0], args[1])
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), report)
	}

	pterm.Info.Printf("%d predictions, %d truth positives\n", report.Predictions, report.Positives)
	rows := make([][]string, 0, len(report.Points))
	for _, p := range report.Points {
		rows = append(rows, []string{
			formatFloat(p.Threshold, 1),
			formatFloat(p.Precision, 4),
			formatFloat(p.Recall, 4),
			formatFloat(p.F1, 4),
		})
	}
	if err := display.Table([]string{"Threshold", "Precision", "Recall", "F1"}, rows); err != nil {
		return err
	}
	pterm.Success.Printf("AUC-PR: %s\n", formatFloat(report.AUC, 4))
	return nil
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
