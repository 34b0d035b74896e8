package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/evaluate"
	"github.com/rutooro/translation-manager/internal/logger"
)

func newEvaluateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate PRED REF",
		Short: "Score predictions against references with BLEU and chrF++",
		Long: `Score the hypotheses in PRED against the references in REF, one sentence
per line, and print corpus BLEU and chrF++.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRouter(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}

			scores, err := evaluate.Evaluate(cmd.Context(), r, args[0], args[1])
			if err != nil {
				return err
			}

			logger.Log.Info("Evaluation complete",
				zap.String("predictions", args[0]),
				zap.String("references", args[1]),
				zap.Float64("bleu", scores.BLEU),
				zap.Float64("chrf", scores.ChrF),
			)
			fmt.Fprintln(cmd.OutOrStdout(), evaluate.Format(scores))
			return nil
		},
	}
}
