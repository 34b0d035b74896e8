package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/download"
	"github.com/rutooro/translation-manager/internal/logger"
)

func newDownloadCmd(g *globalOptions) *cobra.Command {
	var (
		source string
		output string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the raw English–Rutooro dataset",
		Long: `Download English–Rutooro sentence pairs and save them as a JSON array of
{"translation": {"en": ..., "ttj": ...}} records.

Sources:
  hf        - HuggingFace dataset michsethowusu/english-tooro_sentence-pairs_mt560
  many-eng  - MaNy-Eng v1.0 TSV release`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := download.ParseSource(source); err != nil {
				return err
			}

			client := download.New(download.Options{
				HFRowsURL:  g.cfg.Dataset.HFRowsURL,
				HFDataset:  g.cfg.Dataset.HFDataset,
				HFPageSize: g.cfg.Dataset.HFPageSize,
				ManyEngURL: g.cfg.Dataset.ManyEngURL,
				Timeout:    g.cfg.Dataset.HTTPTimeout,
			})

			logger.Log.Info("Downloading dataset", zap.String("source", source))
			n, err := download.Run(cmd.Context(), client, source, output)
			if err != nil {
				return err
			}

			logger.Log.Info("Dataset saved", zap.String("path", output), zap.Int("records", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved dataset to %s (%d records)\n", output, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(download.SourceHF), "dataset source: hf or many-eng")
	cmd.Flags().StringVarP(&output, "output", "o", download.DefaultOutput, "output JSON file")
	return cmd
}
