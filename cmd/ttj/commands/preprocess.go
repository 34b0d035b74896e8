package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/dataset"
	"github.com/rutooro/translation-manager/internal/logger"
	"github.com/rutooro/translation-manager/internal/storage"
)

func newPreprocessCmd(g *globalOptions) *cobra.Command {
	var (
		seed   uint64
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "preprocess INPUT [OUTPUT_DIR]",
		Short: "Clean, deduplicate and split a raw dataset",
		Long: `Normalize every English–Rutooro pair in INPUT, drop duplicates and write
train.json, dev.json and test.json (80/10/10) into OUTPUT_DIR.

INPUT may be a JSON array or JSON Lines. OUTPUT_DIR defaults to data/clean.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := dataset.Options{Input: args[0], OutputDir: dataset.DefaultOutputDir}
			if len(args) == 2 {
				opts.OutputDir = args[1]
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			res, err := dataset.Preprocess(opts)
			if err != nil {
				return err
			}

			logger.Log.Info("Preprocessing complete",
				zap.Int("read", res.Stats.Read),
				zap.Int("kept", res.Stats.Kept),
				zap.Int("malformed", res.Stats.Malformed),
				zap.Int("empty", res.Stats.Empty),
				zap.Int("duplicate", res.Stats.Duplicate),
				zap.Int("train", len(res.Splits.Train)),
				zap.Int("dev", len(res.Splits.Dev)),
				zap.Int("test", len(res.Splits.Test)),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved cleaned splits to %s\n", opts.OutputDir)
			fmt.Fprintf(out, "train: %d  dev: %d  test: %d\n", len(res.Splits.Train), len(res.Splits.Dev), len(res.Splits.Test))

			if !upload {
				return nil
			}

			uploader, err := storage.NewUploader(cmd.Context(), storage.Options{
				Endpoint:  g.cfg.MinIO.Endpoint,
				AccessKey: g.cfg.MinIO.AccessKey,
				SecretKey: g.cfg.MinIO.SecretKey,
				UseSSL:    g.cfg.MinIO.UseSSL,
				Bucket:    g.cfg.MinIO.Bucket,
				Prefix:    g.cfg.MinIO.Prefix,
			})
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			keys, err := uploader.UploadSplits(cmd.Context(), runID, res.Paths)
			if err != nil {
				return err
			}

			logger.Log.Info("Splits uploaded",
				zap.String("run_id", runID),
				zap.String("bucket", uploader.Bucket()),
				zap.Strings("keys", keys),
			)
			fmt.Fprintf(out, "Uploaded run %s to s3://%s\n", runID, uploader.Bucket())
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "shuffle seed for a reproducible split")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the splits to the configured MinIO bucket")
	return cmd
}
