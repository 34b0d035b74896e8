package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/config"
	"github.com/rutooro/translation-manager/internal/logger"
	"github.com/rutooro/translation-manager/internal/router"
)

// Version is set at build time
var Version = "0.1.0"

// globalOptions holds the persistent flags and the configuration they load.
type globalOptions struct {
	cfgFile   string
	logLevel  string
	logFormat string
	cfg       *config.Config
}

// newRouter builds the Lambda-backed router. Tests replace it with one
// using a fake Lambda client.
var newRouter = func(ctx context.Context, cfg *config.Config) (*router.Router, error) {
	return router.New(ctx, router.Options{
		FunctionPrefix: cfg.Translator.FunctionPrefix,
		Environment:    cfg.Environment,
		MaxLength:      cfg.Translator.MaxLength,
	})
}

// NewRootCommand builds the ttj command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "ttj",
		Short: "English–Rutooro translation toolkit",
		Long: `ttj prepares English–Rutooro parallel data and drives the translation models.

Commands:
  download    - Fetch raw sentence pairs from a public source
  preprocess  - Clean, deduplicate and split a raw dataset
  translate   - Translate text with the deployed models
  evaluate    - Score predictions with BLEU and chrF++
  serve       - Run the interactive demo server

Example:
  ttj download --source hf
  ttj preprocess data/english_rutooro.json data/clean --seed 42
  ttj translate "How are you?" --direction en-ttj`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(
		newDownloadCmd(g),
		newPreprocessCmd(g),
		newTranslateCmd(g),
		newEvaluateCmd(g),
		newServeCmd(g),
	)
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// init loads configuration and sets up the global logger.
func (g *globalOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load(g.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	g.cfg = cfg

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})
	logger.Log.Debug("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("command", cmd.Name()),
	)
	return nil
}
