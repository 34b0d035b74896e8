package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/domain"
	"github.com/rutooro/translation-manager/internal/evaluate"
	"github.com/rutooro/translation-manager/internal/handler"
	"github.com/rutooro/translation-manager/internal/logger"
)

func newTranslateCmd(g *globalOptions) *cobra.Command {
	var (
		direction string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "translate [TEXT]",
		Short: "Translate text between English and Rutooro",
		Long: `Translate TEXT, or every line of --file, with the deployed model.

Examples:
  ttj translate "How are you?" --direction en-ttj
  ttj translate "Oraire ota?" --direction ttj-en
  ttj translate --file sentences.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := domain.ParseDirection(direction)
			if err != nil {
				return err
			}

			var texts []string
			switch {
			case file != "" && len(args) > 0:
				return errors.New("pass either TEXT or --file, not both")
			case file != "":
				if texts, err = evaluate.ReadLines(file); err != nil {
					return err
				}
			case len(args) > 0:
				texts = []string{strings.Join(args, " ")}
			default:
				return errors.New("nothing to translate: pass TEXT or --file")
			}

			r, err := newRouter(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			h := handler.New(r, g.cfg.Translator.MaxTokens, g.cfg.Translator.MaxTexts)

			resp, err := h.Handle(cmd.Context(), domain.Request{Texts: texts, Direction: string(dir)})
			if err != nil {
				return err
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}

			logger.Log.Debug("Translated",
				zap.String("direction", string(dir)),
				zap.Int("texts", len(texts)),
				zap.Int("chunks", resp.ChunksProcessed),
			)
			for _, t := range resp.Translations {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", string(domain.EnglishToRutooro), "translation direction: en-ttj or ttj-en")
	cmd.Flags().StringVarP(&file, "file", "f", "", "translate each line of this file")
	return cmd
}
