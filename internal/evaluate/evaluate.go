// Package evaluate scores translation hypotheses against references.
package evaluate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rutooro/translation-manager/internal/domain"
)

// ErrLineCountMismatch is returned when hypothesis and reference files
// have a different number of lines.
var ErrLineCountMismatch = errors.New("prediction and reference line counts differ")

// Scorer computes corpus-level BLEU and chrF++.
type Scorer interface {
	Score(ctx context.Context, predictions, references []string) (domain.Scores, error)
}

// ReadLines returns the lines of a UTF-8 text file with surrounding
// whitespace trimmed. A trailing newline does not produce an empty line.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// Evaluate reads one hypothesis per line from predPath and one reference
// per line from refPath and scores them.
func Evaluate(ctx context.Context, s Scorer, predPath, refPath string) (domain.Scores, error) {
	preds, err := ReadLines(predPath)
	if err != nil {
		return domain.Scores{}, err
	}
	refs, err := ReadLines(refPath)
	if err != nil {
		return domain.Scores{}, err
	}
	if len(preds) != len(refs) {
		return domain.Scores{}, fmt.Errorf("%w: %d predictions, %d references", ErrLineCountMismatch, len(preds), len(refs))
	}

	scores, err := s.Score(ctx, preds, refs)
	if err != nil {
		return domain.Scores{}, fmt.Errorf("score: %w", err)
	}
	return scores, nil
}

// Format renders scores the way the evaluate command prints them.
func Format(s domain.Scores) string {
	return fmt.Sprintf("BLEU: %.2f\nchrF++: %.2f", s.BLEU, s.ChrF)
}
