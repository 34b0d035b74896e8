package dataset

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"

	"github.com/rutooro/translation-manager/internal/domain"
)

// Splits is a disjoint, exhaustive partition of a pair collection.
type Splits struct {
	Train []domain.TranslationPair
	Dev   []domain.TranslationPair
	Test  []domain.TranslationPair
}

// Subset returns the pairs of the named split.
func (s Splits) Subset(name domain.SplitName) []domain.TranslationPair {
	switch name {
	case domain.SplitTrain:
		return s.Train
	case domain.SplitDev:
		return s.Dev
	case domain.SplitTest:
		return s.Test
	}
	return nil
}

// Len returns the total number of pairs across all splits.
func (s Splits) Len() int {
	return len(s.Train) + len(s.Dev) + len(s.Test)
}

// Bounds returns the exclusive end indices of the train and dev ranges for
// n pairs: floor(0.8n) and floor(0.9n).
func Bounds(n int) (trainEnd, devEnd int) {
	return n * 8 / 10, n * 9 / 10
}

// NewRand returns a PCG-backed source. A nil seed draws one from the
// runtime's randomly seeded generator, so splits differ between runs.
func NewRand(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed))
}

// Split shuffles a copy of pairs with rng and cuts it 80/10/10.
// The input slice is not modified.
func Split(pairs []domain.TranslationPair, rng *rand.Rand) Splits {
	shuffled := slices.Clone(pairs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	trainEnd, devEnd := Bounds(len(shuffled))
	return Splits{
		Train: shuffled[:trainEnd:trainEnd],
		Dev:   shuffled[trainEnd:devEnd:devEnd],
		Test:  shuffled[devEnd:],
	}
}

// WriteSplits writes train.json, dev.json and test.json into dir, creating
// it if needed, and returns the written paths in that order. Each file is
// replaced atomically; a failure leaves earlier splits intact.
func WriteSplits(dir string, s Splits) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, 0, len(domain.SplitNames))
	for _, name := range domain.SplitNames {
		subset := s.Subset(name)
		records := make([]domain.Record, 0, len(subset))
		for _, p := range subset {
			records = append(records, p.Record())
		}

		path := filepath.Join(dir, string(name)+".json")
		if err := WriteJSON(path, records); err != nil {
			return paths, fmt.Errorf("write %s split: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
