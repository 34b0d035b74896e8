package dataset

import (
	"github.com/rutooro/translation-manager/internal/domain"
	"github.com/rutooro/translation-manager/internal/normalize"
)

// Stats counts what happened to each record during deduplication.
type Stats struct {
	Read      int `json:"read"`
	Kept      int `json:"kept"`
	Malformed int `json:"malformed"`
	Empty     int `json:"empty"`
	Duplicate int `json:"duplicate"`
}

// Deduplicate normalizes both sides of every record and returns the unique
// pairs in first-seen order. Records without a usable source or target,
// pairs that normalize to an empty side, and repeated pairs are skipped.
func Deduplicate(records []domain.RawRecord) ([]domain.TranslationPair, Stats) {
	stats := Stats{Read: len(records)}
	pairs := make([]domain.TranslationPair, 0, len(records))
	seen := make(map[domain.TranslationPair]struct{}, len(records))

	for _, rec := range records {
		src, tgt, ok := ExtractPair(rec)
		if !ok {
			stats.Malformed++
			continue
		}

		pair := domain.TranslationPair{
			Source: normalize.Text(src),
			Target: normalize.Text(tgt),
		}
		if pair.Source == "" || pair.Target == "" {
			stats.Empty++
			continue
		}

		if _, dup := seen[pair]; dup {
			stats.Duplicate++
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}

	stats.Kept = len(pairs)
	return pairs, stats
}
