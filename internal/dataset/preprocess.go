package dataset

import (
	"errors"
	"fmt"
)

// DefaultOutputDir is used when no output directory is given.
const DefaultOutputDir = "data/clean"

// Options configures a preprocessing run.
type Options struct {
	Input     string
	OutputDir string
	// Seed makes the split reproducible; nil shuffles differently each run.
	Seed *uint64
}

// Result describes a completed preprocessing run.
type Result struct {
	Stats  Stats
	Splits Splits
	Paths  []string
}

// Preprocess reads the raw dataset at opts.Input, deduplicates it and
// writes the three splits into opts.OutputDir.
func Preprocess(opts Options) (*Result, error) {
	if opts.Input == "" {
		return nil, errors.New("input path is required")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}

	records, err := ReadRecords(opts.Input)
	if err != nil {
		return nil, err
	}

	pairs, stats := Deduplicate(records)
	splits := Split(pairs, NewRand(opts.Seed))

	paths, err := WriteSplits(opts.OutputDir, splits)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	return &Result{Stats: stats, Splits: splits, Paths: paths}, nil
}
