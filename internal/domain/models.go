// Package domain contains the core domain types for the translation manager.
package domain

// Request is the input to the translation manager.
// Direction takes precedence over SourceLang/TargetLang when both are set.
type Request struct {
	Texts      []string `json:"texts"`
	Direction  string   `json:"direction,omitempty"`
	SourceLang string   `json:"sourceLang,omitempty"`
	TargetLang string   `json:"targetLang,omitempty"`
}

// Response is the output from the translation manager.
type Response struct {
	Translations    []string `json:"translations,omitempty"`
	ChunksProcessed int      `json:"chunksProcessed,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Scores holds corpus-level quality metrics for a set of translations.
type Scores struct {
	BLEU float64 `json:"bleu"`
	ChrF float64 `json:"chrf"`
}
