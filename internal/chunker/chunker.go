// Package chunker groups sentences into translator batches by estimated token count.
package chunker

import "unicode/utf8"

// DefaultMaxTokens is the default maximum tokens per chunk.
// The seq2seq translator Lambda handles ~3000 input tokens per batch safely.
const DefaultMaxTokens = 3000

// EstimateTokens estimates the token count for a text.
// Uses ~4 characters per token; runes are counted rather than bytes so
// accented text is not overestimated.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}

// ChunkByTokens splits texts into chunks that don't exceed maxTokens and,
// when maxTexts > 0, hold at most maxTexts texts.
// Each text is kept whole - never split mid-text.
func ChunkByTokens(texts []string, maxTokens, maxTexts int) [][]string {
	if len(texts) == 0 {
		return nil
	}

	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var chunks [][]string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			currentTokens = 0
		}
	}

	for _, text := range texts {
		textTokens := EstimateTokens(text)

		// An oversized text gets its own chunk
		if textTokens > maxTokens {
			flush()
			chunks = append(chunks, []string{text})
			continue
		}

		if currentTokens+textTokens > maxTokens || (maxTexts > 0 && len(current) >= maxTexts) {
			flush()
		}

		current = append(current, text)
		currentTokens += textTokens
	}
	flush()

	return chunks
}

// Flatten joins chunk results back into a single list in order.
func Flatten(chunks [][]string) []string {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]string, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
