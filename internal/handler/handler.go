// Package handler provides the request handler for the translation manager.
package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rutooro/translation-manager/internal/chunker"
	"github.com/rutooro/translation-manager/internal/domain"
)

// Translator translates pre-chunked texts in one round trip.
type Translator interface {
	TranslateChunks(ctx context.Context, dir domain.Direction, chunks [][]string) ([][]string, error)
}

// Handler chunks incoming texts and forwards them to a Translator.
type Handler struct {
	translator Translator
	maxTokens  int
	maxTexts   int
}

// New creates a Handler. maxTokens <= 0 uses chunker.DefaultMaxTokens and
// maxTexts <= 0 leaves the number of texts per chunk unbounded.
func New(t Translator, maxTokens, maxTexts int) *Handler {
	return &Handler{translator: t, maxTokens: maxTokens, maxTexts: maxTexts}
}

// Handle processes a translation request.
// It chunks the input texts and sends ALL chunks in a single translator call.
// Failures are reported in Response.Error, never as a returned error, so the
// Lambda always answers with a well-formed body.
func (h *Handler) Handle(ctx context.Context, req domain.Request) (*domain.Response, error) {
	dir, err := validateRequest(req)
	if err != nil {
		return &domain.Response{Error: err.Error()}, nil
	}

	// Empty input - return immediately
	if len(req.Texts) == 0 {
		return &domain.Response{Translations: []string{}, ChunksProcessed: 0}, nil
	}

	chunks := chunker.ChunkByTokens(req.Texts, h.maxTokens, h.maxTexts)

	chunkResults, err := h.translator.TranslateChunks(ctx, dir, chunks)
	if err != nil {
		return &domain.Response{Error: fmt.Sprintf("translation failed: %v", err)}, nil
	}

	return &domain.Response{
		Translations:    chunker.Flatten(chunkResults),
		ChunksProcessed: len(chunks),
	}, nil
}

// validateRequest checks the request is valid and resolves its direction.
func validateRequest(req domain.Request) (domain.Direction, error) {
	if req.Texts == nil {
		return "", errors.New("texts is required")
	}
	if req.Direction != "" {
		return domain.ParseDirection(req.Direction)
	}
	if req.SourceLang == "" {
		return "", errors.New("sourceLang is required")
	}
	if req.TargetLang == "" {
		return "", errors.New("targetLang is required")
	}
	if req.SourceLang == req.TargetLang {
		return "", errors.New("sourceLang and targetLang must be different")
	}
	dir, err := domain.DirectionFor(req.SourceLang, req.TargetLang)
	if err != nil {
		return "", fmt.Errorf("no translator for %s→%s", req.SourceLang, req.TargetLang)
	}
	return dir, nil
}
