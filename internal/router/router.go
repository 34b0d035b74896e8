// Package router routes translation and scoring requests to the model Lambdas.
package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/rutooro/translation-manager/internal/domain"
)

// Invoker is the subset of the Lambda client the router needs.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Options configures function naming and generation limits.
type Options struct {
	FunctionPrefix string
	Environment    string
	MaxLength      int
}

// Router routes translation requests to the appropriate Lambda function.
type Router struct {
	lambdaClient Invoker
	prefix       string
	environment  string
	maxLength    int
}

// TranslatorRequest is the request format for translator Lambdas (chunked mode).
type TranslatorRequest struct {
	Chunks    [][]string `json:"chunks"`
	SrcLang   string     `json:"src_lang"`
	TgtLang   string     `json:"tgt_lang"`
	MaxLength int        `json:"max_length,omitempty"`
}

// TranslatorResponse is the response format from translator Lambdas (chunked mode).
type TranslatorResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// MetricsRequest is the request format for the metrics Lambda.
type MetricsRequest struct {
	Predictions []string `json:"predictions"`
	References  []string `json:"references"`
}

// MetricsResponse is the response format from the metrics Lambda.
type MetricsResponse struct {
	BLEU  float64 `json:"bleu"`
	ChrF  float64 `json:"chrf"`
	Error string  `json:"error,omitempty"`
}

// New creates a Router backed by the default AWS configuration.
func New(ctx context.Context, opts Options) (*Router, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithClient(lambda.NewFromConfig(cfg), opts), nil
}

// NewWithClient creates a Router using the given Lambda client.
func NewWithClient(client Invoker, opts Options) *Router {
	env := opts.Environment
	if env == "" {
		env = "dev"
	}
	prefix := opts.FunctionPrefix
	if prefix == "" {
		prefix = "rutooro"
	}
	return &Router{
		lambdaClient: client,
		prefix:       prefix,
		environment:  env,
		maxLength:    opts.MaxLength,
	}
}

// IsValidPair checks if a language pair can be translated.
func (r *Router) IsValidPair(source, target string) bool {
	_, err := domain.DirectionFor(source, target)
	return err == nil
}

// GetSupportedLanguages returns the supported language codes.
func GetSupportedLanguages() []string {
	return []string{domain.LangEnglish, domain.LangRutooro}
}

// FunctionName returns the translator Lambda serving a direction,
// e.g. rutooro-translator-en-ttj-dev.
func (r *Router) FunctionName(dir domain.Direction) string {
	return fmt.Sprintf("%s-translator-%s-%s", r.prefix, dir, r.environment)
}

// MetricsFunctionName returns the Lambda computing BLEU and chrF++.
func (r *Router) MetricsFunctionName() string {
	return fmt.Sprintf("%s-metrics-%s", r.prefix, r.environment)
}

// TranslateChunks translates all chunks with a single Lambda invocation.
// The result has one entry per chunk, each the same length as its input.
func (r *Router) TranslateChunks(ctx context.Context, dir domain.Direction, chunks [][]string) ([][]string, error) {
	if len(chunks) == 0 {
		return [][]string{}, nil
	}
	if _, err := domain.ParseDirection(string(dir)); err != nil {
		return nil, err
	}

	src, tgt := dir.ModelTags()
	req := TranslatorRequest{
		Chunks:    chunks,
		SrcLang:   src,
		TgtLang:   tgt,
		MaxLength: r.maxLength,
	}

	var resp TranslatorResponse
	if err := r.invokeLambda(ctx, r.FunctionName(dir), req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("translator error: %s", resp.Error)
	}

	if len(resp.Translations) != len(chunks) {
		return nil, fmt.Errorf("translator returned %d chunks, want %d", len(resp.Translations), len(chunks))
	}
	for i := range chunks {
		if len(resp.Translations[i]) != len(chunks[i]) {
			return nil, fmt.Errorf("translator returned %d texts for chunk %d, want %d",
				len(resp.Translations[i]), i, len(chunks[i]))
		}
	}

	return resp.Translations, nil
}

// Translate is a convenience method for translating a single batch (no chunking).
func (r *Router) Translate(ctx context.Context, dir domain.Direction, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	results, err := r.TranslateChunks(ctx, dir, [][]string{texts})
	if err != nil {
		return nil, err
	}

	return results[0], nil
}

// Score computes corpus BLEU and chrF++ through the metrics Lambda.
func (r *Router) Score(ctx context.Context, predictions, references []string) (domain.Scores, error) {
	var resp MetricsResponse
	req := MetricsRequest{Predictions: predictions, References: references}
	if err := r.invokeLambda(ctx, r.MetricsFunctionName(), req, &resp); err != nil {
		return domain.Scores{}, err
	}
	if resp.Error != "" {
		return domain.Scores{}, fmt.Errorf("metrics error: %s", resp.Error)
	}
	return domain.Scores{BLEU: resp.BLEU, ChrF: resp.ChrF}, nil
}

// invokeLambda calls functionName synchronously and decodes its payload into out.
func (r *Router) invokeLambda(ctx context.Context, functionName string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := r.lambdaClient.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: &functionName,
		Payload:      payload,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke %s: %w", functionName, err)
	}

	// Check for Lambda errors
	if result.FunctionError != nil {
		return fmt.Errorf("lambda error from %s: %s", functionName, *result.FunctionError)
	}

	if err := json.Unmarshal(result.Payload, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", functionName, err)
	}
	return nil
}
