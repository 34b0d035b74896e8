// Package main is the entry point for the translation manager Lambda function.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/config"
	"github.com/rutooro/translation-manager/internal/domain"
	"github.com/rutooro/translation-manager/internal/handler"
	"github.com/rutooro/translation-manager/internal/logger"
	"github.com/rutooro/translation-manager/internal/router"
)

// app holds the dependencies shared by every invocation of a warm instance.
type app struct {
	handler      *handler.Handler
	lambda       router.Invoker
	functionName string
}

var (
	initOnce sync.Once
	current  *app
	initErr  error
)

func main() {
	lambda.Start(handleRequest)
}

// setup builds the app once per instance.
func setup(ctx context.Context) (*app, error) {
	initOnce.Do(func() {
		cfg, err := config.Load("")
		if err != nil {
			initErr = err
			return
		}
		logger.Init(logger.Config{Level: cfg.Log.Level, Format: "json"})

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			initErr = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		client := lambdasdk.NewFromConfig(awsCfg)

		r := router.NewWithClient(client, router.Options{
			FunctionPrefix: cfg.Translator.FunctionPrefix,
			Environment:    cfg.Environment,
			MaxLength:      cfg.Translator.MaxLength,
		})
		current = &app{
			handler:      handler.New(r, cfg.Translator.MaxTokens, cfg.Translator.MaxTexts),
			lambda:       client,
			functionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		}
	})
	return current, initErr
}

func handleRequest(ctx context.Context, event json.RawMessage) (any, error) {
	a, err := setup(ctx)
	if err != nil {
		return nil, err
	}
	return a.handle(ctx, event)
}

func (a *app) handle(ctx context.Context, event json.RawMessage) (any, error) {
	// Warmup detection comes before any other processing
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, a.lambda, a.functionName, warmup)
	}

	var req domain.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	logger.Log.Debug("Translation request",
		zap.Int("texts", len(req.Texts)),
		zap.String("direction", req.Direction),
		zap.String("sourceLang", req.SourceLang),
		zap.String("targetLang", req.TargetLang),
	)
	return a.handler.Handle(ctx, req)
}
