// Package main contains the Lambda warmup handler for preventing cold starts.
// CloudWatch Events trigger this handler periodically to keep Lambda instances warm.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rutooro/translation-manager/internal/logger"
	"github.com/rutooro/translation-manager/internal/router"
)

const (
	// WarmupSource identifies warmup events from CloudWatch
	WarmupSource = "warmup"

	// maxParallelInvokes bounds concurrent self-invocations
	maxParallelInvokes = 10
)

// WarmupDelay ensures instances overlap to create true concurrency
var WarmupDelay = 75 * time.Millisecond

// WarmupEvent represents the CloudWatch Event payload for warmup
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the body returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// WarmupResult is the full warmup reply
type WarmupResult struct {
	StatusCode int            `json:"statusCode"`
	Body       WarmupResponse `json:"body"`
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var raw struct {
		Source      *string  `json:"source"`
		Concurrency *float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &raw); err != nil {
		return nil, false
	}
	if raw.Source == nil || *raw.Source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: WarmupSource}
	if raw.Concurrency != nil && *raw.Concurrency > 0 {
		warmup.Concurrency = int(*raw.Concurrency)
	}
	return warmup, true
}

// HandleWarmup processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func HandleWarmup(ctx context.Context, client router.Invoker, functionName string, warmup *WarmupEvent) (*WarmupResult, error) {
	instancesWarmed := 1 // This instance counts as 1

	if warmup.Concurrency > 0 {
		if err := selfInvoke(ctx, client, functionName, warmup.Concurrency); err != nil {
			logger.Log.Warn("Warmup self-invoke failed",
				zap.String("function", functionName),
				zap.Int("concurrency", warmup.Concurrency),
				zap.Error(err),
			)
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	// Brief delay to ensure instances overlap
	time.Sleep(WarmupDelay)

	return &WarmupResult{
		StatusCode: 200,
		Body: WarmupResponse{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}, nil
}

// selfInvoke invokes functionName count times asynchronously to create
// additional warm instances.
func selfInvoke(ctx context.Context, client router.Invoker, functionName string, count int) error {
	if functionName == "" {
		return errors.New("function name is unknown")
	}

	// Child invocations carry concurrency 0 so they never recurse
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelInvokes)
	for range count {
		g.Go(func() error {
			_, err := client.Invoke(gctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
