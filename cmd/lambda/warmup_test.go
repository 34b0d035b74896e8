package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/rutooro/translation-manager/internal/domain"
	"github.com/rutooro/translation-manager/internal/handler"
	"github.com/rutooro/translation-manager/internal/router"
)

type fakeLambda struct {
	mu    sync.Mutex
	calls []*lambdasdk.InvokeInput
	err   error
}

func (f *fakeLambda) Invoke(_ context.Context, in *lambdasdk.InvokeInput, _ ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if in.InvocationType == types.InvocationTypeEvent {
		return &lambdasdk.InvokeOutput{StatusCode: 202}, nil
	}

	var req router.TranslatorRequest
	if err := json.Unmarshal(in.Payload, &req); err != nil {
		return nil, err
	}
	resp := router.TranslatorResponse{Translations: make([][]string, len(req.Chunks))}
	for i, chunk := range req.Chunks {
		for _, text := range chunk {
			resp.Translations[i] = append(resp.Translations[i], strings.ToUpper(text))
		}
	}
	body, _ := json.Marshal(resp)
	return &lambdasdk.InvokeOutput{Payload: body}, nil
}

func init() {
	WarmupDelay = 0
}

func TestIsWarmupEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       string
		want        bool
		concurrency int
	}{
		{"warmup without concurrency", `{"source":"warmup"}`, true, 0},
		{"warmup with concurrency", `{"source":"warmup","concurrency":3}`, true, 3},
		{"negative concurrency", `{"source":"warmup","concurrency":-2}`, true, 0},
		{"other source", `{"source":"aws.events"}`, false, 0},
		{"translate request", `{"texts":["hi"],"direction":"en-ttj"}`, false, 0},
		{"not an object", `["warmup"]`, false, 0},
		{"invalid json", `{`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := IsWarmupEvent(json.RawMessage(tt.event))
			if ok != tt.want {
				t.Fatalf("IsWarmupEvent(%s) ok = %v, want %v", tt.event, ok, tt.want)
			}
			if ok && ev.Concurrency != tt.concurrency {
				t.Errorf("Concurrency = %d, want %d", ev.Concurrency, tt.concurrency)
			}
		})
	}
}

func TestHandleWarmup_SelfInvokes(t *testing.T) {
	fake := &fakeLambda{}

	res, err := HandleWarmup(context.Background(), fake, "rutooro-manager-dev", &WarmupEvent{Source: WarmupSource, Concurrency: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 || res.Body.Status != "warm" || res.Body.InstancesWarmed != 5 {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fake.calls) != 4 {
		t.Fatalf("expected 4 invocations, got %d", len(fake.calls))
	}

	for _, c := range fake.calls {
		if aws.ToString(c.FunctionName) != "rutooro-manager-dev" {
			t.Errorf("FunctionName = %q", aws.ToString(c.FunctionName))
		}
		if c.InvocationType != types.InvocationTypeEvent {
			t.Errorf("InvocationType = %q, want Event", c.InvocationType)
		}
		var child WarmupEvent
		if err := json.Unmarshal(c.Payload, &child); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if child.Source != WarmupSource || child.Concurrency != 0 {
			t.Errorf("child payload = %+v, want warmup with concurrency 0", child)
		}
	}
}

func TestHandleWarmup_InvokeFailure(t *testing.T) {
	fake := &fakeLambda{err: errors.New("throttled")}

	res, err := HandleWarmup(context.Background(), fake, "fn", &WarmupEvent{Source: WarmupSource, Concurrency: 2})
	if err != nil {
		t.Fatalf("warmup must not fail: %v", err)
	}
	if res.Body.InstancesWarmed != 1 {
		t.Errorf("InstancesWarmed = %d, want 1", res.Body.InstancesWarmed)
	}
}

func TestHandleWarmup_UnknownFunction(t *testing.T) {
	fake := &fakeLambda{}

	res, _ := HandleWarmup(context.Background(), fake, "", &WarmupEvent{Source: WarmupSource, Concurrency: 2})
	if res.Body.InstancesWarmed != 1 {
		t.Errorf("InstancesWarmed = %d, want 1", res.Body.InstancesWarmed)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no invocations, got %d", len(fake.calls))
	}
}

func newTestApp(fake *fakeLambda) *app {
	r := router.NewWithClient(fake, router.Options{FunctionPrefix: "rutooro", Environment: "test"})
	return &app{handler: handler.New(r, 100, 0), lambda: fake, functionName: "rutooro-manager-test"}
}

func TestAppHandle(t *testing.T) {
	fake := &fakeLambda{}
	a := newTestApp(fake)

	out, err := a.handle(context.Background(), json.RawMessage(`{"texts":["oraire ota?","webale"],"direction":"ttj-en"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, ok := out.(*domain.Response)
	if !ok {
		t.Fatalf("unexpected response type %T", out)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected response error: %s", resp.Error)
	}
	if len(resp.Translations) != 2 || resp.Translations[0] != "ORAIRE OTA?" || resp.Translations[1] != "WEBALE" {
		t.Errorf("Translations = %v", resp.Translations)
	}
	if got := aws.ToString(fake.calls[0].FunctionName); got != "rutooro-translator-ttj-en-test" {
		t.Errorf("invoked %q", got)
	}
}

func TestAppHandle_Warmup(t *testing.T) {
	fake := &fakeLambda{}
	a := newTestApp(fake)

	out, err := a.handle(context.Background(), json.RawMessage(`{"source":"warmup"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out.(*WarmupResult); !ok {
		t.Fatalf("expected *WarmupResult, got %T", out)
	}
	if len(fake.calls) != 0 {
		t.Errorf("warmup without concurrency must not invoke anything")
	}
}

func TestAppHandle_InvalidRequest(t *testing.T) {
	a := newTestApp(&fakeLambda{})

	if _, err := a.handle(context.Background(), json.RawMessage(`{"texts":"not a list"}`)); err == nil {
		t.Error("expected an error for a malformed request")
	}
}
