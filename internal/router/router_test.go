package router

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/rutooro/translation-manager/internal/domain"
)

// fakeLambda records invocations and answers with a canned payload or a
// function computing one from the request.
type fakeLambda struct {
	calls   []*lambda.InvokeInput
	respond func(name string, payload []byte) (*lambda.InvokeOutput, error)
}

func (f *fakeLambda) Invoke(ctx context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.calls = append(f.calls, in)
	return f.respond(aws.ToString(in.FunctionName), in.Payload)
}

// upperTranslator "translates" by upper-casing each text.
func upperTranslator(name string, payload []byte) (*lambda.InvokeOutput, error) {
	var req TranslatorRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	out := TranslatorResponse{Translations: make([][]string, len(req.Chunks))}
	for i, c := range req.Chunks {
		for _, text := range c {
			out.Translations[i] = append(out.Translations[i], strings.ToUpper(text))
		}
	}
	body, _ := json.Marshal(out)
	return &lambda.InvokeOutput{Payload: body}, nil
}

func staticPayload(body string) func(string, []byte) (*lambda.InvokeOutput, error) {
	return func(string, []byte) (*lambda.InvokeOutput, error) {
		return &lambda.InvokeOutput{Payload: []byte(body)}, nil
	}
}

func TestIsValidPair(t *testing.T) {
	r := &Router{}

	tests := []struct {
		source   string
		target   string
		expected bool
	}{
		{"en", "ttj", true},
		{"ttj", "en", true},
		{"eng_Latn", "ttj_Latn", true},
		{"en", "en", false},   // Same language
		{"ttj", "ttj", false}, // Same language
		{"en", "", false},     // Empty target
		{"", "ttj", false},    // Empty source
		{"es", "en", false},   // Unsupported language
		{"en", "lg", false},   // Unsupported language (Luganda)
	}

	for _, tt := range tests {
		t.Run(tt.source+"→"+tt.target, func(t *testing.T) {
			result := r.IsValidPair(tt.source, tt.target)
			if result != tt.expected {
				t.Errorf("IsValidPair(%q, %q) = %v, want %v",
					tt.source, tt.target, result, tt.expected)
			}
		})
	}
}

func TestGetSupportedLanguages(t *testing.T) {
	langs := GetSupportedLanguages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "ttj" {
		t.Errorf("GetSupportedLanguages() = %v", langs)
	}
}

func TestFunctionName(t *testing.T) {
	r := NewWithClient(nil, Options{FunctionPrefix: "rutooro", Environment: "prod"})

	tests := []struct {
		dir      domain.Direction
		expected string
	}{
		{domain.EnglishToRutooro, "rutooro-translator-en-ttj-prod"},
		{domain.RutooroToEnglish, "rutooro-translator-ttj-en-prod"},
	}
	for _, tt := range tests {
		if got := r.FunctionName(tt.dir); got != tt.expected {
			t.Errorf("FunctionName(%s) = %q, want %q", tt.dir, got, tt.expected)
		}
	}

	if got := NewWithClient(nil, Options{}).MetricsFunctionName(); got != "rutooro-metrics-dev" {
		t.Errorf("MetricsFunctionName() defaults = %q", got)
	}
}

func TestTranslateChunks(t *testing.T) {
	fake := &fakeLambda{respond: upperTranslator}
	r := NewWithClient(fake, Options{MaxLength: 128})

	chunks := [][]string{{"how are you?", "good"}, {"thanks"}}
	got, err := r.TranslateChunks(context.Background(), domain.EnglishToRutooro, chunks)
	if err != nil {
		t.Fatalf("TranslateChunks() error: %v", err)
	}

	want := [][]string{{"HOW ARE YOU?", "GOOD"}, {"THANKS"}}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("got[%d][%d] = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(fake.calls))
	}
	if name := aws.ToString(fake.calls[0].FunctionName); name != "rutooro-translator-en-ttj-dev" {
		t.Errorf("invoked %q", name)
	}

	var sent TranslatorRequest
	if err := json.Unmarshal(fake.calls[0].Payload, &sent); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if sent.SrcLang != "eng_Latn" || sent.TgtLang != "ttj_Latn" || sent.MaxLength != 128 {
		t.Errorf("unexpected request %+v", sent)
	}
}

func TestTranslateChunks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		respond func(string, []byte) (*lambda.InvokeOutput, error)
		errMsg  string
	}{
		{
			name: "invoke failure",
			respond: func(string, []byte) (*lambda.InvokeOutput, error) {
				return nil, errors.New("throttled")
			},
			errMsg: "failed to invoke",
		},
		{
			name: "function error",
			respond: func(string, []byte) (*lambda.InvokeOutput, error) {
				return &lambda.InvokeOutput{FunctionError: aws.String("Unhandled")}, nil
			},
			errMsg: "lambda error",
		},
		{
			name:    "translator error",
			respond: staticPayload(`{"translations":[],"error":"CUDA out of memory"}`),
			errMsg:  "translator error: CUDA out of memory",
		},
		{
			name:    "bad payload",
			respond: staticPayload(`not json`),
			errMsg:  "failed to parse response",
		},
		{
			name:    "missing chunk",
			respond: staticPayload(`{"translations":[]}`),
			errMsg:  "returned 0 chunks",
		},
		{
			name:    "short chunk",
			respond: staticPayload(`{"translations":[["only one"]]}`),
			errMsg:  "returned 1 texts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewWithClient(&fakeLambda{respond: tt.respond}, Options{})
			_, err := r.TranslateChunks(context.Background(), domain.RutooroToEnglish, [][]string{{"a", "b"}})
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestTranslateChunks_UnknownDirection(t *testing.T) {
	fake := &fakeLambda{respond: upperTranslator}
	r := NewWithClient(fake, Options{})

	_, err := r.TranslateChunks(context.Background(), domain.Direction("en-fr"), [][]string{{"a"}})
	if !errors.Is(err, domain.ErrUnknownDirection) {
		t.Errorf("error = %v, want ErrUnknownDirection", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("no Lambda should be invoked for an unknown direction")
	}
}

func TestTranslate_Empty(t *testing.T) {
	fake := &fakeLambda{respond: upperTranslator}
	r := NewWithClient(fake, Options{})

	got, err := r.Translate(context.Background(), domain.EnglishToRutooro, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("Translate(nil) = %v, %v", got, err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("empty input should not invoke Lambda")
	}
}

func TestTranslate(t *testing.T) {
	r := NewWithClient(&fakeLambda{respond: upperTranslator}, Options{})

	got, err := r.Translate(context.Background(), domain.RutooroToEnglish, []string{"oraire ota?"})
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if len(got) != 1 || got[0] != "ORAIRE OTA?" {
		t.Errorf("Translate() = %v", got)
	}
}

func TestScore(t *testing.T) {
	fake := &fakeLambda{respond: staticPayload(`{"bleu":31.5,"chrf":55.25}`)}
	r := NewWithClient(fake, Options{Environment: "staging"})

	scores, err := r.Score(context.Background(), []string{"a"}, []string{"a"})
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if scores.BLEU != 31.5 || scores.ChrF != 55.25 {
		t.Errorf("Score() = %+v", scores)
	}
	if name := aws.ToString(fake.calls[0].FunctionName); name != "rutooro-metrics-staging" {
		t.Errorf("invoked %q", name)
	}

	var sent MetricsRequest
	if err := json.Unmarshal(fake.calls[0].Payload, &sent); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(sent.Predictions) != 1 || len(sent.References) != 1 {
		t.Errorf("unexpected request %+v", sent)
	}

	fake.respond = staticPayload(`{"error":"length mismatch"}`)
	if _, err := r.Score(context.Background(), nil, nil); err == nil {
		t.Error("expected metrics error")
	}
}
