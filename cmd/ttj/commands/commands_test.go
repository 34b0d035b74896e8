package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutooro/translation-manager/internal/config"
	"github.com/rutooro/translation-manager/internal/domain"
	"github.com/rutooro/translation-manager/internal/download"
	"github.com/rutooro/translation-manager/internal/router"
)

// fakeLambda answers translator invocations by upper-casing texts and
// metrics invocations with fixed scores.
type fakeLambda struct {
	mu    sync.Mutex
	names []string
}

func (f *fakeLambda) Invoke(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	name := aws.ToString(in.FunctionName)
	f.mu.Lock()
	f.names = append(f.names, name)
	f.mu.Unlock()

	var body []byte
	if strings.Contains(name, "-metrics-") {
		body, _ = json.Marshal(router.MetricsResponse{BLEU: 27.5, ChrF: 51.25})
	} else {
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
		body, _ = json.Marshal(resp)
	}
	return &lambda.InvokeOutput{Payload: body}, nil
}

func useFakeLambda(t *testing.T) *fakeLambda {
	t.Helper()
	fake := &fakeLambda{}
	orig := newRouter
	newRouter = func(_ context.Context, cfg *config.Config) (*router.Router, error) {
		return router.NewWithClient(fake, router.Options{
			FunctionPrefix: cfg.Translator.FunctionPrefix,
			Environment:    cfg.Environment,
			MaxLength:      cfg.Translator.MaxLength,
		}), nil
	}
	t.Cleanup(func() { newRouter = orig })
	return fake
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestPreprocessCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.json")
	raw := `[
  {"translation": {"en": "How are you?", "ttj": "Oraire ota?"}},
  {"translation": {"en": "how are you?", "ttj": "ORAIRE OTA?"}},
  {"english": "Thank you", "rutooro": "Webale"},
  {"translation": {"en": "Good morning", "ttj": "Oraire ota"}},
  {"translation": {"en": "Come here", "ttj": "Ija hanu"}},
  {"translation": {"en": "only english"}}
]`
	require.NoError(t, os.WriteFile(input, []byte(raw), 0o644))
	outDir := filepath.Join(dir, "clean")

	out, err := run(t, "preprocess", input, outDir, "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved cleaned splits to "+outDir)
	assert.Contains(t, out, "train: 3  dev: 0  test: 1")

	total := 0
	for _, name := range []string{"train.json", "dev.json", "test.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		var records []domain.Record
		require.NoError(t, json.Unmarshal(data, &records))
		total += len(records)
	}
	assert.Equal(t, 4, total)
}

func TestPreprocessCommand_Errors(t *testing.T) {
	_, err := run(t, "preprocess")
	assert.Error(t, err)

	_, err = run(t, "preprocess", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDownloadCommand_UnsupportedSource(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out", "raw.json")

	_, err := run(t, "download", "--source", "opus", "--output", output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, download.ErrUnsupportedSource))

	_, statErr := os.Stat(filepath.Dir(output))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranslateCommand(t *testing.T) {
	fake := useFakeLambda(t)

	out, err := run(t, "translate", "How are you?", "--direction", "en-ttj")
	require.NoError(t, err)
	assert.Equal(t, "HOW ARE YOU?\n", out)
	assert.Equal(t, []string{"rutooro-translator-en-ttj-dev"}, fake.names)
}

func TestTranslateCommand_File(t *testing.T) {
	useFakeLambda(t)
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("oraire ota?\nwebale\n"), 0o644))

	out, err := run(t, "translate", "--file", path, "--direction", "ttj-en")
	require.NoError(t, err)
	assert.Equal(t, "ORAIRE OTA?\nWEBALE\n", out)
}

func TestTranslateCommand_Errors(t *testing.T) {
	fake := useFakeLambda(t)

	_, err := run(t, "translate", "hi", "--direction", "en-fr")
	assert.True(t, errors.Is(err, domain.ErrUnknownDirection))

	_, err = run(t, "translate")
	assert.Error(t, err)

	assert.Empty(t, fake.names)
}

func TestEvaluateCommand(t *testing.T) {
	fake := useFakeLambda(t)
	dir := t.TempDir()
	pred := filepath.Join(dir, "pred.txt")
	ref := filepath.Join(dir, "ref.txt")
	require.NoError(t, os.WriteFile(pred, []byte("a\nb\n"), 0o644))
	require.NoError(t, os.WriteFile(ref, []byte("a\nc\n"), 0o644))

	out, err := run(t, "evaluate", pred, ref)
	require.NoError(t, err)
	assert.Equal(t, "BLEU: 27.50\nchrF++: 51.25\n", out)
	assert.Equal(t, []string{"rutooro-metrics-dev"}, fake.names)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "verbose", "preprocess", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
