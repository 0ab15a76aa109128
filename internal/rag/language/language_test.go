package language_test

import (
	"context"
	"errors"
	"testing"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/rag/language"
)

type mockDetector struct {
	DetectFunc func(text string) (string, bool)
}

func (m *mockDetector) Detect(text string) (string, bool) {
	return m.DetectFunc(text)
}

type mockTranslator struct {
	TranslateFunc func(ctx context.Context, text string, source string, target string) (string, error)
	calls         int
}

func (m *mockTranslator) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	m.calls++
	return m.TranslateFunc(ctx, text, source, target)
}

func TestDetect_FailsOpenToFallback(t *testing.T) {
	detector := &mockDetector{
		DetectFunc: func(text string) (string, bool) { return "", false },
	}
	n := language.NewNormalizer(detector, &mockTranslator{})

	got := n.Detect("???")
	if got != config.FallbackLanguage {
		t.Fatalf("expected fallback %q on unconfident detection, got %q", config.FallbackLanguage, got)
	}
}

func TestDetect_UnsupportedLanguageFallsBack(t *testing.T) {
	detector := &mockDetector{
		DetectFunc: func(text string) (string, bool) { return "fi", true },
	}
	n := language.NewNormalizer(detector, &mockTranslator{})

	got := n.Detect("Hyvää huomenta kaikille")
	if got != config.FallbackLanguage {
		t.Fatalf("expected fallback for unsupported code, got %q", got)
	}
}

func TestDetect_PassesThroughSupportedCode(t *testing.T) {
	detector := &mockDetector{
		DetectFunc: func(text string) (string, bool) { return "es", true },
	}
	n := language.NewNormalizer(detector, &mockTranslator{})

	if got := n.Detect("Buenos días a todos"); got != "es" {
		t.Fatalf("expected es, got %q", got)
	}
}

func TestTranslate_NoOpWhenSameLanguage(t *testing.T) {
	translator := &mockTranslator{
		TranslateFunc: func(ctx context.Context, text, source, target string) (string, error) {
			return "", errors.New("should not be called")
		},
	}
	n := language.NewNormalizer(&mockDetector{}, translator)

	got, err := n.Translate(context.Background(), "hello", "en", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected identity translation, got %q", got)
	}
	if translator.calls != 0 {
		t.Fatalf("translator called %d times for same-language pair", translator.calls)
	}
}

func TestTranslate_WrapsProviderFailure(t *testing.T) {
	translator := &mockTranslator{
		TranslateFunc: func(ctx context.Context, text, source, target string) (string, error) {
			return "", errors.New("provider down")
		},
	}
	n := language.NewNormalizer(&mockDetector{}, translator)

	_, err := n.Translate(context.Background(), "hello", "en", "fr")
	if err == nil {
		t.Fatal("expected error")
	}
	if !docModel.IsKind(err, docModel.KindTranslation) {
		t.Fatalf("expected translation error kind, got %v", err)
	}
}

func TestTranslateOrOriginal_DegradesToOriginal(t *testing.T) {
	translator := &mockTranslator{
		TranslateFunc: func(ctx context.Context, text, source, target string) (string, error) {
			return "", errors.New("provider down")
		},
	}
	n := language.NewNormalizer(&mockDetector{}, translator)

	got, ok := n.TranslateOrOriginal(context.Background(), "hello", "en", "fr")
	if ok {
		t.Fatal("expected degradation flag on provider failure")
	}
	if got != "hello" {
		t.Fatalf("expected original text back, got %q", got)
	}
}

func TestTranslateOrOriginal_Success(t *testing.T) {
	translator := &mockTranslator{
		TranslateFunc: func(ctx context.Context, text, source, target string) (string, error) {
			return "bonjour", nil
		},
	}
	n := language.NewNormalizer(&mockDetector{}, translator)

	got, ok := n.TranslateOrOriginal(context.Background(), "hello", "en", "fr")
	if !ok {
		t.Fatal("expected successful translation")
	}
	if got != "bonjour" {
		t.Fatalf("expected bonjour, got %q", got)
	}
}
