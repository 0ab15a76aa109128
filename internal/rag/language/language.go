package language

import (
	"context"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// Detector identifies the language of a text. The second return is
// false when detection is not confident enough to act on.
type Detector interface {
	Detect(text string) (string, bool)
}

// Translator converts text between two supported languages.
type Translator interface {
	Translate(ctx context.Context, text string, source string, target string) (string, error)
}

// Normalizer combines detection and translation with the pipeline's
// recovery policy: detection fails open to the fallback language and a
// failed translation degrades to the untranslated text, because a
// wrong-language answer beats no answer.
type Normalizer struct {
	detector   Detector
	translator Translator
	fallback   string
	logger     *logger_i.Logger
}

func NewNormalizer(detector Detector, translator Translator) *Normalizer {
	return &Normalizer{
		detector:   detector,
		translator: translator,
		fallback:   config.FallbackLanguage,
		logger:     logger_i.NewLogger("LanguageNormalizer"),
	}
}

// Detect never fails: an unconfident or erroring detector yields the
// configured fallback language so a query is never blocked.
func (n *Normalizer) Detect(text string) string {
	code, ok := n.detector.Detect(text)
	if !ok {
		n.logger.Warn("language detection not confident, using fallback", "fallback", n.fallback)
		return n.fallback
	}
	if !config.IsSupportedLanguage(code) {
		n.logger.Warn("detected language outside supported set, using fallback", "detected", code)
		return n.fallback
	}
	return code
}

// Translate is a no-op when source and target match. Provider failures
// surface as TranslationError; use TranslateOrOriginal where the caller
// wants the degradation policy applied.
func (n *Normalizer) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	if text == "" || source == target {
		return text, nil
	}
	translated, err := n.translator.Translate(ctx, text, source, target)
	if err != nil {
		return "", docModel.E(docModel.KindTranslation, "translation provider call failed", err)
	}
	return translated, nil
}

// TranslateOrOriginal returns the translation plus true, or the
// original text plus false when the provider failed.
func (n *Normalizer) TranslateOrOriginal(ctx context.Context, text string, source string, target string) (string, bool) {
	if source == target {
		return text, true
	}
	translated, err := n.Translate(ctx, text, source, target)
	if err != nil {
		n.logger.Error("translation failed, returning untranslated text",
			"source", source, "target", target, "error", err)
		return text, false
	}
	return translated, true
}

func (n *Normalizer) Fallback() string {
	return n.fallback
}
