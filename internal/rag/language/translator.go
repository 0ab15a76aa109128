package language

import (
	"context"
	"fmt"
	"strings"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/rag/llm"
)

const translatorSystemPrompt = "You are a professional translator. " +
	"Translate the user's text exactly, preserving meaning, tone and formatting. " +
	"Output only the translated text with no commentary."

// LLMTranslator translates through the chat completion provider.
// Dedicated MT services stay out of scope; the generation model handles
// the supported language set well enough for response localisation.
type LLMTranslator struct {
	provider llm.Provider
}

func NewLLMTranslator(provider llm.Provider) *LLMTranslator {
	return &LLMTranslator{provider: provider}
}

func (t *LLMTranslator) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	sourceName := config.LanguageName(source)
	targetName := config.LanguageName(target)
	userPrompt := fmt.Sprintf("Translate the following text from %s to %s:\n\n%s", sourceName, targetName, text)
	out, err := t.provider.Generate(ctx, translatorSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
