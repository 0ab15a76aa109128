package llm

import "context"

// Provider is one generation call against an LLM. Prompt assembly is
// the caller's job; implementations only add transport and model
// configuration.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
