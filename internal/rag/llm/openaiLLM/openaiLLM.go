package openaiLLM

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/rag/llm"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// Client for any OpenAI-compatible completion endpoint. The default
// base URL targets Groq, which serves the gemma2 generation model.

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(modelName, apikey)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{client: openaiClient.client, modelName: openaiClient.modelName}
}

func newOpenAIClient(modelName string, apikey string) {
	if apikey == "" {
		logger.Error("GENERATION_API_KEY is not set")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithBaseURL(config.GenerationBaseURL()),
	)
	openaiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Generation client created", "model", modelName)
}

func (c *llmClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.GenerationCallTimeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		logger.Error("completion call failed", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
