package googleEmbedding

import (
	"context"
	"sync"
	"time"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/rag/embedding"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Info("Google Embedding client created", "model", modelName, "dimension", dimension)
}

func (c *client) Dimension() int32 {
	return dimension
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	result, err := c.doCall(callCtx, genai.Text(text))
	if err != nil {
		logger.Error("embedding call failed", "error", err)
		return nil, docModel.E(docModel.KindEmbedding, "embedding provider call failed", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, docModel.E(docModel.KindEmbedding, "embedding provider returned no vectors", nil)
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	res, err := c.doCall(callCtx, getContent(texts))
	if err != nil && isRateLimited(err) {
		logger.Warn("rate limit hit, retrying once", "delay", config.GenerationRetryDelay)
		time.Sleep(config.GenerationRetryDelay)
		res, err = c.doCall(callCtx, getContent(texts))
	}
	if err != nil {
		logger.Error("batch embedding call failed", "batch size", len(texts), "error", err)
		return nil, docModel.E(docModel.KindEmbedding, "batch embedding provider call failed", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, docModel.E(docModel.KindEmbedding, "embedding provider returned partial batch", nil)
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content,
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}

func getContent(texts []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contentsToSend
}

func isRateLimited(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
