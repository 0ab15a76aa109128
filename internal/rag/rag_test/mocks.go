package rag_test

import (
	"context"
	"sync/atomic"

	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
)

// MockIndex implements vectorIndex.Index
type MockIndex struct {
	OnSearch         func(ctx context.Context, queryVector []float32, candidateDocIds []string, k int) ([]docModel.SearchHit, error)
	OnDocumentChunks func(ctx context.Context, docId string) ([]docModel.DocChunk, error)

	SearchCalls atomic.Int64
}

func (m *MockIndex) InsertBatch(ctx context.Context, chunks []docModel.DocChunk, vectors [][]float32) error {
	return nil
}

func (m *MockIndex) ReplaceDocument(ctx context.Context, evictDocId string, chunks []docModel.DocChunk, vectors [][]float32) error {
	return nil
}

func (m *MockIndex) DeleteDocument(ctx context.Context, docId string) error {
	return nil
}

func (m *MockIndex) DocumentChunks(ctx context.Context, docId string) ([]docModel.DocChunk, error) {
	if m.OnDocumentChunks != nil {
		return m.OnDocumentChunks(ctx, docId)
	}
	return nil, nil
}

func (m *MockIndex) Search(ctx context.Context, queryVector []float32, candidateDocIds []string, k int) ([]docModel.SearchHit, error) {
	m.SearchCalls.Add(1)
	if m.OnSearch != nil {
		return m.OnSearch(ctx, queryVector, candidateDocIds, k)
	}
	return nil, nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnEmbed func(ctx context.Context, text string) ([]float32, error)

	EmbedCalls atomic.Int64
	LastText   string
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.EmbedCalls.Add(1)
	m.LastText = text
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (m *MockEmbedder) Dimension() int32 { return 3 }

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, systemPrompt string, userPrompt string) (string, error)

	GenerateCalls  atomic.Int64
	LastUserPrompt string
}

func (m *MockLLM) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	m.GenerateCalls.Add(1)
	m.LastUserPrompt = userPrompt
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, systemPrompt, userPrompt)
	}
	return "default answer", nil
}

// MockDetector implements language.Detector
type MockDetector struct {
	OnDetect func(text string) (string, bool)
}

func (m *MockDetector) Detect(text string) (string, bool) {
	if m.OnDetect != nil {
		return m.OnDetect(text)
	}
	return "en", true
}

// MockTranslator implements language.Translator
type MockTranslator struct {
	OnTranslate func(ctx context.Context, text string, source string, target string) (string, error)

	TranslateCalls atomic.Int64
}

func (m *MockTranslator) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	m.TranslateCalls.Add(1)
	if m.OnTranslate != nil {
		return m.OnTranslate(ctx, text, source, target)
	}
	return text, nil
}
