package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/metrics"
	"github.com/doctalk-ai/doctalk/internal/rag/embedding"
	"github.com/doctalk-ai/doctalk/internal/rag/ingest"
	"github.com/doctalk-ai/doctalk/internal/rag/language"
	"github.com/doctalk-ai/doctalk/internal/rag/llm"
	"github.com/doctalk-ai/doctalk/internal/rag/vectorIndex"
	"github.com/doctalk-ai/doctalk/internal/registry"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// Service is the public contract; handlers and the worker only see this.
// The private struct below holds the provider clients and shared state,
// kept lowercase so nothing outside the package can reach around the
// interface.
type Service interface {
	Query(ctx context.Context, input QueryInput) (QueryOutput, error)
	Summarize(ctx context.Context, input SummaryInput) (SummaryOutput, error)
	SampleQuestions(ctx context.Context, documentId string) ([]string, error)
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type QueryInput struct {
	Query          string
	DocumentIds    []string
	QueryLanguage  string // optional caller override, must be a supported code
	TargetLanguage string // optional, defaults to the query language
}

type QueryOutput struct {
	Response         string
	ChatHistory      []docModel.ChatMessage
	Sources          []docModel.SearchHit
	QueryLanguage    string
	ResponseLanguage string
}

type SummaryInput struct {
	DocumentId     string
	TargetLanguage string
}

type SummaryOutput struct {
	DocumentId   string
	DocumentName string
	Summary      string
	Language     string
}

type service struct {
	index       vectorIndex.Index
	llmProvider llm.Provider
	embedder    embedding.Embedder
	catalog     *registry.Registry
	normalizer  *language.Normalizer
	pipeline    *ingest.Pipeline
	logger      *logger_i.Logger
}

func NewService(index vectorIndex.Index, llmProvider llm.Provider, embedder embedding.Embedder, catalog *registry.Registry, normalizer *language.Normalizer, pipeline *ingest.Pipeline) Service {
	return &service{
		index:       index,
		llmProvider: llmProvider,
		embedder:    embedder,
		catalog:     catalog,
		normalizer:  normalizer,
		pipeline:    pipeline,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

// Query walks one request through the pipeline: resolve documents,
// normalize the query language, embed, retrieve, generate, localize.
// Validation failures surface before any provider is called.
func (s *service) Query(ctx context.Context, input QueryInput) (QueryOutput, error) {
	start := time.Now()
	status := "ok"
	defer func() { metrics.CaptureJobMetrics(status, time.Since(start)) }()

	out, err := s.query(ctx, input)
	if err != nil {
		status = "error"
	}
	return out, err
}

func (s *service) query(ctx context.Context, input QueryInput) (QueryOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return QueryOutput{}, docModel.E(docModel.KindInvalidRequest, "query must not be empty", nil)
	}

	docs, err := s.resolveDocuments(input.DocumentIds)
	if err != nil {
		return QueryOutput{}, err
	}

	queryLang, targetLang := s.resolveLanguages(input)

	// Retrieval happens in the language the documents were indexed in.
	retrievalText := input.Query
	if retrievalLang := docs[0].Language; retrievalLang != "" && retrievalLang != queryLang {
		retrievalText, _ = s.normalizer.TranslateOrOriginal(ctx, input.Query, queryLang, retrievalLang)
	}

	queryVector, err := s.executeEmbeddingStep(ctx, retrievalText)
	if err != nil {
		return QueryOutput{}, docModel.E(docModel.KindEmbedding, "error embedding query", err)
	}

	hits, err := s.executeSearchStep(ctx, queryVector, docIds(docs))
	if err != nil {
		return QueryOutput{}, err
	}

	answer, err := s.executeGenerationStep(ctx, buildQueryPrompt(hits, retrievalText))
	if err != nil {
		return QueryOutput{}, err
	}

	finalAnswer, responseLang := s.executeTranslationStep(ctx, answer, targetLang, "Response")

	return QueryOutput{
		Response: finalAnswer,
		ChatHistory: []docModel.ChatMessage{
			{Role: docModel.RoleUser, Content: input.Query},
			{Role: docModel.RoleAssistant, Content: finalAnswer},
		},
		Sources:          hits,
		QueryLanguage:    queryLang,
		ResponseLanguage: responseLang,
	}, nil
}

// Summarize reads the document front to back, packs as many chunks as
// fit the character budget into one instruction call, and localizes the
// result like a query answer.
func (s *service) Summarize(ctx context.Context, input SummaryInput) (SummaryOutput, error) {
	doc, err := s.catalog.Get(input.DocumentId)
	if err != nil {
		return SummaryOutput{}, err
	}
	if doc.Status != docModel.StatusReady {
		return SummaryOutput{}, docModel.E(docModel.KindNotFound,
			fmt.Sprintf("document %s is not ready (status %s)", doc.Id, doc.Status), nil)
	}

	chunks, err := s.index.DocumentChunks(ctx, doc.Id)
	if err != nil {
		return SummaryOutput{}, err
	}
	if len(chunks) == 0 {
		return SummaryOutput{}, docModel.E(docModel.KindNotFound,
			fmt.Sprintf("document %s has no indexed content", doc.Id), nil)
	}

	content := packChunks(chunks, config.SummaryTopK, config.SummaryCharLimit)
	prompt := "Summarize the following document concisely, covering its main points:\n\n" + content

	summary, err := s.executeGenerationStep(ctx, prompt)
	if err != nil {
		return SummaryOutput{}, err
	}

	targetLang := doc.Language
	if input.TargetLanguage != "" && config.IsSupportedLanguage(input.TargetLanguage) {
		targetLang = input.TargetLanguage
	}
	finalSummary, summaryLang := s.executeTranslationStep(ctx, summary, targetLang, "Summary")

	return SummaryOutput{
		DocumentId:   doc.Id,
		DocumentName: doc.Name,
		Summary:      finalSummary,
		Language:     summaryLang,
	}, nil
}

// SampleQuestions suggests questions a reader could ask the document.
func (s *service) SampleQuestions(ctx context.Context, documentId string) ([]string, error) {
	doc, err := s.catalog.Get(documentId)
	if err != nil {
		return nil, err
	}
	if doc.Status != docModel.StatusReady {
		return nil, docModel.E(docModel.KindNotFound,
			fmt.Sprintf("document %s is not ready (status %s)", doc.Id, doc.Status), nil)
	}

	chunks, err := s.index.DocumentChunks(ctx, doc.Id)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, docModel.E(docModel.KindNotFound,
			fmt.Sprintf("document %s has no indexed content", doc.Id), nil)
	}

	content := packChunks(chunks, config.QuestionTopK, config.SummaryCharLimit)
	prompt := fmt.Sprintf("Based on the following document, suggest three questions a reader might ask about it. "+
		"Write the questions in %s. Return one question per line with no numbering:\n\n%s",
		config.LanguageName(doc.Language), content)

	answer, err := s.executeGenerationStep(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var questions []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions, nil
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	j := s.pipeline.Run(ctx, job)
	metrics.SetDocumentsReady(len(s.catalog.ReadyIds()))
	return j
}

// resolveDocuments maps requested IDs to ready documents, or widens to
// every ready document when the request names none. A request naming an
// unknown or non-ready document is rejected before any provider call.
func (s *service) resolveDocuments(requestedIds []string) ([]docModel.Document, error) {
	if len(requestedIds) == 0 {
		docs := s.catalog.List()
		if len(docs) == 0 {
			return nil, docModel.E(docModel.KindInvalidRequest, "no documents have been ingested yet", nil)
		}
		return docs, nil
	}

	docs := make([]docModel.Document, 0, len(requestedIds))
	for _, id := range requestedIds {
		doc, err := s.catalog.Get(id)
		if err != nil {
			return nil, docModel.E(docModel.KindInvalidRequest,
				fmt.Sprintf("document %s does not exist", id), err)
		}
		if doc.Status != docModel.StatusReady {
			return nil, docModel.E(docModel.KindInvalidRequest,
				fmt.Sprintf("document %s is not ready (status %s)", id, doc.Status), nil)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *service) resolveLanguages(input QueryInput) (queryLang string, targetLang string) {
	if input.QueryLanguage != "" && config.IsSupportedLanguage(input.QueryLanguage) {
		queryLang = input.QueryLanguage
	} else {
		queryLang = s.normalizer.Detect(input.Query)
	}

	targetLang = queryLang
	if input.TargetLanguage != "" && config.IsSupportedLanguage(input.TargetLanguage) {
		targetLang = input.TargetLanguage
	}
	return queryLang, targetLang
}

func (s *service) executeEmbeddingStep(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.Embed(ctx, text)
}

func (s *service) executeSearchStep(ctx context.Context, queryVector []float32, candidateIds []string) ([]docModel.SearchHit, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.index.Search(ctx, queryVector, candidateIds, config.TopK)
}

// executeGenerationStep calls the LLM with one bounded retry after a
// fixed delay. Exhausting the budget surfaces a GenerationError.
func (s *service) executeGenerationStep(ctx context.Context, userPrompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	var lastErr error
	for attempt := 0; attempt <= config.GenerationRetryCount; attempt++ {
		if attempt > 0 {
			metrics.IncrementGenerationRetries()
			s.logger.Warn("retrying generation call", "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(config.GenerationRetryDelay):
			case <-ctx.Done():
				return "", docModel.E(docModel.KindGeneration, "generation cancelled", ctx.Err())
			}
		}
		answer, err := s.llmProvider.Generate(ctx, config.ModelContext, userPrompt)
		if err == nil {
			return answer, nil
		}
		lastErr = err
	}
	return "", docModel.E(docModel.KindGeneration, "generation failed after retry", lastErr)
}

// executeTranslationStep localizes the answer. The answer's language is
// re-detected rather than assumed, since models often reply in the
// prompt's dominant language regardless of instructions. A failed
// translation degrades to the untranslated answer with a note.
func (s *service) executeTranslationStep(ctx context.Context, answer string, targetLang string, label string) (string, string) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("translation", time.Since(start)) }()

	answerLang := s.normalizer.Detect(answer)
	if answerLang == targetLang {
		return answer, targetLang
	}

	translated, ok := s.normalizer.TranslateOrOriginal(ctx, answer, answerLang, targetLang)
	if !ok {
		metrics.IncrementTranslationDegradations()
		note := fmt.Sprintf("\n\n[Translation to %s unavailable; response provided in %s]",
			config.LanguageName(targetLang), config.LanguageName(answerLang))
		return answer + note, answerLang
	}
	annotation := fmt.Sprintf("\n\n[%s translated from %s to %s]",
		label, config.LanguageName(answerLang), config.LanguageName(targetLang))
	return translated + annotation, targetLang
}

func docIds(docs []docModel.Document) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.Id
	}
	return ids
}

// buildQueryPrompt orders retrieved chunks most similar first. With no
// hits the model is still asked, flagged that the documents came up
// empty so the answer carries the caveat.
func buildQueryPrompt(hits []docModel.SearchHit, query string) string {
	var b strings.Builder
	if len(hits) == 0 {
		b.WriteString("No relevant context was found in the selected documents. ")
		b.WriteString("Answer from general knowledge and state clearly that the documents did not contain the answer.\n\n")
	} else {
		b.WriteString("Context from the documents, most relevant first:\n\n")
		for i, hit := range hits {
			fmt.Fprintf(&b, "[%d] (%s, page %d)\n%s\n\n", i+1, hit.Chunk.DocName, hit.Chunk.PageNum, hit.Chunk.Text)
		}
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}

// packChunks concatenates up to maxChunks chunks in document order,
// stopping before the character budget would overflow. At least one
// chunk always makes it in, truncated if needed.
func packChunks(chunks []docModel.DocChunk, maxChunks int, charLimit int) string {
	var b strings.Builder
	for i, chunk := range chunks {
		if i >= maxChunks {
			break
		}
		if b.Len() > 0 && b.Len()+len(chunk.Text) > charLimit {
			break
		}
		if b.Len() == 0 && len(chunk.Text) > charLimit {
			runes := []rune(chunk.Text)
			if len(runes) > charLimit {
				runes = runes[:charLimit]
			}
			b.WriteString(string(runes))
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(chunk.Text)
	}
	return b.String()
}
