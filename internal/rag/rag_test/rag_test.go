package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/rag"
	"github.com/doctalk-ai/doctalk/internal/rag/language"
	"github.com/doctalk-ai/doctalk/internal/registry"
)

type fixture struct {
	service  rag.Service
	catalog  *registry.Registry
	index    *MockIndex
	embedder *MockEmbedder
	llm      *MockLLM
	detector *MockDetector
	xlator   *MockTranslator
}

func newFixture() *fixture {
	f := &fixture{
		catalog:  registry.New(),
		index:    &MockIndex{},
		embedder: &MockEmbedder{},
		llm:      &MockLLM{},
		detector: &MockDetector{},
		xlator:   &MockTranslator{},
	}
	normalizer := language.NewNormalizer(f.detector, f.xlator)
	f.service = rag.NewService(f.index, f.llm, f.embedder, f.catalog, normalizer, nil)
	return f
}

func (f *fixture) readyDoc(t *testing.T, name string, lang string, chunkCount int) docModel.Document {
	t.Helper()
	doc := f.catalog.Register(name, "")
	f.catalog.SetLanguage(doc.Id, lang)
	if _, err := f.catalog.MarkReady(doc.Id, chunkCount); err != nil {
		t.Fatalf("promote document: %v", err)
	}
	got, err := f.catalog.Get(doc.Id)
	if err != nil {
		t.Fatalf("fetch document: %v", err)
	}
	return got
}

func hitFor(doc docModel.Document, seq int, text string, score float32) docModel.SearchHit {
	return docModel.SearchHit{
		Chunk: docModel.DocChunk{
			DocId:   doc.Id,
			DocName: doc.Name,
			Seq:     seq,
			Text:    text,
		},
		Score: score,
	}
}

func TestQuery_EnglishRoundTrip(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 3)
	f.index.OnSearch = func(ctx context.Context, v []float32, ids []string, k int) ([]docModel.SearchHit, error) {
		if len(ids) != 1 || ids[0] != doc.Id {
			t.Errorf("unexpected candidate set %v", ids)
		}
		return []docModel.SearchHit{hitFor(doc, 0, "the document is about testing", 0.92)}, nil
	}
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "The main topic is testing.", nil
	}

	out, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:       "What is the main topic?",
		DocumentIds: []string{doc.Id},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ResponseLanguage != "en" {
		t.Fatalf("expected en response, got %q", out.ResponseLanguage)
	}
	if len(out.ChatHistory) != 2 {
		t.Fatalf("expected chat history of 2, got %d", len(out.ChatHistory))
	}
	if out.ChatHistory[0].Role != docModel.RoleUser || out.ChatHistory[1].Role != docModel.RoleAssistant {
		t.Fatalf("unexpected roles: %+v", out.ChatHistory)
	}
	if out.ChatHistory[0].Content != "What is the main topic?" {
		t.Fatalf("user turn must carry the original query, got %q", out.ChatHistory[0].Content)
	}
	if out.ChatHistory[1].Content != out.Response {
		t.Fatal("assistant turn must match the response")
	}
	if !strings.Contains(f.llm.LastUserPrompt, "the document is about testing") {
		t.Fatal("retrieved chunk missing from the prompt")
	}
}

func TestQuery_SpanishQueryAgainstEnglishDocument(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_en.pdf", "en", 3)

	f.detector.OnDetect = func(text string) (string, bool) {
		if strings.Contains(text, "¿") {
			return "es", true
		}
		return "en", true
	}
	f.xlator.OnTranslate = func(ctx context.Context, text, source, target string) (string, error) {
		if source != "es" || target != "en" {
			t.Errorf("unexpected translation pair %s -> %s", source, target)
		}
		return "What is the main topic?", nil
	}
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "The main topic is renewable energy.", nil
	}

	out, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:          "¿Cuál es el tema principal?",
		DocumentIds:    []string{doc.Id},
		TargetLanguage: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.embedder.LastText != "What is the main topic?" {
		t.Fatalf("query must be translated before embedding, embedded %q", f.embedder.LastText)
	}
	if out.QueryLanguage != "es" {
		t.Fatalf("expected detected query language es, got %q", out.QueryLanguage)
	}
	if out.ResponseLanguage != "en" {
		t.Fatalf("expected english response, got %q", out.ResponseLanguage)
	}
	if strings.Contains(out.Response, "[Response translated") {
		t.Fatal("no annotation expected when the answer already matches the target language")
	}
}

func TestQuery_UnknownDocumentMakesNoProviderCalls(t *testing.T) {
	f := newFixture()
	f.readyDoc(t, "doc_1.pdf", "en", 3)

	_, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:       "What is the main topic?",
		DocumentIds: []string{"doc_missing"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !docModel.IsKind(err, docModel.KindInvalidRequest) {
		t.Fatalf("expected invalid request kind, got %v", err)
	}
	if f.embedder.EmbedCalls.Load() != 0 || f.index.SearchCalls.Load() != 0 || f.llm.GenerateCalls.Load() != 0 {
		t.Fatal("no provider may be called for an invalid request")
	}
}

func TestQuery_ProcessingDocumentRejected(t *testing.T) {
	f := newFixture()
	doc := f.catalog.Register("pending.pdf", "")

	_, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:       "anything",
		DocumentIds: []string{doc.Id},
	})
	if !docModel.IsKind(err, docModel.KindInvalidRequest) {
		t.Fatalf("expected invalid request kind, got %v", err)
	}
}

func TestQuery_EmptyQueryRejected(t *testing.T) {
	f := newFixture()
	f.readyDoc(t, "doc_1.pdf", "en", 3)

	_, err := f.service.Query(context.Background(), rag.QueryInput{Query: "   "})
	if !docModel.IsKind(err, docModel.KindInvalidRequest) {
		t.Fatalf("expected invalid request kind, got %v", err)
	}
	if f.embedder.EmbedCalls.Load() != 0 {
		t.Fatal("no provider may be called for an empty query")
	}
}

func TestQuery_EmptyRetrievalStillAnswersWithCaveat(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 3)
	f.index.OnSearch = func(ctx context.Context, v []float32, ids []string, k int) ([]docModel.SearchHit, error) {
		return nil, nil
	}
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "The documents did not contain the answer.", nil
	}

	out, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:       "Something off topic?",
		DocumentIds: []string{doc.Id},
	})
	if err != nil {
		t.Fatalf("empty retrieval must not fail the query: %v", err)
	}
	if !strings.Contains(f.llm.LastUserPrompt, "No relevant context was found") {
		t.Fatal("prompt must flag that retrieval came up empty")
	}
	if len(out.Sources) != 0 {
		t.Fatalf("expected no sources, got %d", len(out.Sources))
	}
}

func TestQuery_GenerationRetriesOnceThenSucceeds(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 3)

	failures := 1
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		if failures > 0 {
			failures--
			return "", errors.New("upstream flake")
		}
		return "recovered answer", nil
	}

	out, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:       "What is the main topic?",
		DocumentIds: []string{doc.Id},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.llm.GenerateCalls.Load() != 2 {
		t.Fatalf("expected 2 generation calls, got %d", f.llm.GenerateCalls.Load())
	}
	if !strings.Contains(out.Response, "recovered answer") {
		t.Fatalf("unexpected response %q", out.Response)
	}
}

func TestQuery_GenerationFailureSurfacesAfterRetryBudget(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 3)
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "", errors.New("upstream down")
	}

	_, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:       "What is the main topic?",
		DocumentIds: []string{doc.Id},
	})
	if !docModel.IsKind(err, docModel.KindGeneration) {
		t.Fatalf("expected generation kind, got %v", err)
	}
	if f.llm.GenerateCalls.Load() != 2 {
		t.Fatalf("expected retry budget of one extra call, got %d calls", f.llm.GenerateCalls.Load())
	}
}

func TestQuery_TranslationDegradationAnnotates(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 3)
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "The answer in English.", nil
	}
	f.xlator.OnTranslate = func(ctx context.Context, text, source, target string) (string, error) {
		return "", errors.New("translator down")
	}

	out, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:          "What is the main topic?",
		DocumentIds:    []string{doc.Id},
		TargetLanguage: "fr",
	})
	if err != nil {
		t.Fatalf("translation failure must degrade, not fail: %v", err)
	}
	if !strings.Contains(out.Response, "The answer in English.") {
		t.Fatalf("original answer missing from degraded response %q", out.Response)
	}
	if !strings.Contains(out.Response, "[Translation to French unavailable") {
		t.Fatalf("missing degradation note in %q", out.Response)
	}
	if out.ResponseLanguage != "en" {
		t.Fatalf("expected en after degradation, got %q", out.ResponseLanguage)
	}
}

func TestQuery_SuccessfulTranslationAnnotates(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 3)
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "The answer in English.", nil
	}
	f.xlator.OnTranslate = func(ctx context.Context, text, source, target string) (string, error) {
		return "La réponse en français.", nil
	}

	out, err := f.service.Query(context.Background(), rag.QueryInput{
		Query:          "What is the main topic?",
		DocumentIds:    []string{doc.Id},
		TargetLanguage: "fr",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Response, "La réponse en français.") {
		t.Fatalf("translated answer missing from %q", out.Response)
	}
	if !strings.Contains(out.Response, "[Response translated from English to French]") {
		t.Fatalf("missing translation annotation in %q", out.Response)
	}
	if out.ResponseLanguage != "fr" {
		t.Fatalf("expected fr, got %q", out.ResponseLanguage)
	}
}

func TestSummarize_PacksChunksInOrder(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 3)
	f.index.OnDocumentChunks = func(ctx context.Context, docId string) ([]docModel.DocChunk, error) {
		return []docModel.DocChunk{
			{DocId: docId, Seq: 0, Text: "first part"},
			{DocId: docId, Seq: 1, Text: "second part"},
			{DocId: docId, Seq: 2, Text: "third part"},
		}, nil
	}
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "A short summary.", nil
	}

	out, err := f.service.Summarize(context.Background(), rag.SummaryInput{DocumentId: doc.Id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Summary != "A short summary." {
		t.Fatalf("unexpected summary %q", out.Summary)
	}
	if out.DocumentName != "doc_1.pdf" {
		t.Fatalf("unexpected document name %q", out.DocumentName)
	}
	first := strings.Index(f.llm.LastUserPrompt, "first part")
	second := strings.Index(f.llm.LastUserPrompt, "second part")
	third := strings.Index(f.llm.LastUserPrompt, "third part")
	if first < 0 || second < 0 || third < 0 || first > second || second > third {
		t.Fatal("chunks must appear in document order in the prompt")
	}
}

func TestSummarize_UnknownDocumentIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.Summarize(context.Background(), rag.SummaryInput{DocumentId: "nope"})
	if !docModel.IsKind(err, docModel.KindNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestSummarize_ProcessingDocumentIsNotFound(t *testing.T) {
	f := newFixture()
	doc := f.catalog.Register("pending.pdf", "")

	_, err := f.service.Summarize(context.Background(), rag.SummaryInput{DocumentId: doc.Id})
	if !docModel.IsKind(err, docModel.KindNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestSampleQuestions_ParsesLines(t *testing.T) {
	f := newFixture()
	doc := f.readyDoc(t, "doc_1.pdf", "en", 1)
	f.index.OnDocumentChunks = func(ctx context.Context, docId string) ([]docModel.DocChunk, error) {
		return []docModel.DocChunk{{DocId: docId, Seq: 0, Text: "content"}}, nil
	}
	f.llm.OnGenerate = func(ctx context.Context, sys, user string) (string, error) {
		return "1. What is covered?\n2. Who wrote it?\n\n3. When was it published?", nil
	}

	questions, err := f.service.SampleQuestions(context.Background(), doc.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d: %v", len(questions), questions)
	}
	if questions[0] != "What is covered?" {
		t.Fatalf("numbering not stripped: %q", questions[0])
	}
}
