package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/rag/chunker"
	"github.com/doctalk-ai/doctalk/internal/rag/language"
	"github.com/doctalk-ai/doctalk/internal/rag/vectorIndex/memoryIndex"
	"github.com/doctalk-ai/doctalk/internal/registry"
)

// --- mocks ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.batchFunc(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return m.batchFunc(ctx, texts)
}

func (m *mockEmbedder) Dimension() int32 { return 4 }

func constantEmbedder() *mockEmbedder {
	return &mockEmbedder{
		batchFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			vecs := make([][]float32, len(texts))
			for i := range texts {
				vecs[i] = []float32{1, 0, 0, 0}
			}
			return vecs, nil
		},
	}
}

type stubDetector struct{ code string }

func (s *stubDetector) Detect(text string) (string, bool) { return s.code, true }

type stubTranslator struct{}

func (s *stubTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	return text, nil
}

func newTestPipeline(t *testing.T, embedder *mockEmbedder) (*Pipeline, *registry.Registry, *memoryIndex.Index) {
	t.Helper()
	splitter, err := chunker.New(50, 10)
	if err != nil {
		t.Fatalf("chunker: %v", err)
	}
	index, err := memoryIndex.New(4)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	catalog := registry.New()
	normalizer := language.NewNormalizer(&stubDetector{code: "en"}, &stubTranslator{})
	return NewPipeline(splitter, embedder, index, catalog, normalizer), catalog, index
}

func writeUpload(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	return path
}

func ingestJob(doc docModel.Document, path string) jobModel.Job {
	return jobModel.Job{
		Id:         "job-1",
		DocumentId: doc.Id,
		Status:     jobModel.JobStatusRunning,
		Payload: jobModel.JobPayload{
			DocumentName: doc.Name,
			FilePath:     path,
		},
	}
}

// --- tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected docModel.DocType
	}{
		{"test.pdf", docModel.PDF},
		{"DOC.DOCX", docModel.DOCX},
		{"notes.txt", docModel.TXT},
		{"manual.rtf", docModel.DOCX},
		{"image.png", docModel.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestPageForOffset(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: "aaaa"},
		{Number: 3, Content: "bbbb"},
		{Number: 4, Content: "cccc"},
	}
	text, starts := assembleText(pages)
	if text != "aaaa\nbbbb\ncccc" {
		t.Fatalf("unexpected assembled text %q", text)
	}

	tests := []struct {
		offset   int
		expected int
	}{
		{0, 1},
		{3, 1},
		{5, 3},
		{8, 3},
		{10, 4},
		{13, 4},
	}
	for _, tt := range tests {
		if got := pageForOffset(pages, starts, tt.offset); got != tt.expected {
			t.Errorf("pageForOffset(%d) = %d; want %d", tt.offset, got, tt.expected)
		}
	}
}

func TestRun_TxtFileBecomesReadyAndSearchable(t *testing.T) {
	pipeline, catalog, index := newTestPipeline(t, constantEmbedder())
	content := strings.Repeat("the quick brown fox jumps over the lazy dog ", 10)
	path := writeUpload(t, "notes.txt", content)
	doc := catalog.Register("notes.txt", "")

	got := pipeline.Run(context.Background(), ingestJob(doc, path))
	if got.Status != jobModel.JobStatusComplete {
		t.Fatalf("expected complete job, got %s (%+v)", got.Status, got.Error)
	}
	if got.Payload.ChunkCount == 0 || got.Payload.PageCount != 1 {
		t.Fatalf("unexpected payload: %+v", got.Payload)
	}

	ready, err := catalog.Get(doc.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ready.Status != docModel.StatusReady {
		t.Fatalf("expected ready document, got %s", ready.Status)
	}
	if ready.Language != "en" {
		t.Fatalf("expected detected language en, got %q", ready.Language)
	}
	if ready.ChunkCount != got.Payload.ChunkCount {
		t.Fatalf("chunk counts disagree: %d vs %d", ready.ChunkCount, got.Payload.ChunkCount)
	}

	hits, err := index.Search(context.Background(), []float32{1, 0, 0, 0}, []string{doc.Id}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("upload file should be removed after ingestion")
	}
}

func TestRun_EmptyFileFailsDocument(t *testing.T) {
	pipeline, catalog, _ := newTestPipeline(t, constantEmbedder())
	path := writeUpload(t, "empty.txt", "   \n\t ")
	doc := catalog.Register("empty.txt", "")

	got := pipeline.Run(context.Background(), ingestJob(doc, path))
	if got.Status != jobModel.JobStatusError {
		t.Fatalf("expected error job, got %s", got.Status)
	}
	if got.Error.Kind != string(docModel.KindExtraction) {
		t.Fatalf("expected extraction kind, got %q", got.Error.Kind)
	}

	failed, err := catalog.Get(doc.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed.Status != docModel.StatusFailed || failed.FailReason == "" {
		t.Fatalf("unexpected document: %+v", failed)
	}
	if len(catalog.ReadyIds()) != 0 {
		t.Fatal("failed document must not become queryable")
	}
}

func TestRun_EmbeddingFailureAbortsIngestion(t *testing.T) {
	embedder := &mockEmbedder{
		batchFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("quota exhausted")
		},
	}
	pipeline, catalog, index := newTestPipeline(t, embedder)
	path := writeUpload(t, "doc.txt", strings.Repeat("words and more words ", 20))
	doc := catalog.Register("doc.txt", "")

	got := pipeline.Run(context.Background(), ingestJob(doc, path))
	if got.Status != jobModel.JobStatusError {
		t.Fatalf("expected error job, got %s", got.Status)
	}
	if got.Error.Kind != string(docModel.KindEmbedding) {
		t.Fatalf("expected embedding kind, got %q", got.Error.Kind)
	}

	hits, err := index.Search(context.Background(), []float32{1, 0, 0, 0}, nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatal("no chunks may be indexed when embedding fails")
	}
}

func TestRun_UnsupportedTypeFails(t *testing.T) {
	pipeline, catalog, _ := newTestPipeline(t, constantEmbedder())
	path := writeUpload(t, "image.png", "not a document")
	doc := catalog.Register("image.png", "")

	got := pipeline.Run(context.Background(), ingestJob(doc, path))
	if got.Status != jobModel.JobStatusError {
		t.Fatalf("expected error job, got %s", got.Status)
	}
	if got.Error.Kind != string(docModel.KindExtraction) {
		t.Fatalf("expected extraction kind, got %q", got.Error.Kind)
	}
}

func TestRun_OverwriteEvictsOldChunks(t *testing.T) {
	pipeline, catalog, index := newTestPipeline(t, constantEmbedder())

	first := catalog.Register("report.txt", "")
	firstPath := writeUpload(t, "report.txt", strings.Repeat("first version text ", 20))
	if got := pipeline.Run(context.Background(), ingestJob(first, firstPath)); got.Status != jobModel.JobStatusComplete {
		t.Fatalf("first ingestion failed: %+v", got.Error)
	}

	second := catalog.Register("report.txt", "")
	secondPath := writeUpload(t, "report.txt", strings.Repeat("second version text ", 20))
	if got := pipeline.Run(context.Background(), ingestJob(second, secondPath)); got.Status != jobModel.JobStatusComplete {
		t.Fatalf("second ingestion failed: %+v", got.Error)
	}

	docs := catalog.List()
	if len(docs) != 1 || docs[0].Id != second.Id {
		t.Fatalf("expected only the replacement document, got %+v", docs)
	}

	// Widened search must only surface the replacement's chunks.
	hits, err := index.Search(context.Background(), []float32{1, 0, 0, 0}, nil, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, hit := range hits {
		if hit.Chunk.DocId != second.Id {
			t.Fatalf("found orphaned chunk for evicted document %s", hit.Chunk.DocId)
		}
	}
	if len(hits) == 0 {
		t.Fatal("replacement document has no indexed chunks")
	}
}
