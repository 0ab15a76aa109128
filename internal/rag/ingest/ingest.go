package ingest

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/rag/chunker"
	"github.com/doctalk-ai/doctalk/internal/rag/embedding"
	"github.com/doctalk-ai/doctalk/internal/rag/language"
	"github.com/doctalk-ai/doctalk/internal/rag/vectorIndex"
	"github.com/doctalk-ai/doctalk/internal/registry"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

// Pipeline turns an uploaded file into searchable chunks: extract,
// detect language, chunk, embed, index, promote. Failures mark the
// document failed with the step that broke; the upload itself was
// already acknowledged with 202.
type Pipeline struct {
	splitter   *chunker.Chunker
	embedder   embedding.Embedder
	index      vectorIndex.Index
	catalog    *registry.Registry
	normalizer *language.Normalizer
}

func NewPipeline(splitter *chunker.Chunker, embedder embedding.Embedder, index vectorIndex.Index, catalog *registry.Registry, normalizer *language.Normalizer) *Pipeline {
	return &Pipeline{
		splitter:   splitter,
		embedder:   embedder,
		index:      index,
		catalog:    catalog,
		normalizer: normalizer,
	}
}

func (p *Pipeline) Run(ctx context.Context, job jobModel.Job) jobModel.Job {
	docName := job.Payload.DocumentName
	docPath := job.Payload.FilePath
	logger.Debug("processing document", "filename", docName, "path", docPath, "traceId", job.TraceId)

	defer func() {
		if docPath == "" {
			return
		}
		if err := os.Remove(docPath); err != nil && !os.IsNotExist(err) {
			logger.Error("error removing upload file", "path", docPath, "error", err)
		}
	}()

	job.CurrentStep = jobModel.IngestExtracting
	docType := getDocType(docPath)
	if docType == docModel.ERR {
		return p.failJob(job, docModel.KindExtraction, "unsupported file type")
	}

	rawPages, err := extractText(docPath, docType)
	if err != nil {
		logger.Error("error extracting document content", "error", err)
		return p.failJob(job, docModel.KindExtraction, "error extracting document content")
	}

	text, pageStarts := assembleText(rawPages)
	if strings.TrimSpace(text) == "" {
		return p.failJob(job, docModel.KindExtraction, "document contains no extractable text")
	}
	job.Payload.PageCount = len(rawPages)

	docLanguage := p.normalizer.Detect(text)
	p.catalog.SetLanguage(job.DocumentId, docLanguage)

	job.CurrentStep = jobModel.IngestChunking
	spans := p.splitter.Split(text)
	chunks := buildChunks(job.DocumentId, docName, spans, rawPages, pageStarts)
	job.Payload.ChunkCount = len(chunks)
	logger.Debug("document chunked", "chunks", len(chunks), "pages", len(rawPages))

	job.CurrentStep = jobModel.IngestEmbedding
	vectors, err := p.embedBatches(ctx, chunks)
	if err != nil {
		logger.Error("error embedding document", "error", err)
		return p.failJob(job, docModel.KindEmbedding, "error embedding document content")
	}

	job.CurrentStep = jobModel.IngestIndexing
	// Swap out the current holder of this filename in the same exclusive
	// section as the insert, so searches never mix both generations.
	evictTarget := p.catalog.ReadyIdForName(docName, job.DocumentId)
	if err := p.index.ReplaceDocument(ctx, evictTarget, chunks, vectors); err != nil {
		logger.Error("error indexing document", "error", err)
		return p.failJob(job, docModel.KindConfiguration, "error indexing document content")
	}

	evicted, err := p.catalog.MarkReady(job.DocumentId, len(chunks))
	if err != nil {
		p.cleanupChunks(ctx, job.DocumentId)
		return p.failJob(job, docModel.KindNotFound, "document disappeared during ingestion")
	}
	// A promotion that raced this one past ReadyIdForName still shows up
	// here; purge whatever the replace above did not cover.
	for _, id := range evicted {
		if id != evictTarget {
			p.cleanupChunks(ctx, id)
		}
	}

	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	job.EndTime = time.Now().UTC()
	return job
}

func (p *Pipeline) embedBatches(ctx context.Context, chunks []docModel.DocChunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += config.EmbeddingBatchSize {
		end := i + config.EmbeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-i)
		for _, c := range chunks[i:end] {
			texts = append(texts, c.Text)
		}
		batch, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (p *Pipeline) cleanupChunks(ctx context.Context, docId string) {
	if err := p.index.DeleteDocument(ctx, docId); err != nil {
		logger.Error("error purging chunks", "documentId", docId, "error", err)
	}
}

func (p *Pipeline) failJob(job jobModel.Job, kind docModel.ErrorKind, message string) jobModel.Job {
	if err := p.catalog.MarkFailed(job.DocumentId, message); err != nil {
		logger.Error("error marking document failed", "documentId", job.DocumentId, "error", err)
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	job.Error = jobModel.JobError{Kind: string(kind), Message: message}
	job.EndTime = time.Now().UTC()
	return job
}

// assembleText joins the pages into one string so chunk overlap can
// straddle page breaks, and records each page's starting rune offset.
func assembleText(pages []rawPage) (string, []int) {
	var b strings.Builder
	starts := make([]int, len(pages))
	offset := 0
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\n")
			offset++
		}
		starts[i] = offset
		b.WriteString(page.Content)
		offset += len([]rune(page.Content))
	}
	return b.String(), starts
}

func buildChunks(docId string, docName string, spans []chunker.Span, pages []rawPage, pageStarts []int) []docModel.DocChunk {
	chunks := make([]docModel.DocChunk, 0, len(spans))
	for seq, span := range spans {
		chunks = append(chunks, docModel.DocChunk{
			DocId:   docId,
			DocName: docName,
			ChunkId: uuid.New().String(),
			Seq:     seq,
			Text:    span.Text,
			PageNum: pageForOffset(pages, pageStarts, span.Start),
		})
	}
	return chunks
}

// pageForOffset returns the number of the page a chunk starts on.
func pageForOffset(pages []rawPage, pageStarts []int, offset int) int {
	if len(pages) == 0 {
		return 0
	}
	i := sort.SearchInts(pageStarts, offset+1) - 1
	if i < 0 {
		i = 0
	}
	return pages[i].Number
}
