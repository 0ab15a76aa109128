package memoryIndex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

type entry struct {
	chunk  docModel.DocChunk
	vector []float32
	norm   float64
}

// Index is the in-memory vector store. Brute-force cosine similarity
// over every candidate chunk; a single index-wide RWMutex keeps readers
// shared and writers exclusive. Contents live for the process lifetime
// only and are rebuilt by re-ingesting documents after a restart.
type Index struct {
	mu        sync.RWMutex
	dimension int
	byDoc     map[string][]entry
	logger    *logger_i.Logger
}

func New(dimension int32) (*Index, error) {
	if dimension <= 0 {
		return nil, docModel.E(docModel.KindConfiguration,
			fmt.Sprintf("embedding dimensionality must be positive, got %d", dimension), nil)
	}
	return &Index{
		dimension: int(dimension),
		byDoc:     make(map[string][]entry),
		logger:    logger_i.NewLogger("MemoryIndex"),
	}, nil
}

func (idx *Index) InsertBatch(ctx context.Context, chunks []docModel.DocChunk, vectors [][]float32) error {
	entries, err := idx.buildEntries(chunks, vectors)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.appendEntries(entries)
	return nil
}

func (idx *Index) ReplaceDocument(ctx context.Context, evictDocId string, chunks []docModel.DocChunk, vectors [][]float32) error {
	entries, err := idx.buildEntries(chunks, vectors)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.byDoc, evictDocId)
	idx.appendEntries(entries)
	idx.logger.Debug("replaced document", "evicted", evictDocId, "inserted chunks", len(entries))
	return nil
}

func (idx *Index) DeleteDocument(ctx context.Context, docId string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.byDoc, docId)
	return nil
}

func (idx *Index) Search(ctx context.Context, queryVector []float32, candidateDocIds []string, k int) ([]docModel.SearchHit, error) {
	if len(queryVector) != idx.dimension {
		return nil, docModel.E(docModel.KindConfiguration,
			fmt.Sprintf("query vector has %d dimensions, index holds %d", len(queryVector), idx.dimension), nil)
	}
	if k <= 0 {
		k = config.TopK
	}
	queryNorm := norm(queryVector)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var docIds []string
	if len(candidateDocIds) > 0 {
		docIds = candidateDocIds
	} else {
		for id := range idx.byDoc {
			docIds = append(docIds, id)
		}
	}

	hits := make([]docModel.SearchHit, 0, k)
	for _, docId := range docIds {
		for _, e := range idx.byDoc[docId] {
			hits = append(hits, docModel.SearchHit{
				Chunk: e.chunk,
				Score: cosine(queryVector, queryNorm, e.vector, e.norm),
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Chunk.DocId != hits[j].Chunk.DocId {
			return hits[i].Chunk.DocId < hits[j].Chunk.DocId
		}
		return hits[i].Chunk.Seq < hits[j].Chunk.Seq
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DocumentChunks returns the chunks of docId in sequence order.
func (idx *Index) DocumentChunks(ctx context.Context, docId string) ([]docModel.DocChunk, error) {
	idx.mu.RLock()
	entries := idx.byDoc[docId]
	chunks := make([]docModel.DocChunk, 0, len(entries))
	for _, e := range entries {
		chunks = append(chunks, e.chunk)
	}
	idx.mu.RUnlock()

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Seq < chunks[j].Seq })
	return chunks, nil
}

// ChunkCount reports the number of chunks held for docId.
func (idx *Index) ChunkCount(docId string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byDoc[docId])
}

func (idx *Index) buildEntries(chunks []docModel.DocChunk, vectors [][]float32) ([]entry, error) {
	if len(chunks) != len(vectors) {
		return nil, docModel.E(docModel.KindEmbedding,
			fmt.Sprintf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors)), nil)
	}
	entries := make([]entry, 0, len(chunks))
	for i, v := range vectors {
		if len(v) != idx.dimension {
			return nil, docModel.E(docModel.KindConfiguration,
				fmt.Sprintf("vector for chunk %d has %d dimensions, index holds %d", i, len(v), idx.dimension), nil)
		}
		entries = append(entries, entry{chunk: chunks[i], vector: v, norm: norm(v)})
	}
	return entries, nil
}

// appendEntries must run under the write lock.
func (idx *Index) appendEntries(entries []entry) {
	for _, e := range entries {
		idx.byDoc[e.chunk.DocId] = append(idx.byDoc[e.chunk.DocId], e)
	}
}

func cosine(q []float32, qNorm float64, v []float32, vNorm float64) float32 {
	if qNorm == 0 || vNorm == 0 {
		return 0
	}
	var dot float64
	for i := range q {
		dot += float64(q[i]) * float64(v[i])
	}
	return float32(dot / (qNorm * vNorm))
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
