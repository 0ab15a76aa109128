package vectorIndex

import (
	"context"

	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
)

// Index stores chunk vectors and answers k-nearest-neighbour searches by
// cosine similarity. Writes for one document are all-or-nothing with
// respect to concurrent searches: a search never observes a document
// half inserted or half evicted.
type Index interface {
	// InsertBatch adds every chunk of a document in one exclusive section.
	InsertBatch(ctx context.Context, chunks []docModel.DocChunk, vectors [][]float32) error

	// ReplaceDocument evicts evictDocId and inserts the new chunks without
	// releasing exclusivity in between. Used for filename-collision
	// overwrites so a concurrent search never mixes chunk generations.
	ReplaceDocument(ctx context.Context, evictDocId string, chunks []docModel.DocChunk, vectors [][]float32) error

	// DeleteDocument removes every chunk belonging to docId.
	DeleteDocument(ctx context.Context, docId string) error

	// DocumentChunks returns every chunk of docId ordered by sequence
	// number. Summaries read documents front to back instead of by
	// similarity.
	DocumentChunks(ctx context.Context, docId string) ([]docModel.DocChunk, error)

	// Search returns the top k hits among chunks whose document is in
	// candidateDocIds, descending by similarity, ties broken by ascending
	// (document ID, chunk sequence). An empty candidate set widens the
	// scope to every indexed document; the query engine passes the ready
	// list explicitly in that case. Zero matches yield an empty, non-nil
	// error-free result.
	Search(ctx context.Context, queryVector []float32, candidateDocIds []string, k int) ([]docModel.SearchHit, error)
}
