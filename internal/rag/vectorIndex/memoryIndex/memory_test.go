package memoryIndex

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
)

func mkChunk(docId string, seq int, text string) docModel.DocChunk {
	return docModel.DocChunk{
		DocId:   docId,
		ChunkId: fmt.Sprintf("%s-%d", docId, seq),
		Seq:     seq,
		Text:    text,
	}
}

func TestNew_RejectsBadDimension(t *testing.T) {
	if _, err := New(0); !docModel.IsKind(err, docModel.KindConfiguration) {
		t.Errorf("expected configuration error for zero dimension, got %v", err)
	}
}

func TestInsertBatch_DimensionMismatch(t *testing.T) {
	idx, _ := New(3)
	err := idx.InsertBatch(context.Background(),
		[]docModel.DocChunk{mkChunk("doc_1", 0, "a")},
		[][]float32{{1, 0}})
	if !docModel.IsKind(err, docModel.KindConfiguration) {
		t.Errorf("expected configuration error for dimension mismatch, got %v", err)
	}
	if idx.ChunkCount("doc_1") != 0 {
		t.Error("failed insert must leave no chunks behind")
	}
}

func TestInsertBatch_LengthMismatch(t *testing.T) {
	idx, _ := New(2)
	err := idx.InsertBatch(context.Background(),
		[]docModel.DocChunk{mkChunk("doc_1", 0, "a"), mkChunk("doc_1", 1, "b")},
		[][]float32{{1, 0}})
	if err == nil {
		t.Error("expected error for chunk/vector count mismatch")
	}
}

func TestSearch_FilterAndOrder(t *testing.T) {
	idx, _ := New(2)
	ctx := context.Background()

	// doc_1 chunk 0 points along x, chunk 1 along y; doc_2 chunk 0 is the
	// exact query direction.
	idx.InsertBatch(ctx,
		[]docModel.DocChunk{mkChunk("doc_1", 0, "x"), mkChunk("doc_1", 1, "y")},
		[][]float32{{1, 0}, {0, 1}})
	idx.InsertBatch(ctx,
		[]docModel.DocChunk{mkChunk("doc_2", 0, "xy")},
		[][]float32{{1, 1}})

	t.Run("restricted to candidates", func(t *testing.T) {
		hits, err := idx.Search(ctx, []float32{1, 1}, []string{"doc_1"}, 5)
		if err != nil {
			t.Fatal(err)
		}
		for _, h := range hits {
			if h.Chunk.DocId != "doc_1" {
				t.Errorf("hit from document outside candidate set: %s", h.Chunk.DocId)
			}
		}
	})

	t.Run("descending by score", func(t *testing.T) {
		hits, err := idx.Search(ctx, []float32{1, 1}, nil, 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 3 {
			t.Fatalf("expected 3 hits, got %d", len(hits))
		}
		if hits[0].Chunk.DocId != "doc_2" {
			t.Errorf("best hit should be the exact-direction chunk, got %+v", hits[0].Chunk)
		}
		for i := 1; i < len(hits); i++ {
			if hits[i].Score > hits[i-1].Score {
				t.Error("hits not sorted by descending score")
			}
		}
	})

	t.Run("ties break by doc id then sequence", func(t *testing.T) {
		// doc_1 chunks 0 and 1 score identically against the diagonal query.
		hits, _ := idx.Search(ctx, []float32{1, 1}, []string{"doc_1"}, 5)
		if hits[0].Chunk.Seq != 0 || hits[1].Chunk.Seq != 1 {
			t.Errorf("tie not broken by ascending sequence: %d then %d", hits[0].Chunk.Seq, hits[1].Chunk.Seq)
		}
	})

	t.Run("top k bound", func(t *testing.T) {
		hits, _ := idx.Search(ctx, []float32{1, 1}, nil, 2)
		if len(hits) != 2 {
			t.Errorf("expected k=2 hits, got %d", len(hits))
		}
	})
}

func TestSearch_EmptyIndexAndUnknownDoc(t *testing.T) {
	idx, _ := New(2)
	ctx := context.Background()

	hits, err := idx.Search(ctx, []float32{1, 0}, nil, 5)
	if err != nil {
		t.Fatalf("empty index search must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected empty result, got %d hits", len(hits))
	}

	hits, err = idx.Search(ctx, []float32{1, 0}, []string{"doc_missing"}, 5)
	if err != nil || len(hits) != 0 {
		t.Errorf("unknown candidate document must yield empty result, got %d hits, err %v", len(hits), err)
	}
}

func TestSearch_Idempotent(t *testing.T) {
	idx, _ := New(3)
	ctx := context.Background()
	for d := 0; d < 3; d++ {
		docId := fmt.Sprintf("doc_%d", d)
		idx.InsertBatch(ctx,
			[]docModel.DocChunk{mkChunk(docId, 0, "a"), mkChunk(docId, 1, "b")},
			[][]float32{{float32(d), 1, 0}, {1, float32(d), 1}})
	}

	first, _ := idx.Search(ctx, []float32{1, 1, 1}, nil, 4)
	second, _ := idx.Search(ctx, []float32{1, 1, 1}, nil, 4)

	if len(first) != len(second) {
		t.Fatalf("result sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Chunk.ChunkId != second[i].Chunk.ChunkId || first[i].Score != second[i].Score {
			t.Errorf("result %d differs between identical searches", i)
		}
	}
}

func TestReplaceDocument_NoMixedGenerations(t *testing.T) {
	idx, _ := New(2)
	ctx := context.Background()

	idx.InsertBatch(ctx,
		[]docModel.DocChunk{mkChunk("old_id", 0, "old")},
		[][]float32{{1, 0}})

	err := idx.ReplaceDocument(ctx, "old_id",
		[]docModel.DocChunk{mkChunk("new_id", 0, "new"), mkChunk("new_id", 1, "newer")},
		[][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatal(err)
	}

	if idx.ChunkCount("old_id") != 0 {
		t.Error("evicted document still has chunks")
	}
	if idx.ChunkCount("new_id") != 2 {
		t.Errorf("replacement document has %d chunks, want 2", idx.ChunkCount("new_id"))
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	idx, _ := New(2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				docId := fmt.Sprintf("doc_%d_%d", w, i)
				idx.InsertBatch(ctx,
					[]docModel.DocChunk{mkChunk(docId, 0, "c")},
					[][]float32{{1, float32(i)}})
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := idx.Search(ctx, []float32{1, 1}, nil, 3); err != nil {
					t.Errorf("concurrent search failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
