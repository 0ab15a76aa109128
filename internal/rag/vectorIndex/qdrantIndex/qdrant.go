package qdrantIndex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// Optional backend selected with VECTOR_BACKEND=qdrant. The default
// in-memory index is authoritative for single-process deployments;
// qdrant trades that simplicity for out-of-process storage when the
// index outgrows the heap.

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.QdrantCollectionName

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = ""
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client", "error", err)
		return nil
	}

	if err := createCollection(context.Background(), client, collectionName); err != nil {
		logger.Error("could not create collection", "collectionName", collectionName, "error", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) InsertBatch(ctx context.Context, chunks []docModel.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return docModel.E(docModel.KindEmbedding,
			fmt.Sprintf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors)), nil)
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":       chunk.Text,
				"page_num":      chunk.PageNum,
				"source_doc_id": chunk.DocId,
				"doc_name":      chunk.DocName,
				"chunk_order":   chunk.Seq,
				"chunk_id":      chunk.ChunkId,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) ReplaceDocument(ctx context.Context, evictDocId string, chunks []docModel.DocChunk, vectors [][]float32) error {
	// Delete waits for acknowledgement before the reinsert so readers
	// never see old and new generations of the same filename together.
	if evictDocId != "" {
		if err := db.DeleteDocument(ctx, evictDocId); err != nil {
			return err
		}
	}
	return db.InsertBatch(ctx, chunks, vectors)
}

func (db *ClientHolder) DeleteDocument(ctx context.Context, docId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("source_doc_id", docId)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) DocumentChunks(ctx context.Context, docId string) ([]docModel.DocChunk, error) {
	points, err := db.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("source_doc_id", docId)},
		},
		Limit:       qdrant.PtrOf(uint32(10000)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll failed: %w", err)
	}

	chunks := make([]docModel.DocChunk, 0, len(points))
	for _, p := range points {
		chunks = append(chunks, docModel.DocChunk{
			DocId:   p.Payload["source_doc_id"].GetStringValue(),
			DocName: p.Payload["doc_name"].GetStringValue(),
			ChunkId: p.Payload["chunk_id"].GetStringValue(),
			Seq:     int(p.Payload["chunk_order"].GetIntegerValue()),
			Text:    p.Payload["content"].GetStringValue(),
			PageNum: int(p.Payload["page_num"].GetIntegerValue()),
		})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Seq < chunks[j].Seq })
	return chunks, nil
}

func (db *ClientHolder) Search(ctx context.Context, queryVector []float32, candidateDocIds []string, k int) ([]docModel.SearchHit, error) {
	if k <= 0 {
		k = config.TopK
	}

	var filter *qdrant.Filter
	if len(candidateDocIds) > 0 {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchKeywords("source_doc_id", candidateDocIds...)},
		}
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	hits := make([]docModel.SearchHit, 0, len(result))
	for _, hit := range result {
		hits = append(hits, docModel.SearchHit{
			Chunk: docModel.DocChunk{
				DocId:   hit.Payload["source_doc_id"].GetStringValue(),
				DocName: hit.Payload["doc_name"].GetStringValue(),
				ChunkId: hit.Payload["chunk_id"].GetStringValue(),
				Seq:     int(hit.Payload["chunk_order"].GetIntegerValue()),
				Text:    hit.Payload["content"].GetStringValue(),
				PageNum: int(hit.Payload["page_num"].GetIntegerValue()),
			},
			Score: hit.Score,
		})
	}
	return hits, nil
}
