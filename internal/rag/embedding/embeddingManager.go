package embedding

import "context"

// Embedder turns text into fixed-dimension vectors. Every vector it
// returns has exactly Dimension entries; the vector index rejects
// anything else as a configuration fault.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int32
}
