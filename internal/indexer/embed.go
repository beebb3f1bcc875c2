package indexer

import (
	"context"
	"fmt"

	"github.com/sevigo/goframe/embeddings"
)

// embedBatchSize is the default batch size for outbound embedding calls
//").
const embedBatchSize = 16

// embedAll embeds texts in batches of embedBatchSize and returns one vector
// per input text, preserving order.
func embedAll(ctx context.Context, embedder embeddings.Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := embedder.EmbedDocuments(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("indexer: embedding batch [%d:%d]: %w", start, end, err)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
