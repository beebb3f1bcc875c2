package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// encodeVector packs a []float32 into a little-endian byte slice for the
// embeddings.vector column. Embeddings are stored relationally rather than
// in a vector database: contextpack computes cosine similarity in process
// over the raw components, so the column only needs to round-trip them.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector is the inverse of encodeVector.
func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("storage: vector blob length %d is not a multiple of 4", len(buf))
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v, nil
}

// encodeExamples serializes a GraphEdge's example provenance strings into
// the portable JSON-array-as-TEXT representation shared by both drivers
// (Postgres never got a native array column; see the storage design notes
// on cross-driver portability).
func encodeExamples(examples []string) (string, error) {
	if examples == nil {
		examples = []string{}
	}
	buf, err := json.Marshal(examples)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// decodeExamples is the inverse of encodeExamples.
func decodeExamples(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var examples []string
	if err := json.Unmarshal([]byte(raw), &examples); err != nil {
		return nil, fmt.Errorf("storage: decode edge examples: %w", err)
	}
	return examples, nil
}
