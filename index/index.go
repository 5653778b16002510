// Package index defines the vector index over knowledge-base chunks.
// All vectors in one index are unit length, so inner product and cosine
// similarity coincide.
package index

import (
	"context"
	"math"
)

// Chunk is a contiguous slice of a source document used as a retrieval
// unit. Chunks are created at build time and never mutated.
type Chunk struct {
	Text   string `json:"chunk"`
	Source string `json:"source"`
}

type Hit struct {
	Chunk Chunk
	Score float32
}

// Store persists chunks and their embeddings. Rebuild replaces the whole
// index; there is no incremental update. Search returns hits in
// non-increasing score order.
type Store interface {
	Rebuild(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Count(ctx context.Context) (int, error)
}

// Normalize scales vec to unit length in place. Zero vectors are left
// untouched.
func Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

// Dot is the inner product of two equal-length vectors.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
