package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/virtual-me/agent/index"
)

type snapshot struct {
	chunks  []index.Chunk
	vectors [][]float32
}

// Store keeps the index in process memory: brute-force exact search over
// every stored vector.
type Store struct {
	snap snapshot
	mtx  sync.RWMutex
}

func (s *Store) Rebuild(ctx context.Context, chunks []index.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunk and vector counts differ")
	}

	cpyChunks := make([]index.Chunk, len(chunks))
	copy(cpyChunks, chunks)

	cpyVectors := make([][]float32, len(vectors))
	for i, v := range vectors {
		vec := make([]float32, len(v))
		copy(vec, v)
		cpyVectors[i] = vec
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.snap = snapshot{chunks: cpyChunks, vectors: cpyVectors}

	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]index.Hit, error) {
	if k < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	hits := make([]index.Hit, 0, len(s.snap.chunks))
	for i, chunk := range s.snap.chunks {
		hits = append(hits, index.Hit{
			Chunk: chunk,
			Score: index.Dot(vector, s.snap.vectors[i]),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.snap.chunks), nil
}

func NewStore() *Store {
	return &Store{}
}
