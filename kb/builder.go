// Package kb builds the knowledge-base index: documents are extracted
// to text, segmented into chunks, embedded in batches, and handed to
// the vector index store as one full rebuild.
package kb

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/virtual-me/agent/index"
	"github.com/virtual-me/agent/model"
	"github.com/virtual-me/agent/reader"
)

const embedBatchSize = 64

type Builder struct {
	provider model.Provider
	store    index.Store
	readers  *reader.Registry
	maxChars int
}

// Build chunks every readable document under dir and replaces the
// store's contents. It returns the number of chunks indexed. A
// knowledge base with no chunkable content leaves the store untouched
// and returns zero.
func (b *Builder) Build(ctx context.Context, dir string) (int, error) {
	chunks, err := b.collect(ctx, dir)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := b.embed(ctx, chunks)
	if err != nil {
		return 0, err
	}

	for _, vec := range vectors {
		index.Normalize(vec)
	}

	if err := b.store.Rebuild(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	return len(chunks), nil
}

func (b *Builder) collect(ctx context.Context, dir string) ([]index.Chunk, error) {
	var chunks []index.Chunk

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		extractor, ok := b.readers.For(path)
		if !ok {
			return nil
		}

		text, err := extractor.Extract(ctx, path)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable document", "path", path, "error", err)
			return nil
		}

		source, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			source = path
		}

		for _, part := range Split(text, b.maxChars) {
			chunks = append(chunks, index.Chunk{Text: part, Source: source})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	return chunks, nil
}

func (b *Builder) embed(ctx context.Context, chunks []index.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		batch, err := b.provider.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}

		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func NewBuilder(provider model.Provider, store index.Store, readers *reader.Registry, maxChars int) *Builder {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	return &Builder{
		provider: provider,
		store:    store,
		readers:  readers,
		maxChars: maxChars,
	}
}
