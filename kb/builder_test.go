package kb

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtual-me/agent/index"
	"github.com/virtual-me/agent/index/memory"
	"github.com/virtual-me/agent/model"
	"github.com/virtual-me/agent/reader"
)

// hashProvider embeds each text deterministically from its length.
type hashProvider struct {
	batches int
}

func (p *hashProvider) Complete(ctx context.Context, transcript []model.Message, tools []model.Tool) (*model.Completion, error) {
	return nil, nil
}

func (p *hashProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p.batches++

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vectors = append(vectors, []float32{float32(len(text)), 1})
	}

	return vectors, nil
}

func writeKB(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return dir
}

func TestBuildIndexesChunksWithRelativeSources(t *testing.T) {
	dir := writeKB(t, map[string]string{
		"bio.md":               "grew up in Athens",
		"coursework/ml.md":     "gradient descent notes",
		"assets/sketch.png":    "binary noise",
		"coursework/extra.csv": "ignored, no extractor",
	})

	store := memory.NewStore()
	builder := NewBuilder(&hashProvider{}, store, reader.NewRegistry(reader.NewTextExtractor()), 0)

	count, err := builder.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	hits, err := store.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	sources := []string{hits[0].Chunk.Source, hits[1].Chunk.Source}
	assert.ElementsMatch(t, []string{"bio.md", filepath.Join("coursework", "ml.md")}, sources)
}

func TestBuildNormalizesVectors(t *testing.T) {
	dir := writeKB(t, map[string]string{"bio.md": "short"})

	store := memory.NewStore()
	builder := NewBuilder(&hashProvider{}, store, reader.NewRegistry(reader.NewTextExtractor()), 0)

	_, err := builder.Build(context.Background(), dir)
	require.NoError(t, err)

	// A unit query against a unit stored vector scores at most 1 in
	// magnitude; an unnormalized stored vector would blow past it.
	hits, err := store.Search(context.Background(), []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.LessOrEqual(t, math.Abs(float64(hits[0].Score)), 1+1e-6)
}

func TestBuildEmptyDirLeavesStoreUntouched(t *testing.T) {
	dir := writeKB(t, map[string]string{"image.png": "no extractor"})

	store := memory.NewStore()
	require.NoError(t, store.Rebuild(
		context.Background(),
		[]index.Chunk{{Text: "existing", Source: "old.md"}},
		[][]float32{{1, 0}},
	))

	builder := NewBuilder(&hashProvider{}, store, reader.NewRegistry(reader.NewTextExtractor()), 0)

	count, err := builder.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, count)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBuildBatchesEmbeddings(t *testing.T) {
	// One large file splits into more chunks than a single embed batch.
	dir := writeKB(t, map[string]string{"big.md": bigDocument(embedBatchSize + 5)})

	provider := &hashProvider{}
	store := memory.NewStore()
	builder := NewBuilder(provider, store, reader.NewRegistry(reader.NewTextExtractor()), 0)

	count, err := builder.Build(context.Background(), dir)
	require.NoError(t, err)

	assert.Greater(t, count, embedBatchSize)
	assert.Equal(t, 2, provider.batches)
}

// bigDocument yields n headings so the chunker emits n chunks.
func bigDocument(n int) string {
	var out string
	for i := 0; i < n; i++ {
		out += "# Section\nbody line\n"
	}
	return out
}
