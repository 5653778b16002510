package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/virtual-me/agent/index"
)

func unit(vals ...float32) []float32 {
	index.Normalize(vals)
	return vals
}

func TestSearchScoresStayInCosineRange(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	chunks := []index.Chunk{
		{Text: "alpha", Source: "a.md"},
		{Text: "beta", Source: "b.md"},
		{Text: "gamma", Source: "c.md"},
	}
	vectors := [][]float32{
		unit(1, 0, 0),
		unit(0, 1, 0),
		unit(-1, 0, 0),
	}

	require.NoError(t, store.Rebuild(ctx, chunks, vectors))

	hits, err := store.Search(ctx, unit(1, 1, 0), 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	for i, hit := range hits {
		assert.GreaterOrEqual(t, hit.Score, float32(-1))
		assert.LessOrEqual(t, hit.Score, float32(1))
		if i > 0 {
			assert.LessOrEqual(t, hit.Score, hits[i-1].Score)
		}
	}
}

func TestSearchRanksNearestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Rebuild(ctx,
		[]index.Chunk{{Text: "x"}, {Text: "y"}},
		[][]float32{unit(1, 0), unit(0, 1)},
	))

	hits, err := store.Search(ctx, unit(1, 0.1), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "x", hits[0].Chunk.Text)
}

func TestRebuildReplacesEverything(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Rebuild(ctx,
		[]index.Chunk{{Text: "old"}},
		[][]float32{unit(1, 0)},
	))
	require.NoError(t, store.Rebuild(ctx,
		[]index.Chunk{{Text: "new"}, {Text: "newer"}},
		[][]float32{unit(1, 0), unit(0, 1)},
	))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	hits, err := store.Search(ctx, unit(1, 0), 5)
	require.NoError(t, err)
	for _, hit := range hits {
		assert.NotEqual(t, "old", hit.Chunk.Text)
	}
}

func TestRebuildRejectsMismatchedCounts(t *testing.T) {
	store := NewStore()

	err := store.Rebuild(context.Background(), []index.Chunk{{Text: "a"}}, nil)
	assert.Error(t, err)
}

func TestCountOnEmptyStore(t *testing.T) {
	count, err := NewStore().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
