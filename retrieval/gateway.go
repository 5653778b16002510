// Package retrieval turns a natural-language query into a context blob
// of ranked knowledge-base snippets.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/virtual-me/agent/index"
	"github.com/virtual-me/agent/model"
)

const (
	// SentinelEmpty is returned when the index has no entries at all.
	SentinelEmpty = "(KB empty)"
	// SentinelNoMatch is returned when a search yields no hits.
	SentinelNoMatch = "(no matches)"

	DefaultK = 4
)

// prioritySources marks source labels worth surfacing first, whatever
// their similarity rank. Matching is on the label, not the content, so
// a more similar chunk can legitimately end up below a prioritized one.
var prioritySources = []string{"assignment", "coursework", "course", "lab", "project"}

type Gateway struct {
	provider model.Provider
	store    index.Store
}

// Retrieve embeds the query once, searches the index for the top-k
// chunks, and formats each hit as "[source] text". An empty or absent
// index yields a sentinel string, never an error.
func (g *Gateway) Retrieve(ctx context.Context, query string, k int) (string, error) {
	if k < 1 {
		k = DefaultK
	}

	count, err := g.store.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count index: %w", err)
	}
	if count == 0 {
		return SentinelEmpty, nil
	}

	vectors, err := g.provider.Embed(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return "", fmt.Errorf("embed query: empty response")
	}

	vec := vectors[0]
	index.Normalize(vec)

	hits, err := g.store.Search(ctx, vec, k)
	if err != nil {
		return "", fmt.Errorf("search index: %w", err)
	}
	if len(hits) == 0 {
		return SentinelNoMatch, nil
	}

	hits = prioritize(hits)

	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, fmt.Sprintf("[%s] %s", hit.Chunk.Source, hit.Chunk.Text))
	}

	return strings.Join(parts, "\n\n"), nil
}

// prioritize moves hits with a high-value source label to the front.
// It is a stable partition: relative order within each group is kept
// and similarity scores are not recomputed. Running it on already
// prioritized output changes nothing.
func prioritize(hits []index.Hit) []index.Hit {
	front := make([]index.Hit, 0, len(hits))
	rest := make([]index.Hit, 0, len(hits))

	for _, hit := range hits {
		if prioritized(hit.Chunk.Source) {
			front = append(front, hit)
		} else {
			rest = append(rest, hit)
		}
	}

	return append(front, rest...)
}

func prioritized(source string) bool {
	lower := strings.ToLower(source)
	for _, keyword := range prioritySources {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func NewGateway(provider model.Provider, store index.Store) *Gateway {
	return &Gateway{
		provider: provider,
		store:    store,
	}
}
