// Package reader turns source documents into plain text. The rest of
// the system only ever sees the extracted string, regardless of format.
package reader

import (
	"context"
	"path/filepath"
	"strings"
)

type Extractor interface {
	// Extensions lists the file extensions (with dot, lower case) this
	// extractor handles.
	Extensions() []string
	Extract(ctx context.Context, path string) (string, error)
}

// Registry resolves a file path to the extractor for its extension.
type Registry struct {
	byExt map[string]Extractor
}

func (r *Registry) For(path string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	return e, ok
}

func NewRegistry(extractors ...Extractor) *Registry {
	byExt := map[string]Extractor{}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			byExt[ext] = e
		}
	}
	return &Registry{byExt: byExt}
}
