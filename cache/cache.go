// Package cache is the reusable question/answer store. Records are
// append-only; corrections are new inserts, so exact lookups surface
// the most recent answer first.
package cache

import "context"

type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Tags     string `json:"tags,omitempty"`
}

type Cache interface {
	// Lookup returns up to limit records. Fuzzy lookups are relevance
	// ranked over a full-text index; exact lookups match the question
	// text verbatim, most recent first.
	Lookup(ctx context.Context, question string, fuzzy bool, limit int) ([]Record, error)
	// Upsert appends a record and its full-text projection together;
	// the two must never diverge.
	Upsert(ctx context.Context, question, answer, tags string) error
}
