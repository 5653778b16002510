package qalookup

import (
	"context"

	"github.com/virtual-me/agent/cache"
	toolhandler "github.com/virtual-me/agent/tool_handler"
)

const defaultLimit = 5

type qaLookupToolHandler struct {
	cache cache.Cache
}

func (th *qaLookupToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "qadb_lookup",
		Description: "Search the reusable Q&A database for similar questions and answers.",
		InputSchema: map[string]any{
			"question": map[string]any{"type": "string"},
			"fuzzy":    map[string]any{"type": "boolean", "default": true},
			"limit":    map[string]any{"type": "integer", "default": defaultLimit},
		},
		Required: []string{"question"},
	}
}

func (th *qaLookupToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	question := toolhandler.StringArg(req.Arguments, "question")
	fuzzy := toolhandler.BoolArgOr(req.Arguments, "fuzzy", true)
	limit := toolhandler.IntArgOr(req.Arguments, "limit", defaultLimit)

	records, err := th.cache.Lookup(ctx, question, fuzzy, limit)
	if err != nil {
		return toolhandler.ToolResponse{}, err
	}

	results := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		results = append(results, map[string]any{
			"question": rec.Question,
			"answer":   rec.Answer,
			"tags":     rec.Tags,
		})
	}

	return toolhandler.ToolResponse{Payload: map[string]any{"results": results}}, nil
}

func NewToolHandler(c cache.Cache) toolhandler.ToolHandler {
	return &qaLookupToolHandler{cache: c}
}
