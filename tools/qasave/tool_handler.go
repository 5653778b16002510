package qasave

import (
	"context"

	"github.com/virtual-me/agent/cache"
	toolhandler "github.com/virtual-me/agent/tool_handler"
)

type qaSaveToolHandler struct {
	cache cache.Cache
}

func (th *qaSaveToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "qadb_upsert",
		Description: "Save a good reusable answer into the Q&A database for future consistency.",
		InputSchema: map[string]any{
			"question": map[string]any{"type": "string"},
			"answer":   map[string]any{"type": "string"},
			"tags":     map[string]any{"type": "string"},
		},
		Required: []string{"question", "answer"},
	}
}

func (th *qaSaveToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	question := toolhandler.StringArg(req.Arguments, "question")
	answer := toolhandler.StringArg(req.Arguments, "answer")
	tags := toolhandler.StringArg(req.Arguments, "tags")

	if err := th.cache.Upsert(ctx, question, answer, tags); err != nil {
		return toolhandler.ToolResponse{}, err
	}

	return toolhandler.ToolResponse{Payload: map[string]any{"saved": true}}, nil
}

func NewToolHandler(c cache.Cache) toolhandler.ToolHandler {
	return &qaSaveToolHandler{cache: c}
}
