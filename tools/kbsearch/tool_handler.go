package kbsearch

import (
	"context"

	"github.com/virtual-me/agent/retrieval"
	toolhandler "github.com/virtual-me/agent/tool_handler"
)

type kbSearchToolHandler struct {
	gateway *retrieval.Gateway
}

func (th *kbSearchToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "rag_lookup",
		Description: "Search the personal knowledge base for context about the persona.",
		InputSchema: map[string]any{
			"query": map[string]any{"type": "string", "description": "What to search in the KB"},
			"k":     map[string]any{"type": "integer", "description": "Top-K passages", "default": retrieval.DefaultK},
		},
		Required: []string{"query"},
	}
}

func (th *kbSearchToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	query := toolhandler.StringArg(req.Arguments, "query")
	k := toolhandler.IntArgOr(req.Arguments, "k", retrieval.DefaultK)

	blob, err := th.gateway.Retrieve(ctx, query, k)
	if err != nil {
		return toolhandler.ToolResponse{}, err
	}

	return toolhandler.ToolResponse{Payload: map[string]any{"context": blob}}, nil
}

func NewToolHandler(gateway *retrieval.Gateway) toolhandler.ToolHandler {
	return &kbSearchToolHandler{gateway: gateway}
}
