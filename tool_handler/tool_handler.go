package toolhandler

import "context"

type ToolHandler interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}

// ToolRequest carries the model-issued arguments, already parsed into a
// keyword payload.
type ToolRequest struct {
	CallID    string
	Arguments map[string]any
}

// ToolResponse is the structured payload handed back to the model. The
// dispatcher serializes it as JSON.
type ToolResponse struct {
	Payload map[string]any
}
