package toolhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/virtual-me/agent/model"
)

// Dispatcher maps a model-issued tool call onto a registered handler
// and packages the outcome as a tool message. Nothing it does can abort
// a conversation turn: unknown names yield an empty payload, bad
// arguments come back to the model as a failure description.
type Dispatcher struct {
	catalog *Catalog
}

func (d *Dispatcher) Dispatch(ctx context.Context, call model.ToolCall) model.Message {
	payload := d.run(ctx, call)

	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(`{}`)
	}

	return model.Message{
		Role:       model.RoleTool,
		Name:       call.Name,
		ToolCallID: call.ID,
		Content:    string(raw),
	}
}

func (d *Dispatcher) run(ctx context.Context, call model.ToolCall) map[string]any {
	slog.InfoContext(ctx, "tool called", "tool", call.Name)

	th, spec, ok := d.catalog.Get(call.Name)
	if !ok {
		slog.WarnContext(ctx, "unknown tool requested", "tool", call.Name)
		return map[string]any{}
	}

	args := map[string]any{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return map[string]any{"error": fmt.Sprintf("invalid arguments for %s: %v", call.Name, err)}
		}
	}

	for _, key := range spec.Required {
		if _, ok := args[key]; !ok {
			return map[string]any{"error": fmt.Sprintf("missing required argument %q for %s", key, call.Name)}
		}
	}

	rsp, err := th.Invoke(ctx, ToolRequest{CallID: call.ID, Arguments: args})
	if err != nil {
		slog.WarnContext(ctx, "tool failed", "tool", call.Name, "error", err)
		return map[string]any{"error": err.Error()}
	}

	if rsp.Payload == nil {
		return map[string]any{}
	}

	return rsp.Payload
}

func NewDispatcher(catalog *Catalog) *Dispatcher {
	return &Dispatcher{catalog: catalog}
}
