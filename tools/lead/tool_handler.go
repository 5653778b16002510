package lead

import (
	"context"
	"fmt"

	"github.com/virtual-me/agent/notifier"
	toolhandler "github.com/virtual-me/agent/tool_handler"
)

type leadToolHandler struct {
	notifier notifier.Notifier
}

func (th *leadToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "record_user_details",
		Description: "Use this tool to record that a user is interested in being in touch and provided an email address",
		InputSchema: map[string]any{
			"email": map[string]any{"type": "string", "description": "The email address of this user"},
			"name":  map[string]any{"type": "string", "description": "The user's name, if they provided it"},
			"notes": map[string]any{"type": "string", "description": "Any additional information worth recording"},
		},
		Required: []string{"email"},
	}
}

func (th *leadToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	email := toolhandler.StringArg(req.Arguments, "email")
	name := toolhandler.StringArgOr(req.Arguments, "name", "Name not provided")
	notes := toolhandler.StringArgOr(req.Arguments, "notes", "not provided")

	notifier.Fire(ctx, th.notifier, fmt.Sprintf("Recording %s with email %s and notes %s", name, email, notes))

	return toolhandler.ToolResponse{Payload: map[string]any{"recorded": "ok"}}, nil
}

func NewToolHandler(n notifier.Notifier) toolhandler.ToolHandler {
	return &leadToolHandler{notifier: n}
}
