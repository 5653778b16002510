package toolhandler

import "github.com/virtual-me/agent/model"

// ToolSpec declares one capability: its name, what it does, and the
// JSON-schema properties of its arguments.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
	Required    []string       `json:"required,omitempty"`
}

// ModelTool renders the spec in the shape model providers expose to the
// model.
func (s ToolSpec) ModelTool() model.Tool {
	return model.Tool{
		Name:        s.Name,
		Description: s.Description,
		Parameters: map[string]any{
			"type":                 "object",
			"properties":           s.InputSchema,
			"required":             s.Required,
			"additionalProperties": false,
		},
	}
}
