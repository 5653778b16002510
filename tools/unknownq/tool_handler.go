package unknownq

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/virtual-me/agent/notifier"
	toolhandler "github.com/virtual-me/agent/tool_handler"
)

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

var (
	contactKeywords = []string{"contact", "reach", "hire", "email", "call", "meet"}
	policyKeywords  = []string{"salary", "visa", "sponsorship", "legal", "nda"}
)

type unknownQuestionToolHandler struct {
	notifier notifier.Notifier
}

func (th *unknownQuestionToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "record_unknown_question",
		Description: "Always use this tool to record any question you couldn't answer",
		InputSchema: map[string]any{
			"question": map[string]any{"type": "string", "description": "The question that couldn't be answered"},
		},
		Required: []string{"question"},
	}
}

func (th *unknownQuestionToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	question := toolhandler.StringArg(req.Arguments, "question")

	// Most unknown questions are recorded quietly; only ones that look
	// actionable are worth an alert.
	if shouldNotify(question) {
		notifier.Fire(ctx, th.notifier, fmt.Sprintf("Recording %s", question))
	}

	return toolhandler.ToolResponse{Payload: map[string]any{"recorded": "ok"}}, nil
}

func shouldNotify(question string) bool {
	if emailRe.MatchString(question) {
		return true
	}

	lower := strings.ToLower(question)
	for _, kw := range contactKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range policyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

func NewToolHandler(n notifier.Notifier) toolhandler.ToolHandler {
	return &unknownQuestionToolHandler{notifier: n}
}
