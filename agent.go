// Package agent drives the conversation: repeated model invocation with
// tool dispatch until a final answer appears, followed by one bounded
// evaluation/reflection pass and an opportunistic cache write.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/virtual-me/agent/cache"
	"github.com/virtual-me/agent/evaluator"
	"github.com/virtual-me/agent/model"
	"github.com/virtual-me/agent/persona"
	toolhandler "github.com/virtual-me/agent/tool_handler"
)

const (
	// defaultMaxToolRounds bounds the tool-calling loop; the model is an
	// external dependency and cannot be trusted to terminate unaided.
	defaultMaxToolRounds = 8

	scriptedGreeting = "General Kenoooobiiii... I mean... Hi! How are you? 😊"

	autoSaveMaxChars = 1500
	autoSaveTag      = "virtual-me"
)

// Matches "hello there" in any casing with optional surrounding
// punctuation or symbols.
var helloThereRe = regexp.MustCompile(`(?i)^[\s\W_]*hello\s+there[\s\W_]*$`)

var autoSaveKeywords = []string{"clear", "helpful", "well structured", "faithful"}

type Agent struct {
	provider   model.Provider
	catalog    *toolhandler.Catalog
	dispatcher *toolhandler.Dispatcher
	evaluator  *evaluator.Evaluator
	cache      cache.Cache
	profile    *persona.Profile
	maxRounds  int
}

// Chat produces the final answer for one user message given the
// caller-supplied history. The transcript is append-only within the
// request; tool calls issued together are dispatched in declared order.
func (a *Agent) Chat(ctx context.Context, message string, history []model.Message) (string, error) {
	// The scripted-greeting bypass runs before any model call.
	if helloThereRe.MatchString(message) {
		return scriptedGreeting, nil
	}

	transcript := make([]model.Message, 0, len(history)+2)
	transcript = append(transcript, model.Message{Role: model.RoleSystem, Content: a.profile.SystemPrompt()})
	transcript = append(transcript, history...)
	transcript = append(transcript, model.Message{Role: model.RoleUser, Content: message})

	draft, transcript, err := a.produceDraft(ctx, transcript)
	if err != nil {
		return "", err
	}

	contextBlob := evaluationContext(transcript)

	verdict := a.evaluator.Evaluate(ctx, message, contextBlob, draft)
	slog.InfoContext(ctx, "draft evaluated",
		"helpfulness", verdict.Score.Helpfulness,
		"faithfulness", verdict.Score.Faithfulness,
		"style", verdict.Score.Style,
		"parsed", verdict.Parsed,
	)

	final := draft
	if verdict.Score.NeedsRevision() {
		final, err = a.evaluator.Reflect(ctx, message, contextBlob, draft, verdict.Score.Feedback)
		if err != nil {
			return "", err
		}
	}

	a.autoSave(ctx, message, final, verdict.Score.Feedback)

	return final, nil
}

// produceDraft runs the model/tool loop until the model answers in
// natural language, or the round bound forces a tool-less completion.
func (a *Agent) produceDraft(ctx context.Context, transcript []model.Message) (string, []model.Message, error) {
	for round := 0; ; round++ {
		tools := a.catalog.ModelTools()
		if round >= a.maxRounds {
			tools = nil
		}

		completion, err := a.provider.Complete(ctx, transcript, tools)
		if err != nil {
			return "", nil, fmt.Errorf("model call: %w", err)
		}

		calls := completion.Message.ToolCalls
		if completion.FinishReason != model.FinishToolCalls || len(calls) == 0 || tools == nil {
			return completion.Message.Content, transcript, nil
		}

		transcript = append(transcript, completion.Message)
		for _, call := range calls {
			transcript = append(transcript, a.dispatcher.Dispatch(ctx, call))
		}
	}
}

// evaluationContext gathers every tool payload from the transcript as
// the context the draft is judged against.
func evaluationContext(transcript []model.Message) string {
	var snippets []string
	for _, msg := range transcript {
		if msg.Role == model.RoleTool {
			snippets = append(snippets, msg.Content)
		}
	}
	if len(snippets) == 0 {
		return "(no ctx)"
	}
	return strings.Join(snippets, "\n\n")
}

// autoSave writes short answers the evaluator liked into the cache for
// reuse. Best effort; failure never reaches the caller.
func (a *Agent) autoSave(ctx context.Context, question, answer, feedback string) {
	if utf8.RuneCountInString(answer) > autoSaveMaxChars {
		return
	}

	lower := strings.ToLower(feedback)
	for _, kw := range autoSaveKeywords {
		if strings.Contains(lower, kw) {
			if err := a.cache.Upsert(ctx, question, answer, autoSaveTag); err != nil {
				slog.DebugContext(ctx, "auto-save skipped", "error", err)
			}
			return
		}
	}
}

func New(
	provider model.Provider,
	catalog *toolhandler.Catalog,
	ev *evaluator.Evaluator,
	qa cache.Cache,
	profile *persona.Profile,
) *Agent {
	if provider == nil {
		panic("provider is required")
	}

	if catalog == nil {
		panic("catalog is required")
	}

	if ev == nil {
		panic("evaluator is required")
	}

	if qa == nil {
		panic("cache is required")
	}

	if profile == nil {
		panic("profile is required")
	}

	return &Agent{
		provider:   provider,
		catalog:    catalog,
		dispatcher: toolhandler.NewDispatcher(catalog),
		evaluator:  ev,
		cache:      qa,
		profile:    profile,
		maxRounds:  defaultMaxToolRounds,
	}
}
