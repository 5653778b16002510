// Package evaluator scores a draft answer against its retrieved context
// and persona fit, and revises it once when the scores fall short.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/virtual-me/agent/model"
)

// ReflectThreshold is the score below which a draft gets one revision.
const ReflectThreshold = 4

type Score struct {
	Helpfulness  int    `json:"helpfulness"`
	Faithfulness int    `json:"faithfulness"`
	Style        int    `json:"style"`
	Feedback     string `json:"feedback"`
}

// NeedsRevision reports whether the draft should be reflected once.
func (s Score) NeedsRevision() bool {
	return s.Helpfulness < ReflectThreshold || s.Faithfulness < ReflectThreshold
}

// Verdict is the tagged outcome of an evaluation: either a parsed score
// or the neutral default standing in for an unparsable payload.
type Verdict struct {
	Score  Score
	Parsed bool
	// Raw keeps the model text for diagnostics when Parsed is false.
	Raw string
}

type Evaluator struct {
	provider model.Provider
	persona  string
}

// Evaluate asks the model to score the draft 1-5 on helpfulness,
// faithfulness and style. It never fails the request: any model error
// or malformed payload degrades to the neutral default.
func (e *Evaluator) Evaluate(ctx context.Context, question, contextBlob, draft string) Verdict {
	system := fmt.Sprintf(
		"You are an exacting evaluator. Score the assistant's reply on a 1-5 scale: "+
			"(1) Helpfulness, (2) Faithfulness to retrieved context, (3) Style alignment with %s. "+
			`Return strict JSON: {"helpfulness":int, "faithfulness":int, "style":int, "feedback":string}.`,
		e.persona,
	)

	transcript := []model.Message{
		{Role: model.RoleSystem, Content: system},
		{Role: model.RoleUser, Content: fmt.Sprintf("USER:\n%s\n\nCONTEXT:\n%s\n\nDRAFT:\n%s", question, contextBlob, draft)},
	}

	completion, err := e.provider.Complete(ctx, transcript, nil)
	if err != nil {
		slog.WarnContext(ctx, "evaluation call failed", "error", err)
		return Verdict{Score: neutral("(eval-error)")}
	}

	return Parse(completion.Message.Content)
}

// Reflect has the model revise the draft once, applying the feedback.
func (e *Evaluator) Reflect(ctx context.Context, question, contextBlob, draft, feedback string) (string, error) {
	system := "You are a senior editor. Revise the answer to address evaluator feedback in one pass. " +
		"Keep claims tied to the provided context. Be concise and clear."

	transcript := []model.Message{
		{Role: model.RoleSystem, Content: system},
		{Role: model.RoleUser, Content: fmt.Sprintf(
			"USER:\n%s\n\nCONTEXT:\n%s\n\nDRAFT:\n%s\n\nFEEDBACK:\n%s",
			question, contextBlob, draft, feedback,
		)},
	}

	completion, err := e.provider.Complete(ctx, transcript, nil)
	if err != nil {
		return "", fmt.Errorf("reflect draft: %w", err)
	}

	return completion.Message.Content, nil
}

func NewEvaluator(provider model.Provider, persona string) *Evaluator {
	return &Evaluator{
		provider: provider,
		persona:  persona,
	}
}
