package anthropic

import (
	"context"
	"errors"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/virtual-me/agent/model"
)

type anthropicProvider struct {
	options model.Options
	client  *anthropic.Client
}

func (p *anthropicProvider) Complete(ctx context.Context, transcript []model.Message, tools []model.Tool) (*model.Completion, error) {
	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.options.Model),
		MaxTokens: 1024,
	}

	for _, m := range transcript {
		switch m.Role {
		case model.RoleSystem:
			req.System = append(req.System, anthropic.TextBlockParam{Text: m.Content})
		case model.RoleUser:
			req.Messages = append(req.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case model.RoleAssistant:
			req.Messages = append(req.Messages, assistantMessage(m))
		case model.RoleTool:
			req.Messages = append(req.Messages, anthropic.NewUserMessage(anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)))
		}
	}

	for _, t := range tools {
		req.Tools = append(req.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: t.Parameters["properties"],
					Required:   stringSlice(t.Parameters["required"]),
				},
			},
		})
	}

	rsp, err := p.client.Messages.New(ctx, req)
	if err != nil {
		return nil, err
	}

	completion := &model.Completion{
		FinishReason: model.FinishStop,
		Message:      model.Message{Role: model.RoleAssistant},
	}

	for _, block := range rsp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			completion.Message.Content += b.Text
		case anthropic.ToolUseBlock:
			completion.Message.ToolCalls = append(completion.Message.ToolCalls, model.ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: string(b.Input),
			})
		}
	}

	if rsp.StopReason == anthropic.StopReasonToolUse || len(completion.Message.ToolCalls) > 0 {
		completion.FinishReason = model.FinishToolCalls
	}

	if len(completion.Message.Content) == 0 && len(completion.Message.ToolCalls) == 0 {
		return nil, errors.New("no response from Anthropic")
	}

	return completion, nil
}

// Embed reports an explicit error: the Anthropic API has no embedding
// endpoint, so deployments pair this provider with another embedder.
func (p *anthropicProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("anthropic does not provide embeddings")
}

func assistantMessage(m model.Message) anthropic.MessageParam {
	var blocks []anthropic.ContentBlockParamUnion

	if len(m.Content) > 0 {
		blocks = append(blocks, anthropic.NewTextBlock(m.Content))
	}

	for _, tc := range m.ToolCalls {
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfToolUse: &anthropic.ToolUseBlockParam{
				ID:    tc.ID,
				Name:  tc.Name,
				Input: []byte(tc.Arguments),
			},
		})
	}

	return anthropic.NewAssistantMessage(blocks...)
}

func stringSlice(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		if ss, ok := raw.([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func NewProvider(opts ...model.Option) model.Provider {
	options := model.NewOptions(opts...)

	p := &anthropicProvider{
		options: options,
	}

	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(options.ApiKey),
	)

	p.client = &client

	return p
}
