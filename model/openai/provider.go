package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
	"github.com/virtual-me/agent/model"
)

type openAIProvider struct {
	options model.Options
	client  *openai.Client
}

func (p *openAIProvider) Complete(ctx context.Context, transcript []model.Message, tools []model.Tool) (*model.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:    p.options.Model,
		Messages: toChatMessages(transcript),
	}

	for _, t := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	rsp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(rsp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	choice := rsp.Choices[0]

	completion := &model.Completion{
		FinishReason: model.FinishStop,
		Message: model.Message{
			Role:    model.RoleAssistant,
			Content: choice.Message.Content,
		},
	}

	if choice.FinishReason == openai.FinishReasonToolCalls || len(choice.Message.ToolCalls) > 0 {
		completion.FinishReason = model.FinishToolCalls
		for _, tc := range choice.Message.ToolCalls {
			completion.Message.ToolCalls = append(completion.Message.ToolCalls, model.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}

	return completion, nil
}

func (p *openAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	rsp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.options.EmbeddingModel),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) != len(texts) {
		return nil, errors.New("embedding count mismatch from OpenAI")
	}

	vectors := make([][]float32, len(rsp.Data))
	for i, d := range rsp.Data {
		vectors[i] = d.Embedding
	}

	return vectors, nil
}

func toChatMessages(transcript []model.Message) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(transcript))

	for _, m := range transcript {
		msg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		msgs = append(msgs, msg)
	}

	return msgs
}

func NewProvider(opts ...model.Option) model.Provider {
	options := model.NewOptions(opts...)

	p := &openAIProvider{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	p.client = client

	return p
}
