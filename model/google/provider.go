package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/virtual-me/agent/model"
	genaiopt "google.golang.org/api/option"
)

type googleProvider struct {
	options model.Options
	client  *genai.Client
}

func (p *googleProvider) Complete(ctx context.Context, transcript []model.Message, tools []model.Tool) (*model.Completion, error) {
	m := p.client.GenerativeModel(p.options.Model)

	for _, t := range tools {
		m.Tools = append(m.Tools, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  toSchema(t.Parameters),
				},
			},
		})
	}

	contents := make([]*genai.Content, 0, len(transcript))

	for _, msg := range transcript {
		switch msg.Role {
		case model.RoleSystem:
			m.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(msg.Content)},
			}
		case model.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case model.RoleAssistant:
			contents = append(contents, assistantContent(msg))
		case model.RoleTool:
			contents = append(contents, &genai.Content{
				Role: "user",
				Parts: []genai.Part{genai.FunctionResponse{
					Name:     msg.Name,
					Response: toResponseMap(msg.Content),
				}},
			})
		}
	}

	if len(contents) == 0 {
		return nil, errors.New("transcript has no user content")
	}

	cs := m.StartChat()
	cs.History = contents[:len(contents)-1]

	rsp, err := cs.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return nil, err
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no response from Google")
	}

	completion := &model.Completion{
		FinishReason: model.FinishStop,
		Message:      model.Message{Role: model.RoleAssistant},
	}

	for _, part := range rsp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			completion.Message.Content += string(v)
		case genai.FunctionCall:
			args, _ := json.Marshal(v.Args)
			// Gemini function calls carry no id of their own.
			completion.Message.ToolCalls = append(completion.Message.ToolCalls, model.ToolCall{
				ID:        fmt.Sprintf("call_%d", len(completion.Message.ToolCalls)),
				Name:      v.Name,
				Arguments: string(args),
			})
		}
	}

	if len(completion.Message.ToolCalls) > 0 {
		completion.FinishReason = model.FinishToolCalls
	}

	return completion, nil
}

func (p *googleProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	em := p.client.EmbeddingModel(p.options.EmbeddingModel)

	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	rsp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}

	if len(rsp.Embeddings) != len(texts) {
		return nil, errors.New("embedding count mismatch from Google")
	}

	vectors := make([][]float32, len(rsp.Embeddings))
	for i, e := range rsp.Embeddings {
		vectors[i] = e.Values
	}

	return vectors, nil
}

func assistantContent(msg model.Message) *genai.Content {
	content := &genai.Content{Role: "model"}

	if len(msg.Content) > 0 {
		content.Parts = append(content.Parts, genai.Text(msg.Content))
	}

	for _, tc := range msg.ToolCalls {
		var args map[string]any
		json.Unmarshal([]byte(tc.Arguments), &args)
		content.Parts = append(content.Parts, genai.FunctionCall{
			Name: tc.Name,
			Args: args,
		})
	}

	return content
}

func toResponseMap(content string) map[string]any {
	var payload map[string]any
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return payload
	}
	return map[string]any{"result": content}
}

func toSchema(parameters map[string]any) *genai.Schema {
	schema := &genai.Schema{Type: genai.TypeObject}

	props, _ := parameters["properties"].(map[string]any)
	if len(props) > 0 {
		schema.Properties = map[string]*genai.Schema{}
	}
	for name, raw := range props {
		prop, _ := raw.(map[string]any)
		field := &genai.Schema{Type: scalarType(prop)}
		if desc, ok := prop["description"].(string); ok {
			field.Description = desc
		}
		schema.Properties[name] = field
	}

	switch required := parameters["required"].(type) {
	case []string:
		schema.Required = required
	case []any:
		for _, item := range required {
			if s, ok := item.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	return schema
}

func scalarType(prop map[string]any) genai.Type {
	t, _ := prop["type"].(string)
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func NewProvider(opts ...model.Option) model.Provider {
	options := model.NewOptions(opts...)

	p := &googleProvider{
		options: options,
	}

	client, err := genai.NewClient(
		options.Context,
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	p.client = client

	return p
}
