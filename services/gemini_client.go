package services

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// ChatClient is the port to the language model: a two-message exchange of
// a rendered system instruction plus the raw user query, returning every
// candidate completion in the order the model produced them.
type ChatClient interface {
	Generate(ctx context.Context, system, user string) ([]string, error)
}

// GeminiChatClient implements ChatClient against Google Gemini.
type GeminiChatClient struct {
	client *genai.Client
	model  string
}

// NewGeminiChatClient wraps an existing genai client.
func NewGeminiChatClient(client *genai.Client, model string) *GeminiChatClient {
	return &GeminiChatClient{client: client, model: model}
}

// Generate implements ChatClient.
func (g *GeminiChatClient) Generate(ctx context.Context, system, user string) ([]string, error) {
	config := &genai.GenerateContentConfig{}
	if contents := genai.Text(system); len(contents) > 0 {
		config.SystemInstruction = contents[0]
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), config)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			candidates = append(candidates, sb.String())
		}
	}
	return candidates, nil
}
