package oracle

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIClient is the Gemini-backed CompletionClient. The underlying client
// is safe for concurrent use and should be shared across calls.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a Gemini completion client. Credentials come from
// the environment the same way the rest of the GCP stack picks them up.
func NewGenAIClient(ctx context.Context, model string) (*GenAIClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGenAIClient: create genai client: %w", err)
	}
	return &GenAIClient{client: client, model: model}, nil
}

// Complete implements CompletionClient.
func (c *GenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Complete: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("Complete: empty response from model")
	}
	return text, nil
}

var _ CompletionClient = (*GenAIClient)(nil)
