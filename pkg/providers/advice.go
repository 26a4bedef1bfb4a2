package providers

import (
	"context"

	"google.golang.org/genai"
)

// FallbackAdvice is returned whenever the generative provider is unavailable.
// Advice is supplementary, never load-bearing, so callers get this string
// instead of an error.
const FallbackAdvice = "Could not generate AI advice at this time. This can happen due to high demand or API limits. Please try again in a moment."

// AdviceClient generates narrative advice text with Gemini.
type AdviceClient struct {
	client *genai.Client
	model  string
}

const defaultAdviceModel = "gemini-2.0-flash"

// NewAdviceClient builds the Gemini-backed advice client. An empty API key
// yields a client that always answers with the fallback text, so the rest of
// the app works without the key configured.
func NewAdviceClient(ctx context.Context, apiKey string) (*AdviceClient, error) {
	if apiKey == "" {
		return &AdviceClient{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, newError("advice", "create client: %v", err)
	}
	return &AdviceClient{client: client, model: defaultAdviceModel}, nil
}

// Generate produces advice text for the given prompt. Best-effort: any
// failure degrades to FallbackAdvice.
func (c *AdviceClient) Generate(ctx context.Context, prompt string) string {
	if c == nil || c.client == nil {
		return FallbackAdvice
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return FallbackAdvice
	}
	text := resp.Text()
	if text == "" {
		return FallbackAdvice
	}
	return text
}
