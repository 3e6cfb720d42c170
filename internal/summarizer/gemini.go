package summarizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type geminiCompleter struct {
	apiKey  string
	baseURL string
}

// NewGemini returns a Completer backed by the Gemini API. An empty baseURL
// uses the SDK default endpoint.
func NewGemini(apiKey, baseURL string) Completer {
	return &geminiCompleter{apiKey: apiKey, baseURL: baseURL}
}

func (g *geminiCompleter) Name() string { return "gemini" }

func (g *geminiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	temperature := req.Temperature
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       &temperature,
		MaxOutputTokens:   int32(req.MaxTokens),
	}

	result, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
