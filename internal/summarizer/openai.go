package summarizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type openAICompleter struct {
	client *openai.Client
}

// NewOpenAI returns a Completer backed by the chat completions endpoint.
func NewOpenAI(client *openai.Client) Completer {
	return &openAICompleter{client: client}
}

func (o *openAICompleter) Name() string { return "openai" }

func (o *openAICompleter) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
