package transcriber

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/podcast-digest/internal/config"
)

type openAIEngine struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAI returns an engine backed by the OpenAI audio transcription API.
func NewOpenAI(cfg config.TranscriberConfig, client *openai.Client) Engine {
	return &openAIEngine{client: client, model: cfg.Model, language: cfg.Language}
}

func (o *openAIEngine) Name() string { return config.EngineOpenAI }

func (o *openAIEngine) Segments(ctx context.Context, audioPath string) ([]Segment, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Language: o.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Segments) == 0 {
		if resp.Text == "" {
			return nil, nil
		}
		return []Segment{{End: resp.Duration, Text: resp.Text}}, nil
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return segments, nil
}
