package summarizer

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
)

type implSummarizer struct {
	cfg       config.SummarizerConfig
	completer Completer
	logger    logger.Logger
}

// New creates a Summarizer that sends one request per transcript through completer.
func New(cfg config.SummarizerConfig, completer Completer, log logger.Logger) Summarizer {
	return &implSummarizer{
		cfg:       cfg,
		completer: completer,
		logger:    log.With("summarizer"),
	}
}

// NewCompleter builds the provider selected by cfg.Summarizer.Provider.
func NewCompleter(cfg *config.Config, client *openai.Client) (Completer, error) {
	switch cfg.Summarizer.Provider {
	case config.ProviderOpenAI:
		if client == nil {
			return nil, fmt.Errorf("openai provider requires an API client")
		}
		return NewOpenAI(client), nil
	case config.ProviderGemini:
		return NewGemini(cfg.Credentials.GeminiKey, ""), nil
	default:
		return nil, fmt.Errorf("unsupported summarizer provider %q", cfg.Summarizer.Provider)
	}
}
