package transcriber

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/pkg/executor"
)

type implTranscriber struct {
	engine Engine
	logger logger.Logger
}

// New creates a Transcriber around engine.
func New(engine Engine, log logger.Logger) Transcriber {
	return &implTranscriber{
		engine: engine,
		logger: log.With("transcriber"),
	}
}

// NewEngine builds the engine selected by cfg.Transcriber.Engine. client is
// only used by the openai engine and may be nil otherwise.
func NewEngine(cfg *config.Config, exec executor.Executor, client *openai.Client) (Engine, error) {
	switch cfg.Transcriber.Engine {
	case config.EngineWhisperX:
		return NewWhisperX(cfg.Transcriber, cfg.Credentials.SpeechToken, exec), nil
	case config.EngineWhisperCpp:
		return NewWhisperCpp(cfg.Transcriber, cfg.Fetcher.FFmpegLocation, exec), nil
	case config.EngineOpenAI:
		if client == nil {
			return nil, fmt.Errorf("openai engine requires an API client")
		}
		return NewOpenAI(cfg.Transcriber, client), nil
	default:
		return nil, fmt.Errorf("unsupported transcriber engine %q", cfg.Transcriber.Engine)
	}
}
