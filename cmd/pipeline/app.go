package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/internal/fetcher"
	"github.com/nguyentantai21042004/podcast-digest/internal/history"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/internal/pipeline"
	"github.com/nguyentantai21042004/podcast-digest/internal/publisher"
	"github.com/nguyentantai21042004/podcast-digest/internal/summarizer"
	"github.com/nguyentantai21042004/podcast-digest/internal/transcriber"
	"github.com/nguyentantai21042004/podcast-digest/pkg/executor"
)

type app struct {
	cfg      *config.Config
	log      logger.Logger
	pipeline pipeline.Pipeline
	history  *history.Store
}

// loadConfig builds the one Config every component receives
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.resolvedConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(opts.envFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires every stage from the config, failing fast on missing tools
// or credentials
func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if err := cfg.CheckCredentials(); err != nil {
		return nil, err
	}
	if cfg.Credentials.AzureConnString == "" {
		log.Warn(ctx, "%s is not set, summaries will only be written locally", config.EnvAzureConnString)
	}
	if cfg.Transcriber.Engine == config.EngineWhisperX && cfg.Credentials.SpeechToken == "" {
		log.Warn(ctx, "%s is not set, gated whisperx models will fail to download", config.EnvSpeechToken)
	}

	exec := executor.New()
	if err := cfg.ResolveTools(exec.Resolve); err != nil {
		return nil, fmt.Errorf("resolve tools: %w", err)
	}
	log.Debug(ctx, "yt-dlp: %s, ffmpeg: %s", cfg.Fetcher.BinaryPath, cfg.Fetcher.FFmpegLocation)

	if err := os.MkdirAll(cfg.Paths.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir %s: %w", cfg.Paths.WorkDir, err)
	}

	var oaClient *openai.Client
	if cfg.Summarizer.Provider == config.ProviderOpenAI || cfg.Transcriber.Engine == config.EngineOpenAI {
		clientCfg := openai.DefaultConfig(cfg.Credentials.OpenAIKey)
		if cfg.OpenAI.BaseURL != "" {
			clientCfg.BaseURL = cfg.OpenAI.BaseURL
		}
		oaClient = openai.NewClientWithConfig(clientCfg)
	}

	engine, err := transcriber.NewEngine(cfg, exec, oaClient)
	if err != nil {
		return nil, err
	}
	completer, err := summarizer.NewCompleter(cfg, oaClient)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}

	stages := pipeline.Stages{
		Fetcher:     fetcher.New(cfg.Fetcher, exec, log),
		Transcriber: transcriber.New(engine, log),
		Summarizer:  summarizer.New(cfg.Summarizer, completer, log),
		Publisher: publisher.New(cfg.Publisher,
			publisher.NewAzureStore(cfg.Credentials.AzureConnString, cfg.Publisher.Container), log),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.history = store
		stages.Recorder = store
	}

	a.pipeline = pipeline.New(cfg.Paths.WorkDir, stages, log)
	log.Info(ctx, "Pipeline ready: transcriber=%s summarizer=%s container=%s",
		engine.Name(), completer.Name(), cfg.Publisher.Container)
	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		a.history.Close()
	}
}
