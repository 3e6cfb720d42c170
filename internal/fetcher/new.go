package fetcher

import (
	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/pkg/executor"
)

type implFetcher struct {
	cfg      config.FetcherConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Fetcher backed by yt-dlp.
func New(cfg config.FetcherConfig, exec executor.Executor, log logger.Logger) Fetcher {
	return &implFetcher{
		cfg:      cfg,
		executor: exec,
		logger:   log.With("fetcher"),
	}
}
