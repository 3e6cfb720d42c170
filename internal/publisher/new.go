package publisher

import (
	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
)

type implPublisher struct {
	cfg    config.PublisherConfig
	store  BlobStore
	logger logger.Logger
}

// New creates a Publisher uploading through store.
func New(cfg config.PublisherConfig, store BlobStore, log logger.Logger) Publisher {
	return &implPublisher{
		cfg:    cfg,
		store:  store,
		logger: log.With("publisher"),
	}
}
