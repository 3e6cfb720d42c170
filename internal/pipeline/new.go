package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/podcast-digest/internal/fetcher"
	"github.com/nguyentantai21042004/podcast-digest/internal/history"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/internal/publisher"
	"github.com/nguyentantai21042004/podcast-digest/internal/summarizer"
	"github.com/nguyentantai21042004/podcast-digest/internal/transcriber"
)

// Stages bundles the four pipeline stages and the optional run recorder.
type Stages struct {
	Fetcher     fetcher.Fetcher
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Publisher   publisher.Publisher
	Recorder    Recorder
}

type implPipeline struct {
	workDir     string
	fetcher     fetcher.Fetcher
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	publisher   publisher.Publisher
	recorder    Recorder
	logger      logger.Logger
}

// New creates a Pipeline. workDir holds the audio and summary files unless a
// Request overrides it.
func New(workDir string, stages Stages, log logger.Logger) Pipeline {
	rec := stages.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &implPipeline{
		workDir:     workDir,
		fetcher:     stages.Fetcher,
		transcriber: stages.Transcriber,
		summarizer:  stages.Summarizer,
		publisher:   stages.Publisher,
		recorder:    rec,
		logger:      log.With("pipeline"),
	}
}

type nopRecorder struct{}

func (nopRecorder) Start(context.Context, history.Run) error  { return nil }
func (nopRecorder) Finish(context.Context, history.Run) error { return nil }
