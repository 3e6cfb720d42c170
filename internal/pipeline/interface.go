package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/podcast-digest/internal/history"
)

// Terminal failures. Summarization and upload failures are soft and are
// reported through Result instead.
var (
	ErrFetch      = errors.New("fetch audio")
	ErrTranscribe = errors.New("transcribe audio")
	ErrPublish    = errors.New("publish summary")
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeLocalOnly Outcome = "local_only"
	OutcomeNoSummary Outcome = "no_summary"
	OutcomeFailed    Outcome = "failed"
)

// Request is one source reference to process. An empty WorkDir uses the
// configured work directory.
type Request struct {
	SourceURL string
	WorkDir   string
}

// Result carries what a run produced.
type Result struct {
	RunID       string
	SourceURL   string
	Title       string
	AudioPath   string
	Summary     string
	SummaryPath string
	BlobKey     string
	Summarized  bool
	Uploaded    bool
	Outcome     Outcome
	Duration    time.Duration
}

// Pipeline runs Fetcher -> Transcriber -> Summarizer -> Publisher once.
type Pipeline interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Recorder persists run records. history.Store implements it.
type Recorder interface {
	Start(ctx context.Context, run history.Run) error
	Finish(ctx context.Context, run history.Run) error
}
