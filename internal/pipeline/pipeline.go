package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-digest/internal/history"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/internal/metrics"
)

// Run processes one source reference end to end
func (p *implPipeline) Run(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()
	workDir := req.WorkDir
	if workDir == "" {
		workDir = p.workDir
	}

	res := &Result{RunID: uuid.NewString(), SourceURL: req.SourceURL}
	ctx = logger.WithRunID(ctx, res.RunID)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting run: %s", req.SourceURL)
	p.logger.Info(ctx, "========================================")

	if err := p.recorder.Start(ctx, history.Run{ID: res.RunID, SourceURL: req.SourceURL, StartedAt: startTime}); err != nil {
		p.logger.Warn(ctx, "Failed to record run start: %v", err)
	}

	failedStage, err := p.run(ctx, workDir, res)
	res.Duration = time.Since(startTime)
	if err != nil {
		res.Outcome = OutcomeFailed
	}
	p.finish(ctx, res, failedStage, err)

	if err != nil {
		p.logger.Error(ctx, "Run failed at %s after %s: %v", failedStage, res.Duration.Round(time.Millisecond), err)
		return res, err
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Run finished: %s", res.Outcome)
	if res.SummaryPath != "" {
		p.logger.Info(ctx, "Summary file: %s", res.SummaryPath)
	}
	p.logger.Info(ctx, "Time taken: %s", res.Duration.Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")
	return res, nil
}

// run executes the stages in order and returns the stage that failed terminally
func (p *implPipeline) run(ctx context.Context, workDir string, res *Result) (string, error) {
	// Step 1: Fetch audio
	p.logger.Info(ctx, "Downloading audio from %s", res.SourceURL)
	start := time.Now()
	artifact, err := p.fetcher.Fetch(ctx, res.SourceURL, workDir)
	metrics.ObserveStage(metrics.StageFetch, start, err != nil)
	if err != nil {
		return metrics.StageFetch, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	res.Title = artifact.Title
	res.AudioPath = artifact.Path
	p.logger.Info(ctx, "Audio file located at: %s", artifact.Path)

	// Step 2: Transcribe
	start = time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, artifact.Path)
	metrics.ObserveStage(metrics.StageTranscribe, start, err != nil)
	if err != nil {
		return metrics.StageTranscribe, fmt.Errorf("%w: %w", ErrTranscribe, err)
	}

	// Step 3: Summarize, a failure here only skips publishing
	start = time.Now()
	summary, ok := p.summarizer.Summarize(ctx, transcript)
	metrics.ObserveStage(metrics.StageSummarize, start, !ok)
	if !ok {
		p.logger.Warn(ctx, "Could not summarize the transcription, skipping publish")
		res.Outcome = OutcomeNoSummary
		return "", nil
	}
	res.Summary = summary
	res.Summarized = true

	// Step 4: Publish under the title computed by the fetcher
	start = time.Now()
	pub, err := p.publisher.Publish(ctx, workDir, artifact.Title, summary)
	metrics.ObserveStage(metrics.StagePublish, start, err != nil || (pub != nil && !pub.Uploaded))
	if err != nil {
		return metrics.StagePublish, fmt.Errorf("%w: %w", ErrPublish, err)
	}
	res.SummaryPath = pub.LocalPath
	res.BlobKey = pub.BlobKey
	res.Uploaded = pub.Uploaded

	if pub.Uploaded {
		res.Outcome = OutcomePublished
	} else {
		res.Outcome = OutcomeLocalOnly
	}
	return "", nil
}

func (p *implPipeline) finish(ctx context.Context, res *Result, failedStage string, runErr error) {
	metrics.ObserveRun(string(res.Outcome))

	run := history.Run{
		ID:          res.RunID,
		SourceURL:   res.SourceURL,
		Title:       res.Title,
		Status:      string(res.Outcome),
		FailedStage: failedStage,
		SummaryPath: res.SummaryPath,
		FinishedAt:  time.Now(),
	}
	if res.Uploaded {
		run.BlobKey = res.BlobKey
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	// The run context may already be cancelled; the record should still land.
	if err := p.recorder.Finish(context.WithoutCancel(ctx), run); err != nil {
		p.logger.Warn(ctx, "Failed to record run result: %v", err)
	}
}
