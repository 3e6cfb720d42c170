package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/internal/fetcher"
	"github.com/nguyentantai21042004/podcast-digest/internal/history"
	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/internal/publisher"
	"github.com/nguyentantai21042004/podcast-digest/internal/summarizer"
	"github.com/nguyentantai21042004/podcast-digest/internal/transcriber"
)

type fakeFetcher struct {
	title string
	err   error
	dirs  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, sourceURL, dir string) (*fetcher.Artifact, error) {
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, f.title+".mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		return nil, err
	}
	return &fetcher.Artifact{Path: path, Title: f.title}, nil
}

type fakeEngine struct {
	segments []transcriber.Segment
	err      error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Segments(ctx context.Context, audioPath string) ([]transcriber.Segment, error) {
	return f.segments, f.err
}

type fakeCompleter struct {
	text string
	err  error
	got  summarizer.Request
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(ctx context.Context, req summarizer.Request) (string, error) {
	f.got = req
	return f.text, f.err
}

type fakeStore struct {
	err     error
	uploads map[string]string
}

func (f *fakeStore) Upload(ctx context.Context, key, path string) error {
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	f.uploads[key] = string(data)
	return nil
}

type harness struct {
	fetcher   *fakeFetcher
	engine    *fakeEngine
	completer *fakeCompleter
	store     *fakeStore
	workDir   string
	recorder  Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		fetcher:   &fakeFetcher{title: "Breaking News Live 42"},
		engine:    &fakeEngine{segments: []transcriber.Segment{{Text: "hello"}, {Text: "world"}}},
		completer: &fakeCompleter{text: "FIXED SUMMARY"},
		store:     &fakeStore{},
		workDir:   t.TempDir(),
	}
}

func (h *harness) pipeline(t *testing.T) Pipeline {
	t.Helper()
	var cfg config.Config
	require.NoError(t, cfg.Validate())

	log := logger.Nop()
	return New(h.workDir, Stages{
		Fetcher:     h.fetcher,
		Transcriber: transcriber.New(h.engine, log),
		Summarizer:  summarizer.New(cfg.Summarizer, h.completer, log),
		Publisher:   publisher.New(cfg.Publisher, h.store, log),
		Recorder:    h.recorder,
	}, log)
}

func TestRunEndToEnd(t *testing.T) {
	h := newHarness(t)

	res, err := h.pipeline(t).Run(context.Background(), Request{SourceURL: "https://youtu.be/x"})
	require.NoError(t, err)

	assert.Equal(t, OutcomePublished, res.Outcome)
	assert.True(t, res.Summarized)
	assert.True(t, res.Uploaded)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Breaking News Live 42", res.Title)

	// the completer saw the flattened transcript
	assert.Contains(t, h.completer.got.User, "hello\nworld")

	wantPath := filepath.Join(h.workDir, "Breaking News Live 42_summary.txt")
	assert.Equal(t, wantPath, res.SummaryPath)
	data, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.Equal(t, "FIXED SUMMARY", string(data))

	assert.Equal(t, map[string]string{"Breaking News Live 42_summary.txt": "FIXED SUMMARY"}, h.store.uploads)
}

func TestRunUsesRequestWorkDir(t *testing.T) {
	h := newHarness(t)
	taskDir := filepath.Join(t.TempDir(), "task-1")

	res, err := h.pipeline(t).Run(context.Background(), Request{SourceURL: "u", WorkDir: taskDir})
	require.NoError(t, err)

	assert.Equal(t, []string{taskDir}, h.fetcher.dirs)
	assert.Equal(t, filepath.Join(taskDir, "Breaking News Live 42_summary.txt"), res.SummaryPath)
}

func TestRunFetchFailure(t *testing.T) {
	h := newHarness(t)
	h.fetcher.err = errors.New("network down")

	res, err := h.pipeline(t).Run(context.Background(), Request{SourceURL: "u"})
	require.ErrorIs(t, err, ErrFetch)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Empty(t, h.completer.got.User, "nothing after the fetch runs")
}

func TestRunTranscribeFailure(t *testing.T) {
	h := newHarness(t)
	h.engine.err = errors.New("model load failed")

	res, err := h.pipeline(t).Run(context.Background(), Request{SourceURL: "u"})
	require.ErrorIs(t, err, ErrTranscribe)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Empty(t, h.completer.got.User)
}

func TestRunSummarizeFailureSkipsPublish(t *testing.T) {
	h := newHarness(t)
	h.completer.err = errors.New("rate limited")

	res, err := h.pipeline(t).Run(context.Background(), Request{SourceURL: "u"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoSummary, res.Outcome)
	assert.False(t, res.Summarized)
	assert.Empty(t, res.Summary)
	assert.Empty(t, h.store.uploads)
	assert.NoFileExists(t, filepath.Join(h.workDir, "Breaking News Live 42_summary.txt"))
}

func TestRunUploadFailureKeepsLocal(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("auth failed")

	res, err := h.pipeline(t).Run(context.Background(), Request{SourceURL: "u"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeLocalOnly, res.Outcome)
	assert.True(t, res.Summarized)
	assert.False(t, res.Uploaded)
	assert.FileExists(t, res.SummaryPath)
}

func TestRunRecordsHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	h := newHarness(t)
	h.recorder = store
	p := h.pipeline(t)

	ok, err := p.Run(context.Background(), Request{SourceURL: "https://youtu.be/ok"})
	require.NoError(t, err)

	h.engine.err = errors.New("inference failed")
	failed, err := p.Run(context.Background(), Request{SourceURL: "https://youtu.be/bad"})
	require.Error(t, err)

	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := map[string]history.Run{}
	for _, r := range runs {
		byID[r.ID] = r
	}

	assert.Equal(t, string(OutcomePublished), byID[ok.RunID].Status)
	assert.Equal(t, "Breaking News Live 42_summary.txt", byID[ok.RunID].BlobKey)

	assert.Equal(t, string(OutcomeFailed), byID[failed.RunID].Status)
	assert.Equal(t, "transcribe", byID[failed.RunID].FailedStage)
	assert.Contains(t, byID[failed.RunID].Error, "inference failed")
}
