package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/internal/pipeline"
)

func TestReadSourceURL(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"single line", "https://youtu.be/abc\n", "https://youtu.be/abc", false},
		{"comments and blanks skipped", "# episode 4\n\n  https://example.com/v?id=4  \n", "https://example.com/v?id=4", false},
		{"first url wins", "https://a.example/1\nhttps://b.example/2\n", "https://a.example/1", false},
		{"empty file", "", "", true},
		{"not http", "ftp://example.com/file", "", true},
		{"no host", "https:///path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "src.url")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := ReadSourceURL(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, isSourceFile("/in/show.url"))
	assert.True(t, isSourceFile("/in/SHOW.URL"))
	assert.False(t, isSourceFile("/in/show.url.done"))
	assert.False(t, isSourceFile("/in/show.mp4"))
}

func TestSanitizeDirName(t *testing.T) {
	assert.Equal(t, "my_show-1", sanitizeDirName("my show-1"))
	assert.Equal(t, "run", sanitizeDirName(""))
}

type fakePipeline struct {
	mu   sync.Mutex
	reqs []pipeline.Request
	err  error
}

func (f *fakePipeline) Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Result{Outcome: pipeline.OutcomePublished}, nil
}

func TestSourceHandler(t *testing.T) {
	inbox := t.TempDir()
	workRoot := filepath.Join(t.TempDir(), "work")
	src := filepath.Join(inbox, "episode 1.url")
	require.NoError(t, os.WriteFile(src, []byte("https://youtu.be/abc\n"), 0644))

	fp := &fakePipeline{}
	require.NoError(t, SourceHandler(fp, workRoot, logger.Nop())(context.Background(), src))

	require.Len(t, fp.reqs, 1)
	assert.Equal(t, "https://youtu.be/abc", fp.reqs[0].SourceURL)
	assert.Equal(t, workRoot, filepath.Dir(fp.reqs[0].WorkDir), "each run gets its own dir under the work root")
	assert.DirExists(t, fp.reqs[0].WorkDir)
	assert.FileExists(t, src+DoneSuffix)
	assert.NoFileExists(t, src)
}

func TestSourceHandlerFailure(t *testing.T) {
	inbox := t.TempDir()
	src := filepath.Join(inbox, "bad.url")
	require.NoError(t, os.WriteFile(src, []byte("https://youtu.be/abc"), 0644))

	boom := errors.New("fetch failed")
	err := SourceHandler(&fakePipeline{err: boom}, t.TempDir(), logger.Nop())(context.Background(), src)
	assert.ErrorIs(t, err, boom)
	assert.FileExists(t, src+FailedSuffix)
}

func TestSourceHandlerBadFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "empty.url")
	require.NoError(t, os.WriteFile(src, nil, 0644))

	fp := &fakePipeline{}
	err := SourceHandler(fp, t.TempDir(), logger.Nop())(context.Background(), src)
	assert.Error(t, err)
	assert.Empty(t, fp.reqs)
	assert.FileExists(t, src+FailedSuffix)
}

func TestSourceHandlerWorkRootFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "show.url")
	require.NoError(t, os.WriteFile(src, []byte("https://example.com/watch?v=1\n"), 0644))

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	fp := &fakePipeline{}
	err := SourceHandler(fp, filepath.Join(blocker, "work"), logger.Nop())(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create work root")
	assert.Empty(t, fp.reqs)
	assert.NoFileExists(t, src)
	assert.FileExists(t, src+FailedSuffix)
}

func TestWatcherStopsDuringSettleDelay(t *testing.T) {
	inbox := t.TempDir()

	var calls int32
	handler := func(ctx context.Context, path string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	w, err := New(inbox, handler, logger.Nop(), 1)
	require.NoError(t, err)
	defer w.Stop()
	w.(*implWatcher).settleDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "late.url"), []byte("https://example.com/late"), 0644))
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop while waiting for a file to settle")
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.FileExists(t, filepath.Join(inbox, "late.url"), "unhandled file stays for the next run")
}

func TestWatcherHandlesExistingAndNewFiles(t *testing.T) {
	inbox := t.TempDir()
	existing := filepath.Join(inbox, "a.url")
	require.NoError(t, os.WriteFile(existing, []byte("https://example.com/a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "notes.txt"), []byte("ignored"), 0644))

	handled := make(chan string, 4)
	handler := func(ctx context.Context, path string) error {
		handled <- filepath.Base(path)
		return nil
	}

	w, err := New(inbox, handler, logger.Nop(), 1)
	require.NoError(t, err)
	defer w.Stop()
	w.(*implWatcher).settleDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	assert.Equal(t, "a.url", waitFor(t, handled))

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "b.url"), []byte("https://example.com/b"), 0644))
	assert.Equal(t, "b.url", waitFor(t, handled))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	select {
	case extra := <-handled:
		t.Fatalf("unexpected extra handler call for %s", extra)
	default:
	}
}

func TestSemaphore(t *testing.T) {
	s := newSemaphore(1)
	require.NoError(t, s.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.acquire(ctx), context.DeadlineExceeded)

	s.release()
	assert.NoError(t, s.acquire(context.Background()))
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
		return ""
	}
}
