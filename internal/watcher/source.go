package watcher

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
	"github.com/nguyentantai21042004/podcast-digest/internal/pipeline"
)

// Suffixes appended to a source file once it has been handled.
const (
	DoneSuffix   = ".done"
	FailedSuffix = ".failed"
)

// ReadSourceURL returns the first non-empty, non-comment line of path as an
// http(s) URL.
func ReadSourceURL(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil {
			return "", fmt.Errorf("parse url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return "", fmt.Errorf("not an http(s) url: %q", line)
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no url in %s", path)
}

// SourceHandler returns an EventHandler running one pipeline per source
// file. Every run gets its own work directory under workRoot, and the source
// file is renamed with DoneSuffix or FailedSuffix afterwards.
func SourceHandler(p pipeline.Pipeline, workRoot string, log logger.Logger) EventHandler {
	log = log.With("watcher")

	return func(ctx context.Context, filePath string) error {
		sourceURL, err := ReadSourceURL(filePath)
		if err != nil {
			markHandled(ctx, log, filePath, FailedSuffix)
			return fmt.Errorf("read source: %w", err)
		}

		if err := os.MkdirAll(workRoot, 0755); err != nil {
			markHandled(ctx, log, filePath, FailedSuffix)
			return fmt.Errorf("create work root: %w", err)
		}
		base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		workDir, err := os.MkdirTemp(workRoot, sanitizeDirName(base)+"-*")
		if err != nil {
			markHandled(ctx, log, filePath, FailedSuffix)
			return fmt.Errorf("create work dir: %w", err)
		}

		res, err := p.Run(ctx, pipeline.Request{SourceURL: sourceURL, WorkDir: workDir})
		if err != nil {
			markHandled(ctx, log, filePath, FailedSuffix)
			return err
		}

		log.Info(ctx, "Handled %s: %s", filePath, res.Outcome)
		markHandled(ctx, log, filePath, DoneSuffix)
		return nil
	}
}

func markHandled(ctx context.Context, log logger.Logger, filePath, suffix string) {
	if err := os.Rename(filePath, filePath+suffix); err != nil {
		log.Warn(ctx, "Failed to mark %s as handled: %v", filePath, err)
	}
}

func sanitizeDirName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	if s == "" {
		return "run"
	}
	return s
}
