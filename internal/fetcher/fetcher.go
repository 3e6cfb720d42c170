package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutputMissing means the download finished but neither the expected
// file nor the alternate-extension file exists.
var ErrOutputMissing = errors.New("downloaded audio file not found")

const fallbackTitle = "audio"

type videoInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Fetch downloads the audio track of sourceURL into dir
func (f *implFetcher) Fetch(ctx context.Context, sourceURL, dir string) (*Artifact, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		f.logger.Error(ctx, "Failed to create download dir %s: %v", dir, err)
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	title, err := f.resolveTitle(ctx, sourceURL)
	if err != nil {
		f.logger.Error(ctx, "Failed to resolve metadata for %s: %v", sourceURL, err)
		return nil, err
	}
	f.logger.Info(ctx, "Sanitized audio title: %s", title)

	if err := f.download(ctx, sourceURL, dir, title); err != nil {
		f.logger.Error(ctx, "Failed to download audio: %v", err)
		return nil, err
	}
	f.logger.Info(ctx, "Audio downloaded successfully")

	path, err := f.resolveOutput(ctx, dir, title)
	if err != nil {
		f.logger.Error(ctx, "The downloaded audio file was not found in %s", dir)
		return nil, err
	}

	return &Artifact{Path: path, Title: title}, nil
}

// resolveTitle fetches metadata without downloading and sanitizes the title
func (f *implFetcher) resolveTitle(ctx context.Context, sourceURL string) (string, error) {
	out, err := f.executor.Execute(ctx, f.cfg.BinaryPath,
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		sourceURL,
	)
	if err != nil {
		return "", fmt.Errorf("yt-dlp metadata: %w", err)
	}

	var info videoInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return "", fmt.Errorf("decode metadata: %w", err)
	}

	if title := SanitizeTitle(info.Title); title != "" {
		return title, nil
	}
	if id := SanitizeTitle(info.ID); id != "" {
		f.logger.Warn(ctx, "Title %q sanitizes to nothing, using video id %s", info.Title, id)
		return id, nil
	}
	f.logger.Warn(ctx, "Title %q sanitizes to nothing, using %q", info.Title, fallbackTitle)
	return fallbackTitle, nil
}

// download fetches the best audio stream and transcodes it to the
// configured codec
func (f *implFetcher) download(ctx context.Context, sourceURL, dir, title string) error {
	args := []string{
		"-f", f.cfg.Format,
		"-x",
		"--audio-format", f.cfg.AudioFormat,
		"--audio-quality", f.cfg.AudioQuality,
		"--no-playlist",
		"--no-progress",
		"-o", filepath.Join(dir, title+".%(ext)s"),
	}
	if f.cfg.FFmpegLocation != "" {
		args = append(args, "--ffmpeg-location", f.cfg.FFmpegLocation)
	}
	args = append(args, sourceURL)

	if _, err := f.executor.Execute(ctx, f.cfg.BinaryPath, args...); err != nil {
		return fmt.Errorf("yt-dlp download: %w", err)
	}
	return nil
}

// resolveOutput returns the expected audio path. When only the intermediate
// container exists it is renamed to the expected name.
func (f *implFetcher) resolveOutput(ctx context.Context, dir, title string) (string, error) {
	expected := filepath.Join(dir, title+"."+f.cfg.AudioFormat)
	alternate := filepath.Join(dir, title+"."+f.cfg.AlternateExt)

	if fileExists(expected) {
		f.logger.Info(ctx, "File found: %s", expected)
		return expected, nil
	}

	if fileExists(alternate) {
		f.logger.Info(ctx, "Temporary file found: %s", alternate)
		if err := os.Rename(alternate, expected); err != nil {
			return "", fmt.Errorf("rename %s: %w", alternate, err)
		}
		f.logger.Info(ctx, "Renamed temporary file to: %s", expected)
		return expected, nil
	}

	return "", fmt.Errorf("%w: %s", ErrOutputMissing, expected)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
