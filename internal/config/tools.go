package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveFunc turns a tool name or path into an absolute executable path.
type ResolveFunc func(name string) (string, error)

// ResolveTools resolves every external tool the configured stages need and
// stores the absolute paths back into the config. The first missing tool
// aborts startup with the config key that points at it.
func (c *Config) ResolveTools(resolve ResolveFunc) error {
	ytdlp, err := resolve(c.Fetcher.BinaryPath)
	if err != nil {
		return fmt.Errorf("fetcher.binary_path: %w", err)
	}
	c.Fetcher.BinaryPath = ytdlp

	ffmpegName := c.Fetcher.FFmpegLocation
	if info, err := os.Stat(ffmpegName); err == nil && info.IsDir() {
		ffmpegName = filepath.Join(ffmpegName, "ffmpeg")
	}
	ffmpeg, err := resolve(ffmpegName)
	if err != nil {
		return fmt.Errorf("fetcher.ffmpeg_location: %w", err)
	}
	c.Fetcher.FFmpegLocation = ffmpeg

	switch c.Transcriber.Engine {
	case EngineWhisperX, EngineWhisperCpp:
		bin, err := resolve(c.Transcriber.BinaryPath)
		if err != nil {
			return fmt.Errorf("transcriber.binary_path: %w", err)
		}
		c.Transcriber.BinaryPath = bin
	}

	if c.Transcriber.Engine == EngineWhisperCpp {
		if _, err := os.Stat(c.Transcriber.ModelPath); err != nil {
			return fmt.Errorf("transcriber.model_path: %w", err)
		}
	}

	return nil
}
