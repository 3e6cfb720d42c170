package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/pkg/executor"
)

type whisperCpp struct {
	cfg      config.TranscriberConfig
	ffmpeg   string
	executor executor.Executor
}

// NewWhisperCpp returns an engine that runs a whisper.cpp binary. Input audio
// is first converted to the 16kHz mono WAV whisper.cpp requires.
func NewWhisperCpp(cfg config.TranscriberConfig, ffmpegPath string, exec executor.Executor) Engine {
	return &whisperCpp{cfg: cfg, ffmpeg: ffmpegPath, executor: exec}
}

func (w *whisperCpp) Name() string { return config.EngineWhisperCpp }

type whisperCppOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (w *whisperCpp) Segments(ctx context.Context, audioPath string) ([]Segment, error) {
	workDir, err := os.MkdirTemp("", "whispercpp-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "audio.wav")
	if err := w.extractWav(ctx, audioPath, wavPath); err != nil {
		return nil, err
	}

	language := w.cfg.Language
	if language == "" {
		language = "auto"
	}

	// -oj: JSON output, --output-file: prefix whisper.cpp appends .json to
	outputPrefix := filepath.Join(workDir, "transcript")
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-oj",
		"-l", language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-ml", "0", // No max length limit
		"--output-file", outputPrefix,
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outputPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper.cpp output: %w", err)
	}

	var out whisperCppOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisper.cpp output: %w", err)
	}

	segments := make([]Segment, 0, len(out.Transcription))
	for _, s := range out.Transcription {
		segments = append(segments, Segment{
			Start: float64(s.Offsets.From) / 1000,
			End:   float64(s.Offsets.To) / 1000,
			Text:  s.Text,
		})
	}
	return segments, nil
}

// extractWav converts audio to 16kHz mono PCM WAV
func (w *whisperCpp) extractWav(ctx context.Context, src, dst string) error {
	args := []string{
		"-i", src,
		"-vn",          // No video
		"-ar", "16000", // 16kHz sample rate
		"-ac", "1", // Mono
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		dst,
	}

	if _, err := w.executor.Execute(ctx, w.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg convert audio: %w", err)
	}
	return nil
}
