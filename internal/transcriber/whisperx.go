package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/podcast-digest/internal/config"
	"github.com/nguyentantai21042004/podcast-digest/pkg/executor"
)

type whisperX struct {
	cfg      config.TranscriberConfig
	hfToken  string
	executor executor.Executor
}

// NewWhisperX returns an engine that runs the whisperx CLI. hfToken
// authenticates the gated model download on first use.
func NewWhisperX(cfg config.TranscriberConfig, hfToken string, exec executor.Executor) Engine {
	return &whisperX{cfg: cfg, hfToken: hfToken, executor: exec}
}

func (w *whisperX) Name() string { return config.EngineWhisperX }

type whisperXOutput struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (w *whisperX) Segments(ctx context.Context, audioPath string) ([]Segment, error) {
	audioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("resolve audio path: %w", err)
	}

	outDir, err := os.MkdirTemp("", "whisperx-*")
	if err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	// --no_align: only the raw transcription pass is used, word alignment
	// would download a second model.
	args := []string{
		audioPath,
		"--model", w.cfg.Model,
		"--device", w.cfg.Device,
		"--compute_type", w.cfg.ComputeType,
		"--batch_size", strconv.Itoa(w.cfg.BatchSize),
		"--output_format", "json",
		"--output_dir", outDir,
		"--no_align",
	}
	if w.cfg.Language != "" {
		args = append(args, "--language", w.cfg.Language)
	}
	if w.hfToken != "" {
		args = append(args, "--hf_token", w.hfToken)
	}

	// run inside outDir so stray files never land in the caller's directory
	if _, err := w.executor.ExecuteInDir(ctx, outDir, w.cfg.BinaryPath, args...); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("read whisperx output: %w", err)
	}

	var out whisperXOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisperx output: %w", err)
	}

	segments := make([]Segment, 0, len(out.Segments))
	for _, s := range out.Segments {
		segments = append(segments, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return segments, nil
}
