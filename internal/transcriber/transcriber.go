package transcriber

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Transcribe runs the engine once over the full file and flattens the result
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	start := time.Now()
	t.logger.Info(ctx, "Starting transcription with %s: %s", t.engine.Name(), audioPath)

	segments, err := t.engine.Segments(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("%s transcribe: %w", t.engine.Name(), err)
	}

	transcript := Flatten(segments)
	t.logger.Info(ctx, "Transcription completed: %d segments in %s", len(segments), time.Since(start).Round(time.Millisecond))
	t.logger.Debug(ctx, "Transcript:\n%s", transcript)

	return transcript, nil
}

// Flatten joins segment texts with newlines in order. Timings are dropped.
func Flatten(segments []Segment) string {
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}
	return strings.Join(texts, "\n")
}
