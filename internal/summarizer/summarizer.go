package summarizer

import (
	"context"
	"errors"
	"strings"
	"time"
)

var errEmptySummary = errors.New("empty response")

type completion struct {
	text string
	err  error
}

// Summarize issues one completion request on its own goroutine and waits
// for it. Any failure is logged and reported as ok == false.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (string, bool) {
	start := time.Now()
	req := s.buildRequest(transcript)

	s.logger.Info(ctx, "Summarizing transcription with %s (%s, %d chars)", s.completer.Name(), req.Model, len(transcript))

	done := make(chan completion, 1)
	go func() {
		text, err := s.completer.Complete(ctx, req)
		done <- completion{text: text, err: err}
	}()

	var res completion
	select {
	case res = <-done:
	case <-ctx.Done():
		res = completion{err: ctx.Err()}
	}

	if res.err == nil && strings.TrimSpace(res.text) == "" {
		res.err = errEmptySummary
	}
	if res.err != nil {
		s.logger.Error(ctx, "Error summarizing transcription with %s: %v", s.completer.Name(), res.err)
		return "", false
	}

	s.logger.Info(ctx, "Summary received in %s", time.Since(start).Round(time.Millisecond))
	return res.text, true
}
