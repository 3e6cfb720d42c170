package summarizer

import "context"

// Summarizer turns a transcript into a structured digest. ok is false when
// no summary could be produced; the error has already been logged.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (summary string, ok bool)
}

// Request is a single chat-style completion.
type Request struct {
	System      string
	User        string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Completer sends one completion request to a language-model API.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}
