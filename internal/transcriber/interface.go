package transcriber

import "context"

// Segment is one recognized stretch of speech. Times are in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Engine runs speech recognition over a whole audio file in one call.
type Engine interface {
	Name() string
	Segments(ctx context.Context, audioPath string) ([]Segment, error)
}

// Transcriber turns an audio file into a flattened transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
