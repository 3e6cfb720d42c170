package fetcher

import "context"

// Artifact is a downloaded, codec-normalized audio file and the sanitized
// title used to name everything derived from it.
type Artifact struct {
	Path  string
	Title string
}

// Fetcher resolves a video URL into a local audio artifact.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL, dir string) (*Artifact, error)
}
