package publisher

import "context"

// Publication describes where a summary ended up.
type Publication struct {
	LocalPath string
	BlobKey   string
	Uploaded  bool
	DocxPath  string
}

// Publisher persists a summary locally and to remote object storage.
type Publisher interface {
	Publish(ctx context.Context, dir, title, summary string) (*Publication, error)
}

// BlobStore uploads a local file under key, replacing any existing blob.
type BlobStore interface {
	Upload(ctx context.Context, key, path string) error
}
