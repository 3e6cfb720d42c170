package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// SummaryFileName is both the local file name and the blob key for a title.
func SummaryFileName(title string) string {
	return title + "_summary.txt"
}

// Publish writes the summary to dir and uploads it. Upload failures are
// logged and reported through Publication.Uploaded; only a failed local
// write is returned as an error.
func (p *implPublisher) Publish(ctx context.Context, dir, title, summary string) (*Publication, error) {
	name := SummaryFileName(title)
	pub := &Publication{
		LocalPath: filepath.Join(dir, name),
		BlobKey:   name,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create summary dir: %w", err)
	}
	if err := renameio.WriteFile(pub.LocalPath, []byte(summary), 0644); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	p.logger.Info(ctx, "Summary saved to: %s", pub.LocalPath)

	if p.cfg.Docx {
		docxPath := filepath.Join(dir, title+"_summary.docx")
		if err := markdownToDocx(title, summary, docxPath); err != nil {
			p.logger.Warn(ctx, "Failed to write docx summary %s: %v", docxPath, err)
		} else {
			pub.DocxPath = docxPath
			p.logger.Info(ctx, "Docx summary saved to: %s", docxPath)
		}
	}

	if err := p.store.Upload(ctx, pub.BlobKey, pub.LocalPath); err != nil {
		p.logger.Error(ctx, "Error uploading %s to container %s: %v", pub.BlobKey, p.cfg.Container, err)
		return pub, nil
	}

	pub.Uploaded = true
	p.logger.Info(ctx, "Summary uploaded to container %s: %s", p.cfg.Container, pub.BlobKey)
	return pub, nil
}
