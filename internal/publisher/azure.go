package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

var errNoConnectionString = errors.New("storage connection string is not set")

type azureStore struct {
	connString string
	container  string
}

// NewAzureStore returns a BlobStore writing block blobs into an existing
// container. The client is created per upload, so a bad connection string
// surfaces as an upload error.
func NewAzureStore(connString, container string) BlobStore {
	return &azureStore{connString: connString, container: container}
}

func (a *azureStore) Upload(ctx context.Context, key, path string) error {
	if a.connString == "" {
		return errNoConnectionString
	}

	client, err := azblob.NewClientFromConnectionString(a.connString, nil)
	if err != nil {
		return fmt.Errorf("create blob client: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// Block blob uploads replace an existing blob with the same name.
	if _, err := client.UploadFile(ctx, a.container, key, f, nil); err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	return nil
}
