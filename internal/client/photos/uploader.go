// Package photos moves picked images to object storage. The engines only
// ever see the opaque storage key; pixel data never enters the form state.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/avelichka/skinform/internal/client/api"
	"github.com/avelichka/skinform/internal/logging"
)

const uploadTimeout = 60 * time.Second

// Uploader pushes a local image file to a presigned URL obtained from the
// server and returns the storage key to keep in the answer set.
type Uploader struct {
	client api.Client
	http   *http.Client
	logger logging.Logger
}

func NewUploader(client api.Client, logger logging.Logger) *Uploader {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Uploader{
		client: client,
		http:   &http.Client{Timeout: uploadTimeout},
		logger: logger,
	}
}

// Upload reads the file at path and PUTs it to a presigned URL. An empty
// path means the picker was cancelled: both return values are nil and the
// photo slot stays absent.
func (u *Uploader) Upload(ctx context.Context, path string) (*string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading photo %s: %w", path, err)
	}

	presigned, err := u.client.PresignPhoto(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting upload url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presigned.URL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("photo upload returned status %d", resp.StatusCode)
	}

	u.logger.Info(ctx, "photo uploaded", "key", presigned.Key, "bytes", len(data))
	key := presigned.Key
	return &key, nil
}
