package export

import (
	"context"
	"time"
)

// ObjectStore is the object storage surface the export service needs.
// Implemented by the S3 store and by an in-memory store for tests.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}
