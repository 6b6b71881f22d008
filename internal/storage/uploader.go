package storage

import "context"

// Uploader copies a local file into durable object storage and returns a
// publicly addressable URL for it.
type Uploader interface {
	Upload(ctx context.Context, localPath, remotePath string) (string, error)
}
