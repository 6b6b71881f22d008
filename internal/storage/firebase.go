package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseUploader stores objects in the app's Firebase Storage bucket and
// makes each uploaded object publicly readable.
type FirebaseUploader struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebaseUploader initializes the Firebase Admin SDK from a service
// account key and opens the configured default bucket.
func NewFirebaseUploader(ctx context.Context, bucketName, serviceAccountPath string) (*FirebaseUploader, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{StorageBucket: bucketName},
		option.WithCredentialsFile(serviceAccountPath),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to open storage bucket: %w", err)
	}

	return &FirebaseUploader{bucket: bucket, bucketName: bucketName}, nil
}

// Upload writes the local file to remotePath in the bucket, marks it
// publicly readable, and returns its public URL.
func (u *FirebaseUploader) Upload(ctx context.Context, localPath, remotePath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	obj := u.bucket.Object(remotePath)
	w := obj.NewWriter(ctx)
	w.ContentType = "image/png"

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", remotePath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", remotePath, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("failed to make object %s public: %w", remotePath, err)
	}

	return PublicURL(u.bucketName, remotePath), nil
}

// PublicURL is the canonical public address of an object in a bucket.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}
