// Package archive stores raw inbound messages in Google Cloud Storage
// so extraction bugs can be replayed against the original text.
package archive

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Archiver stores and retrieves raw message payloads.
type Archiver interface {
	// Archive writes the raw message body and returns its gs:// URI.
	Archive(ctx context.Context, userID string, receivedAt time.Time, body string) (string, error)

	// Fetch downloads the archived body from a gs:// URI.
	Fetch(ctx context.Context, uri string) (string, error)
}

// GCSArchiver is the Cloud Storage implementation of Archiver.
// It assumes Application Default Credentials are configured.
type GCSArchiver struct {
	client *storage.Client
	bucket string
}

// NewGCSArchiver creates an archiver writing to the given bucket.
func NewGCSArchiver(client *storage.Client, bucket string) *GCSArchiver {
	return &GCSArchiver{client: client, bucket: bucket}
}

// ObjectName builds the archive object path for a message. Objects are
// grouped by user and receipt date so retention policies can prune by
// prefix.
func ObjectName(userID string, receivedAt time.Time) string {
	return path.Join(
		"raw",
		userID,
		receivedAt.UTC().Format("2006/01/02"),
		uuid.New().String()+".txt",
	)
}

// Archive implements Archiver.
func (a *GCSArchiver) Archive(ctx context.Context, userID string, receivedAt time.Time, body string) (string, error) {
	objectName := ObjectName(userID, receivedAt)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	obj := a.client.Bucket(a.bucket).Object(objectName)
	w := obj.NewWriter(ctx)
	if _, err := io.WriteString(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write message to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

// Fetch implements Archiver.
func (a *GCSArchiver) Fetch(ctx context.Context, uri string) (string, error) {
	bucketName, objectPath, err := ParseURI(uri)
	if err != nil {
		return "", err
	}

	rc, err := a.client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading bytes: %w", err)
	}

	return string(data), nil
}

// ParseURI splits a gs:// URI into bucket and object path.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return parts[0], parts[1], nil
}

var _ Archiver = (*GCSArchiver)(nil)
