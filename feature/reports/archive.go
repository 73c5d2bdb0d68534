package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dealer-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrNotFound is returned when no archived report exists for an id.
var ErrNotFound = errors.New("report not found")

// Archive persists synchronisation reports for later download.
type Archive interface {
	// Put stores the report JSON under the given id.
	Put(ctx context.Context, id string, data []byte) error
	// Get retrieves the report JSON for the given id. Returns ErrNotFound
	// when no such report exists.
	Get(ctx context.Context, id string) ([]byte, error)
}

// LocalArchive stores reports as files in a directory. It is the default
// backend when object storage is disabled.
type LocalArchive struct {
	dir string
}

// NewLocalArchive creates the directory-backed archive.
func NewLocalArchive(dir string) (*LocalArchive, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "dealer-sync-reports")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &LocalArchive{dir: dir}, nil
}

func (a *LocalArchive) Put(_ context.Context, id string, data []byte) error {
	if err := os.WriteFile(a.path(id), data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (a *LocalArchive) Get(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(a.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return data, nil
}

func (a *LocalArchive) path(id string) string {
	return filepath.Join(a.dir, id+".json")
}

// ObjectArchive stores reports in an object-storage bucket.
type ObjectArchive struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectArchive creates the object-storage archive, creating the bucket
// when it does not exist yet.
func NewObjectArchive(ctx context.Context, client storage.Client, bucket, prefix string) (*ObjectArchive, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check report bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create report bucket: %w", err)
		}
	}
	return &ObjectArchive{client: client, bucket: bucket, prefix: prefix}, nil
}

func (a *ObjectArchive) Put(ctx context.Context, id string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, a.objectName(id),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}

func (a *ObjectArchive) Get(ctx context.Context, id string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.objectName(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// Minio surfaces missing keys on read, not on open.
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return data, nil
}

func (a *ObjectArchive) objectName(id string) string {
	if a.prefix == "" {
		return id + ".json"
	}
	return a.prefix + "/" + id + ".json"
}
