package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
)

// ArchivePrefix is the object prefix raw feed documents are stored under.
const ArchivePrefix = "documents"

// Archive stores raw feed documents, one object per fetch, grouped by feed URL.
type Archive struct {
	client Client
	bucket string
	now    func() time.Time
}

// NewArchive creates an archive writing into bucket.
func NewArchive(client Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket, now: time.Now}
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Put uploads one fetched document and returns the object key.
func (a *Archive) Put(ctx context.Context, feedURL string, body []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s.xml", urlPrefix(feedURL), a.now().UTC().Format("20060102T150405.000000000Z"))
	if contentType == "" {
		contentType = "application/xml"
	}

	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"feed-url": feedURL},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", feedURL, err)
	}
	return key, nil
}

// List returns the archived object keys for feedURL, oldest first.
func (a *Archive) List(ctx context.Context, feedURL string) ([]string, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    urlPrefix(feedURL) + "/",
		Recursive: true,
	}

	var keys []string
	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archive for %s: %w", feedURL, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

func urlPrefix(feedURL string) string {
	sum := sha256.Sum256([]byte(feedURL))
	return ArchivePrefix + "/" + hex.EncodeToString(sum[:8])
}
