// Package archive stores uploaded vehicle images in an S3-compatible bucket.
// The archive is best-effort: the update path never waits on it or fails
// because of it.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/groblegark/fleetboard/internal/idgen"
)

// Archiver persists raw image uploads out of band and returns the storage key.
type Archiver interface {
	Store(ctx context.Context, plate, mime string, data []byte) (string, error)
}

// S3Archive writes image blobs to an S3-compatible bucket.
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ Archiver = (*S3Archive)(nil)

// NewS3Archive creates an S3 archive. If endpoint is non-empty, path-style
// addressing is enabled (for MinIO and similar).
func NewS3Archive(ctx context.Context, bucket, prefix, region, endpoint string) (*S3Archive, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Store uploads image bytes under a generated key and returns the key.
func (a *S3Archive) Store(ctx context.Context, plate, mime string, data []byte) (string, error) {
	id, err := idgen.Generate()
	if err != nil {
		return "", err
	}
	key := objectKey(a.prefix, plate, id, mime)

	contentType := mime
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return key, nil
}

// objectKey builds "<prefix>/<plate>-<id><ext>" with an extension derived
// from the MIME type.
func objectKey(prefix, plate, id, mime string) string {
	return path.Join(prefix, plate+"-"+id+extFor(mime))
}

func extFor(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
