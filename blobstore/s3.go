package blobstore

import (
	"bytes"
	"context"
	"errors"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store implements BlobStore for datasets published to S3.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates a new S3 blob store.
// rootPrefix is prepended to all keys (e.g. "themes-index/").
func NewS3Store(client *s3.Client, bucket, rootPrefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

// NewS3StoreFromEnv creates an S3 store using the default AWS credential and
// region resolution chain.
func NewS3StoreFromEnv(ctx context.Context, bucket, rootPrefix string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open downloads the named object fully and returns it as a Blob.
// Dataset blobs are loaded once at startup, so whole-object download keeps
// the read path identical to the local store.
func (s *S3Store) Open(ctx context.Context, name string) (Blob, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrNotFound
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, aws.ToInt64(head.ContentLength)))
	downloader := manager.NewDownloader(s.client)
	if _, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	return &memBlob{r: bytes.NewReader(data), size: int64(len(data))}, nil
}

type memBlob struct {
	r    *bytes.Reader
	size int64
}

func (b *memBlob) Read(p []byte) (int, error) { return b.r.Read(p) }

func (b *memBlob) Close() error { return nil }

func (b *memBlob) Size() int64 { return b.size }
