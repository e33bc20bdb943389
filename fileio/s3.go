package fileio

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/gear6io/floe/config"
	"github.com/gear6io/floe/pkg/errors"
)

// S3Store wraps a MinIO client for the object-store operations the
// metadata layer needs: put a blob, get a handle back to it.
type S3Store struct {
	client *minio.Client
	logger zerolog.Logger
}

// NewS3Store connects to the configured S3/MinIO endpoint
func NewS3Store(cfg config.S3Config, logger zerolog.Logger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.New(ErrS3ClientFailed, "could not create S3 client", err).
			AddContext("endpoint", cfg.Endpoint)
	}

	logger.Debug().
		Str("endpoint", cfg.Endpoint).
		Bool("use_ssl", cfg.UseSSL).
		Msg("S3 store initialized")

	return &S3Store{client: client, logger: logger}, nil
}

// EnsureBucket creates the bucket if it does not exist yet
func (s *S3Store) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.New(ErrS3BucketFailed, "could not check bucket existence", err).
			AddContext("bucket", bucket)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.New(ErrS3BucketFailed, "could not create bucket", err).
			AddContext("bucket", bucket)
	}
	s.logger.Info().Str("bucket", bucket).Msg("created bucket")
	return nil
}

// Put uploads an object and returns a handle to it
func (s *S3Store) Put(ctx context.Context, bucket, key string, r io.Reader, size int64) (*S3File, error) {
	_, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{})
	if err != nil {
		return nil, errors.New(ErrS3PutFailed, "could not upload object", err).
			AddContext("bucket", bucket).
			AddContext("key", key)
	}
	s.logger.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int64("size", size).
		Msg("uploaded object")
	return &S3File{store: s, bucket: bucket, key: key}, nil
}

// Open stats the object once to fail fast on missing keys and returns a
// handle whose Length re-stats on demand
func (s *S3Store) Open(ctx context.Context, bucket, key string) (*S3File, error) {
	if _, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, errors.New(ErrS3StatFailed, "could not stat object", err).
			AddContext("bucket", bucket).
			AddContext("key", key)
	}
	return &S3File{store: s, bucket: bucket, key: key}, nil
}

// Get streams an object's content
func (s *S3Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.New(ErrS3GetFailed, "could not get object", err).
			AddContext("bucket", bucket).
			AddContext("key", key)
	}
	return obj, nil
}

// S3File is a handle to one object. Length stats the object each call so
// the answer tracks the store, not the moment the handle was made.
type S3File struct {
	store  *S3Store
	bucket string
	key    string
}

func (f *S3File) Location() string {
	return "s3://" + f.bucket + "/" + f.key
}

func (f *S3File) Length() (int64, error) {
	info, err := f.store.client.StatObject(context.Background(), f.bucket, f.key, minio.StatObjectOptions{})
	if err != nil {
		return 0, errors.New(ErrS3StatFailed, "could not stat object for length", err).
			AddContext("bucket", f.bucket).
			AddContext("key", f.key)
	}
	return info.Size, nil
}
