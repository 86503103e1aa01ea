package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/bobmcallan/rhsheets/internal/common"
)

// S3API is the subset of the S3 client used by S3BlobStore
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3BlobStore implements BlobStore on an S3 bucket under an optional prefix.
type S3BlobStore struct {
	client S3API
	bucket string
	prefix string
	logger *common.Logger
}

var _ BlobStore = (*S3BlobStore)(nil)

// NewS3BlobStore loads the default AWS credential chain. A custom endpoint
// switches to path-style addressing for MinIO and R2.
func NewS3BlobStore(ctx context.Context, logger *common.Logger, config *common.S3BlobConfig) (*S3BlobStore, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("s3 blob store bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if config.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(config.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			CompatibleEndpoint(config.Endpoint)(o)
		}
	})

	logger.Debug().Str("bucket", config.Bucket).Str("prefix", config.Prefix).Msg("S3BlobStore initialized")
	return NewS3BlobStoreWithClient(client, config.Bucket, config.Prefix, logger), nil
}

// CompatibleEndpoint points the client at an S3-compatible store
func CompatibleEndpoint(endpoint string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}
}

// NewS3BlobStoreWithClient wraps an existing client
func NewS3BlobStoreWithClient(client S3API, bucket, prefix string, logger *common.Logger) *S3BlobStore {
	return &S3BlobStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

func (s *S3BlobStore) objectKey(key string) string {
	key = sanitizeKey(key)
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Get retrieves a blob by key.
func (s *S3BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get s3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object %s: %w", key, err)
	}
	return data, nil
}

// Put stores a blob.
func (s *S3BlobStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3 object %s: %w", key, err)
	}
	s.logger.Debug().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(data)).Msg("Blob written")
	return nil
}

// Exists checks if a blob exists.
func (s *S3BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Metadata(ctx, key)
	if errors.Is(err, ErrBlobNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Metadata returns metadata for a blob.
func (s *S3BlobStore) Metadata(ctx context.Context, key string) (*BlobMetadata, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to head s3 object %s: %w", key, err)
	}

	return &BlobMetadata{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
		ETag:         strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

// Close releases resources (no-op; the SDK client holds no connections of its own).
func (s *S3BlobStore) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
