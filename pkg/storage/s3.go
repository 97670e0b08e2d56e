package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashgraph-online/media-mint-go/pkg/mediatype"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	"go.uber.org/zap"
)

const backendS3 = "s3"

// ObjectPutter is the part of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	// PublicBaseURL is the prefix objects are served from. Defaults to the virtual-hosted
	// AWS URL, or endpoint/bucket when a custom endpoint is set.
	PublicBaseURL   string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Logger          *zap.Logger
}

// S3Uploader stores blobs in an S3-compatible bucket under a key derived from their
// SHA-256, so equal bytes always map to the same URI.
type S3Uploader struct {
	client        ObjectPutter
	bucket        string
	prefix        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewS3Uploader loads AWS configuration from the environment, overridden by any static
// keys and endpoint in cfg.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	options := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	publicBaseURL := strings.TrimSpace(cfg.PublicBaseURL)
	if publicBaseURL == "" {
		if endpoint != "" {
			publicBaseURL = endpoint + "/" + cfg.Bucket
		} else {
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	return NewS3UploaderWithClient(client, cfg.Bucket, cfg.Prefix, publicBaseURL, cfg.Logger), nil
}

func NewS3UploaderWithClient(client ObjectPutter, bucket, prefix, publicBaseURL string, logger *zap.Logger) *S3Uploader {
	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		prefix:        strings.TrimLeft(prefix, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        shared.LoggerOrNop(logger),
	}
}

func (u *S3Uploader) Upload(ctx context.Context, blob Blob) (Asset, error) {
	key := u.ObjectKey(blob)

	metadata := make(map[string]string, len(blob.Tags))
	for tag, value := range blob.Tags {
		if tag == TagContentType {
			continue
		}
		metadata[strings.ToLower(tag)] = value
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob.Data),
		ContentType: aws.String(blob.MimeType),
		Metadata:    metadata,
	})
	if err != nil {
		return Asset{}, &UploadError{Name: blob.Name, Backend: backendS3, Err: err}
	}

	uri := u.publicBaseURL + "/" + key
	u.logger.Info("object stored", zap.String("name", blob.Name), zap.String("key", key), zap.String("uri", uri))
	return newAsset(blob, uri), nil
}

// ObjectKey is <prefix><content address><ext>. The extension comes from the blob name,
// or from its MIME type when the name has none.
func (u *S3Uploader) ObjectKey(blob Blob) string {
	return u.prefix + ContentAddress(blob.Data) + objectExtension(blob.Name, blob.MimeType)
}

// PredictURILength returns the length of the URI an upload of name would get. The
// content address has a fixed length, so the bytes are not needed.
func (u *S3Uploader) PredictURILength(name string, mimeType string) int {
	return len(u.publicBaseURL) + len("/") + len(u.prefix) + ContentAddressLength + len(objectExtension(name, mimeType))
}

func objectExtension(name string, mimeType string) string {
	if extension := strings.ToLower(filepath.Ext(name)); extension != "" {
		return extension
	}
	return mediatype.Extension(mimeType)
}
