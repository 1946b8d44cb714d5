package vault

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"screenkeep/internal/catalog"
	"screenkeep/internal/config"
)

// S3Vault stores image content in an S3 (or S3-compatible) bucket under
// <prefix>/content/<checksum>. Uploads go through the transfer manager so
// large originals are sent multipart.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Vault creates a vault backed by the configured bucket. Credentials
// come from the static key pair when configured, otherwise from the default
// AWS chain (env, shared config, instance role).
func NewS3Vault(cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Vault{
		name:     cfg.Name,
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// contentKey returns the object key for a checksum.
func (v *S3Vault) contentKey(checksum string) string {
	if v.prefix == "" {
		return "content/" + checksum
	}
	return v.prefix + "/content/" + checksum
}

// PutContent uploads content identified by its checksum.
// Idempotent: re-uploading an existing checksum overwrites with identical bytes.
func (v *S3Vault) PutContent(checksum string, r io.Reader, size int64) error {
	_, err := v.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.contentKey(checksum)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("uploading content %s: %w", checksum, err)
	}
	return nil
}

// GetContent downloads content by checksum and writes it to w.
func (v *S3Vault) GetContent(checksum string, w io.Writer) error {
	out, err := v.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.contentKey(checksum)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("content not found: %s", checksum)
		}
		return fmt.Errorf("downloading content %s: %w", checksum, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// DeleteContent removes content by checksum. S3 deletes are already
// no-ops for absent keys.
func (v *S3Vault) DeleteContent(checksum string) error {
	_, err := v.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.contentKey(checksum)),
	})
	if err != nil {
		return fmt.Errorf("deleting content %s: %w", checksum, err)
	}
	return nil
}

// ValidateSetup verifies the bucket is reachable with the configured credentials.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

// Compile-time check that S3Vault implements the catalog.Vault interface
var _ catalog.Vault = (*S3Vault)(nil)
