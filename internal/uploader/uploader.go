// Package uploader is the gateway to the S3-compatible object store. It
// exposes two publish contracts: immutable (media files, guarded by an
// existence probe so an already distributed object is never replaced) and
// mutable (feed document and database backup, always overwritten).
package uploader

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"

	"gocaster/internal/config"
)

var (
	// ErrAlreadyPublished is returned when an immutable publish finds an
	// object already at the target key. Nothing is uploaded in that case.
	ErrAlreadyPublished = errors.New("object already published")

	// ErrTransferFailed wraps any transport, auth or storage error from the
	// object store. Transfers are not retried here.
	ErrTransferFailed = errors.New("object store transfer failed")
)

// ObjectStore is the slice of the S3 API the uploader needs.
type ObjectStore interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader publishes local files into one bucket.
type Uploader struct {
	client ObjectStore
	bucket string
}

// New builds an uploader from the hosting settings, using static credentials
// against the configured endpoint.
func New(ctx context.Context, hosting config.Hosting) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(hosting.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			hosting.AccessKey,
			hosting.Secret,
			"",
		)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure object store client")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(hosting.Endpoint)
	})

	return &Uploader{client: client, bucket: hosting.Bucket}, nil
}

// NewWithClient wires an uploader over an existing client. Used by tests.
func NewWithClient(client ObjectStore, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// PublishImmutable uploads the local file to remoteDir/<filename> with
// public-read visibility, but only if no object exists there yet. The probe
// is a lightweight existence check, not a content comparison, and it is
// best-effort: there is no conditional put between check and upload.
func (u *Uploader) PublishImmutable(ctx context.Context, localPath, remoteDir, contentType string) error {
	key := remoteKey(remoteDir, localPath)

	_, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return errors.Wrapf(ErrAlreadyPublished, "%s/%s", u.bucket, key)
	}
	if !isNotFound(err) {
		return errors.Wrapf(ErrTransferFailed, "existence probe for %s/%s: %v", u.bucket, key, err)
	}

	return u.put(ctx, localPath, key, contentType, true)
}

// PublishMutable uploads the local file to remoteDir/<filename>,
// unconditionally overwriting whatever is there. The object is granted
// public-read only when public is set; the database backup stays private.
func (u *Uploader) PublishMutable(ctx context.Context, localPath, remoteDir, contentType string, public bool) error {
	return u.put(ctx, localPath, remoteKey(remoteDir, localPath), contentType, public)
}

func (u *Uploader) put(ctx context.Context, localPath, key, contentType string, public bool) error {
	f, err := os.Open(localPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q for upload", localPath)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if public {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return errors.Wrapf(ErrTransferFailed, "upload to %s/%s: %v", u.bucket, key, err)
	}
	return nil
}

func remoteKey(remoteDir, localPath string) string {
	return remoteDir + "/" + filepath.Base(localPath)
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return true
		}
	}
	return false
}
