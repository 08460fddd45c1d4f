package media

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader implements app.MediaService over a public-read S3 bucket.
type S3Uploader struct {
	client  objectPutter
	bucket  string
	baseURL string
}

// NewS3Uploader loads the default AWS credential chain for region.
func NewS3Uploader(ctx context.Context, region, bucket, baseURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Uploader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// UploadMedia stores u under public/<uuid><ext> and returns its public URL.
func (s *S3Uploader) UploadMedia(ctx context.Context, u app.Upload) (string, error) {
	key := "public/" + uuid.NewString() + strings.ToLower(filepath.Ext(u.Name))
	ct := u.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(u.Data),
		ContentType:  aws.String(ct),
		CacheControl: aws.String("max-age=31536000"),
		Metadata: map[string]string{
			"original-filename": u.Name,
			"media-kind":        string(u.Kind),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	logging.Info("media uploaded", "key", key, "bytes", u.Size())
	return s.baseURL + "/" + key, nil
}
