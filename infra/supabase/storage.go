package supabase

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/mathfra-rgb/cancelme-mvp/app"
)

// storageService implements app.MediaService over a public storage bucket.
type storageService struct {
	client *Client
	bucket string
}

// NewStorageService uploads into bucket, which must be public-read.
func NewStorageService(client *Client, bucket string) *storageService {
	return &storageService{client: client, bucket: bucket}
}

// ObjectKey names an upload public/<uuid><ext>.
func ObjectKey(name string) string {
	return "public/" + uuid.NewString() + strings.ToLower(path.Ext(name))
}

func (s *storageService) UploadMedia(ctx context.Context, u app.Upload) (string, error) {
	key := ObjectKey(u.Name)
	objectPath := "/storage/v1/object/" + s.bucket + "/" + key

	ct := u.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	resp, err := s.client.r(ctx).
		SetHeader("Content-Type", ct).
		SetHeader("x-upsert", "false").
		SetBody(u.Data).
		Post(objectPath)
	if err := check(resp, err, http.MethodPost, objectPath); err != nil {
		return "", err
	}
	return s.client.BaseURL() + "/storage/v1/object/public/" + s.bucket + "/" + key, nil
}
