package app

import (
	"context"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// Upload is a local file accepted by the size/type gate.
type Upload struct {
	Name        string
	ContentType string
	Kind        domain.MediaKind
	Data        []byte
}

// Size returns the payload length in bytes.
func (u Upload) Size() int64 { return int64(len(u.Data)) }

// MediaService stores an upload and returns its public URL.
type MediaService interface {
	UploadMedia(ctx context.Context, u Upload) (string, error)
}
