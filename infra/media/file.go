// Package media gates local files for upload and stores them on S3.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// KindOf maps a MIME type to a media kind. Anything that is neither image
// nor video is MediaNone.
func KindOf(mime string) domain.MediaKind {
	switch {
	case strings.HasPrefix(mime, "video/"):
		return domain.MediaVideo
	case strings.HasPrefix(mime, "image/"):
		return domain.MediaImage
	}
	return domain.MediaNone
}

// LoadFile sniffs, size-checks and reads path. The size cap is enforced
// from the file metadata before the content is read.
func LoadFile(path string) (app.Upload, error) {
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil {
		return app.Upload{}, &domain.UploadError{Name: name, Err: err}
	}
	if info.IsDir() {
		return app.Upload{}, &domain.UploadError{Name: name, Err: fmt.Errorf("%s is a directory", path)}
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return app.Upload{}, &domain.UploadError{Name: name, Err: err}
	}
	kind := KindOf(mt.String())
	if err := domain.CheckUploadSize(name, kind, info.Size()); err != nil {
		return app.Upload{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return app.Upload{}, &domain.UploadError{Name: name, Err: err}
	}
	return app.Upload{Name: name, ContentType: mt.String(), Kind: kind, Data: data}, nil
}
