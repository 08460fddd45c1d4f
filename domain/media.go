package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	MaxImageBytes = 15 << 20
	MaxVideoBytes = 50 << 20
)

var (
	shortsRe = regexp.MustCompile(`^/shorts/([^/?#]+)`)
	embedRe  = regexp.MustCompile(`^/embed/([^/?#]+)`)
	youtuRe  = regexp.MustCompile(`^/([^/?#]+)`)
)

// ParseYouTubeID extracts the video ID from watch, shorts, embed and
// youtu.be links.
func ParseYouTubeID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			v := u.Query().Get("v")
			return v, v != ""
		}
		if m := shortsRe.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
		if m := embedRe.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	case "youtu.be":
		if m := youtuRe.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ClassifyMediaURL picks the kind for a pasted link. Anything that is not a
// YouTube link is treated as an image.
func ClassifyMediaURL(raw string) MediaKind {
	if strings.TrimSpace(raw) == "" {
		return MediaNone
	}
	if _, ok := ParseYouTubeID(raw); ok {
		return MediaYouTube
	}
	return MediaImage
}

// CheckUploadSize enforces the per-kind size cap before any upload.
func CheckUploadSize(name string, kind MediaKind, size int64) error {
	var limit int64
	switch kind {
	case MediaImage:
		limit = MaxImageBytes
	case MediaVideo:
		limit = MaxVideoBytes
	default:
		return &UploadError{Name: name, Err: ErrUnsupportedMedia}
	}
	if size > limit {
		return &UploadError{Name: name, Err: fmt.Errorf("%w: %d MB max for %s", ErrFileTooLarge, limit>>20, kind)}
	}
	return nil
}
