package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYouTubeID(t *testing.T) {
	tests := []struct {
		url  string
		id   string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=abc", "abc", true},
		{"https://youtube.com/shorts/xyz123?feature=share", "xyz123", true},
		{"https://www.youtube.com/embed/emb1", "emb1", true},
		{"https://youtu.be/short1?t=4", "short1", true},
		{"https://www.youtube.com/watch", "", false},
		{"https://example.com/watch?v=abc", "", false},
		{"not a url", "", false},
	}
	for _, tt := range tests {
		id, ok := ParseYouTubeID(tt.url)
		assert.Equal(t, tt.want, ok, tt.url)
		assert.Equal(t, tt.id, id, tt.url)
	}
}

func TestClassifyMediaURL(t *testing.T) {
	assert.Equal(t, MediaYouTube, ClassifyMediaURL("https://youtu.be/abc"))
	assert.Equal(t, MediaImage, ClassifyMediaURL("https://cdn.example.com/cat.gif"))
	assert.Equal(t, MediaNone, ClassifyMediaURL("  "))
}

func TestCheckUploadSize(t *testing.T) {
	require.NoError(t, CheckUploadSize("a.png", MediaImage, MaxImageBytes))
	require.NoError(t, CheckUploadSize("a.mp4", MediaVideo, MaxVideoBytes))

	err := CheckUploadSize("a.png", MediaImage, MaxImageBytes+1)
	var ue *UploadError
	require.True(t, errors.As(err, &ue))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, KindUpload, KindOf(err))

	// a 20MB video is fine, a 20MB image is not
	assert.NoError(t, CheckUploadSize("v.mp4", MediaVideo, 20<<20))
	assert.Error(t, CheckUploadSize("i.jpg", MediaImage, 20<<20))

	assert.ErrorIs(t, CheckUploadSize("a.pdf", MediaYouTube, 10), ErrUnsupportedMedia)
}
