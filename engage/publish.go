package engage

import (
	"context"
	"errors"
	"strings"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// ErrNoMediaBackend is returned when a file is attached but no uploader is
// configured.
var ErrNoMediaBackend = errors.New("no media backend configured")

// Draft is what the composer collects.
type Draft struct {
	Caption  string
	Hashtags string
	MediaURL string
	File     *app.Upload
}

// Empty reports whether the draft has nothing to publish.
func (d Draft) Empty() bool {
	return strings.TrimSpace(d.Caption) == "" &&
		strings.TrimSpace(d.Hashtags) == "" &&
		strings.TrimSpace(d.MediaURL) == "" &&
		d.File == nil
}

// Tags merges the hashtags field with hashtags found in the caption.
func (d Draft) Tags() []string {
	return domain.MergeTags(domain.ParseHashtagField(d.Hashtags), domain.ExtractTags(d.Caption))
}

// Publisher turns drafts into posts: gate, upload, insert.
type Publisher struct {
	feed     app.FeedService
	media    app.MediaService
	identity *Identity
}

// NewPublisher creates a publisher. media may be nil when uploads are off.
func NewPublisher(feed app.FeedService, media app.MediaService, identity *Identity) *Publisher {
	return &Publisher{feed: feed, media: media, identity: identity}
}

// Check validates a draft without side effects.
func (p *Publisher) Check(d Draft) error {
	if d.Empty() {
		return &domain.ValidationError{Field: "post", Err: domain.ErrEmptyPost}
	}
	if d.File != nil {
		if err := domain.CheckUploadSize(d.File.Name, d.File.Kind, d.File.Size()); err != nil {
			return err
		}
		if p.media == nil {
			return &domain.UploadError{Name: d.File.Name, Err: ErrNoMediaBackend}
		}
	}
	return nil
}

// Publish uploads the draft's file if any and inserts the post. The author
// is the declared display name, or anonymous.
func (p *Publisher) Publish(ctx context.Context, d Draft) (domain.Post, error) {
	if err := p.Check(d); err != nil {
		return domain.Post{}, err
	}

	np := domain.NewPost{
		Caption: strings.TrimSpace(d.Caption),
		Tags:    d.Tags(),
	}
	switch {
	case d.File != nil:
		url, err := p.media.UploadMedia(ctx, *d.File)
		if err != nil {
			var ue *domain.UploadError
			if errors.As(err, &ue) {
				return domain.Post{}, err
			}
			return domain.Post{}, &domain.UploadError{Name: d.File.Name, Err: err}
		}
		np.MediaURL, np.MediaKind = url, d.File.Kind
	case strings.TrimSpace(d.MediaURL) != "":
		np.MediaURL = strings.TrimSpace(d.MediaURL)
		np.MediaKind = domain.ClassifyMediaURL(np.MediaURL)
	}

	if name := p.identity.DisplayName(); name != "" {
		np.DisplayName = name
	} else {
		np.Anonymous = true
	}

	post, err := p.feed.InsertPost(ctx, np)
	if err != nil {
		return domain.Post{}, &domain.RemoteWriteError{Op: "publish", Err: err}
	}
	return post, nil
}
