package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyPost indicates a post with no caption, media or hashtags.
	ErrEmptyPost = errors.New("post needs a caption, media or hashtags")

	// ErrEmptyComment indicates a comment that is blank after normalization.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrCommentTooLong indicates the comment exceeds MaxCommentLength.
	ErrCommentTooLong = errors.New("comment exceeds character limit")

	// ErrContentRefused indicates text matched a banned pattern.
	ErrContentRefused = errors.New("content refused")

	// ErrAlreadyReacted indicates this device already sent the reaction.
	ErrAlreadyReacted = errors.New("already reacted")

	// ErrDisplayNameTooLong indicates a display name over MaxDisplayNameLength.
	ErrDisplayNameTooLong = errors.New("display name exceeds character limit")

	// ErrFileTooLarge indicates an upload over its kind's size cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedMedia indicates an upload that is neither image nor video.
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrNotFound indicates the remote store has no record with that ID.
	ErrNotFound = errors.New("not found")
)

// ErrorKind classifies errors surfaced to the user.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindRateLimit   ErrorKind = "rate_limit"
	KindRemoteWrite ErrorKind = "remote_write"
	KindRemoteRead  ErrorKind = "remote_read"
	KindUpload      ErrorKind = "upload"
)

// ValidationError is raised before any state change. Never retried.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RateLimitError is raised before any remote call when a local window is full.
type RateLimitError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter <= 0 {
		return fmt.Sprintf("rate limited (%s)", e.Scope)
	}
	return fmt.Sprintf("rate limited (%s), retry in %s", e.Scope, e.RetryAfter.Round(time.Second))
}

// RemoteWriteError reports a failed remote mutation. The optimistic change
// it belonged to has already been rolled back when the caller sees it.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// RemoteReadError reports a failed remote query. Callers degrade the affected
// section instead of failing the view.
type RemoteReadError struct {
	Op  string
	Err error
}

func (e *RemoteReadError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }

func (e *RemoteReadError) Unwrap() error { return e.Err }

// UploadError blocks post submission; the composer keeps its file selection.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("upload: %v", e.Err)
	}
	return fmt.Sprintf("upload %s: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// KindOf reports the class of err, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var (
		ve *ValidationError
		re *RateLimitError
		we *RemoteWriteError
		rr *RemoteReadError
		ue *UploadError
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &re):
		return KindRateLimit
	case errors.As(err, &we):
		return KindRemoteWrite
	case errors.As(err, &rr):
		return KindRemoteRead
	case errors.As(err, &ue):
		return KindUpload
	}
	return ""
}

// UserMessage renders err as a short line suitable for a toast or inline hint.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var re *RateLimitError
	switch {
	case errors.Is(err, ErrEmptyComment):
		return "Comment is empty."
	case errors.Is(err, ErrCommentTooLong):
		return fmt.Sprintf("Comment too long (%d characters max).", MaxCommentLength)
	case errors.Is(err, ErrContentRefused):
		return "Content refused."
	case errors.Is(err, ErrEmptyPost):
		return "Add a caption, media or hashtags."
	case errors.Is(err, ErrAlreadyReacted):
		return "Already reacted."
	case errors.Is(err, ErrDisplayNameTooLong):
		return fmt.Sprintf("Name too long (%d characters max).", MaxDisplayNameLength)
	case errors.Is(err, ErrFileTooLarge):
		return "File too large."
	case errors.Is(err, ErrUnsupportedMedia):
		return "Only images and videos can be uploaded."
	case errors.As(err, &re):
		if re.RetryAfter > 0 {
			return fmt.Sprintf("Slow down, try again in %s.", re.RetryAfter.Round(time.Second))
		}
		return "Slow down a little."
	}
	switch KindOf(err) {
	case KindRemoteWrite:
		return "Action failed, change reverted."
	case KindRemoteRead:
		return "Could not load, showing what we have."
	case KindUpload:
		return "Upload failed."
	}
	return err.Error()
}
