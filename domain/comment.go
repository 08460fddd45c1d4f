package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxCommentLength is measured in characters after normalization.
	MaxCommentLength = 1000

	// TempCommentPrefix marks placeholder comments awaiting the server record.
	TempCommentPrefix = "temp-"

	// MaxDisplayNameLength caps the self-declared display name.
	MaxDisplayNameLength = 24
)

// BannedPatterns refuse comment content and flag suspect captions.
var BannedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:insulte1|insulte2|slur1|slur2)\b`),
}

// Comment belongs to exactly one post.
type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	Content     string    `json:"content"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsPlaceholder reports whether c is an optimistic local comment.
func (c Comment) IsPlaceholder() bool {
	return strings.HasPrefix(c.ID, TempCommentPrefix)
}

// Author resolves the label shown for the comment author.
func (c Comment) Author() string {
	if n := strings.TrimSpace(c.DisplayName); n != "" {
		return n
	}
	return "Anonymous"
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeText collapses whitespace runs to one space and trims.
func NormalizeText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ValidateComment normalizes raw and checks it against the length bounds and
// patterns. It returns the content to store.
func ValidateComment(raw string, patterns []*regexp.Regexp) (string, error) {
	content := NormalizeText(raw)
	n := utf8.RuneCountInString(content)
	switch {
	case n < 1:
		return "", &ValidationError{Field: "comment", Err: ErrEmptyComment}
	case n > MaxCommentLength:
		return "", &ValidationError{Field: "comment", Err: ErrCommentTooLong}
	}
	if MatchesAny(content, patterns) {
		return "", &ValidationError{Field: "comment", Err: ErrContentRefused}
	}
	return content, nil
}

// MatchesAny reports whether s matches one of patterns.
func MatchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// NormalizeDisplayName trims name and enforces MaxDisplayNameLength.
// An empty result means anonymous.
func NormalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return "", &ValidationError{Field: "display name", Err: ErrDisplayNameTooLong}
	}
	return name, nil
}

// CommentPage is one page of a post's comments, newest first, plus the
// server-side total.
type CommentPage struct {
	Comments []Comment
	Total    int
}
