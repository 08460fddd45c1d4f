package domain

import (
	"strings"
	"time"
)

// MediaKind is the type of media attached to a post.
type MediaKind string

const (
	MediaNone    MediaKind = ""
	MediaImage   MediaKind = "image"
	MediaVideo   MediaKind = "video"
	MediaYouTube MediaKind = "youtube"
)

// ReactionKind is one of the fixed reaction counters on a post.
type ReactionKind string

const (
	ReactionLOL    ReactionKind = "lol"
	ReactionCringe ReactionKind = "cringe"
	ReactionWTF    ReactionKind = "wtf"
	ReactionGenius ReactionKind = "genius"
)

// ReactionKinds lists every reaction in display order.
var ReactionKinds = []ReactionKind{ReactionLOL, ReactionCringe, ReactionWTF, ReactionGenius}

// ParseReactionKind accepts a reaction name in any case.
func ParseReactionKind(s string) (ReactionKind, bool) {
	k := ReactionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ReactionKinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Reactions holds the per-kind counters of a post.
type Reactions struct {
	LOL    int `json:"lol"`
	Cringe int `json:"cringe"`
	WTF    int `json:"wtf"`
	Genius int `json:"genius"`
}

// Count returns the counter for kind.
func (r Reactions) Count(kind ReactionKind) int {
	switch kind {
	case ReactionLOL:
		return r.LOL
	case ReactionCringe:
		return r.Cringe
	case ReactionWTF:
		return r.WTF
	case ReactionGenius:
		return r.Genius
	}
	return 0
}

// Add returns a copy with delta applied to kind, clamped at zero.
func (r Reactions) Add(kind ReactionKind, delta int) Reactions {
	switch kind {
	case ReactionLOL:
		r.LOL = clampAdd(r.LOL, delta)
	case ReactionCringe:
		r.Cringe = clampAdd(r.Cringe, delta)
	case ReactionWTF:
		r.WTF = clampAdd(r.WTF, delta)
	case ReactionGenius:
		r.Genius = clampAdd(r.Genius, delta)
	}
	return r
}

// Post is a feed entry. Counters never go below zero.
type Post struct {
	ID          string    `json:"id"`
	Caption     string    `json:"caption,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	MediaKind   MediaKind `json:"media_type,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Username    string    `json:"username,omitempty"`
	Anonymous   bool      `json:"is_anonymous"`
	Tags        []string  `json:"tags"`
	Reactions   Reactions `json:"reactions"`
	Score       int       `json:"score"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

// Author resolves the label shown for the post's author.
func (p Post) Author() string {
	switch {
	case strings.TrimSpace(p.DisplayName) != "":
		return strings.TrimSpace(p.DisplayName)
	case strings.TrimSpace(p.Username) != "":
		return strings.TrimSpace(p.Username)
	case p.Anonymous:
		return "Anonymous"
	}
	return "User"
}

// HasMedia reports whether the post carries a media URL.
func (p Post) HasMedia() bool { return strings.TrimSpace(p.MediaURL) != "" }

// HasTag matches tag case-insensitively against the post's tag set.
func (p Post) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	if tag == "" {
		return false
	}
	for _, t := range p.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// WithReaction applies delta to kind and to the score together.
func (p Post) WithReaction(kind ReactionKind, delta int) Post {
	p.Reactions = p.Reactions.Add(kind, delta)
	p.Score = clampAdd(p.Score, delta)
	return p
}

// WithView applies a view increment. Views never decrease.
func (p Post) WithView(delta int) Post {
	if delta > 0 {
		p.Views += delta
	}
	return p
}

// Permalink builds the share URL for the post under site.
func (p Post) Permalink(site string) string {
	return strings.TrimRight(site, "/") + "/post/" + p.ID
}

// NewPost is the client-built record sent when publishing.
type NewPost struct {
	Caption     string    `json:"caption,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	MediaKind   MediaKind `json:"media_type,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Anonymous   bool      `json:"is_anonymous"`
	Tags        []string  `json:"tags"`
}

func clampAdd(v, delta int) int {
	v += delta
	if v < 0 {
		return 0
	}
	return v
}
