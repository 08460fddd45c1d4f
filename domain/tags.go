package domain

import (
	"regexp"
	"strings"
)

// MaxTags caps the tag set of a post.
const MaxTags = 10

// PopularTags are offered as quick filters.
var PopularTags = []string{
	"gaming", "travail", "amour", "ecole", "cringe", "lol",
	"wtf", "genius", "sport", "food", "voyage", "tech",
}

var tagRe = regexp.MustCompile(`#[\p{L}\d_]+`)

// NormalizeTag lowercases a tag and strips a leading '#'.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// ExtractTags returns the unique lowercase hashtags found in text, in order
// of first appearance, capped at MaxTags.
func ExtractTags(text string) []string {
	return uniqueTags(tagRe.FindAllString(text, -1))
}

// ParseHashtagField reads a dedicated hashtags input. Words given without a
// leading '#' are accepted too.
func ParseHashtagField(field string) []string {
	words := strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	var b strings.Builder
	for _, w := range words {
		if !strings.HasPrefix(w, "#") {
			b.WriteByte('#')
		}
		b.WriteString(w)
		b.WriteByte(' ')
	}
	return ExtractTags(b.String())
}

// MergeTags unions tag lists, preserving first-seen order, capped at MaxTags.
func MergeTags(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	return uniqueTags(all)
}

func uniqueTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = NormalizeTag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}
