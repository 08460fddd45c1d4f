package feed

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

func TestTruncateToTwoLines(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := truncateToTwoLines(long, 20)
	if n := len(strings.Split(got, "\n")); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if short := truncateToTwoLines("hi", 20); strings.Contains(short, "...") {
		t.Fatalf("short text should not be truncated: %q", short)
	}
}

func TestClipLines(t *testing.T) {
	if got := clipLines("a\nb\nc", 2); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
	if got := clipLines("a\nb", 5); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
	if got := clipLines("a", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestClampLinesToWidth(t *testing.T) {
	got := clampLinesToWidth("short\n"+strings.Repeat("x", 50), 10)
	for _, ln := range strings.Split(got, "\n") {
		if ansi.StringWidth(ln) > 10 {
			t.Fatalf("line %q wider than 10", ln)
		}
	}
	if !strings.HasPrefix(got, "short\n") {
		t.Fatalf("narrow lines should be untouched: %q", got)
	}
}

func TestRenderCompactTags(t *testing.T) {
	got := renderCompactTags([]string{"lol", "cringe", "travail", "politique"}, 2)
	for _, want := range []string{"#lol", "#cringe", "+2 more"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "#travail") {
		t.Fatalf("tags past the cap should be folded: %q", got)
	}
	if renderCompactTags(nil, 3) != "" {
		t.Fatalf("no tags should render nothing")
	}
}

func TestMediaLabel(t *testing.T) {
	cases := []struct {
		post domain.Post
		want string
	}{
		{domain.Post{}, ""},
		{domain.Post{MediaURL: "https://x.test/a.png", MediaKind: domain.MediaImage}, "▣ image"},
		{domain.Post{MediaURL: "https://x.test/a.mp4", MediaKind: domain.MediaVideo}, "▶ video"},
		{domain.Post{MediaURL: "https://youtu.be/dQw4w9WgXcQ", MediaKind: domain.MediaYouTube}, "▶ youtube dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		if got := mediaLabel(tc.post); got != tc.want {
			t.Fatalf("mediaLabel(%s) = %q, want %q", tc.post.MediaURL, got, tc.want)
		}
	}
}

func TestRenderAuthor_Anonymous(t *testing.T) {
	got := renderAuthor(domain.Post{Anonymous: true})
	if !strings.Contains(got, "Anonymous") {
		t.Fatalf("anonymous posts should say so, got %q", got)
	}
	if !strings.Contains(renderAuthor(domain.Post{DisplayName: "  kev "}), "kev") {
		t.Fatalf("display name should be shown trimmed")
	}
}

func TestIsSafeExternalURL(t *testing.T) {
	safe := []string{"https://cancelme.app/post/1", "http://example.com/a.png"}
	unsafe := []string{"", "javascript:alert(1)", "file:///etc/passwd", "https://", "not a url"}
	for _, u := range safe {
		if !isSafeExternalURL(u) {
			t.Fatalf("%q should be allowed", u)
		}
	}
	for _, u := range unsafe {
		if isSafeExternalURL(u) {
			t.Fatalf("%q should be refused", u)
		}
	}
}
