package common

import (
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-50 * time.Hour), "2d"},
		{time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), "Apr 01"},
		{time.Date(2025, 12, 24, 9, 0, 0, 0, time.UTC), "Dec 24 2025"},
	}
	for _, c := range cases {
		if got := TimeAgo(c.at, now); got != c.want {
			t.Fatalf("TimeAgo(%v): expected %q, got %q", c.at, c.want, got)
		}
	}
}

func TestCompactCount(t *testing.T) {
	cases := map[int]string{
		0:         "0",
		999:       "999",
		1000:      "1k",
		1300:      "1.3k",
		12_400:    "12k",
		3_400_000: "3.4M",
	}
	for n, want := range cases {
		if got := CompactCount(n); got != want {
			t.Fatalf("CompactCount(%d): expected %q, got %q", n, want, got)
		}
	}
}

func TestApplyTheme_SwitchesPalette(t *testing.T) {
	ApplyTheme("light")
	if CurrentPalette() != LightPalette {
		t.Fatalf("expected light palette")
	}
	ApplyTheme("dark")
	if CurrentPalette() != DarkPalette {
		t.Fatalf("expected dark palette")
	}
	ApplyTheme("unknown")
	if CurrentPalette() != DarkPalette {
		t.Fatalf("unknown theme should fall back to dark")
	}
}
