package view

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
	tuitheme "github.com/glabrego/fotoflix-cli/internal/tui/theme"
)

func TestRenderPhotoLine_MetaAtRightEdge(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	th := tuitheme.Default()

	line := RenderPhotoLine(PhotoLineParams{
		Photo: unsplash.Photo{
			ID:          "a",
			Description: "Foggy ridge at dawn",
			Likes:       1234,
			CreatedAt:   now.Add(-7 * time.Hour),
			User:        unsplash.User{Username: "jdoe", Name: "Jane Doe"},
		},
		Now:   now,
		Width: 72,
	}, th)
	plain := stripANSI(line)
	if !strings.HasSuffix(plain, "[1,234 likes · 7 hours ago]") {
		t.Fatalf("expected likes and age at right edge, got %q", plain)
	}
	if !strings.Contains(plain, "Foggy ridge at dawn | Jane Doe") {
		t.Fatalf("expected title and author, got %q", plain)
	}
}

func TestRenderPhotoLine_MarkersAndTruncation(t *testing.T) {
	th := tuitheme.Default()
	line := stripANSI(RenderPhotoLine(PhotoLineParams{
		Photo:       unsplash.Photo{ID: "a", Description: strings.Repeat("long title ", 10)},
		Favorite:    true,
		Active:      true,
		ShowNumbers: true,
		Pos:         4,
		Width:       50,
	}, th))
	if !strings.HasPrefix(line, " >♥  5. ") {
		t.Fatalf("expected cursor, favorite and number markers, got %q", line)
	}
	if !strings.Contains(line, "...") {
		t.Fatalf("expected truncated title, got %q", line)
	}
}

func TestPhotoLabel(t *testing.T) {
	if got := PhotoLabel(unsplash.Photo{AltDescription: "a cat", User: unsplash.User{Username: "cats"}}); got != "a cat | cats" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := PhotoLabel(unsplash.Photo{}); got != "(untitled)" {
		t.Fatalf("unexpected anonymous label: %q", got)
	}
}

func TestLikesLabel(t *testing.T) {
	if got := LikesLabel(1); got != "1 like" {
		t.Fatalf("unexpected singular label: %q", got)
	}
	if got := LikesLabel(25000); got != "25,000 likes" {
		t.Fatalf("unexpected plural label: %q", got)
	}
}

func TestRelativeTimeLabel(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		then time.Time
		want string
	}{
		{then: time.Time{}, want: "unknown"},
		{then: now.Add(time.Hour), want: "just now"},
		{then: now.Add(-30 * time.Second), want: "just now"},
		{then: now.Add(-3 * time.Minute), want: "3 minutes ago"},
		{then: now.Add(-7 * time.Hour), want: "7 hours ago"},
		{then: now.Add(-24 * time.Hour), want: "1 day ago"},
	}
	for _, tc := range cases {
		if got := RelativeTimeLabel(now, tc.then); got != tc.want {
			t.Fatalf("RelativeTimeLabel(%s) = %q, want %q", tc.then.UTC().Format(time.RFC3339), got, tc.want)
		}
	}
}

func TestRenderListBody(t *testing.T) {
	in := ListRenderInput{
		Count:  5,
		Start:  3,
		End:    6,
		Cursor: 4,
		RenderPhotoLine: func(i int, active bool) string {
			return fmt.Sprintf("%d:%v", i, active)
		},
		Footer: "loading...",
	}
	got := RenderListBody(in)
	if got != "3:false\n4:true\nloading...\n" {
		t.Fatalf("unexpected list body: %q", got)
	}

	in.End = 4
	if got := RenderListBody(in); got != "3:false\n" {
		t.Fatalf("expected footer only at the end of the list, got %q", got)
	}

	if got := RenderListBody(ListRenderInput{}); got != "" {
		t.Fatalf("expected empty body, got %q", got)
	}
}
