package view

import (
	"strings"
	"testing"
	"time"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

func noWrap(s string, _ int) []string { return []string{s} }

func TestCenterLines(t *testing.T) {
	lines := centerLines([]string{"abc"}, 9)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0] != "   abc" {
		t.Fatalf("expected centered line with padding, got %q", lines[0])
	}
}

func TestDetailMetaLines(t *testing.T) {
	photo := unsplash.Photo{
		ID:             "a",
		Description:    "Foggy ridge",
		AltDescription: "mountains in fog",
		Width:          4000,
		Height:         3000,
		Likes:          1500,
		CreatedAt:      time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		User:           unsplash.User{Username: "jdoe", Name: "Jane Doe"},
		Links:          unsplash.PhotoLinks{HTML: "https://unsplash.com/photos/a"},
	}
	joined := strings.Join(DetailMetaLines(photo, true, 60, noWrap), "\n")
	for _, want := range []string{
		"Foggy ridge\n===========",
		"By: Jane Doe (@jdoe)",
		"Date: 2026-02-01T12:00:00Z",
		"Size: 4000x3000",
		"Likes: 1,500",
		"Favorite: yes",
		"Alt: mountains in fog",
		"URL: https://unsplash.com/photos/a",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in detail metadata, got %q", want, joined)
		}
	}
}

func TestDetailLines_UsesMarginsAndPreview(t *testing.T) {
	photo := unsplash.Photo{
		Description: "Photo",
		User:        unsplash.User{Name: "Author A"},
	}
	lines := DetailLines(photo, false, 60, 4, noWrap, InlineImagePreviewState{
		Enabled: true,
		Err:     "render failed",
	})
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "    By: Author A") {
		t.Fatalf("expected detail metadata with margin, got %q", joined)
	}
	if !strings.Contains(joined, "Image preview unavailable: render failed") {
		t.Fatalf("expected preview fallback error line, got %q", joined)
	}
}

func TestDetailLines_PreviewDisabledOrLoading(t *testing.T) {
	photo := unsplash.Photo{Description: "Photo"}
	lines := DetailLines(photo, false, 60, 0, noWrap, InlineImagePreviewState{})
	if strings.Contains(strings.Join(lines, "\n"), "preview") {
		t.Fatalf("did not expect preview lines when disabled, got %q", lines)
	}

	lines = DetailLines(photo, false, 60, 0, noWrap, InlineImagePreviewState{Enabled: true, Loading: true, Raw: "stale"})
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Loading image preview...") || strings.Contains(joined, "stale") {
		t.Fatalf("expected loading line only, got %q", joined)
	}
}

func TestRenderDetailLines(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := RenderDetailLines(lines, 1, 2); got != "b\nc\n" {
		t.Fatalf("unexpected detail window: %q", got)
	}
	if got := RenderDetailLines(lines, 10, 0); got != "d\n" {
		t.Fatalf("expected top clamped to last line, got %q", got)
	}
	if got := DetailMaxTop(len(lines), 10); got != 0 {
		t.Fatalf("expected max top 0, got %d", got)
	}
	if got := DetailMaxTop(len(lines), 3); got != 1 {
		t.Fatalf("expected max top 1, got %d", got)
	}
}
