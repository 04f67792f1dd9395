package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
	tuitheme "github.com/glabrego/fotoflix-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type PhotoLineParams struct {
	Photo       unsplash.Photo
	Favorite    bool
	Now         time.Time
	ShowNumbers bool
	Pos         int
	Active      bool
	Width       int
}

func RenderPhotoLine(p PhotoLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	favoriteMarker := " "
	if p.Favorite {
		favoriteMarker = th.Favorite.Render("♥")
	}

	prefix := fmt.Sprintf(" %s%s ", cursorMarker, favoriteMarker)
	if p.ShowNumbers {
		prefix = fmt.Sprintf(" %s%s%3d. ", cursorMarker, favoriteMarker, p.Pos+1)
	}
	meta := "[" + LikesLabel(p.Photo.Likes) + " · " + RelativeTimeLabel(p.Now, p.Photo.CreatedAt) + "]"
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(meta)
	if available < 1 {
		available = 1
	}

	label := truncateRunes(PhotoLabel(p.Photo), available)
	styledTitle := th.StylePhotoTitle(p.Favorite, label)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(meta)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+meta)
}

// PhotoLabel is "title | author", or just the title for anonymous photos.
func PhotoLabel(photo unsplash.Photo) string {
	title := strings.TrimSpace(photo.Title())
	author := strings.TrimSpace(photo.Author())
	if author == "" {
		return title
	}
	return title + " | " + author
}

func LikesLabel(likes int) string {
	if likes == 1 {
		return "1 like"
	}
	return humanize.Comma(int64(likes)) + " likes"
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "just now"
	}
	if now.Sub(then) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
