package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

type WrapFunc func(string, int) []string

func DetailMetaLines(photo unsplash.Photo, favorite bool, width int, wrap WrapFunc) []string {
	title := photo.Title()
	lines := make([]string, 0, 16)
	lines = append(lines, wrap(title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len([]rune(title))))))
	lines = append(lines, "")

	if author := photo.Author(); author != "" {
		byline := "By: " + author
		if photo.User.Username != "" && photo.User.Username != author {
			byline += " (@" + photo.User.Username + ")"
		}
		lines = append(lines, wrap(byline, width)...)
	}
	if !photo.CreatedAt.IsZero() {
		lines = append(lines, "Date: "+photo.CreatedAt.UTC().Format(time.RFC3339))
	}
	if photo.Width > 0 && photo.Height > 0 {
		lines = append(lines, fmt.Sprintf("Size: %dx%d", photo.Width, photo.Height))
	}
	lines = append(lines, "Likes: "+humanize.Comma(int64(photo.Likes)))
	if favorite {
		lines = append(lines, "Favorite: yes")
	} else {
		lines = append(lines, "Favorite: no")
	}
	if alt := strings.TrimSpace(photo.AltDescription); alt != "" && alt != title {
		lines = append(lines, wrap("Alt: "+alt, width)...)
	}
	if photo.Links.HTML != "" {
		lines = append(lines, wrap("URL: "+photo.Links.HTML, width)...)
	}

	return lines
}
