package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/fotoflix-cli/internal/feed"
	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

const fetchTimeout = 12 * time.Second

type Service interface {
	Fetch(ctx context.Context, req feed.Request) ([]unsplash.Photo, error)
}

// FetchSuccessMsg and FetchErrorMsg carry the request they answer so the
// model can merge against the query and page that were actually fetched.
type FetchSuccessMsg struct {
	Request  feed.Request
	Photos   []unsplash.Photo
	Duration time.Duration
}

type FetchErrorMsg struct {
	Request  feed.Request
	Err      error
	Duration time.Duration
}

type OpenURLSuccessMsg struct {
	Status  string
	PhotoID string
	Opened  bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ImagePreviewMsg struct {
	PhotoID string
	Width   int
	Output  string
	Err     error
}

func FetchCmd(service Service, req feed.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		start := time.Now()

		photos, err := service.Fetch(ctx, req)
		if err != nil {
			return FetchErrorMsg{Request: req, Err: err, Duration: time.Since(start)}
		}
		return FetchSuccessMsg{Request: req, Photos: photos, Duration: time.Since(start)}
	}
}

func OpenURLCmd(photoID, url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened photo in browser", PhotoID: photoID, Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", PhotoID: photoID}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func ImagePreviewCmd(photoID, url string, width int, renderFn func(string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		if renderFn == nil {
			return ImagePreviewMsg{PhotoID: photoID, Width: width, Err: fmt.Errorf("image preview unavailable")}
		}
		out, err := renderFn(url, width)
		return ImagePreviewMsg{PhotoID: photoID, Width: width, Output: out, Err: err}
	}
}
