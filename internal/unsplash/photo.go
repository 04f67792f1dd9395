package unsplash

import (
	"encoding/json"
	"strings"
	"time"
)

// Photo is the subset of Unsplash photo fields the app renders. The full
// object the API returned is kept and written back unchanged by MarshalJSON.
type Photo struct {
	ID             string     `json:"id" yaml:"id"`
	Description    string     `json:"description" yaml:"description,omitempty"`
	AltDescription string     `json:"alt_description" yaml:"alt_description,omitempty"`
	Width          int        `json:"width" yaml:"width"`
	Height         int        `json:"height" yaml:"height"`
	Color          string     `json:"color" yaml:"color,omitempty"`
	Likes          int        `json:"likes" yaml:"likes"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	URLs           PhotoURLs  `json:"urls" yaml:"urls"`
	Links          PhotoLinks `json:"links" yaml:"links"`
	User           User       `json:"user" yaml:"user"`

	raw json.RawMessage
}

type PhotoURLs struct {
	Raw     string `json:"raw" yaml:"raw,omitempty"`
	Full    string `json:"full" yaml:"full,omitempty"`
	Regular string `json:"regular" yaml:"regular,omitempty"`
	Small   string `json:"small" yaml:"small,omitempty"`
	Thumb   string `json:"thumb" yaml:"thumb,omitempty"`
}

type PhotoLinks struct {
	HTML     string `json:"html" yaml:"html,omitempty"`
	Download string `json:"download" yaml:"download,omitempty"`
}

type User struct {
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name" yaml:"name"`
}

// photoFields has Photo's layout without its JSON methods.
type photoFields Photo

func (p *Photo) UnmarshalJSON(data []byte) error {
	var f photoFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Photo(f)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (p Photo) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(photoFields(p))
}

// Raw returns the object as received from the API, or nil for photos built
// in code.
func (p Photo) Raw() json.RawMessage {
	return p.raw
}

// Title is the best human label for the photo.
func (p Photo) Title() string {
	if d := strings.TrimSpace(p.Description); d != "" {
		return d
	}
	if d := strings.TrimSpace(p.AltDescription); d != "" {
		return d
	}
	return "(untitled)"
}

// Author returns the photographer's display name, falling back to the
// username.
func (p Photo) Author() string {
	if n := strings.TrimSpace(p.User.Name); n != "" {
		return n
	}
	return strings.TrimSpace(p.User.Username)
}

// PreviewURL picks the smallest rendition suitable for a terminal preview.
func (p Photo) PreviewURL() string {
	for _, u := range []string{p.URLs.Small, p.URLs.Thumb, p.URLs.Regular} {
		if strings.TrimSpace(u) != "" {
			return u
		}
	}
	return ""
}
