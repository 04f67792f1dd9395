// Package favorites keeps the user's favorited photos in a session store.
//
// A Set is an immutable value. Store never holds the current set itself:
// every Toggle takes the caller's latest set and returns its successor,
// which has already been written back in full.
package favorites

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/glabrego/fotoflix-cli/internal/logging"
	"github.com/glabrego/fotoflix-cli/internal/session"
	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

const DefaultKey = "favoritePhotos"

// Set is an insertion-ordered list of photos with at most one entry per id.
type Set struct {
	photos []unsplash.Photo
}

// NewSet builds a Set from photos, keeping the first occurrence of each id.
func NewSet(photos ...unsplash.Photo) Set {
	seen := make(map[string]struct{}, len(photos))
	out := make([]unsplash.Photo, 0, len(photos))
	for _, p := range photos {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return Set{photos: out}
}

func (s Set) Contains(id string) bool {
	return s.index(id) >= 0
}

func (s Set) Len() int {
	return len(s.photos)
}

// Photos returns a copy in insertion order.
func (s Set) Photos() []unsplash.Photo {
	return append([]unsplash.Photo(nil), s.photos...)
}

func (s Set) IDs() []string {
	ids := make([]string, len(s.photos))
	for i, p := range s.photos {
		ids[i] = p.ID
	}
	return ids
}

func (s Set) index(id string) int {
	for i, p := range s.photos {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// toggled returns a new Set without id when present, or with photo appended.
func (s Set) toggled(photo unsplash.Photo) Set {
	if i := s.index(photo.ID); i >= 0 {
		out := make([]unsplash.Photo, 0, len(s.photos)-1)
		out = append(out, s.photos[:i]...)
		out = append(out, s.photos[i+1:]...)
		return Set{photos: out}
	}
	out := make([]unsplash.Photo, 0, len(s.photos)+1)
	out = append(out, s.photos...)
	out = append(out, photo)
	return Set{photos: out}
}

type Store struct {
	kv     session.Store
	key    string
	logger *log.Logger
}

func NewStore(kv session.Store, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key, logger: logging.OrDiscard(logger)}
}

// Initialize reads the persisted set. Absent or malformed data yields an
// empty set; it never fails.
func (s *Store) Initialize(ctx context.Context) Set {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("could not read favorites, starting empty", "key", s.key, "err", err)
		return Set{}
	}
	if !ok || raw == "" {
		return Set{}
	}

	var photos []unsplash.Photo
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		s.logger.Warn("discarding malformed favorites", "key", s.key, "err", err)
		return Set{}
	}
	set := NewSet(photos...)
	s.logger.Debug("favorites loaded", "count", set.Len())
	return set
}

// Toggle removes photo from set when its id is present, otherwise appends
// it, then overwrites the stored value with the result. The returned set is
// authoritative even if the write fails.
func (s *Store) Toggle(ctx context.Context, set Set, photo unsplash.Photo) Set {
	next := set.toggled(photo)
	s.persist(ctx, next)
	return next
}

// Clear persists and returns an empty set.
func (s *Store) Clear(ctx context.Context) Set {
	next := Set{}
	s.persist(ctx, next)
	return next
}

// IsFavorite reports whether id is in set.
func IsFavorite(set Set, id string) bool {
	return set.Contains(id)
}

func (s *Store) persist(ctx context.Context, set Set) {
	photos := set.photos
	if photos == nil {
		photos = []unsplash.Photo{}
	}
	data, err := json.Marshal(photos)
	if err != nil {
		s.logger.Warn("could not encode favorites", "err", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("could not persist favorites", "key", s.key, "count", set.Len(), "err", err)
		return
	}
	s.logger.Debug("favorites persisted", "count", set.Len())
}
