// Package feed reconciles paged and searched photo results into the list the
// user scrolls through.
//
// A Controller is owned by a single event loop (the bubbletea Update loop or
// Loop). Every fetch is described by the Request captured when it was
// issued; completions merge with that Request, never with the controller's
// current query or page.
package feed

import (
	"context"
	"fmt"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

// Request is the immutable description of one issued fetch.
type Request struct {
	Seq   uint64
	Query string
	Page  int
}

// Searching reports whether the request targets the search endpoint.
func (r Request) Searching() bool {
	return r.Query != ""
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
)

func (p Phase) String() string {
	if p == PhaseLoading {
		return "loading"
	}
	return "idle"
}

// State is Idle, or Loading with the request in flight.
type State struct {
	Phase    Phase
	Inflight Request
}

type Controller struct {
	query   string
	page    int
	items   []unsplash.Photo
	seq     uint64
	state   State
	lastErr error
}

func NewController() *Controller {
	return &Controller{page: 1}
}

func (c *Controller) Query() string { return c.query }

func (c *Controller) Page() int { return c.page }

func (c *Controller) Loading() bool { return c.state.Phase == PhaseLoading }

func (c *Controller) State() State { return c.state }

// LastErr is the error of the most recent failed completion, cleared by the
// next successful one.
func (c *Controller) LastErr() error { return c.lastErr }

// Items returns a copy of the accumulated list.
func (c *Controller) Items() []unsplash.Photo {
	return append([]unsplash.Photo(nil), c.items...)
}

func (c *Controller) Len() int { return len(c.items) }

// Item returns the photo at i; ok is false when i is out of range.
func (c *Controller) Item(i int) (unsplash.Photo, bool) {
	if i < 0 || i >= len(c.items) {
		return unsplash.Photo{}, false
	}
	return c.items[i], true
}

// Start issues the fetch for the current query and page.
func (c *Controller) Start() Request {
	return c.issue()
}

// SubmitSearch sets the query, resets the page and issues a fetch whether or
// not another fetch is in flight.
func (c *Controller) SubmitSearch(query string) Request {
	c.query = query
	c.page = 1
	return c.issue()
}

// Reset clears the query and the list and issues a listing fetch.
func (c *Controller) Reset() Request {
	c.query = ""
	c.page = 1
	c.items = nil
	return c.issue()
}

// AdvancePage moves to the next page and issues its fetch. While a fetch is
// in flight it does nothing and returns false.
func (c *Controller) AdvancePage() (Request, bool) {
	if c.Loading() {
		return Request{}, false
	}
	c.page++
	return c.issue(), true
}

func (c *Controller) issue() Request {
	c.seq++
	req := Request{Seq: c.seq, Query: c.query, Page: c.page}
	c.state = State{Phase: PhaseLoading, Inflight: req}
	return req
}

// Outcome describes what Complete did.
type Outcome struct {
	// Merged is true when the result changed the list.
	Merged bool
	// Settled is true when req was the fetch in flight and the controller
	// is idle again.
	Settled bool
}

// Complete applies the result of req. Results of superseded requests are
// still merged, using their own query and page, but only the request in
// flight returns the controller to idle.
func (c *Controller) Complete(req Request, photos []unsplash.Photo, err error) Outcome {
	var out Outcome
	if err != nil {
		c.lastErr = err
	} else {
		c.items = Merge(c.items, req, photos)
		c.lastErr = nil
		out.Merged = true
	}
	if c.state.Phase == PhaseLoading && c.state.Inflight.Seq == req.Seq {
		c.state = State{Phase: PhaseIdle}
		out.Settled = true
	}
	return out
}

// Merge applies the merge policy: a first page of search results replaces
// items, everything else is appended. items is never modified in place.
func Merge(items []unsplash.Photo, req Request, result []unsplash.Photo) []unsplash.Photo {
	if req.Searching() && req.Page == 1 {
		return append([]unsplash.Photo(nil), result...)
	}
	out := make([]unsplash.Photo, 0, len(items)+len(result))
	out = append(out, items...)
	return append(out, result...)
}

// Source is the remote photo API.
type Source interface {
	ListPhotos(ctx context.Context, page int) ([]unsplash.Photo, error)
	SearchPhotos(ctx context.Context, query string, page int) ([]unsplash.Photo, error)
}

// Fetch performs the single remote retrieval req describes.
func Fetch(ctx context.Context, src Source, req Request) ([]unsplash.Photo, error) {
	if req.Searching() {
		photos, err := src.SearchPhotos(ctx, req.Query, req.Page)
		if err != nil {
			return nil, fmt.Errorf("search %q page %d: %w", req.Query, req.Page, err)
		}
		return photos, nil
	}
	photos, err := src.ListPhotos(ctx, req.Page)
	if err != nil {
		return nil, fmt.Errorf("list page %d: %w", req.Page, err)
	}
	return photos, nil
}
