package feed

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/glabrego/fotoflix-cli/internal/logging"
	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

// FetchFunc performs the retrieval for one request.
type FetchFunc func(ctx context.Context, req Request) ([]unsplash.Photo, error)

// Snapshot is the controller state after a transition.
type Snapshot struct {
	Query   string
	Page    int
	Loading bool
	Items   []unsplash.Photo
	// Completed is set when the snapshot follows a fetch completion.
	Completed *Request
	Err       error
}

type completion struct {
	req    Request
	photos []unsplash.Photo
	err    error
}

// Loop drives a Controller from a single goroutine. Events and fetch
// completions are consumed in arrival order; fetches run in their own
// goroutines and report back through the loop.
type Loop struct {
	ctrl   *Controller
	fetch  FetchFunc
	logger *log.Logger
}

func NewLoop(ctrl *Controller, fetch FetchFunc, logger *log.Logger) *Loop {
	if ctrl == nil {
		ctrl = NewController()
	}
	return &Loop{ctrl: ctrl, fetch: fetch, logger: logging.OrDiscard(logger)}
}

// Run processes events until ctx is done, or until events is closed and no
// fetch is outstanding. onChange is called from the loop goroutine after
// every transition and may send on events only if the channel is buffered.
func (l *Loop) Run(ctx context.Context, events <-chan Event, onChange func(Snapshot)) error {
	done := make(chan completion)
	pending := 0

	issue := func(req Request) {
		pending++
		l.logger.Debug("fetch issued", "seq", req.Seq, "query", req.Query, "page", req.Page)
		go func() {
			photos, err := l.fetch(ctx, req)
			select {
			case done <- completion{req: req, photos: photos, err: err}:
			case <-ctx.Done():
			}
		}()
		l.notify(onChange, nil, nil)
	}

	for {
		if events == nil && pending == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			req, issued := l.ctrl.Handle(ev)
			if !issued {
				l.logger.Debug("event dropped", "event", ev, "loading", l.ctrl.Loading())
				continue
			}
			issue(req)
		case c := <-done:
			pending--
			out := l.ctrl.Complete(c.req, c.photos, c.err)
			if c.err != nil {
				l.logger.Error("fetch failed", "seq", c.req.Seq, "query", c.req.Query, "page", c.req.Page, "err", c.err)
			} else {
				l.logger.Debug("fetch merged", "seq", c.req.Seq, "count", len(c.photos), "settled", out.Settled, "items", l.ctrl.Len())
			}
			req := c.req
			l.notify(onChange, &req, c.err)
		}
	}
}

func (l *Loop) notify(onChange func(Snapshot), completed *Request, err error) {
	if onChange == nil {
		return
	}
	onChange(Snapshot{
		Query:     l.ctrl.Query(),
		Page:      l.ctrl.Page(),
		Loading:   l.ctrl.Loading(),
		Items:     l.ctrl.Items(),
		Completed: completed,
		Err:       err,
	})
}
