package feed

// ScrollThreshold is how close, in rows, the bottom of the viewport must be
// to the end of the content for a scroll signal to load the next page.
const ScrollThreshold = 2

// Event is an input to Loop.
type Event interface {
	isEvent()
}

// ScrollEvent reports the viewport position after the user scrolled.
type ScrollEvent struct {
	ScrollTop      int
	ViewportHeight int
	ContentHeight  int
}

// SearchEvent is a submitted search form.
type SearchEvent struct {
	Query string
}

func (ScrollEvent) isEvent() {}
func (SearchEvent) isEvent() {}

// AtBottom is a scroll signal for a viewport showing the end of contentHeight
// rows.
func AtBottom(contentHeight int) ScrollEvent {
	return ScrollEvent{ViewportHeight: contentHeight, ContentHeight: contentHeight}
}

// NearBottom reports whether the viewport reaches within ScrollThreshold of
// the end of the content.
func NearBottom(scrollTop, viewportHeight, contentHeight int) bool {
	return scrollTop+viewportHeight >= contentHeight-ScrollThreshold
}

// Scroll turns a scroll signal into a page advance. Signals away from the
// bottom, or arriving while a fetch is in flight, are dropped.
func (c *Controller) Scroll(ev ScrollEvent) (Request, bool) {
	if !NearBottom(ev.ScrollTop, ev.ViewportHeight, ev.ContentHeight) {
		return Request{}, false
	}
	return c.AdvancePage()
}

// Handle dispatches ev to the controller and returns the fetch to issue, if
// any.
func (c *Controller) Handle(ev Event) (Request, bool) {
	switch ev := ev.(type) {
	case ScrollEvent:
		return c.Scroll(ev)
	case SearchEvent:
		return c.SubmitSearch(ev.Query), true
	}
	return Request{}, false
}
