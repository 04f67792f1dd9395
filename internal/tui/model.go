package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/glabrego/fotoflix-cli/internal/favorites"
	"github.com/glabrego/fotoflix-cli/internal/feed"
	"github.com/glabrego/fotoflix-cli/internal/logging"
	"github.com/glabrego/fotoflix-cli/internal/tui/actions"
	"github.com/glabrego/fotoflix-cli/internal/tui/platform"
	tuistate "github.com/glabrego/fotoflix-cli/internal/tui/state"
	tuitheme "github.com/glabrego/fotoflix-cli/internal/tui/theme"
	"github.com/glabrego/fotoflix-cli/internal/tui/view"
	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

type Service interface {
	actions.Service
	LoadFavorites(ctx context.Context) favorites.Set
	ToggleFavorite(ctx context.Context, set favorites.Set, photo unsplash.Photo) favorites.Set
}

type listView int

const (
	viewFeed listView = iota
	viewFavorites
)

func (v listView) String() string {
	if v == viewFavorites {
		return "favorites"
	}
	return "feed"
}

type clearStatusMsg struct {
	id int
}

type Options struct {
	Logger             *log.Logger
	InlineImagePreview bool
}

type Model struct {
	service   Service
	feed      *feed.Controller
	favorites favorites.Set
	view      listView

	feedCursor  int
	favCursor   int
	searching   bool
	search      textinput.Model
	showHelp    bool
	showNumbers bool
	inDetail    bool
	detailTop   int
	width       int
	height      int
	status      string
	statusID    int
	err         error

	logger        *log.Logger
	theme         tuitheme.Theme
	inlinePreview bool
	openURLFn     func(string) error
	copyURLFn     func(string) error
	renderImageFn func(string, int) (string, error)
	nowFn         func() time.Time

	imagePreview        map[string]string
	imagePreviewErr     map[string]string
	imagePreviewLoading map[string]bool
}

func NewModel(service Service, opts Options) Model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "photos of..."
	search.CharLimit = 120

	m := Model{
		service:             service,
		feed:                feed.NewController(),
		search:              search,
		logger:              logging.OrDiscard(opts.Logger),
		theme:               tuitheme.Default(),
		inlinePreview:       opts.InlineImagePreview,
		openURLFn:           platform.OpenURLInBrowser,
		copyURLFn:           platform.CopyURLToClipboard,
		renderImageFn:       view.RenderInlineImagePreview,
		nowFn:               time.Now,
		imagePreview:        make(map[string]string),
		imagePreviewErr:     make(map[string]string),
		imagePreviewLoading: make(map[string]bool),
	}
	if service != nil {
		m.favorites = service.LoadFavorites(context.Background())
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return m.fetch(m.feed.Start())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(10, msg.Width-len(m.search.Prompt)-2)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.FetchSuccessMsg:
		return m.completeFetch(msg.Request, msg.Photos, nil, msg.Duration)
	case actions.FetchErrorMsg:
		return m.completeFetch(msg.Request, nil, msg.Err, msg.Duration)
	case actions.OpenURLSuccessMsg:
		m.err = nil
		m.status = msg.Status
		return m, m.flashStatus(3 * time.Second)
	case actions.OpenURLErrorMsg:
		m.err = nil
		m.status = msg.Err.Error()
		return m, m.flashStatus(4 * time.Second)
	case actions.ImagePreviewMsg:
		delete(m.imagePreviewLoading, msg.PhotoID)
		if msg.Err != nil {
			m.logger.Debug("image preview failed", "photo", msg.PhotoID, "err", msg.Err)
			m.imagePreviewErr[msg.PhotoID] = msg.Err.Error()
			return m, nil
		}
		delete(m.imagePreviewErr, msg.PhotoID)
		m.imagePreview[msg.PhotoID] = msg.Output
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.showHelp {
		switch msg.String() {
		case "esc":
			m.showHelp = false
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.inDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		if query == "" {
			return m.resetSearch()
		}
		return m.submitSearch(query)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.SetValue(m.feed.Query())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "ctrl+l":
		return m.resetSearch()
	case "n":
		m.showNumbers = !m.showNumbers
		return m, nil
	case "tab":
		if m.view == viewFeed {
			m.view = viewFavorites
		} else {
			m.view = viewFeed
		}
		m.detailTop = 0
		return m, nil
	case "up", "k":
		m.moveCursorBy(-1)
		return m.afterScroll()
	case "down", "j":
		m.moveCursorBy(1)
		return m.afterScroll()
	case "g":
		m.setCursor(0)
		return m.afterScroll()
	case "G":
		m.setCursor(len(m.currentList()) - 1)
		return m.afterScroll()
	case "pgup", "ctrl+b":
		m.moveCursorBy(-tuistate.PageStep(m.height, m.status != ""))
		return m.afterScroll()
	case "pgdown", "ctrl+f":
		m.moveCursorBy(tuistate.PageStep(m.height, m.status != ""))
		return m.afterScroll()
	case "enter":
		if _, ok := m.currentPhoto(); !ok {
			return m, nil
		}
		m.inDetail = true
		m.detailTop = 0
		return m, m.ensureImagePreviewCmd()
	case "f", " ":
		return m.toggleFavoriteCurrent()
	case "o":
		return m.openCurrentURL()
	case "y":
		return m.copyCurrentURL()
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.inDetail = false
		m.detailTop = 0
		return m, nil
	case "q":
		return m, tea.Quit
	case "o":
		return m.openCurrentURL()
	case "y":
		return m.copyCurrentURL()
	case "f", " ":
		return m.toggleFavoriteCurrent()
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		photo, ok := m.currentPhoto()
		if !ok {
			return m, nil
		}
		maxTop := view.DetailMaxTop(len(m.detailLines(photo)), m.detailBodyHeight())
		if m.detailTop < maxTop {
			m.detailTop++
		}
		return m, nil
	case "[", "]":
		delta := 1
		if msg.String() == "[" {
			delta = -1
		}
		before := m.cursor()
		m.moveCursorBy(delta)
		if m.cursor() == before {
			return m, nil
		}
		m.detailTop = 0
		preview := m.ensureImagePreviewCmd()
		next, scroll := m.afterScroll()
		return next, tea.Batch(preview, scroll)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Fotoflix"))
	b.WriteString(" ")
	b.WriteString(m.theme.ModePill.Render(m.view.String()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		for _, line := range view.HelpLines() {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(view.Toolbar(m.inDetail, m.view == viewFavorites))
		b.WriteString("\n\n")
		if m.inDetail {
			b.WriteString(m.detailView())
		} else {
			b.WriteString(m.listView())
		}
	}

	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder
	if m.inlinePreview && view.SupportsKittyGraphics() {
		b.WriteString(view.ClearKittyGraphicsSequence())
	}

	photos := m.currentList()
	if len(photos) == 0 {
		switch {
		case m.view == viewFavorites:
			b.WriteString("No favorites yet. Press f on a photo to add it.\n")
		case m.feed.Loading():
			b.WriteString("Loading photos...\n")
		default:
			b.WriteString("No photos available.\n")
		}
		return b.String()
	}

	cursor := m.cursor()
	start, end := tuistate.CenteredWindow(len(photos), cursor, tuistate.ListHeight(m.height, m.status != ""))
	footer := ""
	if m.view == viewFeed && m.feed.Loading() {
		footer = "  Loading more photos..."
	}
	now := m.nowFn()
	width := m.contentWidth()
	b.WriteString(view.RenderListBody(view.ListRenderInput{
		Count:  len(photos),
		Start:  start,
		End:    end,
		Cursor: cursor,
		RenderPhotoLine: func(i int, active bool) string {
			return view.RenderPhotoLine(view.PhotoLineParams{
				Photo:       photos[i],
				Favorite:    m.favorites.Contains(photos[i].ID),
				Now:         now,
				ShowNumbers: m.showNumbers,
				Pos:         i,
				Active:      active,
				Width:       width,
			}, m.theme)
		},
		Footer: footer,
	}))
	return b.String()
}

func (m Model) detailView() string {
	photo, ok := m.currentPhoto()
	if !ok {
		return "No photo selected.\n"
	}
	return view.RenderDetailLines(m.detailLines(photo), m.detailTop, m.detailBodyHeight())
}

func (m Model) detailLines(photo unsplash.Photo) []string {
	return view.DetailLines(
		photo,
		m.favorites.Contains(photo.ID),
		m.contentWidth(),
		0,
		wrapText,
		view.InlineImagePreviewState{
			Enabled: m.inlinePreview && m.renderImageFn != nil && photo.PreviewURL() != "",
			Loading: m.imagePreviewLoading[photo.ID],
			Raw:     m.imagePreview[photo.ID],
			Err:     m.imagePreviewErr[photo.ID],
		},
	)
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return view.CompactMessage(m.feed.Loading(), m.err != nil, m.status, warning, m.theme)
}

func (m Model) footer() string {
	return view.CompactFooter(m.view.String(), m.feed.Query(), m.feed.Page(), len(m.currentList()), m.favorites.Len(), m.theme)
}

func (m Model) fetch(req feed.Request) tea.Cmd {
	m.logger.Debug("fetch issued", "seq", req.Seq, "query", req.Query, "page", req.Page)
	return actions.FetchCmd(m.service, req)
}

func (m Model) submitSearch(query string) (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	req, _ := m.feed.Handle(feed.SearchEvent{Query: query})
	m.view = viewFeed
	m.inDetail = false
	m.feedCursor = 0
	m.err = nil
	m.status = ""
	return m, m.fetch(req)
}

func (m Model) resetSearch() (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	req := m.feed.Reset()
	m.view = viewFeed
	m.inDetail = false
	m.feedCursor = 0
	m.err = nil
	m.status = "Search cleared"
	return m, m.fetch(req)
}

// afterScroll reports the feed viewport position to the controller, which
// decides whether the next page is due.
func (m Model) afterScroll() (tea.Model, tea.Cmd) {
	if m.view != viewFeed || m.service == nil {
		return m, nil
	}
	total := m.feed.Len()
	if total == 0 {
		return m, nil
	}
	start, end := tuistate.CenteredWindow(total, m.feedCursor, tuistate.ListHeight(m.height, m.status != ""))
	req, ok := m.feed.Scroll(feed.ScrollEvent{ScrollTop: start, ViewportHeight: end - start, ContentHeight: total})
	if !ok {
		return m, nil
	}
	return m, m.fetch(req)
}

func (m Model) completeFetch(req feed.Request, photos []unsplash.Photo, err error, took time.Duration) (tea.Model, tea.Cmd) {
	anchorID := ""
	if photo, ok := m.feed.Item(m.feedCursor); ok {
		anchorID = photo.ID
	}

	out := m.feed.Complete(req, photos, err)
	if err != nil {
		m.logger.Error("fetch failed", "seq", req.Seq, "query", req.Query, "page", req.Page, "took", took, "err", err)
		m.err = err
		m.status = ""
		return m, nil
	}
	m.logger.Debug("fetch completed", "seq", req.Seq, "query", req.Query, "page", req.Page, "photos", len(photos), "settled", out.Settled, "took", took)

	if req.Searching() && req.Page == 1 {
		anchorID = ""
		m.feedCursor = 0
	}
	m.feedCursor = tuistate.CursorAfterReload(m.feed.Items(), anchorID, m.feedCursor)
	if m.view == viewFeed && m.feed.Len() == 0 {
		m.inDetail = false
	}
	if out.Settled {
		m.err = nil
		m.status = fetchStatus(req, len(photos))
	}
	return m, nil
}

func fetchStatus(req feed.Request, fetched int) string {
	if fetched == 0 && req.Page > 1 {
		return "No more photos"
	}
	if req.Searching() {
		return fmt.Sprintf("Search %q: page %d loaded", req.Query, req.Page)
	}
	return fmt.Sprintf("Page %d loaded", req.Page)
}

func (m Model) toggleFavoriteCurrent() (tea.Model, tea.Cmd) {
	photo, ok := m.currentPhoto()
	if !ok || m.service == nil {
		return m, nil
	}
	m.favorites = m.service.ToggleFavorite(context.Background(), m.favorites, photo)
	isFavorite := m.favorites.Contains(photo.ID)
	m.logger.Debug("favorite toggled", "photo", photo.ID, "favorite", isFavorite, "count", m.favorites.Len())

	m.err = nil
	m.status = "Removed from favorites"
	if isFavorite {
		m.status = "Added to favorites"
	}
	if m.view == viewFavorites {
		m.favCursor = tuistate.ClampCursor(m.favCursor, m.favorites.Len())
		if m.favorites.Len() == 0 {
			m.inDetail = false
		}
	}
	return m, m.flashStatus(3 * time.Second)
}

func (m Model) openCurrentURL() (tea.Model, tea.Cmd) {
	photo, ok := m.currentPhoto()
	if !ok {
		return m, nil
	}
	validURL, err := platform.ValidatePhotoURL(photo.Links.HTML)
	if err != nil {
		m.err = nil
		m.status = err.Error()
		return m, m.flashStatus(4 * time.Second)
	}
	return m, actions.OpenURLCmd(photo.ID, validURL, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentURL() (tea.Model, tea.Cmd) {
	photo, ok := m.currentPhoto()
	if !ok {
		return m, nil
	}
	validURL, err := platform.ValidatePhotoURL(photo.Links.HTML)
	if err != nil {
		m.err = nil
		m.status = err.Error()
		return m, m.flashStatus(4 * time.Second)
	}
	return m, actions.CopyURLCmd(validURL, m.copyURLFn)
}

func (m *Model) flashStatus(after time.Duration) tea.Cmd {
	m.statusID++
	id := m.statusID
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) ensureImagePreviewCmd() tea.Cmd {
	if !m.inlinePreview || m.renderImageFn == nil {
		return nil
	}
	photo, ok := m.currentPhoto()
	if !ok {
		return nil
	}
	imageURL := photo.PreviewURL()
	if imageURL == "" {
		return nil
	}
	if _, ok := m.imagePreview[photo.ID]; ok {
		return nil
	}
	if m.imagePreviewLoading[photo.ID] {
		return nil
	}
	m.imagePreviewLoading[photo.ID] = true
	delete(m.imagePreviewErr, photo.ID)
	return actions.ImagePreviewCmd(photo.ID, imageURL, m.contentWidth(), m.renderImageFn)
}

func (m Model) currentList() []unsplash.Photo {
	if m.view == viewFavorites {
		return m.favorites.Photos()
	}
	return m.feed.Items()
}

func (m Model) cursor() int {
	if m.view == viewFavorites {
		return m.favCursor
	}
	return m.feedCursor
}

func (m *Model) setCursor(cursor int) {
	cursor = tuistate.ClampCursor(cursor, len(m.currentList()))
	if m.view == viewFavorites {
		m.favCursor = cursor
		return
	}
	m.feedCursor = cursor
}

func (m *Model) moveCursorBy(delta int) {
	m.setCursor(m.cursor() + delta)
}

func (m Model) currentPhoto() (unsplash.Photo, bool) {
	photos := m.currentList()
	if len(photos) == 0 {
		return unsplash.Photo{}, false
	}
	return photos[tuistate.ClampCursor(m.cursor(), len(photos))], true
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		usedByHeader := 5
		if m.status != "" {
			usedByHeader += 2
		}
		if h := m.height - usedByHeader; h > 3 {
			return h
		}
	}
	return 16
}

func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		lineLen := 0
		for _, word := range words {
			runes := []rune(word)
			for len(runes) > width {
				if line != "" {
					out = append(out, line)
					line, lineLen = "", 0
				}
				out = append(out, string(runes[:width]))
				runes = runes[width:]
			}
			word = string(runes)

			if line == "" {
				line, lineLen = word, len(runes)
				continue
			}
			if lineLen+1+len(runes) <= width {
				line += " " + word
				lineLen += 1 + len(runes)
				continue
			}
			out = append(out, line)
			line, lineLen = word, len(runes)
		}
		if line != "" {
			out = append(out, line)
		}
	}

	return out
}
