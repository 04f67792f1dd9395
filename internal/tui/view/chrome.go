package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/fotoflix-cli/internal/tui/theme"
)

func Toolbar(inDetail, favoritesView bool) string {
	if inDetail {
		return "j/k scroll | [ ] prev/next | f favorite | o open | y copy | esc back | ? help"
	}
	if favoritesView {
		return "j/k move | enter details | f unfavorite | tab feed | ? help | q quit"
	}
	return "j/k move | enter details | / search | ctrl+l clear | f favorite | tab favorites | ? help | q quit"
}

func HelpLines() []string {
	return []string{
		"j/k, arrows    move selection (scrolling to the end loads more)",
		"g/G            jump to top/bottom",
		"pgup/pgdown    move by a screen",
		"/              search photos, enter to submit, esc to cancel",
		"ctrl+l         clear search and return to the latest photos",
		"f, space       toggle favorite",
		"tab            switch between feed and favorites",
		"n              toggle row numbers",
		"enter          photo details",
		"[ ]            previous/next photo in details",
		"o              open photo page in browser",
		"y              copy photo URL",
		"?              toggle this help",
		"q, ctrl+c      quit",
	}
}

func CompactFooter(viewName, query string, page, shown, favorites int, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("view") + " " + th.MetaValue.Render(viewName),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", page)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		th.Favorite.Render("♥") + " " + th.MetaValue.Render(fmt.Sprintf("%d", favorites)),
	}
	if query != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(fmt.Sprintf("%q", query)))
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
