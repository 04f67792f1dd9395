package view

import "strings"

type ListRenderInput struct {
	Count  int
	Start  int
	End    int
	Cursor int

	RenderPhotoLine func(index int, active bool) string
	// Footer is appended after the last row when the window reaches the end.
	Footer string
}

func RenderListBody(in ListRenderInput) string {
	if in.Count == 0 || in.Start >= in.End || in.Start < 0 {
		return ""
	}
	end := in.End
	if end > in.Count {
		end = in.Count
	}
	var b strings.Builder
	for i := in.Start; i < end; i++ {
		b.WriteString(in.RenderPhotoLine(i, i == in.Cursor))
		b.WriteString("\n")
	}
	if end == in.Count && in.Footer != "" {
		b.WriteString(in.Footer)
		b.WriteString("\n")
	}
	return b.String()
}
