package state

import "github.com/glabrego/fotoflix-cli/internal/unsplash"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// ListHeight is the number of photo rows that fit under the chrome.
func ListHeight(height int, hasStatus bool) int {
	if height <= 0 {
		return 0
	}
	return PageStep(height, hasStatus)
}

func PhotoIndexByID(photos []unsplash.Photo, id string) int {
	for i, photo := range photos {
		if photo.ID == id {
			return i
		}
	}
	return -1
}

// CursorAfterReload keeps the cursor on the same photo when it survives a
// list change, and clamps it otherwise.
func CursorAfterReload(photos []unsplash.Photo, previousID string, cursor int) int {
	if previousID != "" {
		if idx := PhotoIndexByID(photos, previousID); idx >= 0 {
			return idx
		}
	}
	return ClampCursor(cursor, len(photos))
}
