package render

import (
	"strconv"
	"strings"
)

const (
	infoHeight     = 10
	roomInfoHeight = 3
	inputHeight    = 3
	statusHeight   = 1
)

type Rect struct {
	X, Y, W, H int
}

// Inner is the area inside a one-cell border.
func (r Rect) Inner() Rect {
	in := Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
	if in.W < 0 {
		in.W = 0
	}
	if in.H < 0 {
		in.H = 0
	}
	return in
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

type LayoutOptions struct {
	RoomListWidth    string // "30", "1/4", "25%"
	RoomListMinWidth int
	RoomListMaxWidth string
}

// Layout places every block of the chat screen.
type Layout struct {
	Width, Height int

	Rooms    Rect
	UserInfo Rect
	RoomInfo Rect
	Messages Rect
	Input    Rect
	Users    Rect
	Usage    Rect
	Status   Rect
}

// ComputeLayout splits a w x h screen into three columns: rooms and user
// information on the left, the conversation in the middle, room users and
// usage help on the right. The bottom row is the status line.
func ComputeLayout(w, h int, opts LayoutOptions) Layout {
	l := Layout{Width: w, Height: h}
	if w <= 0 || h <= 0 {
		return l
	}
	bodyH := h - statusHeight
	if bodyH < 0 {
		bodyH = 0
	}
	l.Status = Rect{X: 0, Y: bodyH, W: w, H: h - bodyH}

	side := sideWidth(w, opts)
	mid := w - 2*side
	left := Rect{X: 0, Y: 0, W: side, H: bodyH}
	middle := Rect{X: side, Y: 0, W: mid, H: bodyH}
	right := Rect{X: side + mid, Y: 0, W: w - side - mid, H: bodyH}

	l.Rooms, l.UserInfo = splitBottom(left, infoHeight)
	l.Users, l.Usage = splitBottom(right, infoHeight)

	top := roomInfoHeight
	bottom := inputHeight
	if top+bottom > bodyH {
		top = bodyH / 2
		bottom = bodyH - top
	}
	l.RoomInfo = Rect{X: middle.X, Y: 0, W: middle.W, H: top}
	l.Input = Rect{X: middle.X, Y: bodyH - bottom, W: middle.W, H: bottom}
	l.Messages = Rect{X: middle.X, Y: top, W: middle.W, H: bodyH - top - bottom}
	return l
}

// splitBottom cuts a block of at most height rows off the bottom of r. On
// short screens both halves share the space.
func splitBottom(r Rect, height int) (Rect, Rect) {
	if height > r.H/2 {
		height = r.H / 2
	}
	upper := Rect{X: r.X, Y: r.Y, W: r.W, H: r.H - height}
	lower := Rect{X: r.X, Y: r.Y + upper.H, W: r.W, H: height}
	return upper, lower
}

func sideWidth(screenWidth int, opts LayoutOptions) int {
	width := screenWidth / 5
	if opts.RoomListWidth != "" {
		width = parseWidthValue(opts.RoomListWidth, screenWidth)
	}
	if width < opts.RoomListMinWidth {
		width = opts.RoomListMinWidth
	}
	if maxWidth := parseWidthValue(opts.RoomListMaxWidth, screenWidth); maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	// Both side columns together never take more than half the screen.
	if width > screenWidth/4 {
		width = screenWidth / 4
	}
	if width < 0 {
		width = 0
	}
	return width
}

// parseWidthValue parses width value: "30", "1/4", "25%"
func parseWidthValue(value string, screenWidth int) int {
	value = strings.TrimSpace(value)

	if strings.HasSuffix(value, "%") {
		pct, _ := strconv.Atoi(strings.TrimSuffix(value, "%"))
		return screenWidth * pct / 100
	}

	if num, den, ok := strings.Cut(value, "/"); ok {
		n, _ := strconv.Atoi(num)
		d, _ := strconv.Atoi(den)
		if d > 0 {
			return screenWidth * n / d
		}
		return 0
	}

	n, _ := strconv.Atoi(value)
	return n
}
