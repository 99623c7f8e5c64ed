// Package render turns UI state into a frame and paints it on a tcell screen.
//
// Compose is pure: it reads a snapshot and widget views and returns a Frame
// without touching shared state. Draw is the only function that talks to the
// screen.
package render

import (
	"fmt"
	"time"

	"github.com/kobzarvs/qchat/internal/rooms"
	"github.com/kobzarvs/qchat/internal/textedit"
	"github.com/kobzarvs/qchat/internal/uistate"
	"github.com/kobzarvs/qchat/internal/widgets"
)

// Emphasis selects the border style of a block.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisHovered
	EmphasisActive
)

// Tone is the semantic style of a span; Draw maps it to a tcell style.
type Tone int

const (
	ToneDefault Tone = iota
	ToneBold
	ToneSelected
	ToneInput
	ToneNotification
	ToneNotice
	ToneError
	ToneUsage
)

type Span struct {
	Text string
	Tone Tone
}

type Line []Span

type Block struct {
	Section  uistate.Section
	Title    string
	Rect     Rect
	Emphasis Emphasis
	Lines    []Line
	// Scroll is the number of display columns hidden on the left of every line.
	Scroll int
}

type Point struct {
	X, Y int
}

type Frame struct {
	Blocks []Block
	Status Line
	// StatusRect is where the status line goes.
	StatusRect Rect
	// Cursor is nil when no text cursor should be shown.
	Cursor *Point
}

// RoomLookup is the read side of rooms.Registry.
type RoomLookup interface {
	Lookup(name string) (rooms.Room, bool)
	Messages(name string) []rooms.Item
}

type Input struct {
	Layout        Layout
	State         uistate.Snapshot
	Now           time.Time
	Username      string
	Elapsed       time.Duration
	MessageInput  widgets.InputView
	RoomList      widgets.RoomListView
	MessageOffset int
	Rooms         RoomLookup
}

var usageLines = []string{
	"(Ctrl + C) or (q) to exit",
	"(e) to start editing",
	"(r) to pick a room",
	"(Tab) to move highlight",
	"(Enter) to open highlight",
	"(Esc) to leave a section",
	"(Ctrl + R) to restore draft",
}

// Compose builds the frame for in.
func Compose(in Input) Frame {
	l := in.Layout
	st := in.State
	room, hasRoom := st.ActiveRoom, st.ActiveRoom != ""
	var info rooms.Room
	var known bool
	if hasRoom && in.Rooms != nil {
		info, known = in.Rooms.Lookup(room)
	}

	f := Frame{StatusRect: l.Status}
	add := func(section uistate.Section, title string, r Rect, lines []Line, scroll int) {
		if r.Empty() {
			return
		}
		f.Blocks = append(f.Blocks, Block{
			Section:  section,
			Title:    title,
			Rect:     r,
			Emphasis: emphasis(section, st),
			Lines:    lines,
			Scroll:   scroll,
		})
	}

	add(uistate.SectionRoomList, "Rooms", l.Rooms, roomLines(in.RoomList, room, st.ActiveSection == uistate.SectionRoomList, l.Rooms.Inner().H), 0)
	add(uistate.SectionNone, "User Information", l.UserInfo, []Line{
		{{Text: "User: @" + in.Username}},
		{{Text: fmt.Sprintf("Seconds in app: %d", int(in.Elapsed/time.Second))}},
	}, 0)

	var roomInfo Line
	switch {
	case known && info.Description != "":
		roomInfo = Line{{Text: fmt.Sprintf("on #%s for %q", room, info.Description)}}
	case hasRoom:
		roomInfo = Line{{Text: "on #" + room}}
	default:
		roomInfo = Line{{Text: "Please select a room."}}
	}
	add(uistate.SectionNone, "Active Room Information", l.RoomInfo, []Line{roomInfo}, 0)

	var log []rooms.Item
	if hasRoom && in.Rooms != nil {
		log = in.Rooms.Messages(room)
	}
	add(uistate.SectionMessages, "Messages", l.Messages, messageLines(log, in.MessageOffset, l.Messages.Inner().H), 0)

	inner := l.Input.Inner()
	scroll := inputScroll(in.MessageInput.CursorColumn, inner.W)
	title := "Input"
	if in.MessageInput.Sending {
		title = "Input (sending)"
	}
	add(uistate.SectionMessageInput, title, l.Input, []Line{{{Text: in.MessageInput.Text, Tone: ToneInput}}}, scroll)

	var users []Line
	if known {
		for _, u := range info.Users {
			users = append(users, Line{{Text: "@" + u}})
		}
	}
	add(uistate.SectionNone, "Room Users", l.Users, users, 0)

	usage := make([]Line, 0, len(usageLines))
	for _, u := range usageLines {
		usage = append(usage, Line{{Text: u, Tone: ToneUsage}})
	}
	add(uistate.SectionNone, "Usage", l.Usage, usage, 0)

	if n := st.Notice; n.Active(in.Now) {
		tone := ToneNotice
		text := n.Text
		if n.Level == uistate.NoticeError {
			tone = ToneError
		}
		if n.Draft != "" {
			text += " (Ctrl + R restores the message)"
		}
		f.Status = Line{{Text: text, Tone: tone}}
	}

	if st.ActiveSection == uistate.SectionMessageInput && !inner.Empty() {
		col := in.MessageInput.CursorColumn - scroll
		if col > inner.W-1 {
			col = inner.W - 1
		}
		if col < 0 {
			col = 0
		}
		f.Cursor = &Point{X: inner.X + col, Y: inner.Y}
	}
	return f
}

func emphasis(section uistate.Section, st uistate.Snapshot) Emphasis {
	switch {
	case section == uistate.SectionNone:
		return EmphasisNone
	case section == st.ActiveSection:
		return EmphasisActive
	case section == st.LastHovered:
		return EmphasisHovered
	}
	return EmphasisNone
}

func roomLines(v widgets.RoomListView, active string, focused bool, height int) []Line {
	var lines []Line
	for i := v.Scroll; i < len(v.Names) && len(lines) < height; i++ {
		name := v.Names[i]
		prefix := "  "
		tone := ToneDefault
		if name == active {
			prefix = "* "
			tone = ToneBold
		}
		if focused && i == v.Selected {
			tone = ToneSelected
		}
		lines = append(lines, Line{{Text: prefix + "#" + name, Tone: tone}})
	}
	return lines
}

// messageLines returns the last height items, shifted back by offset.
func messageLines(log []rooms.Item, offset, height int) []Line {
	end := len(log) - offset
	if end > len(log) {
		end = len(log)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	lines := make([]Line, 0, end-start)
	for _, it := range log[start:end] {
		if it.Notification {
			lines = append(lines, Line{{Text: it.Content, Tone: ToneNotification}})
			continue
		}
		lines = append(lines, Line{{Text: "@" + it.Username + ": " + it.Content}})
	}
	return lines
}

// inputScroll returns how many columns to hide so that the cursor column
// stays inside a field width columns wide.
func inputScroll(cursorCol, width int) int {
	if width <= 0 || cursorCol < width {
		return 0
	}
	return cursorCol - width + 1
}

// skipColumns drops the first n display columns of s. A wide rune cut in half
// is dropped whole and replaced by padding.
func skipColumns(s string, n int) (string, int) {
	if n <= 0 {
		return s, 0
	}
	col := 0
	for i, r := range s {
		if col >= n {
			return s[i:], col - n
		}
		col += textedit.RuneWidth(r)
	}
	return "", 0
}
