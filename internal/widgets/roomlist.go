package widgets

import (
	"github.com/kobzarvs/qchat/internal/keys"
	"github.com/kobzarvs/qchat/internal/logger"
	"github.com/kobzarvs/qchat/internal/uistate"
)

// RoomSource lists the rooms that can be selected. rooms.Registry implements it.
type RoomSource interface {
	Names() []string
}

// RoomListView is what the renderer needs from the room list.
type RoomListView struct {
	Names    []string
	Selected int
	Scroll   int
}

// RoomList lets the user pick the active room.
type RoomList struct {
	state *uistate.State
	rooms RoomSource

	index  int
	scroll int
	height int
}

func NewRoomList(state *uistate.State, rooms RoomSource) *RoomList {
	return &RoomList{state: state, rooms: rooms, height: 1}
}

// SetHeight sets the number of rows available for room names.
func (l *RoomList) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	l.height = h
	l.EnsureVisible()
}

func (l *RoomList) Index() int { return l.index }

func (l *RoomList) View() RoomListView {
	names := l.rooms.Names()
	l.clamp(len(names))
	return RoomListView{Names: names, Selected: l.index, Scroll: l.scroll}
}

// Activate places the selection on the active room, if it is listed.
func (l *RoomList) Activate() {
	room, ok := l.state.ActiveRoom()
	if !ok {
		return
	}
	for i, name := range l.rooms.Names() {
		if name == room {
			l.index = i
			l.EnsureVisible()
			return
		}
	}
}

// Deactivate drops the selection.
func (l *RoomList) Deactivate() {
	l.index = 0
	l.scroll = 0
}

// MoveUp moves selection up
func (l *RoomList) MoveUp() {
	if l.index > 0 {
		l.index--
	}
}

// MoveDown moves selection down
func (l *RoomList) MoveDown(count int) {
	if l.index < count-1 {
		l.index++
	}
}

// PageUp moves selection up by a page
func (l *RoomList) PageUp() {
	l.index -= l.height
	if l.index < 0 {
		l.index = 0
	}
}

// PageDown moves selection down by a page
func (l *RoomList) PageDown(count int) {
	l.index += l.height
	l.clamp(count)
}

// EnsureVisible adjusts scroll to make the selected room visible
func (l *RoomList) EnsureVisible() {
	if l.index < l.scroll {
		l.scroll = l.index
	}
	if l.index >= l.scroll+l.height {
		l.scroll = l.index - l.height + 1
	}
}

func (l *RoomList) clamp(count int) {
	if l.index >= count {
		l.index = count - 1
	}
	if l.index < 0 {
		l.index = 0
	}
	l.EnsureVisible()
}

func (l *RoomList) HandleKey(ev keys.Event) Result {
	if !ev.IsPress() {
		return ResultOk
	}
	names := l.rooms.Names()
	l.clamp(len(names))

	switch ev.String() {
	case "up", "k":
		l.MoveUp()
	case "down", "j":
		l.MoveDown(len(names))
	case "pgup":
		l.PageUp()
	case "pgdn":
		l.PageDown(len(names))
	case "home", "g":
		l.index = 0
	case "end", "G":
		l.index = len(names) - 1
		l.clamp(len(names))
	case "enter":
		if len(names) == 0 {
			return ResultOk
		}
		room := names[l.index]
		l.state.SetActiveRoom(room)
		logger.Info("room selected", "room", room)
		return ResultLoseFocus
	case "esc", "q":
		return ResultLoseFocus
	}
	l.EnsureVisible()
	return ResultOk
}
