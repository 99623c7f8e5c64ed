package widgets

import (
	"github.com/kobzarvs/qchat/internal/keys"
)

// MessageView scrolls the message log of the active room. Offset counts
// lines scrolled back from the newest message.
type MessageView struct {
	offset int
	height int
}

func NewMessageView() *MessageView {
	return &MessageView{height: 1}
}

func (v *MessageView) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	v.height = h
}

func (v *MessageView) Offset() int { return v.offset }

// Activate keeps the current scroll position.
func (v *MessageView) Activate() {}

// Deactivate jumps back to the newest message.
func (v *MessageView) Deactivate() {
	v.offset = 0
}

// HandleKey scrolls within total lines of history.
func (v *MessageView) HandleKey(ev keys.Event, total int) Result {
	if !ev.IsPress() {
		return ResultOk
	}
	maxOffset := total - v.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	switch ev.String() {
	case "up", "k":
		v.offset++
	case "down", "j":
		v.offset--
	case "pgup":
		v.offset += v.height
	case "pgdn":
		v.offset -= v.height
	case "home", "g":
		v.offset = maxOffset
	case "end", "G":
		v.offset = 0
	case "esc", "q":
		return ResultLoseFocus
	}
	if v.offset > maxOffset {
		v.offset = maxOffset
	}
	if v.offset < 0 {
		v.offset = 0
	}
	return ResultOk
}
