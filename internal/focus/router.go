// Package focus routes key events to the active section of the screen.
//
// The router is a two-state machine: Unfocused, where keys are looked up in
// the unfocused keymap, and Focused(section), where every key press goes to
// that section's widget. Widgets hand focus back by returning
// widgets.ResultLoseFocus. The router is driven only from the owner loop.
package focus

import (
	"time"

	"github.com/kobzarvs/qchat/internal/dispatch"
	"github.com/kobzarvs/qchat/internal/keys"
	"github.com/kobzarvs/qchat/internal/logger"
	"github.com/kobzarvs/qchat/internal/uistate"
	"github.com/kobzarvs/qchat/internal/widgets"
)

type Action string

const (
	ActionFocusInput      Action = "focus_input"
	ActionFocusRooms      Action = "focus_rooms"
	ActionFocusMessages   Action = "focus_messages"
	ActionHoverNext       Action = "hover_next"
	ActionHoverPrev       Action = "hover_prev"
	ActionActivateHovered Action = "activate_hovered"
	ActionQuit            Action = "quit"
)

var knownActions = map[Action]bool{
	ActionFocusInput:      true,
	ActionFocusRooms:      true,
	ActionFocusMessages:   true,
	ActionHoverNext:       true,
	ActionHoverPrev:       true,
	ActionActivateHovered: true,
	ActionQuit:            true,
}

// Outcome reports what HandleKey did with an event.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeHandled
	OutcomeQuit
)

type Options struct {
	// Keymap maps key names to actions while unfocused.
	Keymap map[string]string
	// NoticeTTL is how long a failure notice stays visible.
	NoticeTTL time.Duration
	// MessageCount returns the number of log lines of the active room.
	MessageCount func() int
}

type Router struct {
	state    *uistate.State
	input    *widgets.MessageInput
	rooms    *widgets.RoomList
	messages *widgets.MessageView

	keymap       map[string]Action
	noticeTTL    time.Duration
	messageCount func() int
	now          func() time.Time
}

func New(state *uistate.State, input *widgets.MessageInput, rooms *widgets.RoomList, messages *widgets.MessageView, opts Options) *Router {
	keymap := make(map[string]Action, len(opts.Keymap))
	for key, name := range opts.Keymap {
		action := Action(name)
		if !knownActions[action] {
			logger.Warn("ignoring unknown keymap action", "key", key, "action", name)
			continue
		}
		keymap[key] = action
	}
	count := opts.MessageCount
	if count == nil {
		count = func() int { return 0 }
	}
	return &Router{
		state:        state,
		input:        input,
		rooms:        rooms,
		messages:     messages,
		keymap:       keymap,
		noticeTTL:    opts.NoticeTTL,
		messageCount: count,
		now:          time.Now,
	}
}

// Activate focuses section. The widget keeps its contents; a previously
// active section is deactivated first.
func (r *Router) Activate(section uistate.Section) {
	if section == uistate.SectionNone {
		r.Deactivate()
		return
	}
	prev := r.state.SetActiveSection(section)
	if prev == section {
		return
	}
	r.leave(prev)
	r.state.SetLastHovered(section)
	switch section {
	case uistate.SectionMessageInput:
		r.input.Activate()
	case uistate.SectionRoomList:
		r.rooms.Activate()
	case uistate.SectionMessages:
		r.messages.Activate()
	}
	logger.Debug("section activated", "section", section.String())
}

// Deactivate returns to Unfocused and clears the transient state of the
// section that was active.
func (r *Router) Deactivate() {
	prev := r.state.SetActiveSection(uistate.SectionNone)
	r.leave(prev)
}

func (r *Router) leave(section uistate.Section) {
	switch section {
	case uistate.SectionMessageInput:
		r.input.Deactivate()
	case uistate.SectionRoomList:
		r.rooms.Deactivate()
	case uistate.SectionMessages:
		r.messages.Deactivate()
	default:
		return
	}
	logger.Debug("section deactivated", "section", section.String())
}

// Hover marks section as the secondary highlight.
func (r *Router) Hover(section uistate.Section) {
	r.state.SetLastHovered(section)
}

// HandleKey routes one key event. Only presses are acted on. ctrl+c quits
// from any state.
func (r *Router) HandleKey(ev keys.Event) Outcome {
	if !ev.IsPress() {
		return OutcomeIgnored
	}
	if ev.String() == "ctrl+c" {
		return OutcomeQuit
	}

	var res widgets.Result
	switch r.state.ActiveSection() {
	case uistate.SectionMessageInput:
		res = r.input.HandleKey(ev)
	case uistate.SectionRoomList:
		res = r.rooms.HandleKey(ev)
	case uistate.SectionMessages:
		res = r.messages.HandleKey(ev, r.messageCount())
	default:
		return r.handleUnfocused(ev)
	}
	if res == widgets.ResultLoseFocus {
		r.Deactivate()
	}
	return OutcomeHandled
}

func (r *Router) handleUnfocused(ev keys.Event) Outcome {
	action, ok := r.keymap[ev.String()]
	if !ok {
		return OutcomeIgnored
	}
	switch action {
	case ActionFocusInput:
		r.Activate(uistate.SectionMessageInput)
	case ActionFocusRooms:
		r.Activate(uistate.SectionRoomList)
	case ActionFocusMessages:
		r.Activate(uistate.SectionMessages)
	case ActionHoverNext:
		r.Hover(step(r.state.LastHovered(), 1))
	case ActionHoverPrev:
		r.Hover(step(r.state.LastHovered(), -1))
	case ActionActivateHovered:
		hovered := r.state.LastHovered()
		if hovered == uistate.SectionNone {
			return OutcomeIgnored
		}
		r.Activate(hovered)
	case ActionQuit:
		return OutcomeQuit
	}
	return OutcomeHandled
}

// Complete applies the outcome of a finished write. A failure becomes an
// error notice that keeps the unsent text as its draft.
func (r *Router) Complete(res dispatch.Result) {
	r.input.Settle(res)
	if res.Err == nil {
		return
	}
	r.state.Notify(uistate.Notice{
		Text:    res.Err.Error(),
		Level:   uistate.NoticeError,
		Expires: r.now().Add(r.noticeTTL),
		Draft:   res.Content,
	})
}

func step(from uistate.Section, delta int) uistate.Section {
	n := len(uistate.Sections)
	idx := -1
	for i, s := range uistate.Sections {
		if s == from {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta > 0 {
			return uistate.Sections[0]
		}
		return uistate.Sections[n-1]
	}
	return uistate.Sections[((idx+delta)%n+n)%n]
}
