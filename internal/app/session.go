package app

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qchat/internal/client"
	"github.com/kobzarvs/qchat/internal/config"
	"github.com/kobzarvs/qchat/internal/dispatch"
	"github.com/kobzarvs/qchat/internal/focus"
	"github.com/kobzarvs/qchat/internal/keys"
	"github.com/kobzarvs/qchat/internal/logger"
	"github.com/kobzarvs/qchat/internal/render"
	"github.com/kobzarvs/qchat/internal/rooms"
	"github.com/kobzarvs/qchat/internal/uistate"
	"github.com/kobzarvs/qchat/internal/widgets"
)

// session owns the UI state and is only touched from the event loop.
type session struct {
	cfg       config.Config
	screen    tcell.Screen
	styles    render.Styles
	layoutOpt render.LayoutOptions
	layout    render.Layout

	state    *uistate.State
	registry *rooms.Registry
	input    *widgets.MessageInput
	roomList *widgets.RoomList
	messages *widgets.MessageView
	router   *focus.Router

	started time.Time
	now     func() time.Time
}

func newSession(cfg config.Config, s tcell.Screen, submitter widgets.Submitter) *session {
	ss := &session{
		cfg:    cfg,
		screen: s,
		styles: render.StylesFromTheme(cfg.Theme),
		layoutOpt: render.LayoutOptions{
			RoomListWidth:    cfg.Layout.RoomListWidth,
			RoomListMinWidth: cfg.Layout.RoomListMinWidth,
			RoomListMaxWidth: cfg.Layout.RoomListMaxWidth,
		},
		state:    uistate.New(),
		registry: rooms.New(),
		messages: widgets.NewMessageView(),
		now:      time.Now,
	}
	ss.started = ss.now()
	noticeTTL := cfg.Client.NoticeTimeoutDuration()
	ss.input = widgets.NewMessageInput(ss.state, submitter, noticeTTL)
	ss.roomList = widgets.NewRoomList(ss.state, ss.registry)
	ss.router = focus.New(ss.state, ss.input, ss.roomList, ss.messages, focus.Options{
		Keymap:       cfg.Keymap.Unfocused,
		NoticeTTL:    noticeTTL,
		MessageCount: ss.messageCount,
	})
	ss.relayout()
	return ss
}

func (ss *session) messageCount() int {
	room, ok := ss.state.ActiveRoom()
	if !ok {
		return 0
	}
	return len(ss.registry.Messages(room))
}

func (ss *session) relayout() {
	w, h := ss.screen.Size()
	ss.layout = render.ComputeLayout(w, h, ss.layoutOpt)
	ss.roomList.SetHeight(ss.layout.Rooms.Inner().H)
	ss.messages.SetHeight(ss.layout.Messages.Inner().H)
}

// handle applies one event and redraws. It reports whether the user asked
// to quit.
func (ss *session) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ss.router.HandleKey(keys.FromTcell(ev)) == focus.OutcomeQuit {
			return true
		}
	case *tcell.EventResize:
		ss.screen.Sync()
		ss.relayout()
	case *tcell.EventInterrupt:
		ss.handleMessage(ev.Data())
	}
	ss.redraw()
	return false
}

func (ss *session) handleMessage(data any) {
	switch msg := data.(type) {
	case nil:
		ss.state.ClearNotice(ss.now())
	case dispatch.Result:
		ss.router.Complete(msg)
	case client.Event:
		if msg.Type == client.EventError {
			ss.notify(msg.Content, uistate.NoticeError)
			return
		}
		ss.registry.Apply(msg)
	case disconnected:
		if msg.err != nil {
			logger.Error("server stream failed", "error", msg.err)
		}
		ss.notify("disconnected from server", uistate.NoticeError)
	}
}

func (ss *session) notify(text string, level uistate.NoticeLevel) {
	ss.state.Notify(uistate.Notice{
		Text:    text,
		Level:   level,
		Expires: ss.now().Add(ss.cfg.Client.NoticeTimeoutDuration()),
	})
}

func (ss *session) redraw() {
	now := ss.now()
	frame := render.Compose(render.Input{
		Layout:        ss.layout,
		State:         ss.state.Snapshot(),
		Now:           now,
		Username:      ss.cfg.Client.Username,
		Elapsed:       now.Sub(ss.started),
		MessageInput:  ss.input.View(),
		RoomList:      ss.roomList.View(),
		MessageOffset: ss.messages.Offset(),
		Rooms:         ss.registry,
	})
	render.Draw(ss.screen, frame, ss.styles)
}
