package widgets

import (
	"strings"
	"time"

	"github.com/kobzarvs/qchat/internal/dispatch"
	"github.com/kobzarvs/qchat/internal/keys"
	"github.com/kobzarvs/qchat/internal/logger"
	"github.com/kobzarvs/qchat/internal/textedit"
	"github.com/kobzarvs/qchat/internal/uistate"
)

const noRoomNotice = "Please select a room."

// Submitter accepts a finished message. dispatch.Dispatcher implements it.
type Submitter interface {
	Submit(room, content string) *dispatch.Pending
}

// InputView is what the renderer needs from the message input.
type InputView struct {
	Text         string
	CursorColumn int
	Sending      bool
}

// MessageInput is the single-line editor used to compose messages.
type MessageInput struct {
	buf       *textedit.Buffer
	state     *uistate.State
	submitter Submitter
	noticeTTL time.Duration
	now       func() time.Time

	session     int
	pending     *dispatch.Pending
	pendingFrom int
}

func NewMessageInput(state *uistate.State, submitter Submitter, noticeTTL time.Duration) *MessageInput {
	return &MessageInput{
		buf:       textedit.New(),
		state:     state,
		submitter: submitter,
		noticeTTL: noticeTTL,
		now:       time.Now,
	}
}

// Buffer exposes the underlying text buffer.
func (m *MessageInput) Buffer() *textedit.Buffer { return m.buf }

// Session counts editing sessions; it increases on every Activate.
func (m *MessageInput) Session() int { return m.session }

// Sending reports whether the last submitted message is still being written.
func (m *MessageInput) Sending() bool {
	if m.pending == nil {
		return false
	}
	select {
	case <-m.pending.Done():
		return false
	default:
		return true
	}
}

func (m *MessageInput) View() InputView {
	return InputView{
		Text:         m.buf.Text(),
		CursorColumn: m.buf.CursorColumn(),
		Sending:      m.Sending(),
	}
}

// Activate starts an editing session. The buffer keeps its contents.
func (m *MessageInput) Activate() {
	m.session++
}

// Deactivate ends the editing session and discards unsent text.
func (m *MessageInput) Deactivate() {
	m.buf.Reset()
}

// Settle is called when a submitted write finishes. submit already consumed
// the buffer, so the reset here is a backstop; it is skipped once a newer
// editing session has started so text typed since is kept.
func (m *MessageInput) Settle(res dispatch.Result) {
	if m.pending != nil && m.pending.ID() == res.ID {
		if m.session == m.pendingFrom {
			m.buf.Reset()
		}
		m.pending = nil
	}
}

func (m *MessageInput) HandleKey(ev keys.Event) Result {
	if !ev.IsPress() {
		return ResultOk
	}
	if ev.Printable() {
		m.buf.InsertRune(ev.Rune)
		return ResultOk
	}
	switch ev.String() {
	case "enter":
		m.submit()
		return ResultLoseFocus
	case "esc":
		return ResultLoseFocus
	case "backspace":
		m.buf.DeleteBackward()
	case "left":
		m.buf.MoveLeft()
	case "right":
		m.buf.MoveRight()
	case "home", "ctrl+a":
		m.buf.MoveHome()
	case "end", "ctrl+e":
		m.buf.MoveEnd()
	case "ctrl+u":
		m.buf.Reset()
	case "ctrl+w":
		m.buf.DeleteWordBackward()
	case "ctrl+r":
		m.restoreDraft()
	}
	return ResultOk
}

// submit consumes the buffer. Without an active room nothing is written and
// the text is parked as the notice draft.
func (m *MessageInput) submit() {
	text := m.buf.Take()
	room, ok := m.state.ActiveRoom()
	if !ok {
		m.state.Notify(uistate.Notice{
			Text:    noRoomNotice,
			Level:   uistate.NoticeInfo,
			Expires: m.now().Add(m.noticeTTL),
			Draft:   text,
		})
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	m.pending = m.submitter.Submit(room, text)
	m.pendingFrom = m.session
	logger.Debug("message submitted", "id", m.pending.ID(), "room", room)
}

func (m *MessageInput) restoreDraft() {
	notice := m.state.Snapshot().Notice
	if notice.Draft == "" {
		return
	}
	m.buf.SetText(notice.Draft)
	m.state.ClearNotice(time.Time{})
}
