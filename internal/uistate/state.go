// Package uistate holds the state shared between widgets and the renderer.
//
// State is guarded by a single RWMutex. It is a leaf lock: no method calls
// into another package while holding it, so it may be taken while holding
// rooms.Registry's lock but never the other way round.
package uistate

import (
	"sync"
	"time"
)

// Section identifies a focusable region of the screen.
type Section int

const (
	SectionNone Section = iota
	SectionRoomList
	SectionMessages
	SectionMessageInput
)

// Sections lists the focusable sections in hover order.
var Sections = []Section{SectionRoomList, SectionMessages, SectionMessageInput}

func (s Section) String() string {
	switch s {
	case SectionRoomList:
		return "room-list"
	case SectionMessages:
		return "messages"
	case SectionMessageInput:
		return "message-input"
	default:
		return "none"
	}
}

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a transient message shown on the status line.
type Notice struct {
	Text    string
	Level   NoticeLevel
	Expires time.Time
	// Draft is the unsent message text attached to a failed submission.
	Draft string
}

// Active reports whether the notice should still be shown at now.
func (n Notice) Active(now time.Time) bool {
	return n.Text != "" && (n.Expires.IsZero() || now.Before(n.Expires))
}

// Snapshot is a copy of State taken under the read lock.
type Snapshot struct {
	ActiveRoom    string
	ActiveSection Section
	LastHovered   Section
	Notice        Notice
}

type State struct {
	mu            sync.RWMutex
	activeRoom    string
	activeSection Section
	lastHovered   Section
	notice        Notice
}

func New() *State {
	return &State{}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ActiveRoom:    s.activeRoom,
		ActiveSection: s.activeSection,
		LastHovered:   s.lastHovered,
		Notice:        s.notice,
	}
}

// ActiveRoom returns the selected room and whether one is selected.
func (s *State) ActiveRoom() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeRoom, s.activeRoom != ""
}

func (s *State) SetActiveRoom(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRoom = room
}

func (s *State) ActiveSection() Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeSection
}

// SetActiveSection makes section the only active one and returns the section
// that was active before. SectionNone clears the active section.
func (s *State) SetActiveSection(section Section) Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.activeSection
	s.activeSection = section
	return prev
}

func (s *State) LastHovered() Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastHovered
}

func (s *State) SetLastHovered(section Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastHovered = section
}

// Notify replaces the current notice.
func (s *State) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = n
}

// ClearNotice drops the notice if it has expired at now, or unconditionally
// when now is zero. It reports whether a notice was removed.
func (s *State) ClearNotice(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice.Text == "" {
		return false
	}
	if !now.IsZero() && s.notice.Active(now) {
		return false
	}
	s.notice = Notice{}
	return true
}
