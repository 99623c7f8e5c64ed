package rooms

import (
	"strings"
	"sync"
	"time"

	"github.com/kobzarvs/qchat/internal/client"
)

// DefaultHistory is the number of items kept per room.
const DefaultHistory = 500

// Room describes a chat room known to the client
type Room struct {
	Name        string
	Description string
	Users       []string
}

// Item is one entry of a room's message log
type Item struct {
	Username     string
	Content      string
	Notification bool
	At           time.Time
}

// Registry holds the rooms announced by the server and their message logs.
// Its lock may be held while taking uistate.State's lock, never the reverse.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	rooms    map[string]Room
	messages map[string][]Item
	history  int
	now      func() time.Time
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		rooms:    make(map[string]Room),
		messages: make(map[string][]Item),
		history:  DefaultHistory,
		now:      time.Now,
	}
}

// Normalize strips the leading '#' users tend to type in front of room names.
func Normalize(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}

// Set replaces the room list. Message logs of rooms that are still listed
// are kept.
func (r *Registry) Set(list []Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms := make(map[string]Room, len(list))
	order := make([]string, 0, len(list))
	for _, room := range list {
		room.Name = Normalize(room.Name)
		if room.Name == "" {
			continue
		}
		if _, dup := rooms[room.Name]; !dup {
			order = append(order, room.Name)
		}
		room.Users = append([]string(nil), room.Users...)
		rooms[room.Name] = room
	}
	for name := range r.messages {
		if _, ok := rooms[name]; !ok {
			delete(r.messages, name)
		}
	}
	r.rooms = rooms
	r.order = order
}

// Lookup returns the room registered under name
func (r *Registry) Lookup(name string) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[Normalize(name)]
	if !ok {
		return Room{}, false
	}
	room.Users = append([]string(nil), room.Users...)
	return room, true
}

// Names returns room names in server order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// List returns copies of all rooms in server order
func (r *Registry) List() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Room, 0, len(r.order))
	for _, name := range r.order {
		room := r.rooms[name]
		room.Users = append([]string(nil), room.Users...)
		out = append(out, room)
	}
	return out
}

// Messages returns a copy of the log for room
func (r *Registry) Messages(room string) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Item(nil), r.messages[Normalize(room)]...)
}

// Append adds it to the log of room, dropping the oldest items beyond the
// history limit. Unknown rooms are ignored; it reports whether the item was kept.
func (r *Registry) Append(room string, it Item) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	room = Normalize(room)
	if _, ok := r.rooms[room]; !ok {
		return false
	}
	if it.At.IsZero() {
		it.At = r.now()
	}
	log := append(r.messages[room], it)
	if over := len(log) - r.history; over > 0 {
		log = append([]Item(nil), log[over:]...)
	}
	r.messages[room] = log
	return true
}

// Apply folds a server event into the registry and reports whether anything
// visible changed.
func (r *Registry) Apply(ev client.Event) bool {
	switch ev.Type {
	case client.EventRoomList:
		list := make([]Room, 0, len(ev.Rooms))
		for _, info := range ev.Rooms {
			list = append(list, Room{Name: info.Name, Description: info.Description, Users: info.Users})
		}
		r.Set(list)
		return true
	case client.EventMessage:
		return r.Append(ev.Room, Item{Username: ev.Username, Content: ev.Content})
	case client.EventNotification:
		return r.Append(ev.Room, Item{Content: ev.Content, Notification: true})
	default:
		return false
	}
}
