package render

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kobzarvs/qchat/internal/rooms"
	"github.com/kobzarvs/qchat/internal/uistate"
	"github.com/kobzarvs/qchat/internal/widgets"
)

type fakeRooms struct {
	rooms map[string]rooms.Room
	logs  map[string][]rooms.Item
}

func (f fakeRooms) Lookup(name string) (rooms.Room, bool) {
	r, ok := f.rooms[name]
	return r, ok
}

func (f fakeRooms) Messages(name string) []rooms.Item { return f.logs[name] }

func testRooms() fakeRooms {
	return fakeRooms{
		rooms: map[string]rooms.Room{
			"general": {Name: "general", Description: "anything goes", Users: []string{"jane", "joe"}},
		},
		logs: map[string][]rooms.Item{
			"general": {
				{Username: "jane", Content: "hi"},
				{Content: "joe joined", Notification: true},
				{Username: "joe", Content: "hello"},
			},
		},
	}
}

func baseInput() Input {
	return Input{
		Layout:   ComputeLayout(100, 40, testOptions),
		Now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Username: "jane",
		Rooms:    testRooms(),
		RoomList: widgets.RoomListView{Names: []string{"general", "random"}},
	}
}

func blockFor(t *testing.T, f Frame, title string) Block {
	t.Helper()
	for _, b := range f.Blocks {
		if strings.HasPrefix(b.Title, title) {
			return b
		}
	}
	t.Fatalf("no block titled %q", title)
	return Block{}
}

func TestComposeCursorUsesDisplayColumn(t *testing.T) {
	in := baseInput()
	in.State.ActiveSection = uistate.SectionMessageInput
	// "世a" with the cursor between the two runes.
	in.MessageInput = widgets.InputView{Text: "世a", CursorColumn: 2}

	f := Compose(in)
	if diff := cmp.Diff(&Point{X: 23, Y: 37}, f.Cursor); diff != "" {
		t.Fatalf("cursor mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeNoCursorUnlessEditing(t *testing.T) {
	for _, section := range []uistate.Section{uistate.SectionNone, uistate.SectionRoomList, uistate.SectionMessages} {
		in := baseInput()
		in.State.ActiveSection = section
		in.MessageInput = widgets.InputView{Text: "abc", CursorColumn: 3}
		if f := Compose(in); f.Cursor != nil {
			t.Fatalf("cursor shown with %v active: %+v", section, *f.Cursor)
		}
	}
}

func TestComposeInputScrollsLongText(t *testing.T) {
	in := baseInput()
	in.State.ActiveSection = uistate.SectionMessageInput
	in.MessageInput = widgets.InputView{Text: strings.Repeat("a", 70), CursorColumn: 70}

	f := Compose(in)
	input := blockFor(t, f, "Input")
	if input.Scroll != 13 {
		t.Fatalf("scroll = %d, want 13", input.Scroll)
	}
	if diff := cmp.Diff(&Point{X: 78, Y: 37}, f.Cursor); diff != "" {
		t.Fatalf("cursor mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeEmphasis(t *testing.T) {
	in := baseInput()
	in.State.ActiveSection = uistate.SectionRoomList
	in.State.LastHovered = uistate.SectionMessages

	got := map[string]Emphasis{}
	for _, b := range Compose(in).Blocks {
		got[b.Title] = b.Emphasis
	}
	want := map[string]Emphasis{
		"Rooms":                   EmphasisActive,
		"User Information":        EmphasisNone,
		"Active Room Information": EmphasisNone,
		"Messages":                EmphasisHovered,
		"Input":                   EmphasisNone,
		"Room Users":              EmphasisNone,
		"Usage":                   EmphasisNone,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("emphasis mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeActiveRoomContent(t *testing.T) {
	in := baseInput()
	in.State.ActiveRoom = "general"
	in.State.ActiveSection = uistate.SectionRoomList
	in.RoomList.Selected = 1
	in.Elapsed = 42 * time.Second

	f := Compose(in)
	tests := []struct {
		title string
		want  []Line
	}{
		{"Rooms", []Line{
			{{Text: "* #general", Tone: ToneBold}},
			{{Text: "  #random", Tone: ToneSelected}},
		}},
		{"User Information", []Line{
			{{Text: "User: @jane"}},
			{{Text: "Seconds in app: 42"}},
		}},
		{"Active Room Information", []Line{
			{{Text: `on #general for "anything goes"`}},
		}},
		{"Messages", []Line{
			{{Text: "@jane: hi"}},
			{{Text: "joe joined", Tone: ToneNotification}},
			{{Text: "@joe: hello"}},
		}},
		{"Room Users", []Line{
			{{Text: "@jane"}},
			{{Text: "@joe"}},
		}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, blockFor(t, f, tt.title).Lines); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", tt.title, diff)
		}
	}
}

func TestComposeWithoutRoom(t *testing.T) {
	f := Compose(baseInput())
	want := []Line{{{Text: "Please select a room."}}}
	if diff := cmp.Diff(want, blockFor(t, f, "Active Room Information").Lines); diff != "" {
		t.Fatalf("room info mismatch (-want +got):\n%s", diff)
	}
	if lines := blockFor(t, f, "Messages").Lines; len(lines) != 0 {
		t.Fatalf("messages without room: %+v", lines)
	}
}

func TestComposeMessageOffset(t *testing.T) {
	in := baseInput()
	in.State.ActiveRoom = "general"
	in.MessageOffset = 1
	in.Layout.Messages.H = 3 // one inner row

	f := Compose(in)
	want := []Line{{{Text: "joe joined", Tone: ToneNotification}}}
	if diff := cmp.Diff(want, blockFor(t, f, "Messages").Lines); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeStatusNotice(t *testing.T) {
	in := baseInput()
	in.State.Notice = uistate.Notice{
		Text:    "send to #general: broken pipe",
		Level:   uistate.NoticeError,
		Expires: in.Now.Add(time.Second),
		Draft:   "hello",
	}
	f := Compose(in)
	want := Line{{Text: "send to #general: broken pipe (Ctrl + R restores the message)", Tone: ToneError}}
	if diff := cmp.Diff(want, f.Status); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}

	in.Now = in.Now.Add(2 * time.Second)
	if f := Compose(in); f.Status != nil {
		t.Fatalf("expired notice still shown: %+v", f.Status)
	}
}

func TestComposeSendingTitle(t *testing.T) {
	in := baseInput()
	in.MessageInput.Sending = true
	if got := blockFor(t, Compose(in), "Input").Title; got != "Input (sending)" {
		t.Fatalf("title = %q", got)
	}
}

func TestSkipColumns(t *testing.T) {
	tests := []struct {
		in      string
		n       int
		want    string
		wantPad int
	}{
		{"abc", 0, "abc", 0},
		{"abc", 1, "bc", 0},
		{"世界x", 2, "界x", 0},
		{"世界x", 1, "界x", 1},
		{"ab", 5, "", 0},
	}
	for _, tt := range tests {
		got, pad := skipColumns(tt.in, tt.n)
		if got != tt.want || pad != tt.wantPad {
			t.Fatalf("skipColumns(%q, %d) = (%q, %d), want (%q, %d)", tt.in, tt.n, got, pad, tt.want, tt.wantPad)
		}
	}
}
