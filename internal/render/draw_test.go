package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qchat/internal/config"
	"github.com/kobzarvs/qchat/internal/uistate"
	"github.com/kobzarvs/qchat/internal/widgets"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func cellRune(cells []tcell.SimCell, w, x, y int) rune {
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return 0
	}
	return c.Runes[0]
}

func TestDrawBordersAndTitle(t *testing.T) {
	s := newScreen(t, 100, 40)
	Draw(s, Compose(baseInput()), StylesFromTheme(config.Default().Theme))

	cells, w, _ := s.GetContents()
	if r := cellRune(cells, w, 0, 0); r != tcell.RuneULCorner {
		t.Fatalf("corner = %q, want %q", r, tcell.RuneULCorner)
	}
	title := "Rooms"
	for i, want := range title {
		if r := cellRune(cells, w, 1+i, 0); r != want {
			t.Fatalf("title rune %d = %q, want %q", i, r, want)
		}
	}
	if r := cellRune(cells, w, 0, 1); r != tcell.RuneVLine {
		t.Fatalf("left border = %q", r)
	}
}

func TestDrawWideInputAndCursor(t *testing.T) {
	s := newScreen(t, 100, 40)
	in := baseInput()
	in.State.ActiveSection = uistate.SectionMessageInput
	in.MessageInput = widgets.InputView{Text: "世a", CursorColumn: 2}
	Draw(s, Compose(in), StylesFromTheme(config.Default().Theme))

	cells, w, _ := s.GetContents()
	if r := cellRune(cells, w, 21, 37); r != '世' {
		t.Fatalf("cell (21,37) = %q, want %q", r, '世')
	}
	if r := cellRune(cells, w, 23, 37); r != 'a' {
		t.Fatalf("cell (23,37) = %q, want 'a'", r)
	}
	x, y, visible := s.GetCursor()
	if !visible {
		t.Fatalf("cursor not visible")
	}
	if x != 23 || y != 37 {
		t.Fatalf("cursor = (%d, %d), want (23, 37)", x, y)
	}
}

func TestDrawHidesCursorWhenUnfocused(t *testing.T) {
	s := newScreen(t, 100, 40)
	Draw(s, Compose(baseInput()), StylesFromTheme(config.Default().Theme))
	if _, _, visible := s.GetCursor(); visible {
		t.Fatalf("cursor visible while unfocused")
	}
}

func TestDrawTextClipsWideRune(t *testing.T) {
	s := newScreen(t, 10, 1)
	next := drawText(s, 0, 0, 3, "ab世", tcell.StyleDefault)
	s.Show()
	if next != 2 {
		t.Fatalf("next column = %d, want 2", next)
	}
	cells, w, _ := s.GetContents()
	if r := cellRune(cells, w, 2, 0); r == '世' {
		t.Fatalf("wide rune drawn across the clip edge")
	}
}

func TestDrawTextCombiningMark(t *testing.T) {
	s := newScreen(t, 10, 1)
	next := drawText(s, 0, 0, 10, "e\u0301x", tcell.StyleDefault)
	s.Show()
	if next != 2 {
		t.Fatalf("next column = %d, want 2", next)
	}
	cells, w, _ := s.GetContents()
	if r := cellRune(cells, w, 1, 0); r != 'x' {
		t.Fatalf("cell 1 = %q, want 'x'", r)
	}
}

func TestParseColor(t *testing.T) {
	if got := parseColor("#ff0000", tcell.ColorGreen); got != tcell.NewRGBColor(255, 0, 0) {
		t.Fatalf("hex = %v", got)
	}
	if got := parseColor("yellow", tcell.ColorGreen); got != tcell.ColorYellow {
		t.Fatalf("name = %v", got)
	}
	if got := parseColor("reset", tcell.ColorGreen); got != tcell.ColorDefault {
		t.Fatalf("reset = %v", got)
	}
	if got := parseColor("#zz", tcell.ColorGreen); got != tcell.ColorGreen {
		t.Fatalf("invalid = %v", got)
	}
}
