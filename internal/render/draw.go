package render

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qchat/internal/config"
	"github.com/kobzarvs/qchat/internal/textedit"
)

// Styles maps emphasis and tones to terminal styles.
type Styles struct {
	Base          tcell.Style
	Title         tcell.Style
	Border        tcell.Style
	BorderHovered tcell.Style
	BorderActive  tcell.Style
	Input         tcell.Style
	Selected      tcell.Style
	Notification  tcell.Style
	Notice        tcell.Style
	Error         tcell.Style
	Usage         tcell.Style
}

func StylesFromTheme(t config.Theme) Styles {
	fg := parseColor(t.Foreground, tcell.ColorDefault)
	bg := parseColor(t.Background, tcell.ColorDefault)
	base := tcell.StyleDefault.Foreground(fg).Background(bg)
	return Styles{
		Base:          base,
		Title:         base.Foreground(parseColor(t.TitleForeground, fg)),
		Border:        base.Foreground(parseColor(t.BorderDefault, fg)),
		BorderHovered: base.Foreground(parseColor(t.BorderHovered, tcell.ColorBlue)),
		BorderActive:  base.Foreground(parseColor(t.BorderActive, tcell.ColorYellow)),
		Input:         base.Foreground(parseColor(t.InputForeground, tcell.ColorYellow)),
		Selected: base.
			Foreground(parseColor(t.RoomListSelectedForeground, tcell.ColorBlack)).
			Background(parseColor(t.RoomListSelectedBackground, tcell.ColorYellow)),
		Notification: base.Foreground(parseColor(t.NotificationForeground, fg)).Italic(true),
		Notice:       base.Foreground(parseColor(t.NoticeForeground, fg)),
		Error:        base.Foreground(parseColor(t.ErrorForeground, tcell.ColorRed)),
		Usage:        base.Foreground(parseColor(t.UsageForeground, fg)),
	}
}

func (st Styles) tone(t Tone) tcell.Style {
	switch t {
	case ToneBold:
		return st.Base.Bold(true)
	case ToneSelected:
		return st.Selected
	case ToneInput:
		return st.Input
	case ToneNotification:
		return st.Notification
	case ToneNotice:
		return st.Notice
	case ToneError:
		return st.Error
	case ToneUsage:
		return st.Usage
	}
	return st.Base
}

func (st Styles) border(e Emphasis) tcell.Style {
	switch e {
	case EmphasisActive:
		return st.BorderActive
	case EmphasisHovered:
		return st.BorderHovered
	}
	return st.Border
}

// Draw paints f on s and shows it.
func Draw(s tcell.Screen, f Frame, st Styles) {
	s.SetStyle(st.Base)
	s.Clear()
	for _, b := range f.Blocks {
		drawBlock(s, b, st)
	}
	if r := f.StatusRect; !r.Empty() {
		clearLine(s, r.X, r.Y, r.W, st.Base)
		drawLine(s, r.X, r.Y, r.X+r.W, f.Status, 0, st)
	}
	if f.Cursor != nil {
		s.ShowCursor(f.Cursor.X, f.Cursor.Y)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func drawBlock(s tcell.Screen, b Block, st Styles) {
	r := b.Rect
	if r.Empty() {
		return
	}
	bs := st.border(b.Emphasis)
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		s.SetContent(x, r.Y, tcell.RuneHLine, nil, bs)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, bs)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetContent(r.X, y, tcell.RuneVLine, nil, bs)
		s.SetContent(right, y, tcell.RuneVLine, nil, bs)
	}
	s.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, bs)
	s.SetContent(right, r.Y, tcell.RuneURCorner, nil, bs)
	s.SetContent(r.X, bottom, tcell.RuneLLCorner, nil, bs)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, bs)

	if b.Title != "" && r.W > 2 {
		drawText(s, r.X+1, r.Y, right, b.Title, st.Title)
	}
	inner := r.Inner()
	for i, line := range b.Lines {
		if i >= inner.H {
			break
		}
		drawLine(s, inner.X, inner.Y+i, inner.X+inner.W, line, b.Scroll, st)
	}
}

// drawLine draws spans from x up to, not including, maxX after hiding the
// first scroll columns.
func drawLine(s tcell.Screen, x, y, maxX int, line Line, scroll int, st Styles) {
	for _, span := range line {
		text := span.Text
		if scroll > 0 {
			w := textedit.StringWidth(text)
			if w <= scroll {
				scroll -= w
				continue
			}
			var pad int
			text, pad = skipColumns(text, scroll)
			x += pad
			scroll = 0
		}
		x = drawText(s, x, y, maxX, text, st.tone(span.Tone))
		if x >= maxX {
			return
		}
	}
}

// drawText writes text starting at x, advancing by display width, and
// returns the next free column. Zero-width runes combine with the previous
// cell; a wide rune that would straddle maxX is not drawn.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	var (
		base    rune
		comb    []rune
		haveRun bool
	)
	flush := func() bool {
		if !haveRun {
			return true
		}
		w := textedit.RuneWidth(base)
		if x+w > maxX {
			return false
		}
		s.SetContent(x, y, base, comb, style)
		x += w
		haveRun = false
		comb = nil
		return true
	}
	for _, r := range text {
		if textedit.RuneWidth(r) == 0 {
			if haveRun {
				comb = append(comb, r)
			}
			continue
		}
		if !flush() {
			return x
		}
		base, haveRun = r, true
	}
	flush()
	return x
}

func clearLine(s tcell.Screen, x, y, w int, style tcell.Style) {
	for i := 0; i < w; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" || name == "reset" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
