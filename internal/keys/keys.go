// Package keys normalizes terminal key events for the focus router and the
// widgets it drives.
package keys

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Kind distinguishes presses from the release and repeat reports some
// terminals emit. Only presses are acted on.
type Kind int

const (
	Press Kind = iota
	Release
	Repeat
)

type Event struct {
	Kind Kind
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// FromTcell converts a tcell key event. tcell reports presses only.
func FromTcell(ev *tcell.EventKey) Event {
	return Event{Kind: Press, Key: ev.Key(), Rune: ev.Rune(), Mod: ev.Modifiers()}
}

// Rune builds a press of a printable character.
func Rune(r rune) Event {
	return Event{Kind: Press, Key: tcell.KeyRune, Rune: r}
}

// Key builds a press of a special key.
func Key(k tcell.Key) Event {
	return Event{Kind: Press, Key: k}
}

func (e Event) IsPress() bool { return e.Kind == Press }

// Printable reports whether the event inserts its rune as text.
func (e Event) Printable() bool {
	return e.Key == tcell.KeyRune && e.Mod&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0
}

// String returns the keymap name of the event, e.g. "e", "shift+tab",
// "ctrl+c" or "enter". Unknown keys map to "".
func (e Event) String() string {
	if e.Key == tcell.KeyRune {
		r := e.Rune
		switch {
		case e.Mod&tcell.ModCtrl != 0:
			return "ctrl+" + strings.ToLower(string(r))
		case e.Mod&tcell.ModAlt != 0:
			return "alt+" + string(r)
		case r == ' ':
			return "space"
		}
		return string(r)
	}
	// Named keys first: on some tcell versions KeyTab, KeyEnter and
	// KeyBackspace share codes with ctrl+i, ctrl+m and ctrl+h.
	switch e.Key {
	case tcell.KeyTab:
		if e.Mod&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	}
	if name := ctrlKeyName(e.Key); name != "" {
		return name
	}
	name := ""
	switch e.Key {
	case tcell.KeyUp:
		name = "up"
	case tcell.KeyDown:
		name = "down"
	case tcell.KeyLeft:
		name = "left"
	case tcell.KeyRight:
		name = "right"
	case tcell.KeyPgUp:
		name = "pgup"
	case tcell.KeyPgDn:
		name = "pgdn"
	case tcell.KeyHome:
		name = "home"
	case tcell.KeyEnd:
		name = "end"
	case tcell.KeyDelete:
		name = "del"
	default:
		return ""
	}
	if e.Mod&tcell.ModCtrl != 0 {
		return "ctrl+" + name
	}
	if e.Mod&tcell.ModAlt != 0 {
		return "alt+" + name
	}
	return name
}

func ctrlKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyCtrlA:
		return "ctrl+a"
	case tcell.KeyCtrlB:
		return "ctrl+b"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyCtrlD:
		return "ctrl+d"
	case tcell.KeyCtrlE:
		return "ctrl+e"
	case tcell.KeyCtrlF:
		return "ctrl+f"
	case tcell.KeyCtrlG:
		return "ctrl+g"
	case tcell.KeyCtrlJ:
		return "ctrl+j"
	case tcell.KeyCtrlK:
		return "ctrl+k"
	case tcell.KeyCtrlL:
		return "ctrl+l"
	case tcell.KeyCtrlN:
		return "ctrl+n"
	case tcell.KeyCtrlO:
		return "ctrl+o"
	case tcell.KeyCtrlP:
		return "ctrl+p"
	case tcell.KeyCtrlQ:
		return "ctrl+q"
	case tcell.KeyCtrlR:
		return "ctrl+r"
	case tcell.KeyCtrlS:
		return "ctrl+s"
	case tcell.KeyCtrlT:
		return "ctrl+t"
	case tcell.KeyCtrlU:
		return "ctrl+u"
	case tcell.KeyCtrlV:
		return "ctrl+v"
	case tcell.KeyCtrlW:
		return "ctrl+w"
	case tcell.KeyCtrlX:
		return "ctrl+x"
	case tcell.KeyCtrlY:
		return "ctrl+y"
	case tcell.KeyCtrlZ:
		return "ctrl+z"
	}
	return ""
}
