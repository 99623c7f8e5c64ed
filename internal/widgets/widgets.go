// Package widgets implements the focusable sections of the chat screen.
//
// Each widget handles key events only while the focus router has made its
// section active, and tells the router through Result when it wants focus
// released.
package widgets

// Result tells the focus router what to do after a key was handled.
type Result int

const (
	ResultOk Result = iota
	ResultLoseFocus
)

func (r Result) String() string {
	if r == ResultLoseFocus {
		return "lose-focus"
	}
	return "ok"
}
