// Package textedit implements the single-line buffer behind the message input.
//
// Three index spaces meet here: byte offsets into the UTF-8 storage, codepoint
// positions (what the cursor counts) and terminal display columns (what the
// screen needs). Only ByteOffset and CursorColumn translate between them.
package textedit

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// widthCond is fixed rather than taken from the locale so that ambiguous-width
// runes measure the same regardless of RUNEWIDTH_EASTASIAN or LANG.
var widthCond = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// RuneWidth returns the number of terminal columns r occupies: 0, 1 or 2.
func RuneWidth(r rune) int {
	return widthCond.RuneWidth(r)
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// Buffer holds the line being typed and a cursor that addresses the gap
// between two codepoints.
type Buffer struct {
	text   string
	cursor int
}

func New() *Buffer {
	return &Buffer{}
}

// Text returns the current contents.
func (b *Buffer) Text() string {
	return b.text
}

// Cursor returns the cursor as a codepoint position in [0, Len()].
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Len returns the number of codepoints, not bytes.
func (b *Buffer) Len() int {
	return utf8.RuneCountInString(b.text)
}

func (b *Buffer) IsEmpty() bool {
	return b.text == ""
}

// ByteOffset returns the storage offset of the cursor.
func (b *Buffer) ByteOffset() int {
	return byteOffset(b.text, b.cursor)
}

// InsertRune inserts r at the cursor and advances the cursor past it.
func (b *Buffer) InsertRune(r rune) {
	off := b.ByteOffset()
	var sb strings.Builder
	sb.Grow(len(b.text) + utf8.UTFMax)
	sb.WriteString(b.text[:off])
	sb.WriteRune(r)
	sb.WriteString(b.text[off:])
	b.text = sb.String()
	b.cursor = b.clamp(b.cursor + 1)
}

// InsertString inserts s rune by rune, as if typed.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.InsertRune(r)
	}
}

// DeleteBackward removes the codepoint before the cursor. The text is rebuilt
// from the runes on either side so a multi-byte rune is never split.
func (b *Buffer) DeleteBackward() bool {
	if b.cursor == 0 {
		return false
	}
	runes := []rune(b.text)
	pos := b.clamp(b.cursor)
	rebuilt := make([]rune, 0, len(runes)-1)
	rebuilt = append(rebuilt, runes[:pos-1]...)
	rebuilt = append(rebuilt, runes[pos:]...)
	b.text = string(rebuilt)
	b.cursor = b.clamp(pos - 1)
	return true
}

// DeleteWordBackward removes the word before the cursor together with any
// spaces between it and the cursor.
func (b *Buffer) DeleteWordBackward() bool {
	if b.cursor == 0 {
		return false
	}
	runes := []rune(b.text)
	end := b.clamp(b.cursor)
	start := end
	for start > 0 && isSpace(runes[start-1]) {
		start--
	}
	for start > 0 && !isSpace(runes[start-1]) {
		start--
	}
	b.text = string(runes[:start]) + string(runes[end:])
	b.cursor = b.clamp(start)
	return true
}

func (b *Buffer) MoveLeft() bool {
	old := b.cursor
	if b.cursor > 0 {
		b.cursor--
	}
	b.cursor = b.clamp(b.cursor)
	return b.cursor != old
}

func (b *Buffer) MoveRight() bool {
	old := b.cursor
	b.cursor = b.clamp(b.cursor + 1)
	return b.cursor != old
}

func (b *Buffer) MoveHome() bool {
	old := b.cursor
	b.cursor = 0
	return b.cursor != old
}

func (b *Buffer) MoveEnd() bool {
	old := b.cursor
	b.cursor = b.Len()
	return b.cursor != old
}

// SetText replaces the contents and puts the cursor at the end. Invalid UTF-8
// is replaced with U+FFFD so every stored byte belongs to a counted rune.
func (b *Buffer) SetText(s string) {
	b.text = strings.ToValidUTF8(s, "\uFFFD")
	b.cursor = b.Len()
}

// Reset clears the text and moves the cursor to 0.
func (b *Buffer) Reset() {
	b.text = ""
	b.cursor = 0
}

// Take returns the contents and resets the buffer.
func (b *Buffer) Take() string {
	s := b.text
	b.Reset()
	return s
}

// CursorColumn returns the terminal column of the cursor relative to the first
// rune. It differs from Cursor whenever a preceding rune is not one column wide.
func (b *Buffer) CursorColumn() int {
	col := 0
	i := 0
	for _, r := range b.text {
		if i == b.cursor {
			break
		}
		col += RuneWidth(r)
		i++
	}
	return col
}

// Width returns the display width of the whole line.
func (b *Buffer) Width() int {
	return StringWidth(b.text)
}

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if n := b.Len(); pos > n {
		return n
	}
	return pos
}

// byteOffset maps a codepoint position to a byte offset, clamping to len(s).
func byteOffset(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	i := 0
	for off := range s {
		if i == pos {
			return off
		}
		i++
	}
	return len(s)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
