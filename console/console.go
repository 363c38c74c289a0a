// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package console renders text into a memory mapped text mode framebuffer.
package console

import (
	"encoding/binary"
	"strings"
)

const (
	CONSOLE_BASE  = 0xB8000 // Physical address of the text mode framebuffer.
	CONSOLE_COLS  = 80      // Default columns per row.
	CONSOLE_ROWS  = 25      // Default rows.
	CELL_BYTES    = 2       // Bytes per cell: character, then attribute.
	COLOR_DEFAULT = 0x0A    // Light green on black.
	COLOR_BANNER  = 0x0C    // Light red on black.
)

// Cursor is the position of the next character.
type Cursor struct {
	Row int
	Col int
}

// Console is a scrolling text console over a framebuffer view.
// Each cell is a little endian uint16 of (color << 8 | character).
type Console struct {
	Color uint8 // Attribute for newly written cells.

	view   []byte
	rows   int
	cols   int
	cursor Cursor
	wrap   bool // Last column written, wrap before the next character.
}

// NewConsole creates a console over the framebuffer view, with as many rows
// of cols cells as the view holds.
func NewConsole(view []byte, cols int) (con *Console) {
	if cols <= 0 || len(view) < cols*CELL_BYTES {
		panic(ErrGeometry)
	}

	con = &Console{
		Color: COLOR_DEFAULT,
		view:  view,
		rows:  len(view) / (cols * CELL_BYTES),
		cols:  cols,
	}

	return
}

// Rows returns the number of rows.
func (con *Console) Rows() int {
	return con.rows
}

// Cols returns the number of columns.
func (con *Console) Cols() int {
	return con.cols
}

// Position returns the cursor.
func (con *Console) Position() Cursor {
	return con.cursor
}

// SetPosition moves the cursor, clamped to the screen.
func (con *Console) SetPosition(row, col int) {
	con.cursor.Row = min(max(row, 0), con.rows-1)
	con.cursor.Col = min(max(col, 0), con.cols-1)
	con.wrap = false
}

// StartOfLine moves the cursor to the first column of the current row.
func (con *Console) StartOfLine() {
	con.cursor.Col = 0
	con.wrap = false
}

func (con *Console) index(row, col int) int {
	return (row*con.cols + col) * CELL_BYTES
}

// Cell returns the raw cell at a position.
func (con *Console) Cell(row, col int) (cell uint16) {
	if row < 0 || row >= con.rows || col < 0 || col >= con.cols {
		return
	}

	return binary.LittleEndian.Uint16(con.view[con.index(row, col):])
}

// Line returns the characters of a row, with empty cells as spaces and
// trailing spaces removed.
func (con *Console) Line(row int) string {
	var sb strings.Builder
	for col := range con.cols {
		c := byte(con.Cell(row, col))
		if c == 0 {
			c = ' '
		}
		sb.WriteByte(c)
	}

	return strings.TrimRight(sb.String(), " ")
}

// PutChar writes a character at the cursor without moving it.
func (con *Console) PutChar(c byte) {
	cell := uint16(con.Color)<<8 | uint16(c)
	binary.LittleEndian.PutUint16(con.view[con.index(con.cursor.Row, con.cursor.Col):], cell)
}

func (con *Console) writeChar(c byte) {
	if con.wrap {
		con.Newline()
	}

	con.PutChar(c)

	if con.cursor.Col == con.cols-1 {
		con.wrap = true
	} else {
		con.cursor.Col++
	}
}

// WriteString writes text at the cursor. Characters outside of Latin-1 are
// shown as '?'.
func (con *Console) WriteString(text string) (n int, err error) {
	for _, r := range text {
		switch {
		case r == '\n':
			con.Newline()
		case r > 0xFF:
			con.writeChar('?')
		default:
			con.writeChar(byte(r))
		}
	}

	return len(text), nil
}

// Write implements io.Writer. Bytes are written as characters.
func (con *Console) Write(p []byte) (n int, err error) {
	for _, c := range p {
		if c == '\n' {
			con.Newline()
		} else {
			con.writeChar(c)
		}
	}

	return len(p), nil
}

// Newline moves to the start of the next row. Reaching the second to last
// row scrolls the screen up instead.
func (con *Console) Newline() {
	con.wrap = false
	con.cursor.Row++
	con.cursor.Col = 0

	if con.cursor.Row >= con.rows-1 {
		con.Scroll()
		con.cursor.Row = max(con.cursor.Row-1, 0)
	}
}

// Scroll moves every row up by one and blanks the last row.
func (con *Console) Scroll() {
	stride := con.cols * CELL_BYTES
	size := con.rows * stride

	copy(con.view[:size-stride], con.view[stride:size])
	clear(con.view[size-stride : size])
}

// Backspace erases the character before the cursor. It does nothing at the
// start of a row.
func (con *Console) Backspace() {
	if con.wrap {
		// The cursor is held on the last column, which is the one to erase.
		con.wrap = false
		con.PutChar(' ')
		return
	}

	if con.cursor.Col == 0 {
		return
	}

	con.cursor.Col--
	con.PutChar(' ')
}

// Clear zeroes the framebuffer and homes the cursor.
func (con *Console) Clear() {
	clear(con.view[:con.rows*con.cols*CELL_BYTES])
	con.cursor = Cursor{}
	con.wrap = false
}
