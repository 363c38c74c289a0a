package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestConsole(rows, cols int) (con *Console, view []byte) {
	view = make([]byte, rows*cols*CELL_BYTES)
	con = NewConsole(view, cols)
	return
}

func TestNewConsole(t *testing.T) {
	assert := assert.New(t)

	con, _ := newTestConsole(CONSOLE_ROWS, CONSOLE_COLS)
	assert.Equal(CONSOLE_ROWS, con.Rows())
	assert.Equal(CONSOLE_COLS, con.Cols())
	assert.Equal(uint8(COLOR_DEFAULT), con.Color)
	assert.Equal(Cursor{}, con.Position())

	assert.PanicsWithValue(ErrGeometry, func() { NewConsole(make([]byte, 10), 80) })
	assert.PanicsWithValue(ErrGeometry, func() { NewConsole(make([]byte, 10), 0) })
}

func TestConsole_Write(t *testing.T) {
	assert := assert.New(t)

	con, view := newTestConsole(5, 10)
	con.WriteString("hi")

	assert.Equal(Cursor{Row: 0, Col: 2}, con.Position())
	assert.Equal(uint16(COLOR_DEFAULT)<<8|'h', con.Cell(0, 0))
	assert.Equal(uint16(COLOR_DEFAULT)<<8|'i', con.Cell(0, 1))
	assert.Equal([]byte{'h', COLOR_DEFAULT, 'i', COLOR_DEFAULT}, view[:4])

	con.Color = COLOR_BANNER
	n, err := con.Write([]byte("!\nok"))
	assert.NoError(err)
	assert.Equal(4, n)
	assert.Equal(uint16(COLOR_BANNER)<<8|'!', con.Cell(0, 2))
	assert.Equal("hi!", con.Line(0))
	assert.Equal("ok", con.Line(1))
	assert.Equal(Cursor{Row: 1, Col: 2}, con.Position())
}

func TestConsole_WriteNonLatin(t *testing.T) {
	assert := assert.New(t)

	con, _ := newTestConsole(3, 10)
	con.WriteString("é€")
	assert.Equal(uint16(COLOR_DEFAULT)<<8|0xE9, con.Cell(0, 0))
	assert.Equal(uint16(COLOR_DEFAULT)<<8|'?', con.Cell(0, 1))
}

func TestConsole_Wrap(t *testing.T) {
	assert := assert.New(t)

	con, _ := newTestConsole(5, 4)
	con.WriteString("abcd")

	// Cursor holds on the last column until the next character.
	assert.Equal(Cursor{Row: 0, Col: 3}, con.Position())

	con.WriteString("e")
	assert.Equal("abcd", con.Line(0))
	assert.Equal("e", con.Line(1))
	assert.Equal(Cursor{Row: 1, Col: 1}, con.Position())

	// A full row followed by a newline uses exactly one row.
	con.Clear()
	con.WriteString("abcd\nefgh\ni")
	assert.Equal("abcd", con.Line(0))
	assert.Equal("efgh", con.Line(1))
	assert.Equal("i", con.Line(2))
}

func TestConsole_CursorBounds(t *testing.T) {
	assert := assert.New(t)

	rows, cols := 6, 7
	con, _ := newTestConsole(rows, cols)

	text := strings.Repeat("the quick brown fox\njumps\n\n", 20)
	for _, r := range text {
		con.WriteString(string(r))
		pos := con.Position()
		assert.GreaterOrEqual(pos.Col, 0)
		assert.Less(pos.Col, cols)
		assert.GreaterOrEqual(pos.Row, 0)
		assert.Less(pos.Row, rows)
	}
}

func TestConsole_ScrollWindow(t *testing.T) {
	assert := assert.New(t)

	rows, cols := CONSOLE_ROWS, CONSOLE_COLS
	con, _ := newTestConsole(rows, cols)

	lines := make([]string, rows)
	for n := range lines {
		lines[n] = strings.Repeat(string(rune('A'+n)), cols)
	}
	con.WriteString(strings.Join(lines, "\n"))

	// The first line is evicted, the last rows-1 lines remain.
	for row := range rows - 1 {
		assert.Equal(lines[row+1], con.Line(row), "row %d", row)
	}
	assert.Equal("", con.Line(rows-1))
}

func TestConsole_Newline(t *testing.T) {
	assert := assert.New(t)

	con, _ := newTestConsole(4, 5)
	con.WriteString("a\nb\nc")
	assert.Equal(Cursor{Row: 2, Col: 1}, con.Position())

	con.Newline()
	assert.Equal(Cursor{Row: 2, Col: 0}, con.Position())
	assert.Equal("b", con.Line(0))
	assert.Equal("c", con.Line(1))
	assert.Equal("", con.Line(2))
	assert.Equal(uint16(0), con.Cell(3, 0))
}

func TestConsole_Backspace(t *testing.T) {
	assert := assert.New(t)

	con, view := newTestConsole(3, 8)

	// Column 0 is a no-op.
	before := append([]byte(nil), view...)
	con.Backspace()
	assert.Equal(before, view)
	assert.Equal(Cursor{}, con.Position())

	con.WriteString("abc")
	con.Backspace()
	assert.Equal(Cursor{Row: 0, Col: 2}, con.Position())
	assert.Equal(uint16(COLOR_DEFAULT)<<8|' ', con.Cell(0, 2))
	assert.Equal("ab", con.Line(0))

	con.Backspace()
	con.Backspace()
	assert.Equal(Cursor{}, con.Position())
	con.Backspace()
	assert.Equal(Cursor{}, con.Position())
}

func TestConsole_BackspaceLastColumn(t *testing.T) {
	assert := assert.New(t)

	con, _ := newTestConsole(3, 4)
	con.WriteString("abcd")
	con.Backspace()

	assert.Equal("abc", con.Line(0))
	assert.Equal(Cursor{Row: 0, Col: 3}, con.Position())

	con.WriteString("x")
	assert.Equal("abcx", con.Line(0))
	assert.Equal("", con.Line(1))
}

func TestConsole_Clear(t *testing.T) {
	assert := assert.New(t)

	con, view := newTestConsole(3, 4)
	con.WriteString("hello\nworld")
	con.Clear()

	assert.Equal(make([]byte, len(view)), view)
	assert.Equal(Cursor{}, con.Position())
}

func TestConsole_SetPosition(t *testing.T) {
	assert := assert.New(t)

	con, _ := newTestConsole(3, 4)
	con.SetPosition(10, 10)
	assert.Equal(Cursor{Row: 2, Col: 3}, con.Position())

	con.SetPosition(-1, -1)
	assert.Equal(Cursor{}, con.Position())

	con.SetPosition(1, 2)
	con.PutChar('z')
	assert.Equal(Cursor{Row: 1, Col: 2}, con.Position())
	assert.Equal("  z", con.Line(1))

	con.StartOfLine()
	assert.Equal(Cursor{Row: 1, Col: 0}, con.Position())

	assert.Equal(uint16(0), con.Cell(5, 5))
}
