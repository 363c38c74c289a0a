package main

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/ezrec/runtimeos/console"
	"github.com/ezrec/runtimeos/keymap"
)

// VGA color index to ANSI palette index.
var _vga_palette = [16]int{0, 4, 2, 6, 1, 5, 3, 7, 8, 12, 10, 14, 9, 13, 11, 15}

// cellStyle converts a VGA attribute to a terminal style.
func cellStyle(attr uint8) tcell.Style {
	fg := tcell.PaletteColor(_vga_palette[attr&0x0F])
	bg := tcell.PaletteColor(_vga_palette[(attr>>4)&0x07])
	return tcell.StyleDefault.Foreground(fg).Background(bg)
}

// display mirrors a console framebuffer onto a terminal screen.
type display struct {
	screen  tcell.Screen
	console *console.Console
}

func (d *display) draw() {
	con := d.console
	for row := range con.Rows() {
		for col := range con.Cols() {
			cell := con.Cell(row, col)
			ch := rune(cell & 0xFF)
			if ch < ' ' {
				ch = ' '
			}
			d.screen.SetContent(col, row, ch, nil, cellStyle(uint8(cell>>8)))
		}
	}

	cursor := con.Position()
	d.screen.ShowCursor(cursor.Col, cursor.Row)
	d.screen.Show()
}

// scancodes returns the make and break codes of a terminal key.
func scancodes(key tcell.Key, ch rune) (codes []uint8, ok bool) {
	var r rune
	switch {
	case key == tcell.KeyEnter:
		r = keymap.KEY_ENTER
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		r = keymap.KEY_BACKSPACE
	case key == tcell.KeyTab:
		r = '\t'
	case key == tcell.KeyRune:
		r = unicode.ToLower(ch)
	default:
		return
	}

	code, ok := keymap.Scancode(r)
	if !ok {
		return
	}

	codes = []uint8{code, code | keymap.KEY_RELEASE}
	return
}
