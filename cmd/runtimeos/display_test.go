package main

import (
	"testing"
	"testing/fstest"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/runtimeos/config"
	"github.com/ezrec/runtimeos/console"
	"github.com/ezrec/runtimeos/host"
	"github.com/ezrec/runtimeos/kernel"
	"github.com/ezrec/runtimeos/keymap"
)

func TestCellStyle(t *testing.T) {
	assert := assert.New(t)

	style := tcell.StyleDefault.Foreground(tcell.PaletteColor(10)).Background(tcell.PaletteColor(0))
	assert.Equal(style, cellStyle(console.COLOR_DEFAULT))

	style = tcell.StyleDefault.Foreground(tcell.PaletteColor(9)).Background(tcell.PaletteColor(4))
	assert.Equal(style, cellStyle(0x1C))

	style = tcell.StyleDefault.Foreground(tcell.PaletteColor(15)).Background(tcell.PaletteColor(7))
	assert.Equal(style, cellStyle(0xFF))
}

func TestDisplay(t *testing.T) {
	assert := assert.New(t)

	screen := tcell.NewSimulationScreen("UTF-8")
	assert.NoError(screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 25)

	view := make([]byte, 80*25*console.CELL_BYTES)
	con := console.NewConsole(view, 80)
	con.WriteString("hi\nthere")

	d := &display{screen: screen, console: con}
	d.draw()

	cells, width, height := screen.GetContents()
	assert.Equal(80, width)
	assert.Equal(25, height)

	cell := func(x, y int) tcell.SimCell {
		return cells[y*width+x]
	}

	assert.Equal([]rune{'h'}, cell(0, 0).Runes)
	assert.Equal(cellStyle(console.COLOR_DEFAULT), cell(0, 0).Style)
	assert.Equal([]rune{'e'}, cell(4, 1).Runes)
	assert.Equal([]rune{' '}, cell(79, 24).Runes)
}

func TestScancodes(t *testing.T) {
	assert := assert.New(t)

	a, _ := keymap.Scancode('a')
	enter, _ := keymap.Scancode(keymap.KEY_ENTER)
	backspace, _ := keymap.Scancode(keymap.KEY_BACKSPACE)

	table := []struct {
		name  string
		key   tcell.Key
		ch    rune
		codes []uint8
	}{
		{"rune", tcell.KeyRune, 'a', []uint8{a, a | keymap.KEY_RELEASE}},
		{"upper", tcell.KeyRune, 'A', []uint8{a, a | keymap.KEY_RELEASE}},
		{"enter", tcell.KeyEnter, 0, []uint8{enter, enter | keymap.KEY_RELEASE}},
		{"backspace", tcell.KeyBackspace2, 0, []uint8{backspace, backspace | keymap.KEY_RELEASE}},
		{"unmapped", tcell.KeyRune, '!', nil},
		{"function", tcell.KeyF1, 0, nil},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			codes, ok := scancodes(entry.key, entry.ch)
			assert.Equal(entry.codes != nil, ok)
			assert.Equal(entry.codes, codes)
		})
	}
}

func TestInitrd(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Boot.Init = "init.star"

	assets := fstest.MapFS{}
	for _, name := range []string{"init.star", "lib/greet", "motd.txt"} {
		data, err := _initrd.ReadFile("initrd/" + name)
		assert.NoError(err)
		assets[name] = &fstest.MapFile{Data: data}
	}

	m := host.NewMachine(cfg)
	m.Assets = assets

	k, err := kernel.NewKernel(m, cfg)
	assert.NoError(err)
	assert.NoError(k.Boot())

	assert.Equal("Welcome to Runtime", k.Console.Line(0))
	assert.Equal("Hello from Runtime!", k.Console.Line(1))
	assert.Equal("serial line at 0x3f8, irq 4", k.Console.Line(2))
	assert.Equal("runtime >", k.Console.Line(3))

	display, err := k.Evaluator.Evaluate("uptime()")
	assert.NoError(err)
	assert.Equal("0 ticks", display)
}
