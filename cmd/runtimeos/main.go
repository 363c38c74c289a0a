// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ezrec/runtimeos/config"
	"github.com/ezrec/runtimeos/host"
	"github.com/ezrec/runtimeos/kernel"
	"github.com/ezrec/runtimeos/translate"
)

//go:embed initrd
var _initrd embed.FS

const (
	FRAME_INTERVAL = 16 * time.Millisecond
	IDLE_INTERVAL  = time.Millisecond
)

func main() {
	var configPath string
	var initrd string
	var initPath string
	var serialPath string
	var verbose bool

	flag.StringVar(&configPath, "config", "", "TOML machine configuration")
	flag.StringVar(&initrd, "initrd", "", "Boot image directory (default: built in)")
	flag.StringVar(&initPath, "init", "init.star", "Init script, if not set by the configuration")
	flag.StringVar(&serialPath, "serial", "", "File receiving serial line output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("%v: %v", configPath, err)
	}

	cfg.Verbose = cfg.Verbose || verbose
	if len(cfg.Boot.Init) == 0 {
		cfg.Boot.Init = initPath
	}

	if len(cfg.Locale) != 0 {
		err = translate.SetLanguage(cfg.Locale)
		if err != nil {
			log.Fatalf("locale %v: %v", cfg.Locale, err)
		}
	}

	m := host.NewMachine(cfg)
	m.Verbose = cfg.Verbose

	if len(initrd) == 0 {
		m.Assets, err = fs.Sub(_initrd, "initrd")
		if err != nil {
			log.Fatalf("initrd: %v", err)
		}
	} else {
		m.Assets = os.DirFS(initrd)
	}

	if len(serialPath) != 0 {
		ouf, err := os.Create(serialPath)
		if err != nil {
			log.Fatalf("%v: %v", serialPath, err)
		}
		defer ouf.Close()
		m.Uart.Output = ouf
	}

	k, err := kernel.NewKernel(m, cfg)
	if err != nil {
		log.Fatalf("kernel: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}

	err = screen.Init()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}

	err = k.Boot()
	if err != nil {
		screen.Fini()
		log.Fatalf("%v", err)
	}

	run(screen, m, k)

	screen.Fini()
}

// run ticks the kernel until the user quits, feeding it terminal keys and
// redrawing the framebuffer once per frame.
func run(screen tcell.Screen, m *host.Machine, k *kernel.Kernel) {
	d := &display{screen: screen, console: k.Console}

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	frame := time.NewTicker(FRAME_INTERVAL)
	defer frame.Stop()

	d.draw()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return
				}
				if codes, ok := scancodes(ev.Key(), ev.Rune()); ok {
					m.Press(codes...)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-frame.C:
			d.draw()
		default:
			if !k.Tick() {
				time.Sleep(IDLE_INTERVAL)
			}
		}
	}
}
