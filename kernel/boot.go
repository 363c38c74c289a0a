package kernel

import (
	"fmt"
	"log"

	"github.com/ezrec/runtimeos/console"
	"github.com/ezrec/runtimeos/loader"
)

var _banner = []string{
	`  _____             _   _                `,
	` |  __ \           | | (_)               `,
	` | |__) |   _ _ __ | |_ _ _ __ ___   ___ `,
	` |  _  / | | | '_ \| __| | '_ ` + "`" + ` _ \ / _ \`,
	` | | \ \ |_| | | | | |_| | | | | | |  __/`,
	` |_|  \_\__,_|_| |_|\__|_|_| |_| |_|\___|`,
}

// Boot programs the serial line, clears the screen, greets the user, runs
// the init script and shows the first prompt.
//
// The init script runs with the console globals, so its top level bindings
// remain visible at the prompt.
func (k *Kernel) Boot() (err error) {
	cfg := &k.Config

	k.Serial.Init(k.receive)
	k.Console.Clear()
	k.line = k.line[:0]

	if cfg.Console.Banner {
		k.Console.Color = console.COLOR_BANNER
		for _, line := range _banner {
			fmt.Fprintln(k.Output, line)
		}
		k.Console.Color = cfg.Console.Color
		fmt.Fprintln(k.Output)
	}

	if cfg.Console.Greeting != "" {
		fmt.Fprintln(k.Output, cfg.Console.Greeting)
	}

	if cfg.Boot.Init != "" {
		err = k.runInit(loader.Normalize(cfg.Boot.Init))
		if err != nil {
			return
		}
	}

	k.Prompt()

	return
}

func (k *Kernel) runInit(path string) (err error) {
	if k.Verbose {
		log.Printf("kernel: init %v", path)
	}

	src, err := k.Host.Load(path)
	if err == nil {
		_, err = k.Executor.Exec(k.Session.Globals, path, src)
	}

	if err != nil {
		err = &ErrBoot{Path: path, Err: err}
	}

	return
}
