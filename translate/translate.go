// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats user visible messages in the language of the
// current user.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	mutex   sync.Mutex
	printer *message.Printer
)

func defaultPrinter() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("runtimeos: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	return message.NewPrinter(message.MatchLanguage(locales...))
}

func current() *message.Printer {
	mutex.Lock()
	defer mutex.Unlock()

	if printer == nil {
		printer = defaultPrinter()
	}

	return printer
}

// SetLanguage overrides the language chosen from the user's locale.
// An empty tag restores the locale default.
func SetLanguage(tag string) (err error) {
	var p *message.Printer
	if len(tag) != 0 {
		var lang language.Tag
		lang, err = language.Parse(tag)
		if err != nil {
			return
		}
		p = message.NewPrinter(lang)
	} else {
		p = defaultPrinter()
	}

	mutex.Lock()
	printer = p
	mutex.Unlock()

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return current().Sprintf(key, args...)
}
