package console

import (
	"errors"

	"github.com/ezrec/runtimeos/translate"
)

var f = translate.From

var (
	// ErrGeometry is raised when a framebuffer view cannot hold a single row.
	ErrGeometry = errors.New(f("framebuffer too small"))
)
