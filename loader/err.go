package loader

import (
	"errors"

	"github.com/ezrec/runtimeos/translate"
)

var f = translate.From

var (
	ErrRequireCycle = errors.New(f("require cycle"))
	ErrModuleFrozen = errors.New(f("module is frozen"))
	ErrUnhashable   = errors.New(f("unhashable type: module"))
)

// ErrModule indicates a module that could not be loaded.
type ErrModule struct {
	Path string
	Err  error
}

func (err *ErrModule) Error() string {
	return f("module %v: %v", err.Path, err.Err)
}

func (err *ErrModule) Unwrap() error {
	return err.Err
}
