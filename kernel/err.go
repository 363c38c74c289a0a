package kernel

import (
	"errors"

	"github.com/ezrec/runtimeos/translate"
)

var f = translate.From

var (
	ErrIRQReserved = errors.New(f("interrupt line reserved for the keyboard"))
)

// ErrBoot indicates the init script could not be run.
type ErrBoot struct {
	Path string
	Err  error
}

func (err *ErrBoot) Error() string {
	return f("boot %v: %v", err.Path, err.Err)
}

func (err *ErrBoot) Unwrap() error {
	return err.Err
}
