package host

import (
	"errors"

	"github.com/ezrec/runtimeos/translate"
)

var f = translate.From

var (
	ErrPortBusy  = errors.New(f("port already attached"))
	ErrNoAssets  = errors.New(f("no boot image"))
	ErrAssetPath = errors.New(f("asset path invalid"))
)

// ErrUnmapped indicates a physical memory range not backed by any region.
type ErrUnmapped struct {
	Base   uint64
	Length int
}

func (err *ErrUnmapped) Error() string {
	return f("memory %#x+%#x unmapped", err.Base, err.Length)
}

// ErrAsset indicates an asset that could not be loaded.
type ErrAsset struct {
	Path string
	Err  error
}

func (err *ErrAsset) Error() string {
	return f("asset %v: %v", err.Path, err.Err)
}

func (err *ErrAsset) Unwrap() error {
	return err.Err
}
