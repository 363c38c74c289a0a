package script

import (
	"github.com/ezrec/runtimeos/translate"
)

var f = translate.From

// ErrContextKey indicates a context entry whose key is not a string.
type ErrContextKey struct {
	Key string
}

func (err *ErrContextKey) Error() string {
	return f("context key %v is not a string", err.Key)
}
