package config

import (
	"github.com/ezrec/runtimeos/translate"
)

var f = translate.From

// ErrUnknownKey lists configuration keys that are not understood.
type ErrUnknownKey string

func (err ErrUnknownKey) Error() string {
	return f("unknown configuration key %v", string(err))
}

// ErrInvalid indicates an unusable configuration value.
type ErrInvalid struct {
	Key   string
	Value any
}

func (err *ErrInvalid) Error() string {
	return f("configuration %v invalid: %v", err.Key, err.Value)
}
