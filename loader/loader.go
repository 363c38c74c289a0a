// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package loader loads Starlark modules from the boot image, executing each
// module at most once.
package loader

import (
	"iter"
	"log"
	"maps"
	"slices"
	"strings"

	"go.starlark.net/starlark"

	"github.com/ezrec/runtimeos/host"
)

// Executor runs source against a context of globals.
type Executor interface {
	Exec(globals starlark.StringDict, path string, src []byte) (value starlark.Value, err error)
}

// Record is the cache entry of a module.
type Record struct {
	Path    string         // Normalized path.
	Exports starlark.Value // Value of module.exports once loaded.
	Loaded  bool           // Set once execution has completed.
	Err     error          // Failure of the first load, returned to every caller.
}

// Loader is a module cache keyed by normalized path.
type Loader struct {
	Verbose  bool
	Assets   host.Assets
	Executor Executor

	cache map[string]*Record
}

// NewLoader creates a loader reading from assets and executing with ex.
func NewLoader(assets host.Assets, ex Executor) (ld *Loader) {
	ld = &Loader{
		Assets:   assets,
		Executor: ex,
		cache:    map[string]*Record{},
	}

	return
}

// Normalize makes a module path absolute. No other rewriting is done, so
// "/a" and "a" share a record but "./a" does not.
func Normalize(name string) string {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}

	return name
}

// Record returns the cache entry of a module.
func (ld *Loader) Record(name string) (record *Record, ok bool) {
	record, ok = ld.cache[Normalize(name)]
	return
}

// Paths returns the normalized paths of all cached modules, sorted.
func (ld *Loader) Paths() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(ld.cache)))
}

// Require returns the exports of a module, loading and executing it on
// first use. The module runs in a fresh context holding only require,
// module and exports, where exports is the initial value of module.exports.
func (ld *Loader) Require(name string) (exports starlark.Value, err error) {
	name = Normalize(name)

	if record, ok := ld.cache[name]; ok {
		switch {
		case record.Err != nil:
			err = record.Err
		case !record.Loaded:
			err = &ErrModule{Path: name, Err: ErrRequireCycle}
		default:
			exports = record.Exports
		}
		return
	}

	if ld.Verbose {
		log.Printf("loader: require %v", name)
	}

	record := &Record{Path: name}
	ld.cache[name] = record
	defer func() {
		if err != nil {
			record.Err = err
		}
	}()

	src, err := ld.Assets.Load(name)
	if err != nil {
		err = &ErrModule{Path: name, Err: err}
		return
	}

	module := NewModule(name)
	globals := starlark.StringDict{
		"require": ld.Builtin(),
		"module":  module,
		"exports": module.Exports,
	}

	_, err = ld.Executor.Exec(globals, name, src)
	if err != nil {
		err = &ErrModule{Path: name, Err: err}
		return
	}

	module.Freeze()

	record.Exports = module.Exports
	record.Loaded = true
	exports = record.Exports

	return
}

// Builtin returns require() as a Starlark function.
func (ld *Loader) Builtin() *starlark.Builtin {
	return starlark.NewBuiltin("require", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		return ld.Require(name)
	})
}
