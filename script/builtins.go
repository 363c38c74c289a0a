package script

import (
	"iter"

	"go.starlark.net/starlark"

	"github.com/ezrec/runtimeos/host"
)

// HostBuiltins returns the host primitives as Starlark functions:
//
//	inb(port) -> int
//	outb(port, value)
//	reg(index) -> int
//	asset(path) -> string
//	poll() -> int or None
func HostBuiltins(h host.Host) starlark.StringDict {
	return starlark.StringDict{
		"inb": starlark.NewBuiltin("inb", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var port uint16
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &port); err != nil {
				return nil, err
			}
			return starlark.MakeInt(int(h.In(port))), nil
		}),
		"outb": starlark.NewBuiltin("outb", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var port uint16
			var value uint8
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &port, &value); err != nil {
				return nil, err
			}
			h.Out(port, value)
			return starlark.None, nil
		}),
		"reg": starlark.NewBuiltin("reg", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var index int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &index); err != nil {
				return nil, err
			}
			return starlark.MakeUint64(h.Register(index)), nil
		}),
		"asset": starlark.NewBuiltin("asset", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var path string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &path); err != nil {
				return nil, err
			}
			data, err := h.Load(path)
			if err != nil {
				return nil, err
			}
			return starlark.String(data), nil
		}),
		"poll": starlark.NewBuiltin("poll", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}
			line, ok := h.Poll()
			if !ok {
				return starlark.None, nil
			}
			return starlark.MakeInt(line), nil
		}),
	}
}

// ExecBuiltin returns exec(ctx, path, src) as a Starlark function. The source
// runs against a copy of the ctx dict, so it sees only the names it was
// given and its bindings are discarded. The value of a single expression
// source is returned, otherwise None.
func ExecBuiltin(ex *Executor) *starlark.Builtin {
	return starlark.NewBuiltin("exec", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var ctx *starlark.Dict
		var path, src string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &ctx, &path, &src); err != nil {
			return nil, err
		}

		globals, err := Context(ctx)
		if err != nil {
			return nil, err
		}

		return ex.Exec(globals, path, []byte(src))
	})
}

// Context copies a Starlark dict with string keys into a fresh set of globals.
func Context(dict *starlark.Dict) (globals starlark.StringDict, err error) {
	globals = make(starlark.StringDict, dict.Len())
	for _, item := range dict.Items() {
		key, ok := item[0].(starlark.String)
		if !ok {
			err = &ErrContextKey{Key: item[0].String()}
			return
		}
		globals[string(key)] = item[1]
	}
	return
}

// Constants converts a sequence of named integers to Starlark globals.
func Constants(defines iter.Seq2[string, int]) starlark.StringDict {
	dict := starlark.StringDict{}
	for key, value := range defines {
		dict[key] = starlark.MakeInt(value)
	}
	return dict
}

// Merge copies every entry of the dicts into dst, later entries winning.
func Merge(dst starlark.StringDict, dicts ...starlark.StringDict) starlark.StringDict {
	if dst == nil {
		dst = starlark.StringDict{}
	}
	for _, dict := range dicts {
		for key, value := range dict {
			dst[key] = value
		}
	}
	return dst
}
