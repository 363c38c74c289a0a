package kernel

import (
	"go.starlark.net/starlark"

	"github.com/ezrec/runtimeos/script"
)

// Globals returns the names visible at the console prompt:
//
//	print(*args)                  console output
//	require(path) -> exports      module loader
//	asset(path) -> string         boot image asset
//	reg(index) -> int             CPU register
//	inb(port) -> int, outb(port, value)
//	poll() -> int or None         pending interrupt line
//	exec(ctx, path, src) -> value run src with only the names in ctx
//	eval(src) -> value            run src with these globals
//	ticks() -> int                loop iterations
//	setTimeout(fn, ticks)         call fn after ticks iterations
//	setImmediate(fn)              call fn on the next iteration
//	clear()                       clear the console
//	serial_write(text)            queue text on the serial line
//
// plus every constant from Defines.
func (k *Kernel) Globals() starlark.StringDict {
	return script.Merge(nil,
		script.Constants(k.Defines()),
		script.HostBuiltins(k.Host),
		starlark.StringDict{
			"require":      k.Loader.Builtin(),
			"exec":         script.ExecBuiltin(k.Executor),
			"eval":         starlark.NewBuiltin("eval", k.builtinEval),
			"ticks":        starlark.NewBuiltin("ticks", k.builtinTicks),
			"setTimeout":   starlark.NewBuiltin("setTimeout", k.builtinSetTimeout),
			"setImmediate": starlark.NewBuiltin("setImmediate", k.builtinSetImmediate),
			"clear":        starlark.NewBuiltin("clear", k.builtinClear),
			"serial_write": starlark.NewBuiltin("serial_write", k.builtinSerialWrite),
		},
	)
}

// callback wraps a Starlark callable; its errors are shown on the console.
func (k *Kernel) callback(fn starlark.Callable) func() {
	return func() {
		_, err := k.Executor.Call(fn)
		if err != nil {
			k.print(err.Error())
		}
	}
}

func (k *Kernel) builtinEval(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var src string
	path := "<eval>"
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &src, &path); err != nil {
		return nil, err
	}
	return k.Executor.Exec(k.Session.Globals, path, []byte(src))
}

func (k *Kernel) builtinTicks(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.MakeInt(k.ticks), nil
}

func (k *Kernel) builtinSetTimeout(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Callable
	var ticks int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &fn, &ticks); err != nil {
		return nil, err
	}
	k.SetTimeout(k.callback(fn), ticks)
	return starlark.None, nil
}

func (k *Kernel) builtinSetImmediate(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Callable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &fn); err != nil {
		return nil, err
	}
	k.SetImmediate(k.callback(fn))
	return starlark.None, nil
}

func (k *Kernel) builtinClear(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	k.Console.Clear()
	return starlark.None, nil
}

func (k *Kernel) builtinSerialWrite(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}
	k.Serial.WriteString(text)
	return starlark.None, nil
}
