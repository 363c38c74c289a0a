// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script executes Starlark source against a context of globals.
package script

import (
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Executor runs Starlark source on a single thread.
type Executor struct {
	Verbose bool               // If set, logs every execution.
	Options syntax.FileOptions // Dialect options.
	Thread  *starlark.Thread
}

// NewExecutor creates an executor whose print() calls print.
func NewExecutor(print func(msg string)) (ex *Executor) {
	ex = &Executor{
		Options: syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
		Thread: &starlark.Thread{
			Name: "runtimeos",
		},
	}

	if print != nil {
		ex.Thread.Print = func(_ *starlark.Thread, msg string) {
			print(msg)
		}
	}

	return
}

func soleExpr(f *syntax.File) syntax.Expr {
	if len(f.Stmts) == 1 {
		if stmt, ok := f.Stmts[0].(*syntax.ExprStmt); ok {
			return stmt.X
		}
	}
	return nil
}

// Exec runs src against globals. A source that is a single expression
// returns its value; otherwise the statements are executed and None is
// returned. Top level bindings made by src are written back to globals.
func (ex *Executor) Exec(globals starlark.StringDict, path string, src []byte) (value starlark.Value, err error) {
	if ex.Verbose {
		log.Printf("script: exec %v (%d bytes)", path, len(src))
	}

	opts := ex.Options
	f, err := opts.Parse(path, src, 0)
	if err != nil {
		return
	}

	if expr := soleExpr(f); expr != nil {
		value, err = starlark.EvalExprOptions(f.Options, ex.Thread, expr, globals)
		return
	}

	if globals == nil {
		globals = starlark.StringDict{}
	}

	err = starlark.ExecREPLChunk(f, ex.Thread, globals)
	if err != nil {
		return
	}

	value = starlark.None
	return
}

// Call invokes a Starlark callable on the executor's thread.
func (ex *Executor) Call(fn starlark.Value, args ...starlark.Value) (value starlark.Value, err error) {
	return starlark.Call(ex.Thread, fn, starlark.Tuple(args), nil)
}

// Display returns the text shown for a result. None shows nothing and
// strings are shown without quotes.
func Display(value starlark.Value) string {
	switch value := value.(type) {
	case nil, starlark.NoneType:
		return ""
	case starlark.String:
		return string(value)
	}

	return value.String()
}

// Session is a line evaluator with persistent globals.
type Session struct {
	Executor *Executor
	Globals  starlark.StringDict
	Path     string // Name used in error locations.
}

// NewSession creates a session over predefined globals.
func NewSession(ex *Executor, globals starlark.StringDict) (s *Session) {
	if globals == nil {
		globals = starlark.StringDict{}
	}

	s = &Session{
		Executor: ex,
		Globals:  globals,
		Path:     "<console>",
	}

	return
}

// Evaluate runs one line of text, returning the display form of its value.
func (s *Session) Evaluate(text string) (display string, err error) {
	value, err := s.Executor.Exec(s.Globals, s.Path, []byte(text))
	if err != nil {
		return
	}

	display = Display(value)
	return
}
