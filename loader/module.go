package loader

import (
	"go.starlark.net/starlark"
)

// Module is the `module` object seen by a module while it executes.
// Assigning module.exports replaces what require() returns.
type Module struct {
	Path    string
	Exports starlark.Value

	frozen bool
}

var (
	_ starlark.HasAttrs    = (*Module)(nil)
	_ starlark.HasSetField = (*Module)(nil)
)

// NewModule creates a module whose exports are an empty dict.
func NewModule(path string) *Module {
	return &Module{
		Path:    path,
		Exports: starlark.NewDict(0),
	}
}

func (m *Module) String() string        { return f("<module %v>", m.Path) }
func (m *Module) Type() string          { return "module" }
func (m *Module) Truth() starlark.Bool  { return starlark.True }
func (m *Module) Hash() (uint32, error) { return 0, ErrUnhashable }

func (m *Module) Freeze() {
	if m.frozen {
		return
	}
	m.frozen = true
	m.Exports.Freeze()
}

func (m *Module) Attr(name string) (value starlark.Value, err error) {
	switch name {
	case "exports":
		value = m.Exports
	case "path":
		value = starlark.String(m.Path)
	}
	return
}

func (m *Module) AttrNames() []string {
	return []string{"exports", "path"}
}

func (m *Module) SetField(name string, value starlark.Value) (err error) {
	if m.frozen {
		return ErrModuleFrozen
	}

	if name != "exports" {
		return starlark.NoSuchAttrError(f("module has no settable field %v", name))
	}

	m.Exports = value
	return
}
