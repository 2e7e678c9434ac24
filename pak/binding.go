package pak

import (
	"fmt"

	"pakhost/emu/log"
)

// Module is a loaded module binary.
type Module interface {
	// EntryPoints returns the operations the module exports.
	EntryPoints() EntryPoints
	Close() error
}

// A Loader loads module binaries.
type Loader interface {
	Load(path string) (Module, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (Module, error)

func (f LoaderFunc) Load(path string) (Module, error) { return f(path) }

// GoModule is a Module implemented in Go, for paks built into the host.
type GoModule struct {
	API     EntryPoints
	OnClose func()
}

func (m *GoModule) EntryPoints() EntryPoints { return m.API }

func (m *GoModule) Close() error {
	if m.OnClose != nil {
		m.OnClose()
	}
	return nil
}

// Binding associates a loaded module with its resolved entry points.
type Binding struct {
	path string
	mod  Module
	api  EntryPoints
}

// bind loads the module at path and resolves its entry points. The module is
// released if it doesn't export the identification entry point.
func bind(loader Loader, path string) (*Binding, error) {
	mod, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatible, err)
	}

	api := mod.EntryPoints()
	if api.Identify == nil {
		if err := mod.Close(); err != nil {
			log.ModPak.Warnf("closing %s: %v", path, err)
		}
		return nil, fmt.Errorf("%w: %s doesn't export %s", ErrIncompatible, path, ExportIdentify)
	}
	return &Binding{path: path, mod: mod, api: api}, nil
}

// release drops the entry points and closes the module.
func (b *Binding) release() error {
	b.api = EntryPoints{}
	if b.mod == nil {
		return nil
	}
	err := b.mod.Close()
	b.mod = nil
	return err
}

// IdentifyModule loads the module at path, queries its identity and
// capabilities, then releases it. Menu entries registered during the
// identification are dropped.
func IdentifyModule(loader Loader, path string) (Identity, CapabilityFlags, error) {
	b, err := bind(loader, path)
	if err != nil {
		return Identity{}, 0, err
	}
	defer func() {
		if err := b.release(); err != nil {
			log.ModPak.Warnf("closing %s: %v", path, err)
		}
	}()

	name, catalog := b.api.Identify(func(string, int, MenuKind) {}, 0)
	id := Identity{
		Name:    truncate(name, maxNameLen),
		Catalog: truncate(catalog, maxNameLen),
		Path:    truncate(path, maxPathLen),
		Kind:    NativeModule,
	}
	return id, Capabilities(&b.api), nil
}
