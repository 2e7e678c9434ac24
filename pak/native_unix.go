//go:build darwin || freebsd || linux

package pak

import (
	"github.com/ebitengine/purego"

	"pakhost/emu/log"
)

type nativeLoader struct{}

func (nativeLoader) Load(path string) (Module, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}

	lookup := func(name string) uintptr {
		sym, err := purego.Dlsym(handle, name)
		if err != nil {
			return 0
		}
		return sym
	}

	tgt, api := resolve(lookup)
	log.ModPak.DebugZ("loaded shared object").
		String("path", path).
		Stringer("caps", Capabilities(&api)).
		End()

	return &nativeModule{
		handle: handle,
		tgt:    tgt,
		api:    api,
		close:  func() error { return purego.Dlclose(handle) },
	}, nil
}
