//go:build windows

package pak

import (
	"golang.org/x/sys/windows"

	"pakhost/emu/log"
)

type nativeLoader struct{}

func (nativeLoader) Load(path string) (Module, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, err
	}

	lookup := func(name string) uintptr {
		proc, err := dll.FindProc(name)
		if err != nil {
			return 0
		}
		return proc.Addr()
	}

	tgt, api := resolve(lookup)
	log.ModPak.DebugZ("loaded dll").
		String("path", path).
		Stringer("caps", Capabilities(&api)).
		End()

	return &nativeModule{
		handle: uintptr(dll.Handle),
		tgt:    tgt,
		api:    api,
		close:  dll.Release,
	}, nil
}
