//go:build darwin || freebsd || linux || windows

package pak

import (
	"bytes"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"

	"pakhost/hw/hwdefs"
)

// Size of the string buffers handed to native modules.
const nativeStrLen = 512

// NativeLoader returns the loader of native module binaries: shared objects
// exporting the pak C ABI.
func NativeLoader() Loader { return nativeLoader{} }

// targets are the Go functions the native callbacks forward to, for one
// module.
type targets struct {
	interrupt InterruptFunc
	read      ReadFunc
	write     WriteFunc
	cart      CartFunc
	menu      MenuFunc
}

// Callbacks can't be freed, they're created once and forward to the targets
// of the last loaded module.
var current atomic.Pointer[targets]

type trampolines struct {
	interrupt, read, write, cart, menu uintptr
}

var callbacks = sync.OnceValue(func() trampolines {
	return trampolines{
		interrupt: purego.NewCallback(func(irq, latency uintptr) uintptr {
			if t := current.Load(); t != nil && t.interrupt != nil {
				t.interrupt(hwdefs.IRQ(irq), uint8(latency))
			}
			return 0
		}),
		read: purego.NewCallback(func(addr uintptr) uintptr {
			if t := current.Load(); t != nil && t.read != nil {
				return uintptr(t.read(uint16(addr)))
			}
			return 0
		}),
		write: purego.NewCallback(func(val, addr uintptr) uintptr {
			if t := current.Load(); t != nil && t.write != nil {
				t.write(uint16(addr), uint8(val))
			}
			return 0
		}),
		cart: purego.NewCallback(func(asserted uintptr) uintptr {
			if t := current.Load(); t != nil && t.cart != nil {
				t.cart(uint8(asserted) != 0)
			}
			return 0
		}),
		menu: purego.NewCallback(func(label, id, kind uintptr) uintptr {
			if t := current.Load(); t != nil && t.menu != nil {
				t.menu(gostring(label), int(int32(id)), MenuKind(kind))
			}
			return 0
		}),
	}
})

// nativeModule is a loaded shared object.
type nativeModule struct {
	handle uintptr
	tgt    *targets
	api    EntryPoints
	close  func() error
}

func (m *nativeModule) EntryPoints() EntryPoints { return m.api }

func (m *nativeModule) Close() error {
	current.CompareAndSwap(m.tgt, nil)
	return m.close()
}

// resolve binds the exported functions found by lookup, which returns 0 for
// missing symbols.
func resolve(lookup func(name string) uintptr) (*targets, EntryPoints) {
	var (
		api EntryPoints
		tgt = new(targets)
		cb  = callbacks()
	)

	if fn := lookup(ExportIdentify); fn != 0 {
		var call func(name, catalog *byte, menu, owner uintptr)
		purego.RegisterFunc(&call, fn)
		api.Identify = func(menu MenuFunc, owner uintptr) (string, string) {
			var name, catalog [nativeStrLen]byte
			tgt.menu = menu
			call(&name[0], &catalog[0], cb.menu, owner)
			return cstring(name[:]), cstring(catalog[:])
		}
	}
	if fn := lookup(ExportConfigure); fn != 0 {
		purego.RegisterFunc(&api.Configure, fn)
	}
	if fn := lookup(ExportPortWrite); fn != 0 {
		purego.RegisterFunc(&api.PortWrite, fn)
	}
	if fn := lookup(ExportPortRead); fn != 0 {
		purego.RegisterFunc(&api.PortRead, fn)
	}
	if fn := lookup(ExportSetInterrupt); fn != 0 {
		var call func(cb uintptr)
		purego.RegisterFunc(&call, fn)
		api.SetInterrupt = func(f InterruptFunc) {
			tgt.interrupt = f
			call(cb.interrupt)
		}
	}
	if fn := lookup(ExportSetMemPointers); fn != 0 {
		var call func(read, write uintptr)
		purego.RegisterFunc(&call, fn)
		api.SetMemPointers = func(read ReadFunc, write WriteFunc) {
			tgt.read, tgt.write = read, write
			call(cb.read, cb.write)
		}
	}
	if fn := lookup(ExportHeartbeat); fn != 0 {
		purego.RegisterFunc(&api.Heartbeat, fn)
	}
	if fn := lookup(ExportMemWrite); fn != 0 {
		// The C side takes the data byte first.
		var call func(data uint8, addr uint16)
		purego.RegisterFunc(&call, fn)
		api.MemWrite = func(addr uint16, data uint8) { call(data, addr) }
	}
	if fn := lookup(ExportMemRead); fn != 0 {
		purego.RegisterFunc(&api.MemRead, fn)
	}
	if fn := lookup(ExportStatus); fn != 0 {
		var call func(buf *byte)
		purego.RegisterFunc(&call, fn)
		api.Status = func() string {
			var buf [nativeStrLen]byte
			call(&buf[0])
			return cstring(buf[:])
		}
	}
	if fn := lookup(ExportAudioSample); fn != 0 {
		purego.RegisterFunc(&api.AudioSample, fn)
	}
	if fn := lookup(ExportReset); fn != 0 {
		purego.RegisterFunc(&api.Reset, fn)
	}
	if fn := lookup(ExportSetSettingsPath); fn != 0 {
		purego.RegisterFunc(&api.SetSettingsPath, fn)
	}
	if fn := lookup(ExportSetCart); fn != 0 {
		var call func(cb uintptr)
		purego.RegisterFunc(&call, fn)
		api.SetCartCallback = func(f CartFunc) {
			tgt.cart = f
			call(cb.cart)
		}
	}

	current.Store(tgt)
	return tgt, api
}

// cstring returns the NUL terminated string at the start of buf.
func cstring(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}

// gostring copies the C string at p, up to nativeStrLen bytes.
func gostring(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := unsafe.Pointer(p)
	n := 0
	for n < nativeStrLen && *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}
