package pak

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"pakhost/hw/hwdefs"
)

type fakeHost struct {
	running  bool
	cart     []bool
	resets   int
	irqs     []hwdefs.IRQ
	mem      [0x10000]uint8
	settings string
}

func (h *fakeHost) MemRead8(addr uint16) uint8 { return h.mem[addr] }
func (h *fakeHost) MemWrite8(addr uint16, val uint8) { h.mem[addr] = val }
func (h *fakeHost) AssertInterrupt(irq hwdefs.IRQ, _ uint8) { h.irqs = append(h.irqs, irq) }
func (h *fakeHost) SetCart(asserted bool) { h.cart = append(h.cart, asserted) }
func (h *fakeHost) RequestReset() { h.resets++ }
func (h *fakeHost) SettingsPath() string { return h.settings }
func (h *fakeHost) OwnerWindow() uintptr { return 0 }
func (h *fakeHost) Running() bool { return h.running }

// fakeLoader serves in-memory modules by path.
type fakeLoader map[string]*fakeModule

func (l fakeLoader) Load(path string) (Module, error) {
	m, ok := l[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	m.loads++
	return m, nil
}

type fakeModule struct {
	api    EntryPoints
	loads  int
	closes int
}

func (m *fakeModule) EntryPoints() EntryPoints { return m.api }

func (m *fakeModule) Close() error {
	m.closes++
	return nil
}

type fakeMenu struct {
	builds [][]Descriptor
}

func (m *fakeMenu) Rebuild(items []Descriptor) { m.builds = append(m.builds, items) }

func (m *fakeMenu) last() []Descriptor {
	if len(m.builds) == 0 {
		return nil
	}
	return m.builds[len(m.builds)-1]
}

type fakeChooser struct {
	path string
	dirs []string
}

func (c *fakeChooser) Choose(dir string) (string, bool) {
	c.dirs = append(c.dirs, dir)
	return c.path, c.path != ""
}

var errNoMem = errors.New("out of memory")

func writeFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		tb.Fatal(err)
	}
	return path
}

// nativeFile creates a file carrying a native module signature.
func nativeFile(tb testing.TB, name string) string {
	tb.Helper()
	return writeFile(tb, name, []byte("MZ\x90\x00"))
}

func filled(size int, val uint8) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = val
	}
	return buf
}

func newTestSlot(loader Loader, opts ...Option) (*Slot, *fakeHost) {
	host := &fakeHost{settings: "/tmp/paks.ini"}
	if loader == nil {
		loader = fakeLoader{}
	}
	opts = append([]Option{WithLoader(loader)}, opts...)
	return NewSlot(host, opts...), host
}
