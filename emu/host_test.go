package emu

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pakhost/hw/hwdefs"
	"pakhost/pak"
)

type captureSink struct {
	samples []int16
}

func (c *captureSink) Queue(s []int16) error {
	c.samples = append(c.samples, s...)
	return nil
}

func newTestHost(tb testing.TB, opts ...pak.Option) (*Host, *captureSink) {
	tb.Helper()

	cfg := Config{
		Pak:       PakConfig{Settings: filepath.Join(tb.TempDir(), "paks.ini")},
		Emulation: EmulationConfig{FrameRate: 240},
		Audio:     AudioConfig{SampleRate: 44100},
	}
	sink := &captureSink{}
	h := NewHost(cfg, sink, opts...)
	tb.Cleanup(h.Close)
	return h, sink
}

func writeFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		tb.Fatal(err)
	}
	return path
}

// goModule serves mod for any path.
func goModule(mod *pak.GoModule) pak.Option {
	return pak.WithLoader(pak.LoaderFunc(func(string) (pak.Module, error) {
		return mod, nil
	}))
}

func wantRead8(tb testing.TB, h *Host, addr uint16, want uint8) {
	tb.Helper()

	if got := h.Bus().Read8(addr, false); got != want {
		tb.Errorf("Read8(%04x) = %02x, want %02x", addr, got, want)
	}
}

func TestBusRouting(t *testing.T) {
	rom := make([]byte, 2*pak.BankSize)
	rom[0x0000] = 0x10
	rom[0x4000] = 0x20
	rom[0x7EFF] = 0x30
	path := writeFile(t, "rom.bin", rom)

	h, _ := newTestHost(t)
	wantRead8(t, h, 0x8000, 0x00)

	if err := h.Insert(path); err != nil {
		t.Fatal(err)
	}
	if !h.CartInserted() {
		t.Errorf("cartridge line not asserted")
	}

	wantRead8(t, h, 0x8000, 0x10)
	wantRead8(t, h, 0xC000, 0x20)
	wantRead8(t, h, 0xFEFF, 0x30)
	if got := h.Bus().Read8(0x8000, true); got != 0x10 {
		t.Errorf("Read8(8000, peek) = %02x, want 10", got)
	}

	// Bank 1 through the IO page.
	h.Bus().Write8(0xFF40, 1)
	wantRead8(t, h, 0x8000, 0x20)

	// The window is read-only.
	h.Bus().Write8(0x8001, 0xAA)
	wantRead8(t, h, 0x8001, 0x00)

	h.Bus().Write8(0x1234, 0x56)
	wantRead8(t, h, 0x1234, 0x56)
	wantRead8(t, h, 0xFF41, 0x00)
}

func TestPendingReset(t *testing.T) {
	rom := make([]byte, 4*pak.BankSize)
	rom[0x8000] = 0x22
	path := writeFile(t, "rom.bin", rom)

	h, _ := newTestHost(t)
	if err := h.Insert(path); err != nil {
		t.Fatal(err)
	}
	h.Bus().Write8(0x0010, 5)
	h.RunFrame()
	wantRead8(t, h, 0x0010, 0)

	// Soft reset: bank 0, RAM preserved.
	h.Bus().Write8(0x0010, 5)
	h.Bus().Write8(0xFF40, 2)
	wantRead8(t, h, 0x8000, 0x22)
	h.Reset()
	h.RunFrame()
	wantRead8(t, h, 0x8000, 0)
	wantRead8(t, h, 0x0010, 5)

	// Hard reset clears RAM.
	h.Bus().Write8(0xFF40, 2)
	h.Restart()
	h.RunFrame()
	wantRead8(t, h, 0x8000, 0)
	wantRead8(t, h, 0x0010, 0)
}

func TestModuleServices(t *testing.T) {
	var (
		write    pak.WriteFunc
		read     pak.ReadFunc
		irq      pak.InterruptFunc
		cart     pak.CartFunc
		settings string
		beats    int
	)
	mod := &pak.GoModule{API: pak.EntryPoints{
		Identify: func(pak.MenuFunc, uintptr) (string, string) { return "FD-502", "26-3133" },
		SetMemPointers: func(r pak.ReadFunc, w pak.WriteFunc) {
			read, write = r, w
		},
		SetInterrupt:    func(fn pak.InterruptFunc) { irq = fn },
		SetCartCallback: func(fn pak.CartFunc) { cart = fn },
		SetSettingsPath: func(path string) { settings = path },
		Heartbeat: func() {
			beats++
			write(0x0100, read(0x0100)+0x21)
			irq(hwdefs.FIRQLine, 0)
			irq(7, 0)
			cart(true)
		},
		Status: func() string {
			if beats > 1 {
				return "FD-502: Drive 0 idle"
			}
			return "FD-502"
		},
	}}
	path := writeFile(t, "fd502.dll", []byte("MZ"))

	h, _ := newTestHost(t, goModule(mod))
	var statuses []string
	h.StatusChanged = func(s string) { statuses = append(statuses, s) }

	if err := h.Insert(path); err != nil {
		t.Fatal(err)
	}
	if settings != h.SettingsPath() {
		t.Errorf("settings path = %q, want %q", settings, h.SettingsPath())
	}
	if h.CartInserted() {
		t.Errorf("cartridge line asserted before heartbeat")
	}

	// The first frame ends with the reset requested by the insertion, which
	// clears RAM and interrupts.
	h.RunFrame()
	h.RunFrame()

	wantRead8(t, h, 0x0100, 0x21)
	if got, want := h.IRQs(), hwdefs.IRQMask(1<<hwdefs.FIRQLine); got != want {
		t.Errorf("IRQs() = %v, want %v", got, want)
	}
	h.AckInterrupt(hwdefs.FIRQLine)
	if h.IRQs() != 0 {
		t.Errorf("IRQs() = %v after ack, want none", h.IRQs())
	}
	if !h.CartInserted() {
		t.Errorf("cartridge line not asserted by module")
	}

	if diff := cmp.Diff([]string{"FD-502", "FD-502: Drive 0 idle"}, statuses); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if got := h.Status(); got != "FD-502: Drive 0 idle" {
		t.Errorf("Status() = %q", got)
	}
}

func TestAudio(t *testing.T) {
	t.Run("silence", func(t *testing.T) {
		h, sink := newTestHost(t)
		h.RunFrame()
		h.RunFrame()

		if len(sink.samples) == 0 {
			t.Fatal("no samples queued")
		}
		for i, s := range sink.samples {
			if s != 0 {
				t.Fatalf("sample %d = %d, want silence", i, s)
			}
		}
	})
	t.Run("module", func(t *testing.T) {
		mod := &pak.GoModule{API: pak.EntryPoints{
			Identify:    func(pak.MenuFunc, uintptr) (string, string) { return "Orchestra-90", "" },
			AudioSample: func() uint16 { return 0x8000 },
		}}
		path := writeFile(t, "orch90.dll", []byte("MZ"))
		h, sink := newTestHost(t, goModule(mod))
		if err := h.Insert(path); err != nil {
			t.Fatal(err)
		}
		h.RunFrame()

		var left, right bool
		for i, s := range sink.samples {
			if s == 0 {
				continue
			}
			if i%2 == 0 {
				left = true
			} else {
				right = true
			}
		}
		if !left || right {
			t.Errorf("got left=%t right=%t, want output on the left channel only", left, right)
		}
	})
}

func TestBusyHost(t *testing.T) {
	var (
		h       *Host
		ejected []error
	)
	mod := &pak.GoModule{API: pak.EntryPoints{
		Identify: func(pak.MenuFunc, uintptr) (string, string) { return "MPI", "" },
		// The user tries to eject while the configuration dialog is up.
		Configure: func(uint8) {
			ejected = append(ejected, h.Activate(pak.MenuEjectID))
		},
	}}
	path := writeFile(t, "mpi.dll", []byte("MZ"))
	h, _ = newTestHost(t, goModule(mod))
	if err := h.Insert(path); err != nil {
		t.Fatal(err)
	}

	h.running.Store(true)
	if err := h.Activate(pak.MenuIDBase + 16); err != nil {
		t.Fatal(err)
	}
	if len(ejected) != 1 || !errors.Is(ejected[0], pak.ErrBusy) {
		t.Fatalf("eject during configuration = %v, want %v", ejected, pak.ErrBusy)
	}
	if h.Config().Pak.Path != path {
		t.Errorf("pak path lost after refused detach")
	}
	if h.Slot.ConfigOpen() {
		t.Errorf("configuration still open after the module returned")
	}

	// Paused, the module can be released from its dialog.
	h.SetPause(true)
	if err := h.Activate(pak.MenuIDBase + 16); err != nil {
		t.Fatal(err)
	}
	if len(ejected) != 2 || ejected[1] != nil {
		t.Fatalf("eject while paused = %v, want nil", ejected[1:])
	}
	if got := h.Identity(); got.Kind != pak.Empty {
		t.Errorf("Kind = %v, want %v", got.Kind, pak.Empty)
	}

	// Once the dialog is closed, eject works while running.
	h.SetPause(false)
	if err := h.Insert(path); err != nil {
		t.Fatal(err)
	}
	if err := h.Activate(pak.MenuEjectID); err != nil {
		t.Fatal(err)
	}
}

type fixedChooser string

func (c fixedChooser) Choose(string) (string, bool) { return string(c), c != "" }

type lastMenu struct {
	items []pak.Descriptor
}

func (m *lastMenu) Rebuild(items []pak.Descriptor) { m.items = items }

func TestActivateUpdatesConfig(t *testing.T) {
	path := writeFile(t, "disk11.rom", []byte{1, 2, 3})
	h, _ := newTestHost(t)
	menu := &lastMenu{}
	h.SetMenu(menu, fixedChooser(path))

	if diff := cmp.Diff(pak.BaseMenu(pak.BlankName), menu.items); diff != "" {
		t.Errorf("menu mismatch (-want +got):\n%s", diff)
	}

	if err := h.Activate(pak.MenuLoadID); err != nil {
		t.Fatal(err)
	}
	cfg := h.Config()
	if cfg.Pak.Path != path || cfg.Pak.LastDir != filepath.Dir(path) {
		t.Errorf("pak config = %+v", cfg.Pak)
	}
	if diff := cmp.Diff(pak.BaseMenu("disk11.rom"), menu.items); diff != "" {
		t.Errorf("menu mismatch (-want +got):\n%s", diff)
	}

	if err := h.Activate(pak.MenuEjectID); err != nil {
		t.Fatal(err)
	}
	if cfg := h.Config(); cfg.Pak.Path != "" {
		t.Errorf("pak path = %q after eject, want empty", cfg.Pak.Path)
	}
}

func TestRun(t *testing.T) {
	t.Run("frames", func(t *testing.T) {
		h, _ := newTestHost(t)
		if err := h.Run(context.Background(), 3); err != nil {
			t.Fatal(err)
		}
		if got := h.Frames(); got != 3 {
			t.Errorf("Frames() = %d, want 3", got)
		}
		if h.Running() {
			t.Errorf("still running after Run returned")
		}
	})
	t.Run("cancel", func(t *testing.T) {
		h, _ := newTestHost(t)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if err := h.Run(ctx, 0); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Run() error = %v, want %v", err, context.DeadlineExceeded)
		}
	})
	t.Run("stop", func(t *testing.T) {
		h, _ := newTestHost(t)
		h.Stop()
		if err := h.Run(context.Background(), 0); err != nil {
			t.Fatal(err)
		}
		if h.Frames() != 0 {
			t.Errorf("Frames() = %d, want 0", h.Frames())
		}
	})
	t.Run("paused", func(t *testing.T) {
		h, _ := newTestHost(t)
		h.SetPause(true)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		h.Run(ctx, 0)
		if h.Frames() != 0 {
			t.Errorf("Frames() = %d while paused, want 0", h.Frames())
		}
	})
}
