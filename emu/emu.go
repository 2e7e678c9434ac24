package emu

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pakhost/emu/log"
	"pakhost/hw/hwdefs"
	"pakhost/hw/hwio"
	"pakhost/pak"
)

const (
	noReset int32 = iota
	softReset
	hardReset
)

// Host is the machine the expansion slot is plugged into: a bus with RAM, the
// pak window and IO page, the interrupt and cartridge lines, and the frame
// loop driving the pak.
type Host struct {
	Slot *pak.Slot
	Menu *pak.Bridge

	// mu serializes slot transitions with the frame loop.
	mu     sync.Mutex
	bus    *hwio.Table
	ram    [0x8000]byte
	window hwio.Device
	io     hwio.Device
	audio  *PakAudio
	cfg    Config
	status string

	// These are accessed concurrently by the frame loop, the UI and modules.
	frames  atomic.Uint64
	irqs    atomic.Uint32
	cart    atomic.Bool
	pending atomic.Int32

	quit    atomic.Bool
	paused  atomic.Bool
	running atomic.Bool

	// StatusChanged, if set, is called from the frame loop when the pak
	// status text changes.
	StatusChanged func(status string)
}

// NewHost builds the host and its empty slot. Pak audio goes to sink, or
// nowhere when audio is disabled in cfg.
func NewHost(cfg Config, sink AudioSink, opts ...pak.Option) *Host {
	cfg.Check()
	h := &Host{cfg: cfg}

	h.bus = hwio.NewTable("host")
	h.bus.MapMemorySlice(0x0000, 0x7FFF, h.ram[:], false)

	h.window = hwio.Device{
		Name: "pakrom",
		Size: hwdefs.PakROMEnd - hwdefs.PakROMBase + 1,
		ReadCb: func(off uint16) uint8 {
			return h.Slot.ReadMemory(hwdefs.PakROMBase + off)
		},
		PeekCb: func(off uint16) uint8 {
			if img := h.Slot.Image(); img != nil {
				return img.Read(off)
			}
			return 0
		},
		WriteCb: func(off uint16, val uint8) {
			h.Slot.WriteMemory(hwdefs.PakROMBase+off, val)
		},
	}
	h.io = hwio.Device{
		Name: "pakio",
		Size: hwdefs.PakIOEnd - hwdefs.PakIOBase + 1,
		ReadCb: func(off uint16) uint8 {
			return h.Slot.ReadPort(uint8(hwdefs.PakIOBase + off))
		},
		WriteCb: func(off uint16, val uint8) {
			h.Slot.WritePort(uint8(hwdefs.PakIOBase+off), val)
		},
	}
	h.bus.MapDevice(hwdefs.PakROMBase, &h.window)
	h.bus.MapDevice(hwdefs.PakIOBase, &h.io)

	if cfg.Audio.DisableAudio || sink == nil {
		sink = Discard
		log.ModEmu.WarnZ("Audio disabled").End()
	}
	h.audio = NewPakAudio(cfg.Audio.SampleRate, cfg.Emulation.FrameRate, sink)

	h.Slot = pak.NewSlot(h, opts...)
	h.SetMenu(nil, nil)
	h.paused.Store(cfg.Emulation.StartPaused)

	log.AddContext(h)
	return h
}

// SetMenu connects the slot menu entries to menu and the load entry to
// chooser.
func (h *Host) SetMenu(menu pak.Menu, chooser pak.Chooser) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Menu = pak.NewBridge(h.Slot, menu, chooser)
	h.Menu.SetLastDir(h.cfg.Pak.LastDir)
	h.Menu.DirChanged = func(dir string) {
		h.mu.Lock()
		h.cfg.Pak.LastDir = dir
		h.mu.Unlock()
	}
}

// Config returns the current configuration, updated with the pak state.
func (h *Host) Config() Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg
}

// Bus returns the host bus.
func (h *Host) Bus() *hwio.Table { return h.bus }

func (h *Host) AddLogContext(z *log.EntryZ) {
	z.Uint64("frame", h.frames.Load())
}

// Close releases the pak.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Slot.Detach(); err != nil {
		log.ModEmu.WarnZ("pak still busy on close").Error("err", err).End()
	}
	log.RemoveContext(h)
}

// Transitions. They wait for the end of the current frame.

func (h *Host) Insert(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	defer h.syncPak()
	return h.Slot.Insert(path)
}

func (h *Host) Detach() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	defer h.syncPak()
	return h.Slot.Detach()
}

// Activate handles the activation of the pak menu entry id.
func (h *Host) Activate(id int) error {
	if id == pak.MenuLoadID {
		// The chooser may run a nested UI loop, it must not hold the lock.
		path, ok := h.Menu.Choose()
		if !ok {
			return nil
		}
		return h.Insert(path)
	}
	if pak.IsConfigItem(id) {
		return h.configure(id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	defer h.syncPak()
	return h.Menu.Activate(id)
}

// configure hands a module entry to the module, which may open its
// configuration dialog. Frames keep running meanwhile and the pak can't be
// released until the call returns.
func (h *Host) configure(id int) error {
	h.setConfigOpen(true)
	defer h.setConfigOpen(false)
	return h.Menu.Activate(id)
}

func (h *Host) setConfigOpen(open bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Slot.SetConfigOpen(open)
}

func (h *Host) syncPak() {
	h.cfg.Pak.Path = h.Slot.Identity().Path
}

func (h *Host) Identity() pak.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Slot.Identity()
}

func (h *Host) Describe() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Slot.Describe()
}

// Status returns the last status text reported by the pak.
func (h *Host) Status() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Host services offered to the pak.

func (h *Host) MemRead8(addr uint16) uint8 { return h.bus.Read8(addr, false) }

func (h *Host) MemWrite8(addr uint16, val uint8) { h.bus.Write8(addr, val) }

func (h *Host) AssertInterrupt(irq hwdefs.IRQ, latency uint8) {
	if !irq.Valid() {
		log.ModEmu.WarnZ("invalid interrupt line").Hex8("irq", uint8(irq)).End()
		return
	}
	h.irqs.Or(1 << irq)
	log.ModEmu.DebugZ("interrupt asserted").
		Stringer("irq", irq).
		Int("latency", int(latency)).
		End()
}

// IRQs returns the pending interrupt lines.
func (h *Host) IRQs() hwdefs.IRQMask { return hwdefs.IRQMask(h.irqs.Load()) }

// AckInterrupt clears the interrupt line irq.
func (h *Host) AckInterrupt(irq hwdefs.IRQ) { h.irqs.And(^(uint32(1) << irq)) }

func (h *Host) SetCart(asserted bool) {
	if h.cart.Swap(asserted) != asserted {
		log.ModEmu.DebugZ("cartridge line").Bool("asserted", asserted).End()
	}
}

// CartInserted reports the state of the cartridge line.
func (h *Host) CartInserted() bool { return h.cart.Load() }

// RequestReset schedules a hard reset at the end of the current frame.
func (h *Host) RequestReset() { h.pending.Store(hardReset) }

func (h *Host) SettingsPath() string { return h.cfg.Pak.Settings }

// OwnerWindow returns 0: module dialogs have no owner window.
func (h *Host) OwnerWindow() uintptr { return 0 }

func (h *Host) Running() bool { return h.running.Load() && !h.paused.Load() }

// RunFrame runs one frame: the pak heartbeat, its audio output and the
// pending reset, if any.
func (h *Host) RunFrame() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Slot.Heartbeat()
	h.audio.RunFrame(h.Slot.AudioSample)
	h.frames.Add(1)
	h.pollStatus()
	h.handleReset()
}

// Frames returns the number of frames run.
func (h *Host) Frames() uint64 { return h.frames.Load() }

func (h *Host) pollStatus() {
	s := h.Slot.Status()
	if s == h.status {
		return
	}
	h.status = s
	log.ModEmu.DebugZ("pak status").String("status", s).End()
	if h.StatusChanged != nil {
		h.StatusChanged(s)
	}
}

func (h *Host) handleReset() {
	switch h.pending.Swap(noReset) {
	case softReset:
		log.ModEmu.InfoZ("Performing soft reset").End()
		h.Slot.Reset()
	case hardReset:
		log.ModEmu.InfoZ("Performing hard reset").End()
		clear(h.ram[:])
		h.irqs.Store(0)
		h.audio.Reset()
		h.Slot.Reset()
	}
}

// Run runs frames at the configured rate, until the context is done or Stop
// is called. If n > 0, Run returns after n frames.
func (h *Host) Run(ctx context.Context, n uint64) error {
	h.running.Store(true)
	defer h.running.Store(false)

	tick := time.NewTicker(time.Second / time.Duration(h.cfg.Emulation.FrameRate))
	defer tick.Stop()

	var ran uint64
	for !h.quit.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}

		if h.paused.Load() {
			continue
		}
		h.RunFrame()
		if ran++; n > 0 && ran >= n {
			break
		}
	}
	log.ModEmu.InfoZ("Emulation loop exited").End()
	return nil
}

// SetPause, Stop, Reset and Restart allows to control
// the frame loop in a concurrent-safe way.

func (h *Host) SetPause(pause bool) { h.paused.CompareAndSwap(!pause, pause) }
func (h *Host) Reset()              { h.pending.CompareAndSwap(noReset, softReset) }
func (h *Host) Restart()            { h.pending.Store(hardReset) }
func (h *Host) Stop() {
	h.quit.Store(true)
}

func (h *Host) Paused() bool { return h.paused.Load() }
