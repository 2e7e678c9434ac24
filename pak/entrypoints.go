package pak

import (
	"pakhost/hw/hwdefs"
)

// Names of the functions a native module exports. Only ExportIdentify is
// mandatory.
const (
	ExportIdentify        = "ModuleName"
	ExportConfigure       = "ModuleConfig"
	ExportPortWrite       = "PackPortWrite"
	ExportPortRead        = "PackPortRead"
	ExportSetInterrupt    = "AssertInterupt"
	ExportSetMemPointers  = "MemPointers"
	ExportHeartbeat       = "HeartBeat"
	ExportMemWrite        = "PakMemWrite8"
	ExportMemRead         = "PakMemRead8"
	ExportStatus          = "ModuleStatus"
	ExportAudioSample     = "ModuleAudioSample"
	ExportReset           = "ModuleReset"
	ExportSetSettingsPath = "SetIniPath"
	ExportSetCart         = "SetCart"
)

type (
	// ReadFunc reads a byte from the host bus.
	ReadFunc func(addr uint16) uint8

	// WriteFunc writes a byte to the host bus.
	WriteFunc func(addr uint16, val uint8)

	// InterruptFunc asserts a CPU interrupt line.
	InterruptFunc func(irq hwdefs.IRQ, latency uint8)

	// CartFunc drives the cartridge-present line.
	CartFunc func(asserted bool)

	// MenuFunc registers a menu descriptor, see Bridge.Register.
	MenuFunc func(label string, id int, kind MenuKind)
)

// EntryPoints is the table of operations a pak module implements. Every
// field is optional except Identify; a nil field means the module doesn't
// provide the operation.
type EntryPoints struct {
	// Identify returns the module name and catalog number. The module
	// registers its custom menu entries through menu during the call.
	Identify func(menu MenuFunc, owner uintptr) (name, catalog string)

	Configure func(item uint8)
	PortWrite func(port, data uint8)
	PortRead  func(port uint8) uint8

	SetInterrupt   func(fn InterruptFunc)
	SetMemPointers func(read ReadFunc, write WriteFunc)

	Heartbeat func()

	MemWrite func(addr uint16, data uint8)
	MemRead  func(addr uint16) uint8

	Status      func() string
	AudioSample func() uint16
	Reset       func()

	SetSettingsPath func(path string)
	SetCartCallback func(fn CartFunc)
}

// Host is the bus core side of the slot: the services handed to modules and
// the signals the slot drives.
type Host interface {
	// MemRead8 and MemWrite8 give modules direct access to the host bus.
	MemRead8(addr uint16) uint8
	MemWrite8(addr uint16, val uint8)

	AssertInterrupt(irq hwdefs.IRQ, latency uint8)

	// SetCart drives the cartridge-present line.
	SetCart(asserted bool)

	// RequestReset asks for a machine reset once the transition is over.
	RequestReset()

	// SettingsPath is the file modules store their settings in.
	SettingsPath() string

	// OwnerWindow is the native handle of the window owning module dialogs,
	// or 0.
	OwnerWindow() uintptr

	// Running reports whether the emulated machine is running.
	Running() bool
}
