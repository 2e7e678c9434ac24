package hwdefs

import "strings"

// IRQ identifies a CPU interrupt line a pak can assert.
type IRQ uint8

// Line numbers follow the pak ABI: a module asserts an interrupt by number.
const (
	IRQLine  IRQ = 1
	FIRQLine IRQ = 2
	NMILine  IRQ = 3
)

var irqNames = [...]string{
	IRQLine:  "irq",
	FIRQLine: "firq",
	NMILine:  "nmi",
}

func (irq IRQ) Valid() bool {
	return irq >= IRQLine && irq <= NMILine
}

func (irq IRQ) String() string {
	if irq.Valid() {
		return irqNames[irq]
	}
	return "invalid"
}

// IRQMask is a set of asserted interrupt lines.
type IRQMask uint8

func (m IRQMask) Has(irq IRQ) bool { return m&(1<<irq) != 0 }

func (m IRQMask) String() string {
	var names []string
	for irq := IRQLine; irq <= NMILine; irq++ {
		if m.Has(irq) {
			names = append(names, irq.String())
		}
	}
	return strings.Join(names, "|")
}

// Memory map of the expansion slot, as seen from the CPU.
const (
	PakROMBase   = 0x8000 // start of the 32K pak window
	PakROMEnd    = 0xFEFF // the window is hidden above by the IO page
	PakIOBase    = 0xFF40
	PakIOEnd     = 0xFF5F
	BankSelectIO = 0x40 // port number of the banked ROM selection register
)
