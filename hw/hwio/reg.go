package hwio

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// Reg8 is an 8-bit register. Bits set in RoMask are preserved on writes.
type Reg8 struct {
	Name   string
	Value  uint8
	RoMask uint8

	// WriteCb is called after each write with the previous and new values.
	WriteCb func(old uint8, val uint8)
}

func (reg *Reg8) Write8(_ uint16, val uint8) {
	old := reg.Value
	reg.Value = (reg.Value & reg.RoMask) | (val &^ reg.RoMask)
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

func (reg *Reg8) Read8(_ uint16, _ bool) uint8 {
	return reg.Value
}

// Reset sets the register to val without triggering callbacks.
func (reg *Reg8) Reset(val uint8) {
	reg.Value = val
}
