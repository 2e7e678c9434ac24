package pak

import (
	"pakhost/hw/hwdefs"
	"pakhost/hw/hwio"
)

const (
	ImageSize  = 256 << 10 // maximum size of a banked ROM image
	WindowSize = 32 << 10  // size of the CPU visible pak window
	BankSize   = 16 << 10  // bank selection granularity

	windowMask = WindowSize - 1

	// The highest bank starts 16K before the end of the image, and the
	// window is 32K wide: the buffer carries a zeroed guard area so that any
	// bank/address pair stays in bounds.
	imageBufSize = ImageSize + WindowSize - BankSize
)

// BankedImage is a ROM image seen through a 32K window, at an offset chosen
// by the bank selection register.
type BankedImage struct {
	buf    []byte
	size   int
	offset uint32

	// BankSel holds the selected bank in its low nibble.
	BankSel hwio.Reg8
}

// newBankedImage wraps buf, which holds size bytes of ROM. buf must be at
// least imageBufSize bytes long.
func newBankedImage(buf []byte, size int) *BankedImage {
	img := &BankedImage{buf: buf[:imageBufSize], size: size}
	img.BankSel = hwio.Reg8{
		Name:   "BANKSEL",
		RoMask: 0xF0,
		WriteCb: func(_, val uint8) {
			img.offset = uint32(val) * BankSize
		},
	}
	return img
}

// Read returns the image byte visible at addr in the pak window.
func (img *BankedImage) Read(addr uint16) uint8 {
	return img.buf[uint32(addr&windowMask)+img.offset]
}

// SelectBank handles a write to the bank selection port.
func (img *BankedImage) SelectBank(val uint8) {
	img.BankSel.Write8(hwdefs.BankSelectIO, val)
}

// Reset selects bank 0.
func (img *BankedImage) Reset() {
	img.BankSel.Reset(0)
	img.offset = 0
}

// Offset returns the image offset mapped at the start of the window.
func (img *BankedImage) Offset() uint32 { return img.offset }

// Len returns the number of bytes loaded from the image file.
func (img *BankedImage) Len() int { return img.size }
