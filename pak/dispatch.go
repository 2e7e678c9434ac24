package pak

import (
	"pakhost/hw/hwdefs"
)

// Silence is the audio sample of a pak without audio output.
const Silence uint16 = 0

// Heartbeat signals the end of a frame to the attached module.
func (s *Slot) Heartbeat() {
	if s.api.Heartbeat != nil {
		s.api.Heartbeat()
	}
}

// Reset resets the pak: the image goes back to bank 0 and the module is
// notified.
func (s *Slot) Reset() {
	if s.img != nil {
		s.img.Reset()
	}
	if s.api.Reset != nil {
		s.api.Reset()
	}
}

// SetInterruptCallback registers again the host interrupt callback with the
// attached module, after the host CPU changed.
func (s *Slot) SetInterruptCallback() {
	if s.api.SetInterrupt != nil {
		s.api.SetInterrupt(s.host.AssertInterrupt)
	}
}

// ReadPort reads the pak IO port. Unclaimed ports read 0.
func (s *Slot) ReadPort(port uint8) uint8 {
	if s.api.PortRead != nil {
		return s.api.PortRead(port)
	}
	return 0
}

// WritePort forwards the write to the module, then updates the bank
// selection of the image when port is the bank selection port.
func (s *Slot) WritePort(port, data uint8) {
	if s.api.PortWrite != nil {
		s.api.PortWrite(port, data)
	}
	if port == hwdefs.BankSelectIO && s.img != nil {
		s.img.SelectBank(data)
	}
}

// ReadMemory reads the pak window at addr. The module takes precedence over
// the image, an empty slot reads 0.
func (s *Slot) ReadMemory(addr uint16) uint8 {
	if s.api.MemRead != nil {
		return s.api.MemRead(addr & windowMask)
	}
	if s.img != nil {
		return s.img.Read(addr)
	}
	return 0
}

// WriteMemory ignores writes to the pak window: the window is read-only,
// including for modules exporting a memory write entry point.
func (s *Slot) WriteMemory(addr uint16, data uint8) {}

// AudioSample returns the current sample of the module analog output.
func (s *Slot) AudioSample() uint16 {
	if s.api.AudioSample != nil {
		return s.api.AudioSample()
	}
	return Silence
}

// Status returns the module status text, or the empty string.
func (s *Slot) Status() string {
	if s.api.Status != nil {
		return s.api.Status()
	}
	return ""
}

// Configure forwards a configuration menu activation to the module.
func (s *Slot) Configure(item uint8) {
	if s.api.Configure != nil {
		s.api.Configure(item)
	}
}
