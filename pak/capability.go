package pak

import (
	"strings"
)

// CapabilityFlags records which optional entry points a module resolved.
// Flags are descriptive only: dispatch always checks the entry points.
type CapabilityFlags uint16

const (
	HasConfig CapabilityFlags = 1 << iota
	HasIOWrite
	HasIORead
	NeedsCPUIRQ
	DoesDMA
	NeedsHeartbeat
	AnalogAudio
	CSWrite
	CSRead
	ReturnsStatus
	CartReset
	SavesSettings
	AssertsCart

	numCapabilities = iota
)

var capLines = [numCapabilities]string{
	"Has Configurable options",
	"Is IO writable",
	"Is IO readable",
	"Generates Interrupts",
	"Generates DMA Requests",
	"Needs Heartbeat",
	"Analog Audio Outputs",
	"Needs ChipSelect Write",
	"Needs ChipSelect Read",
	"Returns Status",
	"Needs Reset Notification",
	"Saves Settings",
	"Can Assert CART",
}

var capNames = [numCapabilities]string{
	"config", "iowrite", "ioread", "irq", "dma", "heartbeat", "audio",
	"cswrite", "csread", "status", "reset", "settings", "cart",
}

// Capabilities computes the flags of the entry points resolved in api.
func Capabilities(api *EntryPoints) CapabilityFlags {
	var f CapabilityFlags
	set := func(present bool, flag CapabilityFlags) {
		if present {
			f |= flag
		}
	}

	set(api.Configure != nil, HasConfig)
	set(api.PortWrite != nil, HasIOWrite)
	set(api.PortRead != nil, HasIORead)
	set(api.SetInterrupt != nil, NeedsCPUIRQ)
	set(api.SetMemPointers != nil, DoesDMA)
	set(api.Heartbeat != nil, NeedsHeartbeat)
	set(api.AudioSample != nil, AnalogAudio)
	set(api.MemWrite != nil, CSWrite)
	set(api.MemRead != nil, CSRead)
	set(api.Status != nil, ReturnsStatus)
	set(api.Reset != nil, CartReset)
	set(api.SetSettingsPath != nil, SavesSettings)
	set(api.SetCartCallback != nil, AssertsCart)
	return f
}

func (f CapabilityFlags) Has(flag CapabilityFlags) bool {
	return f&flag == flag
}

// Lines returns the human readable description of each flag set in f.
func (f CapabilityFlags) Lines() []string {
	var lines []string
	for i := range numCapabilities {
		if f&(1<<i) != 0 {
			lines = append(lines, capLines[i])
		}
	}
	return lines
}

// Names returns the short names of the flags set in f.
func (f CapabilityFlags) Names() []string {
	var names []string
	for i := range numCapabilities {
		if f&(1<<i) != 0 {
			names = append(names, capNames[i])
		}
	}
	return names
}

func (f CapabilityFlags) String() string {
	return strings.Join(f.Names(), "|")
}

// Describe renders the diagnostic listing of a module.
func Describe(name string, f CapabilityFlags) string {
	var sb strings.Builder
	sb.WriteString("Module Name: ")
	sb.WriteString(name)
	sb.WriteByte('\n')
	for _, l := range f.Lines() {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
