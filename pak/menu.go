package pak

import (
	"fmt"
	"path/filepath"
	"slices"

	"pakhost/emu/log"
)

// MenuKind is the position of a menu entry in the host menu.
type MenuKind uint8

const (
	Head       MenuKind = iota // top-level entry
	Slave                      // child of the last Head
	Standalone                 // top-level entry without children, a separator when unlabeled
)

// Descriptor is a menu entry contributed by the slot or its module.
type Descriptor struct {
	Label string
	ID    int
	Kind  MenuKind
}

// Menu ids are absolute, activation subtracts MenuIDBase to get the item
// handed to the module.
const (
	MenuIDBase      = 5000
	MenuLoadID      = MenuIDBase + 1
	MenuEjectID     = MenuIDBase + 2
	MenuCartridgeID = 6000

	// Registration control ids.
	menuFlush = 0
	menuDone  = 1

	maxMenuItems = 100
)

// BaseMenu returns the entries always present, for a pak named name.
func BaseMenu(name string) []Descriptor {
	return []Descriptor{
		{Label: "Cartridge", ID: MenuCartridgeID, Kind: Head},
		{Label: "Load Cart", ID: MenuLoadID, Kind: Slave},
		{Label: "Eject Cart: " + name, ID: MenuEjectID, Kind: Slave},
	}
}

// IsConfigItem reports whether activating id hands an item to the module
// Configure entry point.
func IsConfigItem(id int) bool {
	item := id - MenuIDBase
	return item > MenuEjectID-MenuIDBase && item <= 0xFF
}

// Menu renders the menu entries of the slot.
type Menu interface {
	Rebuild(items []Descriptor)
}

// Chooser asks the user for a pak file, starting in dir.
type Chooser interface {
	Choose(dir string) (path string, ok bool)
}

// Bridge collects the menu entries of the slot, publishes them to the host
// menu and routes activations back to the slot.
type Bridge struct {
	slot    *Slot
	menu    Menu
	chooser Chooser
	items   []Descriptor
	lastDir string

	// DirChanged, if set, is called when the user picks a pak in another
	// directory.
	DirChanged func(dir string)
}

// NewBridge attaches a bridge to slot and publishes the initial menu. menu
// and chooser may be nil.
func NewBridge(slot *Slot, menu Menu, chooser Chooser) *Bridge {
	b := &Bridge{slot: slot, menu: menu, chooser: chooser}
	slot.menu = b
	slot.rebuildMenu()
	return b
}

// Register implements the menu registration protocol of modules: id 0
// restarts the list with the base entries, id 1 publishes the list, any
// other id appends an entry.
func (b *Bridge) Register(label string, id int, kind MenuKind) {
	switch id {
	case menuFlush:
		b.items = append(b.items[:0], BaseMenu(b.slot.id.Name)...)
	case menuDone:
		b.publish()
	default:
		if len(b.items) >= maxMenuItems {
			log.ModMenu.WarnZ("too many menu entries").
				String("label", label).
				Int("id", id).
				End()
			return
		}
		b.items = append(b.items, Descriptor{Label: truncate(label, maxNameLen), ID: id, Kind: kind})
	}
}

// seed restarts the list with the base entries. Entries registered without a
// flush are appended after them.
func (b *Bridge) seed(name string) {
	b.items = append(b.items[:0], BaseMenu(name)...)
}

// retitle updates the eject entry with the name of a newly identified module
// and publishes the menu.
func (b *Bridge) retitle(name string) {
	if i := slices.IndexFunc(b.items, func(d Descriptor) bool { return d.ID == MenuEjectID }); i >= 0 {
		b.items[i].Label = "Eject Cart: " + name
	}
	b.publish()
}

func (b *Bridge) publish() {
	log.ModMenu.DebugZ("publishing menu").
		Int("entries", len(b.items)).
		End()
	if b.menu != nil {
		b.menu.Rebuild(b.Items())
	}
}

// Items returns a copy of the current entries.
func (b *Bridge) Items() []Descriptor {
	return slices.Clone(b.items)
}

func (b *Bridge) LastDir() string { return b.lastDir }

func (b *Bridge) SetLastDir(dir string) { b.lastDir = truncate(dir, maxPathLen) }

// Activate handles the activation of the menu entry id.
func (b *Bridge) Activate(id int) error {
	item := id - MenuIDBase
	log.ModMenu.DebugZ("menu activated").
		Int("id", id).
		End()

	switch item {
	case menuFlush:
		b.slot.rebuildMenu()
		return nil
	case MenuLoadID - MenuIDBase:
		return b.load()
	case MenuEjectID - MenuIDBase:
		return b.slot.Detach()
	}

	if item < 0 || item > 0xFF {
		return fmt.Errorf("menu entry %d: not a pak entry", id)
	}
	b.slot.Configure(uint8(item))
	return nil
}

// load asks the user for a pak and inserts it.
func (b *Bridge) load() error {
	path, ok := b.Choose()
	if !ok {
		return nil
	}
	return b.slot.Insert(path)
}

// Choose asks the user for a pak file, starting from the last directory
// used. It reports false if there's no chooser or the user cancelled.
func (b *Bridge) Choose() (string, bool) {
	if b.chooser == nil {
		return "", false
	}
	path, ok := b.chooser.Choose(b.lastDir)
	if !ok {
		return "", false
	}

	if dir := filepath.Dir(path); dir != b.lastDir {
		b.SetLastDir(dir)
		if b.DirChanged != nil {
			b.DirChanged(b.lastDir)
		}
	}
	return path, true
}
