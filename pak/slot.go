// Package pak implements the expansion slot of the host: the pak attached to
// it, either a banked ROM image or a native module, the dispatch of bus
// traffic to it, and the menu entries it contributes.
package pak

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"pakhost/emu/log"
	"pakhost/pakfile"
)

//go:generate go tool stringer -type=Kind,MenuKind -output=kind_string.go

// Kind is the kind of backing attached to the slot.
type Kind uint8

const (
	Empty Kind = iota
	StaticImage
	NativeModule
)

// BlankName is the name of an empty slot.
const BlankName = "Blank"

const (
	maxNameLen = 512
	maxPathLen = 260
)

// Identity describes the pak attached to the slot.
type Identity struct {
	Name    string
	Catalog string
	Path    string
	Kind    Kind
}

// AllocFunc allocates the buffer of a ROM image.
type AllocFunc func(size int) ([]byte, error)

func defaultAlloc(size int) ([]byte, error) { return make([]byte, size), nil }

// A Slot holds at most one pak. It isn't safe for concurrent use, the host
// serializes transitions and dispatch.
type Slot struct {
	host   Host
	loader Loader
	alloc  AllocFunc
	menu   *Bridge

	id         Identity
	mod        *Binding
	api        EntryPoints // zero unless a module is attached
	img        *BankedImage
	caps       CapabilityFlags
	configOpen bool
}

type Option func(*Slot)

// WithLoader sets the loader of native modules, NativeLoader by default.
func WithLoader(l Loader) Option {
	return func(s *Slot) { s.loader = l }
}

// WithAllocator sets the allocator of ROM image buffers.
func WithAllocator(alloc AllocFunc) Option {
	return func(s *Slot) { s.alloc = alloc }
}

// NewSlot returns an empty slot.
func NewSlot(host Host, opts ...Option) *Slot {
	s := &Slot{
		host:   host,
		loader: NativeLoader(),
		alloc:  defaultAlloc,
		id:     Identity{Name: BlankName},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Slot) Identity() Identity { return s.id }

func (s *Slot) Kind() Kind { return s.id.Kind }

func (s *Slot) Capabilities() CapabilityFlags { return s.caps }

// Describe returns the diagnostic listing of the attached pak.
func (s *Slot) Describe() string { return Describe(s.id.Name, s.caps) }

// Image returns the attached ROM image, or nil.
func (s *Slot) Image() *BankedImage { return s.img }

// SetConfigOpen records whether the configuration surface of the module is
// open. Modules can't be released while it is and the machine runs.
func (s *Slot) SetConfigOpen(open bool) { s.configOpen = open }

func (s *Slot) ConfigOpen() bool { return s.configOpen }

func (s *Slot) busy() bool {
	return s.id.Kind == NativeModule && s.configOpen && s.host.Running()
}

// Insert attaches the pak file at path, as a native module or a ROM image
// depending on its signature.
func (s *Slot) Insert(path string) error {
	typ, err := pakfile.Identify(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if typ == pakfile.Native {
		return s.AttachNativeModule(path)
	}
	return s.AttachImage(path)
}

// AttachImage loads the ROM image at path and attaches it, replacing the
// current pak. The cartridge line is asserted and a reset requested.
func (s *Slot) AttachImage(path string) error {
	if s.busy() {
		return ErrBusy
	}

	buf, err := s.alloc(imageBufSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if len(buf) < imageBufSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrAllocation, len(buf), imageBufSize)
	}
	n, err := pakfile.ReadImage(path, buf[:ImageSize])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	s.release()
	s.img = newBankedImage(buf, n)
	s.id = Identity{
		Name: truncate(filepath.Base(path), maxNameLen),
		Path: truncate(path, maxPathLen),
		Kind: StaticImage,
	}

	log.ModPak.InfoZ("rom image attached").
		String("name", s.id.Name).
		Int("size", n).
		End()

	s.host.SetCart(true)
	s.host.RequestReset()
	s.rebuildMenu()
	return nil
}

// AttachNativeModule loads the module binary at path and attaches it,
// replacing the current pak. The module is handed the host services, then
// identified and a reset is requested.
func (s *Slot) AttachNativeModule(path string) error {
	if s.busy() {
		return ErrBusy
	}

	prev := s.id.Kind
	s.release()

	b, err := bind(s.loader, path)
	if err != nil {
		log.ModPak.WarnZ("can't load module").
			String("path", path).
			Error("err", err).
			End()
		if prev != Empty {
			s.host.SetCart(false)
			s.host.RequestReset()
			s.rebuildMenu()
		}
		return err
	}

	s.host.SetCart(false)
	s.mod = b
	api := b.api

	if api.SetMemPointers != nil {
		api.SetMemPointers(s.host.MemRead8, s.host.MemWrite8)
	}
	if api.SetInterrupt != nil {
		api.SetInterrupt(s.host.AssertInterrupt)
	}

	if s.menu != nil {
		s.menu.seed(s.id.Name)
	}
	name, catalog := api.Identify(s.menuFunc(), s.host.OwnerWindow())
	s.id = Identity{
		Name:    truncate(name, maxNameLen),
		Catalog: truncate(catalog, maxNameLen),
		Path:    truncate(path, maxPathLen),
		Kind:    NativeModule,
	}
	if s.menu != nil {
		s.menu.retitle(s.id.Name)
	}

	s.caps = Capabilities(&api)
	if api.SetSettingsPath != nil {
		api.SetSettingsPath(s.host.SettingsPath())
	}
	if api.SetCartCallback != nil {
		api.SetCartCallback(s.host.SetCart)
	}
	s.api = api

	log.ModPak.InfoZ("module attached").
		String("name", s.id.Name).
		String("catalog", s.id.Catalog).
		Stringer("caps", s.caps).
		End()
	log.ModPak.Debugf("\n%s", s.Describe())

	s.host.RequestReset()
	return nil
}

// Detach releases the current pak, leaving the slot empty. The cartridge
// line is released and a reset requested. Detaching an empty slot does
// nothing.
func (s *Slot) Detach() error {
	if s.id.Kind == Empty {
		return nil
	}
	if s.busy() {
		return ErrBusy
	}

	log.ModPak.InfoZ("pak detached").
		String("name", s.id.Name).
		End()

	s.release()
	s.host.SetCart(false)
	s.host.RequestReset()
	s.rebuildMenu()
	return nil
}

// release drops the current backing without notifying the host.
func (s *Slot) release() {
	s.api = EntryPoints{}
	if s.mod != nil {
		if err := s.mod.release(); err != nil {
			log.ModPak.WarnZ("can't release module").
				String("path", s.mod.path).
				Error("err", err).
				End()
		}
		s.mod = nil
	}
	s.img = nil
	s.caps = 0
	s.configOpen = false
	s.id = Identity{Name: BlankName}
}

func (s *Slot) menuFunc() MenuFunc {
	if s.menu == nil {
		return func(string, int, MenuKind) {}
	}
	return s.menu.Register
}

// rebuildMenu republishes the base menu entries.
func (s *Slot) rebuildMenu() {
	if s.menu == nil {
		return
	}
	s.menu.Register("", menuFlush, Head)
	s.menu.Register("", menuDone, Head)
}

// truncate cuts s to at most n bytes, on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
