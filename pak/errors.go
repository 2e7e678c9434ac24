package pak

import "errors"

var (
	// ErrNotFound is returned when the pak file can't be opened or read.
	ErrNotFound = errors.New("pak not found")

	// ErrIncompatible is returned when a native binary isn't a pak module,
	// that is, it can't be loaded or lacks the identification entry point.
	ErrIncompatible = errors.New("not a pak module")

	// ErrAllocation is returned when the banked ROM buffer can't be allocated.
	ErrAllocation = errors.New("can't allocate pak memory")

	// ErrBusy is returned when the module configuration is open while the
	// machine is running.
	ErrBusy = errors.New("close the pak configuration before unloading")
)
