//go:build !(darwin || freebsd || linux || windows)

package pak

import (
	"errors"
	"runtime"
)

// NativeLoader returns a loader failing on every path: native modules aren't
// supported on this platform.
func NativeLoader() Loader {
	return LoaderFunc(func(path string) (Module, error) {
		return nil, errors.New("native modules aren't supported on " + runtime.GOOS)
	})
}
