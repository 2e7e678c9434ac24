// package pakfile identifies and reads program pak files, which are either raw
// ROM dumps or native module binaries.
package pakfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Type is the kind of content found in a pak file.
type Type uint8

const (
	Image  Type = iota // raw ROM dump, no header
	Native             // loadable module binary
)

func (t Type) String() string {
	switch t {
	case Image:
		return "rom image"
	case Native:
		return "native module"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Signatures of loadable binaries: PE, ELF, 64-bit Mach-O. ELF and Mach-O
// need their full magic, their first two bytes are valid 6809 code.
var nativeMagics = [][]byte{
	[]byte("MZ"),
	[]byte("\x7fELF"),
	[]byte("\xcf\xfa\xed\xfe"),
}

// sigLen is the number of bytes needed to detect any signature.
const sigLen = 4

// Detect reports the type of a pak from its first bytes.
func Detect(p []byte) Type {
	for _, magic := range nativeMagics {
		if bytes.HasPrefix(p, magic) {
			return Native
		}
	}
	return Image
}

// Identify opens the file at path and probes its signature.
func Identify(path string) (Type, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image, err
	}
	defer f.Close()

	var sig [sigLen]byte
	n, err := io.ReadFull(f, sig[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Image, err
	}
	return Detect(sig[:n]), nil
}

// ReadImage fills buf with the content of the file at path, up to len(buf)
// bytes. Extra bytes are ignored and the rest of buf is left untouched when
// the file is shorter. It returns the number of bytes copied.
func ReadImage(path string, buf []byte) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.ReadFull(f, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	return n, err
}

// Info describes a pak file found on disk.
type Info struct {
	Path string
	Type Type
	Size int64
}

// Probe returns the description of the pak file at path.
func Probe(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	if fi.IsDir() {
		return Info{}, fmt.Errorf("%s: is a directory", path)
	}
	typ, err := Identify(path)
	if err != nil {
		return Info{}, err
	}
	return Info{Path: path, Type: typ, Size: fi.Size()}, nil
}
