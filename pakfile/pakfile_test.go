package pakfile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		tb.Fatal(err)
	}
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		data []byte
		want Type
	}{
		{nil, Image},
		{[]byte("M"), Image},
		{[]byte("MZ\x90\x00"), Native},
		{[]byte("\x7fELF\x02\x01"), Native},
		{[]byte("\xcf\xfa\xed\xfe"), Native},
		{[]byte("DK\x00\x10"), Image},
		{[]byte("mz"), Image},
		{[]byte("\x7fE\x12\x34"), Image},
		{[]byte("\x7fEL"), Image},
		{[]byte("\xcf\xfa\x00\x00"), Image},
	}

	for _, tt := range tests {
		if got := Detect(tt.data); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestIdentify(t *testing.T) {
	t.Run("native", func(t *testing.T) {
		path := writeFile(t, "fd502.dll", []byte("MZ rest of the binary"))
		typ, err := Identify(path)
		if err != nil {
			t.Fatal(err)
		}
		if typ != Native {
			t.Errorf("Identify() = %v, want %v", typ, Native)
		}
	})
	t.Run("rom starting like elf", func(t *testing.T) {
		path := writeFile(t, "game.rom", []byte("\x7fE\x00\x10\x86\x01"))
		typ, err := Identify(path)
		if err != nil {
			t.Fatal(err)
		}
		if typ != Image {
			t.Errorf("Identify() = %v, want %v", typ, Image)
		}
	})
	t.Run("empty", func(t *testing.T) {
		path := writeFile(t, "empty.rom", nil)
		typ, err := Identify(path)
		if err != nil {
			t.Fatal(err)
		}
		if typ != Image {
			t.Errorf("Identify() = %v, want %v", typ, Image)
		}
	})
	t.Run("missing", func(t *testing.T) {
		_, err := Identify(filepath.Join(t.TempDir(), "nope.rom"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Identify() error = %v, want fs.ErrNotExist", err)
		}
	})
}

func TestReadImage(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		path := writeFile(t, "short.rom", []byte{1, 2, 3})
		buf := bytes.Repeat([]byte{0xAA}, 8)
		n, err := ReadImage(path, buf)
		if err != nil {
			t.Fatal(err)
		}
		if n != 3 {
			t.Errorf("ReadImage() = %d, want 3", n)
		}
		want := []byte{1, 2, 3, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}
		if diff := cmp.Diff(want, buf); diff != "" {
			t.Errorf("buffer mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("truncated", func(t *testing.T) {
		path := writeFile(t, "big.rom", []byte{1, 2, 3, 4, 5, 6})
		buf := make([]byte, 4)
		n, err := ReadImage(path, buf)
		if err != nil {
			t.Fatal(err)
		}
		if n != 4 {
			t.Errorf("ReadImage() = %d, want 4", n)
		}
		if diff := cmp.Diff([]byte{1, 2, 3, 4}, buf); diff != "" {
			t.Errorf("buffer mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProbe(t *testing.T) {
	path := writeFile(t, "disk11.rom", make([]byte, 8192))
	info, err := Probe(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Info{Path: path, Type: Image, Size: 8192}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("Probe mismatch (-want +got):\n%s", diff)
	}

	if _, err := Probe(filepath.Dir(path)); err == nil {
		t.Errorf("Probe(dir) should fail")
	}
}
