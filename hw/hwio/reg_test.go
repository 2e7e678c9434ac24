package hwio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReg8BankSelect(t *testing.T) {
	type write struct{ Old, Val uint8 }
	var writes []write

	bank := Reg8{
		Name:    "BANKSEL",
		RoMask:  0xF0,
		WriteCb: func(old, val uint8) { writes = append(writes, write{old, val}) },
	}

	tests := []struct {
		in, want uint8
	}{
		{0x03, 0x03},
		{0x0F, 0x0F},
		{0xF5, 0x05}, // high nibble is read-only
		{0x10, 0x00},
	}
	for _, tt := range tests {
		bank.Write8(0x40, tt.in)
		if got := bank.Read8(0x40, false); got != tt.want {
			t.Errorf("Write8(%02x): Read8() = %02x, want %02x", tt.in, got, tt.want)
		}
	}

	want := []write{{0x00, 0x03}, {0x03, 0x0F}, {0x0F, 0x05}, {0x05, 0x00}}
	if diff := cmp.Diff(want, writes); diff != "" {
		t.Errorf("write callbacks mismatch (-want +got):\n%s", diff)
	}

	bank.Write8(0x40, 0x07)
	writes = nil
	bank.Reset(0)
	if bank.Value != 0 {
		t.Errorf("Value = %02x after Reset, want 0", bank.Value)
	}
	if len(writes) != 0 {
		t.Errorf("Reset triggered write callbacks: %v", writes)
	}
}
