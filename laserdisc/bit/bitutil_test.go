package bit

import (
	"testing"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x12, 0x34, 0x1234},
	}

	for _, tt := range tests {
		result := Combine(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
	}
}

func TestCombine24(t *testing.T) {
	if got := Combine24(0xF8, 0x12, 0x34); got != 0xF81234 {
		t.Errorf("Combine24 = %06X; want F81234", got)
	}
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		byte     uint8
		index    uint8
		expected bool
	}{
		{0b10101010, 0, false},
		{0b10101010, 1, true},
		{0b10101010, 2, false},
		{0b10101010, 7, true},
		{0b10101010, 8, false},
	}

	for _, tt := range tests {
		if result := IsSet(tt.index, tt.byte); result != tt.expected {
			t.Errorf("IsSet(%d, %08b) = %v; want %v", tt.index, tt.byte, result, tt.expected)
		}
	}
}

func TestSetClearToggle(t *testing.T) {
	if got := Set(3, 0x00); got != 0x08 {
		t.Errorf("Set(3, 0) = %02X", got)
	}
	if got := Clear(7, 0xFF); got != 0x7F {
		t.Errorf("Clear(7, FF) = %02X", got)
	}
	if got := Toggle(0, Toggle(0, 0x55)); got != 0x55 {
		t.Errorf("double Toggle = %02X", got)
	}
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value  int
		digits int
		bcd    uint32
	}{
		{0, 5, 0x00000},
		{1, 5, 0x00001},
		{12345, 5, 0x12345},
		{79999, 5, 0x79999},
		{42, 2, 0x42},
	}

	for _, tt := range tests {
		if got := ToBCD(tt.value, tt.digits); got != tt.bcd {
			t.Errorf("ToBCD(%d) = %X; want %X", tt.value, got, tt.bcd)
		}
		value, ok := FromBCD(tt.bcd, tt.digits)
		if !ok || value != tt.value {
			t.Errorf("FromBCD(%X) = %d, %v; want %d", tt.bcd, value, ok, tt.value)
		}
	}

	if _, ok := FromBCD(0x1A, 2); ok {
		t.Error("FromBCD should reject non-decimal nibbles")
	}
}
