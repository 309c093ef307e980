package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// Combine24 packs three bytes, most significant first, into a 24 bit value.
func Combine24(high, mid, low uint8) uint32 {
	return uint32(high)<<16 | uint32(mid)<<8 | uint32(low)
}

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

func IsSet16(index, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// Clear will return the passed byte with the bit at the specified index Set to 0.
func Clear(index, byte uint8) uint8 {
	return byte & ^(1 << index)
}

// Set will return the passed byte with the bit at the specified index Set to 1.
func Set(index, byte uint8) uint8 {
	return byte | (1 << index)
}

// Toggle flips the bit at the specified index.
func Toggle(index, byte uint8) uint8 {
	return byte ^ (1 << index)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Nibble returns the 4 bit group at the given nibble index (0 = lowest).
func Nibble(value uint32, index uint) uint32 {
	return (value >> (index * 4)) & 0xF
}

// ToBCD packs the lowest decimal digits of value into nibbles, one digit
// per nibble, least significant digit in the lowest nibble.
func ToBCD(value int, digits int) uint32 {
	var result uint32
	for i := 0; i < digits; i++ {
		result |= uint32(value%10) << (uint(i) * 4)
		value /= 10
	}
	return result
}

// FromBCD unpacks a BCD value of the given number of digits. ok is false
// if any nibble is not a decimal digit.
func FromBCD(bcd uint32, digits int) (value int, ok bool) {
	for i := digits - 1; i >= 0; i-- {
		d := Nibble(bcd, uint(i))
		if d > 9 {
			return 0, false
		}
		value = value*10 + int(d)
	}
	return value, true
}
