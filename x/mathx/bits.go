package mathx

import "golang.org/x/exp/constraints"

// Mask returns a run of length set bits whose most significant bit is at
// position high. Ranges that do not fit below bit 0 yield 0.
func Mask[T constraints.Unsigned](high, length uint8) T {
	if length == 0 || length > high+1 {
		return 0
	}
	low := high - length + 1
	var m T
	for i := low; i <= high; i++ {
		m |= T(1) << i
	}
	return m
}

// Field extracts the length-bit field ending at bit high, shifted down to bit 0.
func Field[T constraints.Unsigned](v T, high, length uint8) T {
	m := Mask[T](high, length)
	if m == 0 {
		return 0
	}
	return (v & m) >> (high - length + 1)
}

// Insert returns v with the length-bit field ending at bit high replaced by
// field. Bits of field above length are discarded.
func Insert[T constraints.Unsigned](v T, high, length uint8, field T) T {
	m := Mask[T](high, length)
	if m == 0 {
		return v
	}
	return (v &^ m) | ((field << (high - length + 1)) & m)
}
