package ot

import (
	"errors"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data. We use it throughout this package
// to navigate the font's binary data.
type binarySegm []byte

// Size returns the number of bytes in b.
func (b binarySegm) Size() int {
	return len(b)
}

// Bytes returns b as a plain byte slice.
func (b binarySegm) Bytes() []byte {
	return b
}

// U16 is a convenience access to 16 bit data at byte index i.
// Reading beyond the segment yields 0.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 is a convenience access to 32 bit data at byte index i.
// Reading beyond the segment yields 0.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// from returns the tail of b, starting at offset.
func (b binarySegm) from(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, errBufferBounds
	}
	return b[offset:], nil
}

// u8 returns the byte in b at the relative offset i.
func (b binarySegm) u8(i int) (uint8, error) {
	if i < 0 || i >= len(b) {
		return 0, errBufferBounds
	}
	return b[i], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// uN reads an unsigned big-endian integer of n bytes (1 ≤ n ≤ 4), as used
// by CFF offset arrays.
func (b binarySegm) uN(i int, n int) (uint32, error) {
	buf, err := b.view(i, n)
	if err != nil {
		return 0, err
	}
	var v uint32
	for _, c := range buf {
		v = v<<8 | uint32(c)
	}
	return v, nil
}

// jump16 follows a 16-bit offset stored at b[at:], relative to the start of b.
// A NULL offset returns a nil segment and no error.
func (b binarySegm) jump16(at int) (binarySegm, error) {
	off, err := b.u16(at)
	if err != nil {
		return nil, err
	}
	if off == 0 {
		return nil, nil
	}
	return b.from(int(off))
}

// jump32 follows a 32-bit offset stored at b[at:], relative to the start of b.
func (b binarySegm) jump32(at int) (binarySegm, error) {
	off, err := b.u32(at)
	if err != nil {
		return nil, err
	}
	if off == 0 {
		return nil, nil
	}
	return b.from(int(off))
}

// u16Array reads a counted array of uint16 values: the count is located at b[at:],
// followed immediately by the entries.
func (b binarySegm) u16Array(at int) ([]uint16, error) {
	n, err := b.u16(at)
	if err != nil {
		return nil, err
	}
	buf, err := b.view(at+2, int(n)*2)
	if err != nil {
		return nil, err
	}
	r := make([]uint16, n)
	for i := range r {
		r[i] = u16(buf[i*2:])
	}
	return r, nil
}
