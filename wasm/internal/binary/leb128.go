package binary

import "errors"

// ErrOverflow is returned when a LEB128 value does not fit in 32 bits.
var ErrOverflow = errors.New("leb128: overflow")

// ErrTruncated is returned when input ends inside a LEB128 value.
var ErrTruncated = errors.New("leb128: truncated")

// maxLen32 is the longest encoding of a 32-bit value.
const maxLen32 = 5

// AppendU32 appends the unsigned LEB128 encoding of v to dst.
func AppendU32(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendS32 appends the signed LEB128 encoding of v to dst.
func AppendS32(dst []byte, v int32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// U32 decodes an unsigned LEB128 value from the start of b and returns it
// with the number of bytes consumed.
func U32(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < len(b); i++ {
		if i == maxLen32 {
			return 0, 0, ErrOverflow
		}
		v |= uint32(b[i]&0x7f) << (7 * i)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}

// S32 decodes a signed LEB128 value from the start of b and returns it with
// the number of bytes consumed.
func S32(b []byte) (int32, int, error) {
	var v int32
	for i := 0; i < len(b); i++ {
		if i == maxLen32 {
			return 0, 0, ErrOverflow
		}
		shift := uint(7 * i)
		v |= int32(b[i]&0x7f) << shift
		if b[i]&0x80 == 0 {
			if shift+7 < 32 && b[i]&0x40 != 0 {
				v |= ^int32(0) << (shift + 7)
			}
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}
