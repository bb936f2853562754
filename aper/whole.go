package aper

import (
	"math"
	"math/bits"
)

const (
	// NoBound marks an absent size bound.
	NoBound = -1

	k16 = 16384
	k64 = 65536
)

// octets returns the minimum number of octets holding u, at least one.
func octets(u uint64) int {
	return max(1, (bits.Len64(u)+7)/8)
}

// signedOctets returns the minimum number of octets holding v in two's
// complement.
func signedOctets(v int64) int {
	if v < 0 {
		v = ^v
	}
	return bits.Len64(uint64(v))/8 + 1
}

// EncodeConstrainedWholeNumber writes v in the range lb..ub (X.691 10.5).
func EncodeConstrainedWholeNumber(c *Cursor, v, lb, ub int64) error {
	if lb > ub {
		return c.errorf("lower bound %d exceeds upper bound %d", lb, ub)
	}
	if v < lb || v > ub {
		return c.errorf("value %d is outside %d..%d", v, lb, ub)
	}
	return encodeWhole(c, uint64(v)-uint64(lb), uint64(ub)-uint64(lb))
}

// encodeWhole writes the offset u of a range whose largest offset is span.
func encodeWhole(c *Cursor, u, span uint64) error {
	switch {
	case span == 0:
		return nil
	case span < 255:
		return c.WriteBits(u, bits.Len64(span))
	case span == 255:
		c.WriteAlign()
		return c.WriteBits(u, 8)
	case span < k64:
		c.WriteAlign()
		return c.WriteBits(u, 16)
	}
	n := octets(u)
	if err := encodeWhole(c, uint64(n-1), uint64(octets(span)-1)); err != nil {
		return err
	}
	c.WriteAlign()
	return c.WriteBits(u, 8*n)
}

// DecodeConstrainedWholeNumber reads a number in the range lb..ub.
func DecodeConstrainedWholeNumber(c *Cursor, lb, ub int64) (int64, error) {
	if lb > ub {
		return 0, c.errorf("lower bound %d exceeds upper bound %d", lb, ub)
	}
	u, err := decodeWhole(c, uint64(ub)-uint64(lb))
	if err != nil {
		return 0, err
	}
	return int64(uint64(lb) + u), nil
}

func decodeWhole(c *Cursor, span uint64) (uint64, error) {
	var (
		u   uint64
		err error
	)
	switch {
	case span == 0:
		return 0, nil
	case span < 255:
		u, err = c.ReadBits(bits.Len64(span))
	case span == 255:
		u, err = readAligned(c, 8)
	case span < k64:
		u, err = readAligned(c, 16)
	default:
		var n uint64
		if n, err = decodeWhole(c, uint64(octets(span)-1)); err != nil {
			return 0, err
		}
		u, err = readAligned(c, 8*int(n+1))
	}
	if err != nil {
		return 0, err
	}
	if u > span {
		return 0, c.errorf("value offset %d exceeds range of %d values", u, span+1)
	}
	return u, nil
}

func readAligned(c *Cursor, n int) (uint64, error) {
	if err := c.Align(); err != nil {
		return 0, err
	}
	return c.ReadBits(n)
}

// EncodeNormallySmall writes a normally small non-negative whole number
// (X.691 10.6).
func EncodeNormallySmall(c *Cursor, n uint64) error {
	if n <= 63 {
		c.WriteBit(false)
		return c.WriteBits(n, 6)
	}
	c.WriteBit(true)
	return encodeSemiWhole(c, n)
}

// DecodeNormallySmall reads a normally small non-negative whole number.
func DecodeNormallySmall(c *Cursor) (uint64, error) {
	large, err := c.ReadBit()
	if err != nil {
		return 0, err
	}
	if !large {
		return c.ReadBits(6)
	}
	return decodeSemiWhole(c)
}

// EncodeSemiConstrainedWholeNumber writes v with lower bound lb
// (X.691 10.7).
func EncodeSemiConstrainedWholeNumber(c *Cursor, v, lb int64) error {
	if v < lb {
		return c.errorf("value %d is below %d", v, lb)
	}
	return encodeSemiWhole(c, uint64(v)-uint64(lb))
}

func encodeSemiWhole(c *Cursor, u uint64) error {
	n := octets(u)
	if err := encodeGeneralLength(c, n); err != nil {
		return err
	}
	return c.WriteBits(u, 8*n)
}

// DecodeSemiConstrainedWholeNumber reads a number with lower bound lb.
func DecodeSemiConstrainedWholeNumber(c *Cursor, lb int64) (int64, error) {
	u, err := decodeSemiWhole(c)
	if err != nil {
		return 0, err
	}
	if u > uint64(math.MaxInt64)-uint64(lb) {
		return 0, c.errorf("value offset %d overflows from %d", u, lb)
	}
	return int64(uint64(lb) + u), nil
}

func decodeSemiWhole(c *Cursor) (uint64, error) {
	n, err := decodeNumberLength(c)
	if err != nil {
		return 0, err
	}
	return c.ReadBits(8 * n)
}

// EncodeUnconstrainedWholeNumber writes v in two's complement (X.691 10.8).
func EncodeUnconstrainedWholeNumber(c *Cursor, v int64) error {
	n := signedOctets(v)
	if err := encodeGeneralLength(c, n); err != nil {
		return err
	}
	return c.WriteBits(uint64(v), 8*n)
}

// DecodeUnconstrainedWholeNumber reads a two's complement number.
func DecodeUnconstrainedWholeNumber(c *Cursor) (int64, error) {
	n, err := decodeNumberLength(c)
	if err != nil {
		return 0, err
	}
	u, err := c.ReadBits(8 * n)
	if err != nil {
		return 0, err
	}
	if shift := uint(64 - 8*n); shift > 0 {
		return int64(u<<shift) >> shift, nil
	}
	return int64(u), nil
}

// decodeNumberLength reads the octet count of a semi-constrained or
// unconstrained number.
func decodeNumberLength(c *Cursor) (int, error) {
	n, more, err := decodeGeneralLength(c)
	if err != nil {
		return 0, err
	}
	switch {
	case more:
		return 0, c.errorf("fragmented length in a whole number")
	case n == 0:
		return 0, c.errorf("empty whole number")
	case n > 8:
		return 0, c.errorf("whole number of %d octets is too large", n)
	}
	return n, nil
}
