package aper

import (
	"encoding/asn1"
	"strconv"
)

// BitString is a BIT STRING value. Bits are numbered from the most
// significant bit of the first octet.
type BitString = asn1.BitString

// sizeString renders a size range as ASN.1 notation.
func sizeString(lb, ub int) string {
	lower := strconv.Itoa(max(lb, 0))
	if ub == NoBound {
		return lower + "..MAX"
	}
	if lb == ub {
		return lower
	}
	return lower + ".." + strconv.Itoa(ub)
}

func sizeInRoot(n, lb, ub int) bool {
	return n >= max(lb, 0) && (ub == NoBound || n <= ub)
}

// EncodeBitString writes a BIT STRING with SIZE(lb..ub) (X.691 16). Pass
// NoBound for an absent upper bound. A fixed size up to 16 bits is
// written inline with no length; larger fixed sizes below 64K are octet
// aligned first. Variable sizes with an upper bound below 64K carry a
// constrained length and the bits follow octet aligned; all others use
// general lengths and fragment from 16K bits.
func EncodeBitString(c *Cursor, b BitString, lb, ub int, ext bool) error {
	n := b.BitLength
	if n < 0 || len(b.Bytes)*8 < n {
		return c.errorf("bit string of %d bits has %d octets", n, len(b.Bytes))
	}
	lb = max(lb, 0)
	inRoot := sizeInRoot(n, lb, ub)
	if ext {
		c.WriteBit(!inRoot)
		if !inRoot {
			return encodeFragments(c, n, bitWriter(c, b))
		}
	}
	if !inRoot {
		return c.errorf("bit string of %d bits is outside SIZE(%s)", n, sizeString(lb, ub))
	}

	switch {
	case ub == lb:
		switch {
		case n == 0:
			return nil
		case n <= 16:
		case n < k64:
			c.WriteAlign()
		default:
			return encodeFragments(c, n, bitWriter(c, b))
		}
	case ub != NoBound && ub < k64:
		if err := EncodeLength(c, n, lb, ub); err != nil {
			return err
		}
		if n > 0 {
			c.WriteAlign()
		}
	default:
		return encodeFragments(c, n, bitWriter(c, b))
	}
	return bitWriter(c, b)(0, n)
}

func bitWriter(c *Cursor, b BitString) func(off, count int) error {
	return func(off, count int) error {
		for i := off; i < off+count; i++ {
			c.WriteBit(b.At(i) == 1)
		}
		return nil
	}
}

// DecodeBitString reads a BIT STRING with SIZE(lb..ub).
func DecodeBitString(c *Cursor, lb, ub int, ext bool) (BitString, error) {
	lb = max(lb, 0)
	var out BitString
	if ext {
		extended, err := c.ReadBit()
		if err != nil {
			return BitString{}, err
		}
		if extended {
			if _, err := decodeFragments(c, bitReader(c, &out)); err != nil {
				return BitString{}, err
			}
			return out, nil
		}
	}

	var n int
	switch {
	case ub == lb:
		n = ub
		switch {
		case n == 0:
			return out, nil
		case n <= 16:
		case n < k64:
			if err := c.Align(); err != nil {
				return BitString{}, err
			}
		default:
			return decodeGeneralBits(c, lb, ub)
		}
	case ub != NoBound && ub < k64:
		var err error
		if n, err = DecodeLength(c, lb, ub); err != nil {
			return BitString{}, err
		}
		if n > 0 {
			if err := c.Align(); err != nil {
				return BitString{}, err
			}
		}
	default:
		return decodeGeneralBits(c, lb, ub)
	}
	if err := bitReader(c, &out)(n); err != nil {
		return BitString{}, err
	}
	return out, nil
}

func decodeGeneralBits(c *Cursor, lb, ub int) (BitString, error) {
	var out BitString
	n, err := decodeFragments(c, bitReader(c, &out))
	if err != nil {
		return BitString{}, err
	}
	if !sizeInRoot(n, lb, ub) {
		return BitString{}, c.errorf("bit string of %d bits is outside SIZE(%s)", n, sizeString(lb, ub))
	}
	return out, nil
}

// bitReader appends count bits from the cursor to b.
func bitReader(c *Cursor, b *BitString) func(count int) error {
	return func(count int) error {
		if err := c.need(count); err != nil {
			return err
		}
		total := b.BitLength + count
		for len(b.Bytes) < (total+7)/8 {
			b.Bytes = append(b.Bytes, 0)
		}
		for i := b.BitLength; i < total; i++ {
			if c.bit(c.pos) == 1 {
				b.Bytes[i>>3] |= 0x80 >> uint(i&7)
			}
			c.pos++
		}
		b.BitLength = total
		return nil
	}
}
