package aper

// EncodeLength writes a length determinant n for a size range lb..ub
// (X.691 10.9). An upper bound below 64K uses the constrained form;
// NoBound or a larger bound uses the general form, which cannot express
// 16K or more without fragmenting the content.
func EncodeLength(c *Cursor, n, lb, ub int) error {
	lb = max(lb, 0)
	if ub != NoBound && ub < k64 {
		if ub < lb {
			return c.errorf("size bounds %d..%d are empty", lb, ub)
		}
		if n < lb || n > ub {
			return c.errorf("length %d is outside %d..%d", n, lb, ub)
		}
		return encodeWhole(c, uint64(n-lb), uint64(ub-lb))
	}
	if n < lb {
		return c.errorf("length %d is below %d", n, lb)
	}
	return encodeGeneralLength(c, n)
}

// DecodeLength reads a length determinant for a size range lb..ub. A
// fragmented general length is an error; content that may fragment is
// read by the string decoders.
func DecodeLength(c *Cursor, lb, ub int) (int, error) {
	lb = max(lb, 0)
	if ub != NoBound && ub < k64 {
		if ub < lb {
			return 0, c.errorf("size bounds %d..%d are empty", lb, ub)
		}
		u, err := decodeWhole(c, uint64(ub-lb))
		if err != nil {
			return 0, err
		}
		return lb + int(u), nil
	}
	n, more, err := decodeGeneralLength(c)
	if err != nil {
		return 0, err
	}
	if more {
		return 0, c.errorf("unexpected fragmented length")
	}
	if n < lb {
		return 0, c.errorf("length %d is below %d", n, lb)
	}
	return n, nil
}

// encodeGeneralLength writes an aligned one or two octet length.
func encodeGeneralLength(c *Cursor, n int) error {
	c.WriteAlign()
	switch {
	case n < 0:
		return c.errorf("negative length %d", n)
	case n < 128:
		return c.WriteBits(uint64(n), 8)
	case n < k16:
		return c.WriteBits(0x8000|uint64(n), 16)
	}
	return c.errorf("length %d requires fragmentation", n)
}

// decodeGeneralLength reads an aligned general length. more reports a
// fragment header, in which case n is the fragment size and another
// length follows the fragment.
func decodeGeneralLength(c *Cursor) (n int, more bool, err error) {
	b, err := readAligned(c, 8)
	if err != nil {
		return 0, false, err
	}
	switch {
	case b&0x80 == 0:
		return int(b), false, nil
	case b&0xC0 == 0x80:
		lo, err := c.ReadBits(8)
		if err != nil {
			return 0, false, err
		}
		return int(b&0x3F)<<8 | int(lo), false, nil
	}
	m := int(b & 0x3F)
	if m < 1 || m > 4 {
		return 0, false, c.errorf("invalid fragment header %#02x", b)
	}
	return m * k16, true, nil
}

// encodeFragments writes n items under general lengths, splitting the
// content into fragments of up to 64K items. write emits count items
// starting at item off.
func encodeFragments(c *Cursor, n int, write func(off, count int) error) error {
	off := 0
	for n-off >= k16 {
		m := min((n-off)/k16, 4)
		c.WriteAlign()
		if err := c.WriteBits(0xC0|uint64(m), 8); err != nil {
			return err
		}
		if err := write(off, m*k16); err != nil {
			return err
		}
		off += m * k16
	}
	if err := encodeGeneralLength(c, n-off); err != nil {
		return err
	}
	return write(off, n-off)
}

// decodeFragments reads general lengths and their content until a
// length without a fragment header. read consumes count items.
func decodeFragments(c *Cursor, read func(count int) error) (int, error) {
	total := 0
	for {
		n, more, err := decodeGeneralLength(c)
		if err != nil {
			return 0, err
		}
		if err := read(n); err != nil {
			return 0, err
		}
		total += n
		if !more {
			return total, nil
		}
	}
}
