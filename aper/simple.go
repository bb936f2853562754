package aper

// EncodeBoolean writes a BOOLEAN as one bit (X.691 11).
func EncodeBoolean(c *Cursor, v bool) error {
	c.WriteBit(v)
	return nil
}

// DecodeBoolean reads a BOOLEAN.
func DecodeBoolean(c *Cursor) (bool, error) {
	return c.ReadBit()
}

// EncodeNull writes nothing.
func EncodeNull(*Cursor) error { return nil }

// DecodeNull reads nothing.
func DecodeNull(*Cursor) error { return nil }

// EncodeEnumerated writes an ENUMERATED index (X.691 14). Root indices
// are constrained to 0..count-1; an extension index is a normally small
// number counted from zero among the additions.
func EncodeEnumerated(c *Cursor, idx, count int, ext, extended bool) error {
	if extended && !ext {
		return c.errorf("extension item %d for an ENUMERATED that is not extensible", idx)
	}
	if ext {
		c.WriteBit(extended)
	}
	if extended {
		if idx < 0 {
			return c.errorf("negative extension index %d", idx)
		}
		return EncodeNormallySmall(c, uint64(idx))
	}
	if count < 1 {
		return c.errorf("ENUMERATED with no root items")
	}
	return EncodeConstrainedWholeNumber(c, int64(idx), 0, int64(count-1))
}

// DecodeEnumerated reads an ENUMERATED index with count root items.
func DecodeEnumerated(c *Cursor, count int, ext bool) (idx int, extended bool, err error) {
	if ext {
		if extended, err = c.ReadBit(); err != nil {
			return 0, false, err
		}
		if extended {
			v, err := DecodeNormallySmall(c)
			if err != nil {
				return 0, true, err
			}
			return int(v), true, nil
		}
	}
	if count < 1 {
		return 0, false, c.errorf("ENUMERATED with no root items")
	}
	v, err := DecodeConstrainedWholeNumber(c, 0, int64(count-1))
	if err != nil {
		return 0, false, err
	}
	return int(v), false, nil
}
