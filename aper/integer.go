package aper

// EncodeInteger writes a constrained INTEGER with root lb..ub (X.691 12).
// When ext is set an extension bit precedes the value and values outside
// the root are written unconstrained; otherwise they are an error.
func EncodeInteger(c *Cursor, v, lb, ub int64, ext bool) error {
	inRoot := v >= lb && v <= ub
	if ext {
		c.WriteBit(!inRoot)
		if !inRoot {
			return EncodeUnconstrainedWholeNumber(c, v)
		}
	}
	return EncodeConstrainedWholeNumber(c, v, lb, ub)
}

// DecodeInteger reads a constrained INTEGER with root lb..ub.
func DecodeInteger(c *Cursor, lb, ub int64, ext bool) (int64, error) {
	if ext {
		extended, err := c.ReadBit()
		if err != nil {
			return 0, err
		}
		if extended {
			return DecodeUnconstrainedWholeNumber(c)
		}
	}
	return DecodeConstrainedWholeNumber(c, lb, ub)
}

// EncodeSemiConstrainedInteger writes an INTEGER with only a lower bound.
func EncodeSemiConstrainedInteger(c *Cursor, v, lb int64, ext bool) error {
	if ext {
		c.WriteBit(v < lb)
		if v < lb {
			return EncodeUnconstrainedWholeNumber(c, v)
		}
	}
	return EncodeSemiConstrainedWholeNumber(c, v, lb)
}

// DecodeSemiConstrainedInteger reads an INTEGER with only a lower bound.
func DecodeSemiConstrainedInteger(c *Cursor, lb int64, ext bool) (int64, error) {
	if ext {
		extended, err := c.ReadBit()
		if err != nil {
			return 0, err
		}
		if extended {
			return DecodeUnconstrainedWholeNumber(c)
		}
	}
	return DecodeSemiConstrainedWholeNumber(c, lb)
}

// EncodeUnconstrainedInteger writes an INTEGER with no lower bound. With
// ext set the extension bit is always clear since every value is in the
// root.
func EncodeUnconstrainedInteger(c *Cursor, v int64, ext bool) error {
	if ext {
		c.WriteBit(false)
	}
	return EncodeUnconstrainedWholeNumber(c, v)
}

// DecodeUnconstrainedInteger reads an INTEGER with no lower bound.
func DecodeUnconstrainedInteger(c *Cursor, ext bool) (int64, error) {
	if ext {
		if _, err := c.ReadBit(); err != nil {
			return 0, err
		}
	}
	return DecodeUnconstrainedWholeNumber(c)
}
