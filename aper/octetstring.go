package aper

// EncodeOctetString writes an OCTET STRING with SIZE(lb..ub) (X.691 17).
// The layout follows EncodeBitString with a two octet inline limit.
func EncodeOctetString(c *Cursor, b []byte, lb, ub int, ext bool) error {
	n := len(b)
	lb = max(lb, 0)
	inRoot := sizeInRoot(n, lb, ub)
	if ext {
		c.WriteBit(!inRoot)
		if !inRoot {
			return encodeFragments(c, n, octetWriter(c, b))
		}
	}
	if !inRoot {
		return c.errorf("octet string of %d octets is outside SIZE(%s)", n, sizeString(lb, ub))
	}

	switch {
	case ub == lb:
		switch {
		case n == 0:
			return nil
		case n <= 2:
		case n < k64:
			c.WriteAlign()
		default:
			return encodeFragments(c, n, octetWriter(c, b))
		}
	case ub != NoBound && ub < k64:
		if err := EncodeLength(c, n, lb, ub); err != nil {
			return err
		}
		if n > 0 {
			c.WriteAlign()
		}
	default:
		return encodeFragments(c, n, octetWriter(c, b))
	}
	c.WriteBytes(b)
	return nil
}

func octetWriter(c *Cursor, b []byte) func(off, count int) error {
	return func(off, count int) error {
		c.WriteBytes(b[off : off+count])
		return nil
	}
}

// DecodeOctetString reads an OCTET STRING with SIZE(lb..ub).
func DecodeOctetString(c *Cursor, lb, ub int, ext bool) ([]byte, error) {
	lb = max(lb, 0)
	if ext {
		extended, err := c.ReadBit()
		if err != nil {
			return nil, err
		}
		if extended {
			return decodeGeneralOctets(c, 0, NoBound)
		}
	}

	var n int
	switch {
	case ub == lb:
		n = ub
		switch {
		case n == 0:
			return []byte{}, nil
		case n <= 2:
		case n < k64:
			if err := c.Align(); err != nil {
				return nil, err
			}
		default:
			return decodeGeneralOctets(c, lb, ub)
		}
	case ub != NoBound && ub < k64:
		var err error
		if n, err = DecodeLength(c, lb, ub); err != nil {
			return nil, err
		}
		if n > 0 {
			if err := c.Align(); err != nil {
				return nil, err
			}
		}
	default:
		return decodeGeneralOctets(c, lb, ub)
	}
	return c.ReadBytes(n)
}

func decodeGeneralOctets(c *Cursor, lb, ub int) ([]byte, error) {
	out := []byte{}
	n, err := decodeFragments(c, func(count int) error {
		b, err := c.ReadBytes(count)
		if err != nil {
			return err
		}
		out = append(out, b...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !sizeInRoot(n, lb, ub) {
		return nil, c.errorf("octet string of %d octets is outside SIZE(%s)", n, sizeString(lb, ub))
	}
	return out, nil
}
