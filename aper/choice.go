package aper

// DecodeChoiceIdx reads a CHOICE index (X.691 23). When ext is set one
// extension bit is read first; if it is set, extended is true and nothing
// more is read. Otherwise the index is a constrained whole number in
// lb..ub.
func DecodeChoiceIdx(c *Cursor, lb, ub int, ext bool) (idx int, extended bool, err error) {
	if ext {
		extended, err = c.ReadBit()
		if err != nil || extended {
			return 0, extended, err
		}
	}
	v, err := DecodeConstrainedWholeNumber(c, int64(lb), int64(ub))
	if err != nil {
		return 0, false, err
	}
	return int(v), false, nil
}

// DecodeChoiceExtIdx reads the index of an extension addition, which
// follows a set extension bit.
func DecodeChoiceExtIdx(c *Cursor) (int, error) {
	v, err := DecodeNormallySmall(c)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// EncodeChoiceIdx writes a CHOICE index. A root index is a constrained
// whole number in lb..ub; an extension index, counted from zero among
// the additions, is a normally small number.
func EncodeChoiceIdx(c *Cursor, lb, ub int, ext bool, idx int, extended bool) error {
	if extended && !ext {
		return c.errorf("extension index %d for a CHOICE that is not extensible", idx)
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
	return EncodeConstrainedWholeNumber(c, int64(idx), int64(lb), int64(ub))
}
