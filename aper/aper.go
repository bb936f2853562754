// Package aper implements the ALIGNED variant of the Packed Encoding Rules
// (ITU-T X.691) for the constructs the schema compiler supports.
//
// Every primitive reads from or writes to a bit Cursor. Decoders that run
// out of input fail without consuming the bits they could not complete.
// Generated code and the binding package compose these primitives; the
// functions here know nothing about schemas.
package aper

import (
	"errors"
	"fmt"
)

// ErrChoiceAdditions reports a CHOICE value whose extension bit is set.
// Extension additions are not decoded.
var ErrChoiceAdditions = errors.New("CHOICE Additions not supported yet")

// Error is a codec failure at a bit position of the cursor.
type Error struct {
	// Pos is the cursor position, in bits, when the failure was detected.
	Pos     int
	Message string
	// Err is the sentinel the failure matches, if any.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("aper: bit %d: %s", e.Pos, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Encoder is implemented by values that can write themselves as APER.
type Encoder interface {
	EncodeAPER(c *Cursor) error
}

// Decoder is implemented by values that can read themselves from APER.
type Decoder interface {
	DecodeAPER(c *Cursor) error
}

// Marshal encodes v as a complete APER encoding. An empty encoding is
// one zero octet, as X.691 requires for an outermost value.
func Marshal(v Encoder) ([]byte, error) {
	c := NewWriter()
	if err := v.EncodeAPER(c); err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return []byte{0}, nil
	}
	return c.Bytes(), nil
}

// Unmarshal decodes data into v. Trailing padding is ignored.
func Unmarshal(data []byte, v Decoder) error {
	return v.DecodeAPER(NewReader(data))
}
