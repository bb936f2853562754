package aper

import "fmt"

// Cursor is a bit position over a buffer. A reader cursor covers a fixed
// buffer; a writer cursor grows as bits are appended. Bits are numbered
// from the most significant bit of the first octet.
type Cursor struct {
	buf []byte
	pos int
	len int
}

// NewReader returns a cursor positioned at the first bit of data.
func NewReader(data []byte) *Cursor {
	return &Cursor{buf: data, len: len(data) * 8}
}

// NewWriter returns an empty cursor for encoding.
func NewWriter() *Cursor {
	return &Cursor{}
}

// Pos returns the current bit position.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of bits held by the cursor.
func (c *Cursor) Len() int { return c.len }

// Remaining returns the number of bits left to read.
func (c *Cursor) Remaining() int { return c.len - c.pos }

// Bytes returns the written bits, zero padded to a whole octet.
func (c *Cursor) Bytes() []byte {
	return c.buf[:(c.len+7)/8]
}

// Aligned reports whether the position is on an octet boundary.
func (c *Cursor) Aligned() bool { return c.pos%8 == 0 }

func (c *Cursor) errorf(format string, args ...any) *Error {
	return &Error{Pos: c.pos, Message: fmt.Sprintf(format, args...)}
}

func (c *Cursor) need(n int) error {
	if c.Remaining() < n {
		return c.errorf("need %d bits, %d remaining", n, c.Remaining())
	}
	return nil
}

func (c *Cursor) bit(i int) uint64 {
	return uint64(c.buf[i>>3]>>(7-uint(i&7))) & 1
}

// ReadBit reads one bit.
func (c *Cursor) ReadBit() (bool, error) {
	if err := c.need(1); err != nil {
		return false, err
	}
	b := c.bit(c.pos)
	c.pos++
	return b == 1, nil
}

// ReadBits reads n bits, at most 64, as an unsigned big-endian number.
func (c *Cursor) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, c.errorf("cannot read %d bits at once", n)
	}
	if err := c.need(n); err != nil {
		return 0, err
	}
	var v uint64
	for range n {
		v = v<<1 | c.bit(c.pos)
		c.pos++
	}
	return v, nil
}

// ReadBytes reads n octets starting at the current bit position.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, c.errorf("negative octet count %d", n)
	}
	if err := c.need(8 * n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if c.Aligned() {
		copy(out, c.buf[c.pos/8:])
		c.pos += 8 * n
		return out, nil
	}
	for i := range out {
		v, _ := c.ReadBits(8)
		out[i] = byte(v)
	}
	return out, nil
}

// Align skips the padding bits up to the next octet boundary.
func (c *Cursor) Align() error {
	if pad := (8 - c.pos%8) % 8; pad > 0 {
		if err := c.need(pad); err != nil {
			return err
		}
		c.pos += pad
	}
	return nil
}

func (c *Cursor) grow(n int) {
	for need := (c.pos + n + 7) / 8; len(c.buf) < need; {
		c.buf = append(c.buf, 0)
	}
}

func (c *Cursor) advance(n int) {
	c.pos += n
	if c.pos > c.len {
		c.len = c.pos
	}
}

// WriteBit appends one bit.
func (c *Cursor) WriteBit(b bool) {
	c.grow(1)
	if b {
		c.buf[c.pos>>3] |= 0x80 >> uint(c.pos&7)
	}
	c.advance(1)
}

// WriteBits appends the low n bits of v, most significant first.
func (c *Cursor) WriteBits(v uint64, n int) error {
	if n < 0 || n > 64 {
		return c.errorf("cannot write %d bits at once", n)
	}
	c.grow(n)
	for i := n - 1; i >= 0; i-- {
		if v>>uint(i)&1 == 1 {
			c.buf[c.pos>>3] |= 0x80 >> uint(c.pos&7)
		}
		c.advance(1)
	}
	return nil
}

// WriteBytes appends the octets of b at the current bit position.
func (c *Cursor) WriteBytes(b []byte) {
	if c.Aligned() {
		c.buf = append(c.buf[:c.pos/8], b...)
		c.advance(8 * len(b))
		return
	}
	for _, v := range b {
		_ = c.WriteBits(uint64(v), 8)
	}
}

// WriteAlign appends zero bits up to the next octet boundary.
func (c *Cursor) WriteAlign() {
	if pad := (8 - c.pos%8) % 8; pad > 0 {
		c.grow(pad)
		c.advance(pad)
	}
}
