package aper

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/golangsnmp/goaper/internal/testutil"
)

func parseBits(t testing.TB, s string) BitString {
	t.Helper()
	b := BitString{Bytes: make([]byte, (len(s)+7)/8), BitLength: len(s)}
	for i, ch := range s {
		switch ch {
		case '1':
			b.Bytes[i/8] |= 0x80 >> uint(i%8)
		case '0':
		default:
			t.Fatalf("bad bit %q in %q", ch, s)
		}
	}
	return b
}

func formatBits(b BitString) string {
	var sb strings.Builder
	for i := range b.BitLength {
		sb.WriteByte('0' + byte(b.At(i)))
	}
	return sb.String()
}

func formatOctets(b []byte) string {
	return formatBits(BitString{Bytes: b, BitLength: 8 * len(b)})
}

func sizeBounds(v testutil.Vector) (int, int) {
	return int(testutil.Bound(v.Lower, 0)), int(testutil.Bound(v.Upper, NoBound))
}

func encodeVector(t *testing.T, c *Cursor, v testutil.Vector) error {
	lb, ub := testutil.Bound(v.Lower, 0), testutil.Bound(v.Upper, 0)
	switch v.Kind {
	case "constrained":
		return EncodeConstrainedWholeNumber(c, v.Value, lb, ub)
	case "integer":
		return EncodeInteger(c, v.Value, lb, ub, v.Ext)
	case "semi":
		return EncodeSemiConstrainedInteger(c, v.Value, lb, v.Ext)
	case "unconstrained":
		return EncodeUnconstrainedInteger(c, v.Value, v.Ext)
	case "small":
		return EncodeNormallySmall(c, uint64(v.Value))
	case "length":
		slb, sub := sizeBounds(v)
		return EncodeLength(c, int(v.Value), slb, sub)
	case "choice":
		return EncodeChoiceIdx(c, int(lb), int(ub), v.Ext, int(v.Value), v.Extended)
	case "enumerated":
		return EncodeEnumerated(c, int(v.Value), int(ub)+1, v.Ext, v.Extended)
	case "bitstring":
		slb, sub := sizeBounds(v)
		return EncodeBitString(c, parseBits(t, v.Bits), slb, sub, v.Ext)
	case "octetstring":
		slb, sub := sizeBounds(v)
		return EncodeOctetString(c, parseBits(t, v.Bits).Bytes, slb, sub, v.Ext)
	}
	t.Fatalf("unknown vector kind %q", v.Kind)
	return nil
}

// decodeVector returns the decoded value in the same text form as
// expectVector.
func decodeVector(t *testing.T, c *Cursor, v testutil.Vector) string {
	lb, ub := testutil.Bound(v.Lower, 0), testutil.Bound(v.Upper, 0)
	var (
		out string
		err error
	)
	number := func(n int64, e error) {
		out, err = fmt.Sprint(n), e
	}
	switch v.Kind {
	case "constrained":
		number(DecodeConstrainedWholeNumber(c, lb, ub))
	case "integer":
		number(DecodeInteger(c, lb, ub, v.Ext))
	case "semi":
		number(DecodeSemiConstrainedInteger(c, lb, v.Ext))
	case "unconstrained":
		number(DecodeUnconstrainedInteger(c, v.Ext))
	case "small":
		var n uint64
		n, err = DecodeNormallySmall(c)
		out = fmt.Sprint(n)
	case "length":
		slb, sub := sizeBounds(v)
		var n int
		n, err = DecodeLength(c, slb, sub)
		out = fmt.Sprint(n)
	case "choice":
		idx, extended, e := DecodeChoiceIdx(c, int(lb), int(ub), v.Ext)
		if e == nil && extended {
			idx, e = DecodeChoiceExtIdx(c)
		}
		out, err = fmt.Sprintf("%d extended=%v", idx, extended), e
	case "enumerated":
		idx, extended, e := DecodeEnumerated(c, int(ub)+1, v.Ext)
		out, err = fmt.Sprintf("%d extended=%v", idx, extended), e
	case "bitstring":
		slb, sub := sizeBounds(v)
		var b BitString
		b, err = DecodeBitString(c, slb, sub, v.Ext)
		out = formatBits(b)
	case "octetstring":
		slb, sub := sizeBounds(v)
		var b []byte
		b, err = DecodeOctetString(c, slb, sub, v.Ext)
		out = formatOctets(b)
	default:
		t.Fatalf("unknown vector kind %q", v.Kind)
	}
	testutil.NoError(t, err, "decode")
	return out
}

func expectVector(v testutil.Vector) string {
	switch v.Kind {
	case "choice", "enumerated":
		return fmt.Sprintf("%d extended=%v", v.Value, v.Extended)
	case "bitstring", "octetstring":
		return v.Bits
	}
	return fmt.Sprint(v.Value)
}

func TestVectors(t *testing.T) {
	vectors := testutil.LoadVectors(t, "testdata/vectors.yaml")
	testutil.NotEmpty(t, vectors)

	for _, v := range vectors {
		t.Run(v.Kind+"/"+v.Name, func(t *testing.T) {
			w := NewWriter()
			err := encodeVector(t, w, v)
			if v.Error != "" {
				testutil.ErrorContains(t, err, v.Error)
				return
			}
			testutil.NoError(t, err, "encode")
			testutil.Equal(t, v.BitLen, w.Len(), "encoded bit count")
			want := v.Bytes(t)
			testutil.Equal(t, hex.EncodeToString(want), hex.EncodeToString(w.Bytes()))

			r := NewReader(want)
			testutil.Equal(t, expectVector(v), decodeVector(t, r, v))
			testutil.Equal(t, v.BitLen, r.Pos(), "decoded bit count")
		})
	}
}
