package goaper

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeSource converts module text to UTF-8. Text starting with a UTF-16
// byte order mark is decoded as UTF-16, a UTF-8 mark is stripped, and
// anything else that is not valid UTF-8 is taken as Latin-1.
func decodeSource(src []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(src, bomUTF8):
		return src[len(bomUTF8):], nil
	case bytes.HasPrefix(src, bomUTF16LE), bytes.HasPrefix(src, bomUTF16BE):
		out, _, err := transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), src)
		if err != nil {
			return nil, fmt.Errorf("decoding UTF-16 source: %w", err)
		}
		return out, nil
	case utf8.Valid(src):
		return src, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(src)
	if err != nil {
		return nil, fmt.Errorf("decoding Latin-1 source: %w", err)
	}
	return out, nil
}
