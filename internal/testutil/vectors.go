package testutil

import (
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// Vector is one codec test vector. Bounds are pointers so a vector can
// leave either side unconstrained.
type Vector struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Lower *int64 `yaml:"lb"`
	Upper *int64 `yaml:"ub"`
	Ext   bool   `yaml:"ext"`
	// Value is the integer, index or length being encoded.
	Value int64 `yaml:"value"`
	// Extended marks a value encoded outside the extension root.
	Extended bool `yaml:"extended"`
	// Bits is a binary payload for bit string vectors, e.g. "1011".
	Bits string `yaml:"bits"`
	// Hex is the expected encoding, octet aligned with zero padding.
	Hex string `yaml:"hex"`
	// BitLen is the expected encoding length in bits.
	BitLen int `yaml:"bitlen"`
	// Error, when set, is a substring of the expected encode error.
	Error string `yaml:"error"`
}

// VectorFile is the top-level layout of a vectors YAML file.
type VectorFile struct {
	Vectors []Vector `yaml:"vectors"`
}

// LoadVectors reads a YAML vector file.
func LoadVectors(t testing.TB, path string) []Vector {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read vectors %s: %v", path, err)
	}
	var file VectorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("failed to parse vectors %s: %v", path, err)
	}
	return file.Vectors
}

// Bytes decodes the expected encoding. Spaces in the hex text are ignored.
func (v Vector) Bytes(t testing.TB) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(v.Hex, " ", ""))
	if err != nil {
		t.Fatalf("vector %s: bad hex %q: %v", v.Name, v.Hex, err)
	}
	return b
}

// Bound returns *p, or def when the bound is absent.
func Bound(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}
