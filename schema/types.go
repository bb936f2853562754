// Package schema provides the resolved model produced by compiling ASN.1
// modules: concrete type descriptors keyed by qualified name.
package schema

import (
	"slices"
	"strconv"
	"strings"
)

// QualifiedName identifies a definition across modules.
type QualifiedName struct {
	Module string
	Name   string
}

// String returns "Module.Name", or just the name when the module is empty.
func (q QualifiedName) String() string {
	if q.Module == "" {
		return q.Name
	}
	return q.Module + "." + q.Name
}

// IsZero reports whether q names nothing.
func (q QualifiedName) IsZero() bool {
	return q.Module == "" && q.Name == ""
}

// MarshalText implements encoding.TextMarshaler.
func (q QualifiedName) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// ParseQualifiedName splits "Module.Name". A name with no dot yields an
// empty module.
func ParseQualifiedName(s string) QualifiedName {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return QualifiedName{Module: s[:i], Name: s[i+1:]}
	}
	return QualifiedName{Name: s}
}

// Kind identifies the ASN.1 construct a resolved type encodes as.
type Kind int

const (
	KindUnknown Kind = iota
	KindInteger
	KindBoolean
	KindNull
	KindEnumerated
	KindBitString
	KindOctetString
	KindChoice
	// KindReference is a payload that refers to another definition by
	// identity. The target is looked up lazily, which lets recursive
	// CHOICE graphs compose.
	KindReference
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindInteger:     "INTEGER",
	KindBoolean:     "BOOLEAN",
	KindNull:        "NULL",
	KindEnumerated:  "ENUMERATED",
	KindBitString:   "BIT STRING",
	KindOctetString: "OCTET STRING",
	KindChoice:      "CHOICE",
	KindReference:   "reference",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Range is an inclusive lower..upper bound on a value, a size or a
// CHOICE index. A missing bound is MIN or MAX.
type Range struct {
	Lower      int64 `json:"lower"`
	Upper      int64 `json:"upper"`
	HasLower   bool  `json:"hasLower"`
	HasUpper   bool  `json:"hasUpper"`
	Extensible bool  `json:"extensible,omitempty"`
}

// Bounded returns a constrained, non-extensible range.
func Bounded(lower, upper int64) Range {
	return Range{Lower: lower, Upper: upper, HasLower: true, HasUpper: true}
}

// Constrained reports whether both bounds are present.
func (r Range) Constrained() bool {
	return r.HasLower && r.HasUpper
}

// Fixed reports whether the range admits exactly one value.
func (r Range) Fixed() bool {
	return r.Constrained() && r.Lower == r.Upper
}

// Contains reports whether v lies within the bounds.
func (r Range) Contains(v int64) bool {
	if r.HasLower && v < r.Lower {
		return false
	}
	if r.HasUpper && v > r.Upper {
		return false
	}
	return true
}

// Count returns the number of values in a constrained range, or 0 when it
// is unconstrained or the count does not fit in a uint64.
func (r Range) Count() uint64 {
	if !r.Constrained() {
		return 0
	}
	return uint64(r.Upper-r.Lower) + 1
}

// String returns the range in ASN.1 notation, e.g. "0..15, ...".
func (r Range) String() string {
	var b strings.Builder
	switch {
	case r.Fixed():
		b.WriteString(strconv.FormatInt(r.Lower, 10))
	default:
		if r.HasLower {
			b.WriteString(strconv.FormatInt(r.Lower, 10))
		} else {
			b.WriteString("MIN")
		}
		b.WriteString("..")
		if r.HasUpper {
			b.WriteString(strconv.FormatInt(r.Upper, 10))
		} else {
			b.WriteString("MAX")
		}
	}
	if r.Extensible {
		b.WriteString(", ...")
	}
	return b.String()
}

// NamedValue is a labeled integer from an INTEGER or a named bit from a
// BIT STRING.
type NamedValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Item is one resolved ENUMERATED item.
type Item struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	// Index is the position encoded on the wire: the rank within the
	// sorted root for root items, the order of appearance otherwise.
	Index    int  `json:"index"`
	Extended bool `json:"extended,omitempty"`
}

// Alternative is one resolved CHOICE alternative.
type Alternative struct {
	Name     string `json:"name"`
	Key      int    `json:"key"`
	Extended bool   `json:"extended,omitempty"`
	Type     *Type  `json:"type"`
}

// Type is a fully resolved descriptor. It contains no unresolved
// references: named values, bounds and sizes are concrete integers and
// payloads name their target by identity.
type Type struct {
	Name QualifiedName `json:"name"`
	Kind Kind          `json:"kind"`
	// Parent is the definition an alias was copied from.
	Parent QualifiedName `json:"parent,omitzero"`
	// Ref is the target of a KindReference payload.
	Ref QualifiedName `json:"ref,omitzero"`
	// Range holds the value bounds of an INTEGER, the index range of a
	// CHOICE and the root index range of an ENUMERATED.
	Range Range `json:"range,omitzero"`
	// Size holds the size bounds of a BIT STRING or OCTET STRING.
	Size         Range         `json:"size,omitzero"`
	NamedValues  []NamedValue  `json:"namedValues,omitempty"`
	Items        []Item        `json:"items,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// Alternative returns the alternative with the given key.
func (t *Type) Alternative(key int) (Alternative, bool) {
	for _, alt := range t.Alternatives {
		if alt.Key == key {
			return alt, true
		}
	}
	return Alternative{}, false
}

// Item returns the ENUMERATED item with the given name.
func (t *Type) Item(name string) (Item, bool) {
	for _, it := range t.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// NamedValue returns the named value with the given name.
func (t *Type) NamedValue(name string) (int64, bool) {
	for _, nv := range t.NamedValues {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return 0, false
}

// RootItems returns the ENUMERATED items of the root in index order.
func (t *Type) RootItems() []Item {
	var root []Item
	for _, it := range t.Items {
		if !it.Extended {
			root = append(root, it)
		}
	}
	slices.SortFunc(root, func(a, b Item) int { return a.Index - b.Index })
	return root
}

// Value is a resolved INTEGER value assignment.
type Value struct {
	Name QualifiedName `json:"name"`
	Int  int64         `json:"value"`
}
