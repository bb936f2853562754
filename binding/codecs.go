package binding

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/golangsnmp/goaper/aper"
	"github.com/golangsnmp/goaper/schema"
)

// Choice is a decoded CHOICE value. Encoding selects the alternative by
// Name, or by Key when Name is empty.
type Choice struct {
	Name  string
	Key   int
	Value any
}

// Enumerated is a decoded ENUMERATED value. Index is the wire index: the
// root position, or the position among the additions when Extended is
// set. Name is empty for an addition this schema does not know.
type Enumerated struct {
	Name     string
	Index    int
	Extended bool
}

func codecError(c *aper.Cursor, format string, args ...any) *aper.Error {
	return &aper.Error{Pos: c.Pos(), Message: fmt.Sprintf(format, args...)}
}

type integerCodec struct {
	rng schema.Range
}

func (ic integerCodec) Encode(c *aper.Cursor, v any) error {
	n, ok, overflow := toInt64(v)
	switch {
	case overflow:
		return codecError(c, "value %d overflows int64", v)
	case !ok:
		return codecError(c, "INTEGER value of type %T", v)
	}
	r := ic.rng
	switch {
	case r.Constrained():
		return aper.EncodeInteger(c, n, r.Lower, r.Upper, r.Extensible)
	case r.HasLower:
		return aper.EncodeSemiConstrainedInteger(c, n, r.Lower, r.Extensible)
	}
	// An upper bound alone does not constrain the PER encoding, but it
	// still bounds the root.
	if r.HasUpper && n > r.Upper && !r.Extensible {
		return codecError(c, "value %d is outside %s", n, r)
	}
	return aper.EncodeUnconstrainedInteger(c, n, r.Extensible)
}

func (ic integerCodec) Decode(c *aper.Cursor) (any, error) {
	r := ic.rng
	switch {
	case r.Constrained():
		return aper.DecodeInteger(c, r.Lower, r.Upper, r.Extensible)
	case r.HasLower:
		return aper.DecodeSemiConstrainedInteger(c, r.Lower, r.Extensible)
	}
	return aper.DecodeUnconstrainedInteger(c, r.Extensible)
}

// toInt64 converts any Go integer type. overflow is set for unsigned
// values above math.MaxInt64.
func toInt64(v any) (n int64, ok, overflow bool) {
	switch x := v.(type) {
	case int64:
		return x, true, false
	case int:
		return int64(x), true, false
	case int32:
		return int64(x), true, false
	case int16:
		return int64(x), true, false
	case int8:
		return int64(x), true, false
	case uint8:
		return int64(x), true, false
	case uint16:
		return int64(x), true, false
	case uint32:
		return int64(x), true, false
	case uint:
		return fromUint64(uint64(x))
	case uint64:
		return fromUint64(x)
	case uintptr:
		return fromUint64(uint64(x))
	}
	return 0, false, false
}

func fromUint64(u uint64) (int64, bool, bool) {
	if u > math.MaxInt64 {
		return 0, false, true
	}
	return int64(u), true, false
}

type booleanCodec struct{}

func (booleanCodec) Encode(c *aper.Cursor, v any) error {
	b, ok := v.(bool)
	if !ok {
		return codecError(c, "BOOLEAN value of type %T", v)
	}
	return aper.EncodeBoolean(c, b)
}

func (booleanCodec) Decode(c *aper.Cursor) (any, error) {
	return aper.DecodeBoolean(c)
}

type nullCodec struct{}

func (nullCodec) Encode(c *aper.Cursor, v any) error {
	switch v.(type) {
	case nil, struct{}:
		return aper.EncodeNull(c)
	}
	return codecError(c, "NULL value of type %T", v)
}

func (nullCodec) Decode(c *aper.Cursor) (any, error) {
	return nil, aper.DecodeNull(c)
}

type enumeratedCodec struct {
	root       []schema.Item
	additions  []schema.Item
	extensible bool
}

func newEnumeratedCodec(typ *schema.Type) *enumeratedCodec {
	ec := &enumeratedCodec{root: typ.RootItems(), extensible: typ.Range.Extensible}
	for _, it := range typ.Items {
		if it.Extended {
			ec.additions = append(ec.additions, it)
		}
	}
	return ec
}

func (ec *enumeratedCodec) Encode(c *aper.Cursor, v any) error {
	var name string
	switch e := v.(type) {
	case Enumerated:
		if e.Name == "" {
			return aper.EncodeEnumerated(c, e.Index, len(ec.root), ec.extensible, e.Extended)
		}
		name = e.Name
	case string:
		name = e
	default:
		return codecError(c, "ENUMERATED value of type %T", v)
	}
	for _, it := range ec.root {
		if it.Name == name {
			return aper.EncodeEnumerated(c, it.Index, len(ec.root), ec.extensible, false)
		}
	}
	for _, it := range ec.additions {
		if it.Name == name {
			return aper.EncodeEnumerated(c, it.Index, len(ec.root), ec.extensible, true)
		}
	}
	return codecError(c, "unknown ENUMERATED item %s", name)
}

func (ec *enumeratedCodec) Decode(c *aper.Cursor) (any, error) {
	idx, extended, err := aper.DecodeEnumerated(c, len(ec.root), ec.extensible)
	if err != nil {
		return nil, err
	}
	items := ec.root
	if extended {
		items = ec.additions
	}
	e := Enumerated{Index: idx, Extended: extended}
	if idx < len(items) {
		e.Name = items[idx].Name
	}
	return e, nil
}

// sizeRange holds SIZE bounds in the aper convention.
type sizeRange struct {
	lb, ub int
	ext    bool
}

func sizeBounds(r schema.Range) sizeRange {
	s := sizeRange{lb: 0, ub: aper.NoBound, ext: r.Extensible}
	if r.HasLower {
		s.lb = int(r.Lower)
	}
	if r.HasUpper {
		s.ub = int(r.Upper)
	}
	return s
}

type bitStringCodec struct {
	size sizeRange
}

func (bc bitStringCodec) Encode(c *aper.Cursor, v any) error {
	var b aper.BitString
	switch s := v.(type) {
	case aper.BitString:
		b = s
	case *aper.BitString:
		b = *s
	default:
		return codecError(c, "BIT STRING value of type %T", v)
	}
	return aper.EncodeBitString(c, b, bc.size.lb, bc.size.ub, bc.size.ext)
}

func (bc bitStringCodec) Decode(c *aper.Cursor) (any, error) {
	return aper.DecodeBitString(c, bc.size.lb, bc.size.ub, bc.size.ext)
}

type octetStringCodec struct {
	size sizeRange
}

func (oc octetStringCodec) Encode(c *aper.Cursor, v any) error {
	var b []byte
	switch s := v.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return codecError(c, "OCTET STRING value of type %T", v)
	}
	return aper.EncodeOctetString(c, b, oc.size.lb, oc.size.ub, oc.size.ext)
}

func (oc octetStringCodec) Decode(c *aper.Cursor) (any, error) {
	return aper.DecodeOctetString(c, oc.size.lb, oc.size.ub, oc.size.ext)
}

type choiceAlternative struct {
	schema.Alternative
	codec Codec
}

type choiceCodec struct {
	binder *Binder
	name   schema.QualifiedName
	lb, ub int
	ext    bool
	alts   []choiceAlternative
}

func (b *Binder) newChoiceCodec(typ *schema.Type) (*choiceCodec, error) {
	cc := &choiceCodec{
		binder: b,
		name:   typ.Name,
		lb:     int(typ.Range.Lower),
		ub:     int(typ.Range.Upper),
		ext:    typ.Range.Extensible,
	}
	for _, alt := range typ.Alternatives {
		codec, err := b.build(alt.Type)
		if err != nil {
			return nil, fmt.Errorf("alternative %s: %w", alt.Name, err)
		}
		cc.alts = append(cc.alts, choiceAlternative{Alternative: alt, codec: codec})
	}
	return cc, nil
}

func (cc *choiceCodec) find(v Choice) (choiceAlternative, bool) {
	for _, alt := range cc.alts {
		if (v.Name != "" && alt.Name == v.Name) || (v.Name == "" && alt.Key == v.Key) {
			return alt, true
		}
	}
	return choiceAlternative{}, false
}

func (cc *choiceCodec) Encode(c *aper.Cursor, v any) error {
	var ch Choice
	switch s := v.(type) {
	case Choice:
		ch = s
	case *Choice:
		ch = *s
	default:
		return codecError(c, "CHOICE value of type %T", v)
	}
	alt, ok := cc.find(ch)
	if !ok {
		if ch.Name != "" {
			return codecError(c, "unknown CHOICE alternative %s", ch.Name)
		}
		return codecError(c, "Index %d is not a valid Choice Index", ch.Key)
	}
	if alt.Extended {
		return &aper.Error{Pos: c.Pos(), Message: aper.ErrChoiceAdditions.Error(), Err: aper.ErrChoiceAdditions}
	}
	if err := aper.EncodeChoiceIdx(c, cc.lb, cc.ub, cc.ext, alt.Key, false); err != nil {
		return err
	}
	return alt.codec.Encode(c, ch.Value)
}

func (cc *choiceCodec) Decode(c *aper.Cursor) (any, error) {
	idx, extended, err := aper.DecodeChoiceIdx(c, cc.lb, cc.ub, cc.ext)
	if err != nil {
		return nil, err
	}
	if extended {
		return nil, &aper.Error{Pos: c.Pos(), Message: aper.ErrChoiceAdditions.Error(), Err: aper.ErrChoiceAdditions}
	}
	for _, alt := range cc.alts {
		if alt.Extended || alt.Key != idx {
			continue
		}
		if cc.binder.TraceEnabled() {
			cc.binder.Trace("choice alternative",
				slog.String("type", cc.name.String()),
				slog.String("alternative", alt.Name),
				slog.Int("index", idx))
		}
		v, err := alt.codec.Decode(c)
		if err != nil {
			return nil, err
		}
		return Choice{Name: alt.Name, Key: alt.Key, Value: v}, nil
	}
	return nil, codecError(c, "Index %d is not a valid Choice Index", idx)
}

// refCodec defers to the codec of a named type, looked up on each use.
// Lookups go through the binder cache, so recursive types work.
type refCodec struct {
	binder *Binder
	target schema.QualifiedName
}

func (rc *refCodec) Encode(c *aper.Cursor, v any) error {
	codec, err := rc.binder.Codec(rc.target)
	if err != nil {
		return err
	}
	return codec.Encode(c, v)
}

func (rc *refCodec) Decode(c *aper.Cursor) (any, error) {
	codec, err := rc.binder.Codec(rc.target)
	if err != nil {
		return nil, err
	}
	return codec.Decode(c)
}
