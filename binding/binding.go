// Package binding builds APER codecs from resolved schema types at run
// time. It is the load-time counterpart of the codegen package and
// produces the same encodings.
//
// Decoded values are plain Go values:
//
//	INTEGER       int64
//	BOOLEAN       bool
//	NULL          nil
//	ENUMERATED    Enumerated
//	BIT STRING    aper.BitString
//	OCTET STRING  []byte
//	CHOICE        Choice
//
// Encoders accept the same values, any Go integer type for INTEGER, an
// item name for ENUMERATED and pointers to Choice and aper.BitString.
package binding

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/golangsnmp/goaper/aper"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// Codec encodes and decodes values of one type.
type Codec interface {
	Encode(c *aper.Cursor, v any) error
	Decode(c *aper.Cursor) (any, error)
}

// Options configures a Binder.
type Options struct {
	// Logger receives debug and trace output. Nil disables logging.
	Logger *slog.Logger
}

// Binder hands out codecs for the types of one table. Codecs are built
// on first use and cached; a Binder is safe for concurrent use.
type Binder struct {
	types.Logger
	table *schema.Table

	mu    sync.Mutex
	cache map[schema.QualifiedName]Codec
}

// New returns a binder over table. The table must not change afterwards.
func New(table *schema.Table, opts Options) *Binder {
	return &Binder{
		Logger: types.Logger{L: types.Component(opts.Logger, "binding")},
		table:  table,
		cache:  make(map[schema.QualifiedName]Codec),
	}
}

// Codec returns the codec for the named type.
func (b *Binder) Codec(q schema.QualifiedName) (Codec, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if codec, ok := b.cache[q]; ok {
		return codec, nil
	}
	typ, ok := b.table.Type(q)
	if !ok {
		return nil, fmt.Errorf("binding: type %s not found", q)
	}
	codec, err := b.build(typ)
	if err != nil {
		return nil, fmt.Errorf("binding: %s: %w", q, err)
	}
	b.cache[q] = codec
	b.Log(slog.LevelDebug, "codec built",
		slog.String("type", q.String()),
		slog.String("kind", typ.Kind.String()))
	return codec, nil
}

// Marshal encodes v as the named type.
func (b *Binder) Marshal(q schema.QualifiedName, v any) ([]byte, error) {
	codec, err := b.Codec(q)
	if err != nil {
		return nil, err
	}
	c := aper.NewWriter()
	if err := codec.Encode(c, v); err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return []byte{0}, nil
	}
	return c.Bytes(), nil
}

// Unmarshal decodes data as the named type.
func (b *Binder) Unmarshal(q schema.QualifiedName, data []byte) (any, error) {
	codec, err := b.Codec(q)
	if err != nil {
		return nil, err
	}
	return codec.Decode(aper.NewReader(data))
}

// build returns the codec for a descriptor. A reference defers to the
// cache, so building never recurses through named types.
func (b *Binder) build(typ *schema.Type) (Codec, error) {
	switch typ.Kind {
	case schema.KindInteger:
		return integerCodec{rng: typ.Range}, nil
	case schema.KindBoolean:
		return booleanCodec{}, nil
	case schema.KindNull:
		return nullCodec{}, nil
	case schema.KindEnumerated:
		return newEnumeratedCodec(typ), nil
	case schema.KindBitString:
		return bitStringCodec{sizeBounds(typ.Size)}, nil
	case schema.KindOctetString:
		return octetStringCodec{sizeBounds(typ.Size)}, nil
	case schema.KindChoice:
		return b.newChoiceCodec(typ)
	case schema.KindReference:
		return &refCodec{binder: b, target: typ.Ref}, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", typ.Kind)
}
