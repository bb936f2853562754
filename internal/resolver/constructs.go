package resolver

import (
	"cmp"
	"slices"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/schema"
)

// resolveInteger requires a value range constraint; MIN and MAX may
// open either end.
func (r *defResolver) resolveInteger(t *ast.Integer) (*schema.Type, error) {
	typ := &schema.Type{Kind: schema.KindInteger}
	if t.NamedValues != nil {
		values, err := r.resolveNamedValues(t.NamedValues)
		if err != nil {
			return nil, err
		}
		typ.NamedValues = values
	}
	if t.Constraint == nil {
		return nil, r.errorf("missing bounds: INTEGER requires a value range constraint")
	}
	rng, err := r.resolveRange(t.Constraint)
	if err != nil {
		return nil, err
	}
	typ.Range = rng
	return typ, nil
}

// resolveBitString carries size bounds and extensibility through. No
// SIZE constraint leaves the size unconstrained.
func (r *defResolver) resolveBitString(t *ast.BitString) (*schema.Type, error) {
	typ := &schema.Type{Kind: schema.KindBitString}
	if t.NamedBits != nil {
		bits, err := r.resolveNamedValues(t.NamedBits)
		if err != nil {
			return nil, err
		}
		for _, b := range bits {
			if b.Value < 0 {
				return nil, r.errorf("named bit %s has negative position %d", b.Name, b.Value)
			}
		}
		typ.NamedValues = bits
	}
	if t.Size != nil {
		size, err := r.resolveSize(t.Size)
		if err != nil {
			return nil, err
		}
		typ.Size = size
	}
	return typ, nil
}

func (r *defResolver) resolveOctetString(t *ast.OctetString) (*schema.Type, error) {
	typ := &schema.Type{Kind: schema.KindOctetString}
	if t.Size != nil {
		size, err := r.resolveSize(t.Size)
		if err != nil {
			return nil, err
		}
		typ.Size = size
	}
	return typ, nil
}

// resolveEnumerated numbers items as X.680 does. Items with an explicit
// value keep it. Other root items take the smallest non-negative value
// no root item uses; other extension items take the smallest unused
// value above every earlier extension item. Root items sorted by value
// get wire indices 0..n-1 and extension items are indexed in order of
// appearance.
func (r *defResolver) resolveEnumerated(t *ast.Enumerated) (*schema.Type, error) {
	var errs schema.ErrorList
	used := make(map[int64]string)
	names := make(map[string]bool)
	items := make([]schema.Item, len(t.Items))
	explicit := make([]bool, len(t.Items))

	for i, item := range t.Items {
		items[i] = schema.Item{Name: item.Name.Name, Extended: item.Extended}
		if names[item.Name.Name] {
			errs.Append(r.errorf("duplicate enumeration item %s", item.Name.Name))
		}
		names[item.Name.Name] = true
		if item.Value == nil || item.Extended {
			continue
		}
		v, err := r.resolveValue(*item.Value)
		if err != nil {
			errs.Append(err)
			continue
		}
		if other, dup := used[v]; dup {
			errs.Append(r.errorf("enumeration items %s and %s share value %d", other, item.Name.Name, v))
		}
		used[v] = item.Name.Name
		items[i].Value = v
		explicit[i] = true
	}

	next := int64(0)
	for i, item := range t.Items {
		if item.Extended || explicit[i] {
			continue
		}
		for used[next] != "" {
			next++
		}
		items[i].Value = next
		used[next] = item.Name.Name
	}

	var (
		floor    int64 = -1
		extIndex int
	)
	for i, item := range t.Items {
		if !item.Extended {
			continue
		}
		if item.Value != nil {
			v, err := r.resolveValue(*item.Value)
			if err != nil {
				errs.Append(err)
				continue
			}
			if other, dup := used[v]; dup {
				errs.Append(r.errorf("enumeration items %s and %s share value %d", other, item.Name.Name, v))
			} else if v <= floor {
				errs.Append(r.errorf("extension item %s value %d must exceed %d", item.Name.Name, v, floor))
			}
			items[i].Value = v
		} else {
			v := max(floor+1, 0)
			for used[v] != "" {
				v++
			}
			items[i].Value = v
		}
		used[items[i].Value] = item.Name.Name
		floor = max(floor, items[i].Value)
		items[i].Index = extIndex
		extIndex++
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	var root []int
	for i := range items {
		if !items[i].Extended {
			root = append(root, i)
		}
	}
	if len(root) == 0 {
		return nil, r.errorf("ENUMERATED has no root items")
	}
	slices.SortFunc(root, func(a, b int) int {
		return cmp.Compare(items[a].Value, items[b].Value)
	})
	for index, i := range root {
		items[i].Index = index
	}

	rng := schema.Bounded(0, int64(len(root)-1))
	rng.Extensible = t.Extensible || extIndex > 0 || r.mod.ExtensibilityImplied
	return &schema.Type{Kind: schema.KindEnumerated, Items: items, Range: rng}, nil
}

// resolveChoice checks the alternatives' keys and resolves their
// payloads. Every alternative must carry a key; all missing keys, and
// every other sibling problem, are reported together. A payload that
// names another type becomes an identity reference after checking that
// the type exists.
//
// Keys assigned by the parser follow textual order, which is the index
// order only under automatic tagging. Otherwise the root is renumbered
// in the canonical order of the alternatives' tags.
func (r *defResolver) resolveChoice(t *ast.Choice) (*schema.Type, error) {
	alternatives := t.Alternatives
	if t.Numbered && !automaticTags(r.mod, t) {
		keyed, err := r.numberByTag(t)
		if err != nil {
			return nil, err
		}
		alternatives = keyed
	}

	var errs schema.ErrorList
	keys := make(map[int]string, len(alternatives))
	names := make(map[string]bool, len(alternatives))
	alts := make([]schema.Alternative, 0, len(alternatives))

	for _, alt := range alternatives {
		name := alt.Name.Name
		if names[name] {
			errs.Append(r.errorf("duplicate CHOICE alternative %s", name))
			continue
		}
		names[name] = true

		if alt.Key == nil {
			errs.Append(r.errorf("CHOICE alternative %s has no key", name))
			continue
		}
		if other, dup := keys[*alt.Key]; dup {
			errs.Append(r.errorf("CHOICE alternatives %s and %s share key %d", other, name, *alt.Key))
			continue
		}
		keys[*alt.Key] = name

		payload, err := r.resolvePayload(alt.Type)
		if err != nil {
			errs.Append(err)
			continue
		}
		alts = append(alts, schema.Alternative{
			Name:     name,
			Key:      *alt.Key,
			Extended: alt.Extended,
			Type:     payload,
		})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	rng := schema.Range{Extensible: t.Extensible || r.mod.ExtensibilityImplied}
	for _, alt := range alts {
		if alt.Extended {
			rng.Extensible = true
			continue
		}
		k := int64(alt.Key)
		if !rng.HasLower {
			rng.Lower, rng.Upper = k, k
			rng.HasLower, rng.HasUpper = true, true
			continue
		}
		rng.Lower = min(rng.Lower, k)
		rng.Upper = max(rng.Upper, k)
	}
	if !rng.HasLower {
		return nil, r.errorf("CHOICE has no root alternatives")
	}
	return &schema.Type{Kind: schema.KindChoice, Range: rng, Alternatives: alts}, nil
}

// resolvePayload resolves a CHOICE alternative's type. A plain type
// reference is an identity reference; a constrained reference or an
// inline type is resolved in place.
func (r *defResolver) resolvePayload(t ast.Type) (*schema.Type, error) {
	ref, ok := t.(*ast.TypeRef)
	if !ok || ref.Constraint != nil {
		return r.resolveType(t)
	}
	target, err := r.locateType(ref)
	if err != nil {
		return nil, err
	}
	return &schema.Type{Kind: schema.KindReference, Ref: target}, nil
}
