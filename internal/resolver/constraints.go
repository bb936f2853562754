package resolver

import (
	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/schema"
)

// resolveRange turns a value-range constraint into concrete bounds. MIN
// and MAX leave the corresponding bound open.
func (r *defResolver) resolveRange(c *ast.Constraint) (schema.Range, error) {
	rng := schema.Range{Extensible: c.Extensible}

	switch c.Lower.Kind {
	case ast.BoundMin:
	case ast.BoundMax:
		return schema.Range{}, r.errorf("MAX is not a valid lower bound")
	default:
		v, err := r.resolveBound(c.Lower)
		if err != nil {
			return schema.Range{}, err
		}
		rng.Lower, rng.HasLower = v, true
	}

	switch c.Upper.Kind {
	case ast.BoundMax:
	case ast.BoundMin:
		return schema.Range{}, r.errorf("MIN is not a valid upper bound")
	default:
		v, err := r.resolveBound(c.Upper)
		if err != nil {
			return schema.Range{}, err
		}
		rng.Upper, rng.HasUpper = v, true
	}

	if rng.Constrained() && rng.Lower > rng.Upper {
		return schema.Range{}, r.errorf("lower bound %d exceeds upper bound %d", rng.Lower, rng.Upper)
	}
	return rng, nil
}

// resolveSize resolves a SIZE constraint. MIN means zero and sizes are
// never negative.
func (r *defResolver) resolveSize(c *ast.Constraint) (schema.Range, error) {
	if c.Lower.Kind == ast.BoundMin {
		adjusted := *c
		adjusted.Lower = ast.NumberBound(0)
		c = &adjusted
	}
	rng, err := r.resolveRange(c)
	if err != nil {
		return schema.Range{}, err
	}
	if rng.Lower < 0 {
		return schema.Range{}, r.errorf("negative size %d", rng.Lower)
	}
	return rng, nil
}

func (r *defResolver) resolveBound(b ast.Bound) (int64, error) {
	if b.Kind == ast.BoundRef {
		return r.resolveValue(ast.ValueRef{Ref: &b.Ref})
	}
	return b.Number, nil
}

// resolveNamedValues resolves a name(value) list. Literal values are
// taken as-is; a reference must name a literal entry of the same list.
// Duplicate names are errors. All problems are reported together.
func (r *defResolver) resolveNamedValues(list []ast.NamedValue) ([]schema.NamedValue, error) {
	literals := make(map[string]int64, len(list))
	for _, nv := range list {
		if !nv.Value.IsRef() {
			if _, dup := literals[nv.Name.Name]; !dup {
				literals[nv.Name.Name] = nv.Value.Number
			}
		}
	}

	var errs schema.ErrorList
	out := make([]schema.NamedValue, 0, len(list))
	names := make(map[string]bool, len(list))
	for _, nv := range list {
		name := nv.Name.Name
		if names[name] {
			errs.Append(r.errorf("duplicate named value %s", name))
			continue
		}
		names[name] = true

		v := nv.Value.Number
		if nv.Value.IsRef() {
			lit, ok := literals[nv.Value.Ref.Name]
			if !ok {
				errs.Append(r.errorf("named value %s: %s is not a literal value of the same list", name, nv.Value.Ref.Name))
				continue
			}
			v = lit
		}
		out = append(out, schema.NamedValue{Name: name, Value: v})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
