package resolver

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/schema"
)

// defResolver resolves one definition of one module.
type defResolver struct {
	ctx  *resolverContext
	mod  *module.Module
	name string
}

// errorf builds a ResolutionError for the definition being resolved.
func (r *defResolver) errorf(format string, args ...any) *schema.ResolutionError {
	return &schema.ResolutionError{
		Module:     r.mod.Name,
		Definition: r.name,
		Message:    fmt.Sprintf(format, args...),
	}
}

// wrap attaches a lookup failure to the definition being resolved.
func (r *defResolver) wrap(err error) *schema.ResolutionError {
	return &schema.ResolutionError{
		Module:     r.mod.Name,
		Definition: r.name,
		Message:    err.Error(),
		Err:        err,
	}
}

// resolveEntry resolves one registered definition, inserts it into the
// table and marks the entry resolved.
func resolveEntry(ctx *resolverContext, mod *module.Module, entry *module.Entry) error {
	r := &defResolver{ctx: ctx, mod: mod, name: entry.Name()}
	q := qualified(mod, r.name)

	switch def := entry.Def.(type) {
	case *ast.TypeAssignment:
		typ, err := r.resolveType(def.Type)
		if err != nil {
			return err
		}
		typ.Name = q
		if err := ctx.table.InsertType(typ); err != nil {
			return r.wrap(err)
		}
		if ctx.TraceEnabled() {
			ctx.Trace("resolved type",
				slog.String("name", q.String()),
				slog.String("kind", typ.Kind.String()))
		}
	case *ast.ValueAssignment:
		v, err := r.resolveValueAssignment(def)
		if err != nil {
			return err
		}
		if err := ctx.table.InsertValue(&schema.Value{Name: q, Int: v}); err != nil {
			return r.wrap(err)
		}
		if ctx.TraceEnabled() {
			ctx.Trace("resolved value",
				slog.String("name", q.String()),
				slog.Int64("value", v))
		}
	default:
		return r.errorf("unsupported definition %T", def)
	}

	entry.Resolved = true
	return nil
}

// resolveType resolves a type expression into a descriptor. The caller
// sets the name; inline payload types stay anonymous.
func (r *defResolver) resolveType(t ast.Type) (*schema.Type, error) {
	switch t := t.(type) {
	case *ast.Integer:
		return r.resolveInteger(t)
	case *ast.Boolean:
		return &schema.Type{Kind: schema.KindBoolean}, nil
	case *ast.Null:
		return &schema.Type{Kind: schema.KindNull}, nil
	case *ast.Enumerated:
		return r.resolveEnumerated(t)
	case *ast.BitString:
		return r.resolveBitString(t)
	case *ast.OctetString:
		return r.resolveOctetString(t)
	case *ast.Choice:
		return r.resolveChoice(t)
	case *ast.TypeRef:
		return r.resolveAlias(t)
	case nil:
		return nil, r.errorf("missing type")
	default:
		return nil, r.errorf("unsupported type %s", t.TypeName())
	}
}

// locateType finds the type assignment a reference names.
func (r *defResolver) locateType(ref *ast.TypeRef) (schema.QualifiedName, error) {
	var (
		owner *module.Module
		entry *module.Entry
		err   error
	)
	if ref.Module != nil {
		owner, entry, err = r.ctx.locateIn(ref.Module.Name, ref.Name.Name)
	} else {
		owner, entry, err = r.ctx.locate(r.mod, ref.Name.Name)
	}
	if err != nil {
		return schema.QualifiedName{}, r.wrap(err)
	}
	if entry.IsValue() {
		return schema.QualifiedName{}, r.errorf("%s is a value, not a type", ref.TypeName())
	}
	return qualified(owner, ref.Name.Name), nil
}

// resolveAlias copies the descriptor of the referenced type, records it
// as the parent and narrows it by the reference's constraint.
func (r *defResolver) resolveAlias(ref *ast.TypeRef) (*schema.Type, error) {
	target, err := r.locateType(ref)
	if err != nil {
		return nil, err
	}
	base, ok := r.ctx.table.Type(target)
	if !ok {
		return nil, r.errorf("%s is not resolved", target)
	}

	typ := copyType(base)
	typ.Parent = target

	if ref.Constraint == nil {
		return typ, nil
	}
	if ref.SizeConstraint {
		if typ.Kind != schema.KindBitString && typ.Kind != schema.KindOctetString {
			return nil, r.errorf("SIZE constraint is not valid on %s", typ.Kind)
		}
		size, err := r.resolveSize(ref.Constraint)
		if err != nil {
			return nil, err
		}
		typ.Size = size
		return typ, nil
	}
	if typ.Kind != schema.KindInteger {
		return nil, r.errorf("value range constraint is not valid on %s", typ.Kind)
	}
	rng, err := r.resolveRange(ref.Constraint)
	if err != nil {
		return nil, err
	}
	typ.Range = rng
	return typ, nil
}

// copyType returns a copy whose slices can be changed independently.
// Payload descriptors are immutable and shared.
func copyType(t *schema.Type) *schema.Type {
	cp := *t
	cp.NamedValues = slices.Clone(t.NamedValues)
	cp.Items = slices.Clone(t.Items)
	cp.Alternatives = slices.Clone(t.Alternatives)
	return &cp
}

// resolveValueAssignment resolves "name Type ::= value". Only INTEGER
// values are supported; the value must satisfy the type's constraint.
func (r *defResolver) resolveValueAssignment(def *ast.ValueAssignment) (int64, error) {
	// An unconstrained INTEGER is valid as the type of a value.
	typ := &schema.Type{Kind: schema.KindInteger}
	if integer, ok := def.Type.(*ast.Integer); !ok || integer.Constraint != nil {
		var err error
		if typ, err = r.resolveType(def.Type); err != nil {
			return 0, err
		}
	}
	if typ.Kind != schema.KindInteger {
		return 0, r.errorf("only INTEGER values are supported, got %s", typ.Kind)
	}

	v, err := r.resolveValue(def.Value)
	if err != nil {
		return 0, err
	}
	if !typ.Range.Contains(v) {
		return 0, r.errorf("value %d is outside %s", v, typ.Range)
	}
	return v, nil
}

// resolveValue returns a literal or the value of a value assignment.
func (r *defResolver) resolveValue(v ast.ValueRef) (int64, error) {
	if !v.IsRef() {
		return v.Number, nil
	}
	owner, entry, err := r.ctx.locate(r.mod, v.Ref.Name)
	if err != nil {
		return 0, r.wrap(err)
	}
	if !entry.IsValue() {
		return 0, r.errorf("%s is a type, not a value", v.Ref.Name)
	}
	resolved, ok := r.ctx.table.Value(qualified(owner, v.Ref.Name))
	if !ok {
		return 0, r.errorf("value %s is not resolved", v.Ref.Name)
	}
	return resolved.Int, nil
}
