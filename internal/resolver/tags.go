package resolver

import (
	"log/slog"
	"slices"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/schema"
)

// Universal tags of the built-in types.
var universalTags = map[string]int64{
	"BOOLEAN":      1,
	"INTEGER":      2,
	"BIT STRING":   3,
	"OCTET STRING": 4,
	"NULL":         5,
	"ENUMERATED":   10,
}

// automaticTags reports whether the alternatives of t are tagged
// automatically: the module says AUTOMATIC TAGS and no alternative
// carries a tag of its own. Automatic tags follow textual order.
func automaticTags(mod *module.Module, t *ast.Choice) bool {
	if mod.Tagging != ast.TaggingAutomatic {
		return false
	}
	for _, alt := range t.Alternatives {
		if alt.Tag != nil {
			return false
		}
	}
	return true
}

// numberByTag returns the alternatives of t with the root keyed in the
// canonical order of their outermost tags. Extension additions keep
// their keys after the root. Alternatives with equal tags keep their
// textual order.
func (r *defResolver) numberByTag(t *ast.Choice) ([]ast.Alternative, error) {
	var errs schema.ErrorList
	type keyed struct {
		index int
		tag   ast.Tag
	}
	var root []keyed
	for i, alt := range t.Alternatives {
		if alt.Extended {
			continue
		}
		tag, ok, err := r.ctx.alternativeTag(r.mod, alt, make(map[schema.QualifiedName]bool))
		switch {
		case err != nil:
			errs.Append(r.wrap(err))
			continue
		case !ok:
			errs.Append(r.errorf("cannot determine the tag of CHOICE alternative %s", alt.Name.Name))
			continue
		}
		root = append(root, keyed{index: i, tag: tag})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(root, func(a, b keyed) int { return a.tag.Compare(b.tag) })
	out := slices.Clone(t.Alternatives)
	for key, k := range root {
		out[k.index].Key = ast.KeyOf(key)
	}
	if r.ctx.TraceEnabled() {
		for _, k := range root {
			r.ctx.Trace("keyed by tag",
				slog.String("definition", r.name),
				slog.String("alternative", out[k.index].Name.Name),
				slog.String("tag", k.tag.String()),
				slog.Int("key", *out[k.index].Key))
		}
	}
	return out, nil
}

// alternativeTag returns the outermost tag of a CHOICE alternative
// written in mod.
func (c *resolverContext) alternativeTag(mod *module.Module, alt ast.Alternative, seen map[schema.QualifiedName]bool) (ast.Tag, bool, error) {
	if alt.Tag != nil {
		return *alt.Tag, true, nil
	}
	return c.outerTag(mod, alt.Type, seen)
}

// outerTag returns the outermost tag of t. An untagged CHOICE has the
// smallest tag of its alternatives. ok is false when the tag of a type
// depends only on itself, as for a CHOICE whose alternatives all refer
// back to it.
func (c *resolverContext) outerTag(mod *module.Module, t ast.Type, seen map[schema.QualifiedName]bool) (tag ast.Tag, ok bool, err error) {
	switch t := t.(type) {
	case *ast.Choice:
		return c.choiceTag(mod, t, seen)
	case *ast.TypeRef:
		return c.refTag(mod, t, seen)
	case nil:
		return ast.Tag{}, false, nil
	}
	n, known := universalTags[t.TypeName()]
	if !known {
		return ast.Tag{}, false, nil
	}
	return ast.Tag{Class: ast.TagUniversal, Number: n}, true, nil
}

func (c *resolverContext) choiceTag(mod *module.Module, t *ast.Choice, seen map[schema.QualifiedName]bool) (ast.Tag, bool, error) {
	if automaticTags(mod, t) {
		return ast.Tag{Class: ast.TagContext}, true, nil
	}
	var (
		least ast.Tag
		found bool
	)
	for _, alt := range t.Alternatives {
		tag, ok, err := c.alternativeTag(mod, alt, seen)
		if err != nil {
			return ast.Tag{}, false, err
		}
		if ok && (!found || tag.Compare(least) < 0) {
			least, found = tag, true
		}
	}
	return least, found, nil
}

func (c *resolverContext) refTag(mod *module.Module, ref *ast.TypeRef, seen map[schema.QualifiedName]bool) (ast.Tag, bool, error) {
	var (
		owner *module.Module
		entry *module.Entry
		err   error
	)
	if ref.Module != nil {
		owner, entry, err = c.locateIn(ref.Module.Name, ref.Name.Name)
	} else {
		owner, entry, err = c.locate(mod, ref.Name.Name)
	}
	if err != nil {
		return ast.Tag{}, false, err
	}
	def, isType := entry.Def.(*ast.TypeAssignment)
	if !isType {
		return ast.Tag{}, false, nil
	}
	if def.Tag != nil {
		return *def.Tag, true, nil
	}

	q := qualified(owner, def.Name.Name)
	if seen[q] {
		return ast.Tag{}, false, nil
	}
	seen[q] = true
	defer delete(seen, q)
	return c.outerTag(owner, def.Type, seen)
}
