package astbuild

import (
	"fmt"

	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/syntax"
)

type enumField struct {
	id   model.EntityID
	name string
	bits uint64
}

func constantResult(t model.TypeID, v any) resolve.Result {
	return resolve.Result{Kind: resolve.KindConstant, Type: t, Value: v}
}

// enumFields lists the constant fields of an enum in declaration order,
// with values reduced to bits of the underlying width.
func (b *Builder) enumFields(d *model.Definition, mask uint64) []enumField {
	var out []enumField
	for _, id := range d.Members {
		e, ok := b.m.Entity(id)
		if !ok || e.Kind != model.EntityField || !e.HasConstant {
			continue
		}
		bits, ok := intBits(e.Constant)
		if !ok {
			continue
		}
		out = append(out, enumField{id: id, name: e.Name, bits: bits & mask})
	}
	return out
}

// isFlagsEnum reports whether the enum carries [Flags].
func (b *Builder) isFlagsEnum(d *model.Definition) bool {
	for i := range d.Attributes {
		if b.m.IsKnown(d.Attributes[i].Type, model.KnownFlagsAttribute) {
			return true
		}
	}
	return false
}

// convertEnumValue spells an enum value as a field, a combination of flag
// fields, the complement of one, or a cast of the raw number.
func (b *Builder) convertEnumValue(enum model.TypeID, value any) (syntax.Expr, error) {
	d, ok := b.m.DefinitionOf(enum)
	if !ok {
		return nil, fmt.Errorf("%w: type %d is not an enum", ErrConstantMismatch, enum)
	}
	under := b.m.KnownOf(b.m.EnumUnderlying(enum))
	if !under.IsInteger() {
		return nil, fmt.Errorf("%w: %s has underlying type %s", ErrConstantMismatch, d.Name, under)
	}
	if got, want := fmt.Sprintf("%T", value), goKinds[under]; got != want {
		return nil, fmt.Errorf("%w: %s value for %s", ErrConstantMismatch, got, d.Name)
	}
	mask := widthMask(under)
	raw, _ := intBits(value)
	raw &= mask

	enumType := b.convertType(enum)
	fields := b.enumFields(d, mask)
	for _, f := range fields {
		if f.bits == raw {
			return b.annotateConstant(b.fieldRef(enumType, f), enum, value), nil
		}
	}

	if b.isFlagsEnum(d) {
		pos, posExact := coverBits(fields, raw)
		neg, negExact := coverBits(fields, ^raw&mask)
		switch {
		case posExact && !(negExact && len(neg) < len(pos)):
			return b.annotateConstant(b.orFields(enumType, pos), enum, value), nil
		case negExact:
			not := &syntax.UnaryExpr{Op: syntax.OpBitNot, Operand: b.orFields(enumType, neg)}
			return b.annotateConstant(not, enum, value), nil
		}
	}

	lit := syntax.Literal(widen(fromBits(under, raw)))
	return b.annotateConstant(&syntax.CastExpr{Type: enumType, Expr: lit}, enum, value), nil
}

// coverBits greedily ORs fields whose bits lie entirely inside the still
// uncovered part of target. exact reports a complete, non-empty cover.
func coverBits(fields []enumField, target uint64) (used []enumField, exact bool) {
	rest := target
	for _, f := range fields {
		if rest == 0 {
			break
		}
		if f.bits == 0 || f.bits&rest != f.bits {
			continue
		}
		used = append(used, f)
		rest &^= f.bits
	}
	return used, rest == 0 && len(used) > 0
}

func (b *Builder) fieldRef(enumType syntax.Type, f enumField) syntax.Expr {
	ref := &syntax.MemberRefExpr{Target: &syntax.TypeRefExpr{Type: enumType}, Name: syntax.Ident(f.name)}
	if b.opts.AddResolveResultAnnotations {
		r := resolve.Result{Kind: resolve.KindConstant, Entity: f.id, Name: f.name}
		ref.Annot.Resolved = &r
	}
	return ref
}

func (b *Builder) orFields(enumType syntax.Type, fields []enumField) syntax.Expr {
	var expr syntax.Expr
	for _, f := range fields {
		ref := b.fieldRef(enumType, f)
		if expr == nil {
			expr = ref
			continue
		}
		expr = &syntax.BinaryExpr{Op: syntax.OpBitOr, Left: expr, Right: ref}
	}
	return expr
}
