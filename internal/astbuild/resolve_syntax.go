package astbuild

import (
	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/syntax"
)

// ResolveTypeSyntax binds a type syntax node in ctx the way a compiler
// would. It is the inverse of ConvertType and is used to verify that
// produced names round-trip.
func ResolveTypeSyntax(ctx resolve.Context, mode resolve.Mode, t syntax.Type) resolve.Result {
	m := ctx.Model()
	switch n := t.(type) {
	case *syntax.PrimitiveType:
		if k, ok := keywordTypes[n.Keyword]; ok {
			if id := m.KnownType(k); id.IsValid() {
				return resolve.TypeResult(id)
			}
		}
		return resolve.UnknownResult(n.Keyword)
	case *syntax.SimpleType:
		args, bad := resolveArgs(ctx, mode, n.Args)
		if bad.IsError() {
			return bad
		}
		return asType(m, n.Name.Name, ctx.LookupSimpleName(n.Name.Name, args, mode))
	case *syntax.MemberType:
		var parent resolve.Result
		if n.DoubleColon {
			target, ok := n.Target.(*syntax.SimpleType)
			if !ok {
				return resolve.ErrorResult(n.Name.Name, "alias qualifier must be an identifier")
			}
			parent = ctx.LookupAlias(target.Name.Name)
		} else {
			parent = ResolveTypeSyntax(ctx, mode, n.Target)
		}
		if parent.IsError() {
			return parent
		}
		args, bad := resolveArgs(ctx, mode, n.Args)
		if bad.IsError() {
			return bad
		}
		return asType(m, n.Name.Name, ctx.LookupMember(parent, n.Name.Name, args, mode))
	case *syntax.ArrayType:
		return wrap(ctx, mode, n.Elem, func(e model.TypeID) model.TypeID {
			return m.ArrayOf(e, uint32(max(n.Rank, 1))) //nolint:gosec // ranks are tiny
		})
	case *syntax.PointerType:
		return wrap(ctx, mode, n.Elem, m.PointerTo)
	case *syntax.RefType:
		return wrap(ctx, mode, n.Elem, m.ByRefTo)
	case *syntax.NullableType:
		nullable := m.KnownType(model.KnownNullable)
		return wrap(ctx, mode, n.Elem, func(e model.TypeID) model.TypeID { return m.Parameterized(nullable, e) })
	case *syntax.TupleType:
		elems := make([]model.TypeID, len(n.Elements))
		names := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			r := ResolveTypeSyntax(ctx, mode, el.Type)
			if r.Kind != resolve.KindType {
				return r
			}
			elems[i], names[i] = r.Type, el.Name
		}
		return resolve.TypeResult(m.TupleOf(elems, names))
	case *syntax.PlaceholderType:
		return resolve.TypeResult(m.UnboundArg())
	case *syntax.UnknownType:
		return resolve.TypeResult(m.Unknown())
	default:
		return resolve.ErrorResult("", "not a type")
	}
}

func resolveArgs(ctx resolve.Context, mode resolve.Mode, args []syntax.Type) ([]model.TypeID, resolve.Result) {
	if len(args) == 0 {
		return nil, resolve.Result{Kind: resolve.KindType}
	}
	out := make([]model.TypeID, len(args))
	for i, a := range args {
		r := ResolveTypeSyntax(ctx, mode, a)
		if r.Kind != resolve.KindType {
			if !r.IsError() {
				r = resolve.ErrorResult("", "type argument is not a type")
			}
			return nil, r
		}
		out[i] = r.Type
	}
	return out, resolve.Result{Kind: resolve.KindType}
}

func wrap(ctx resolve.Context, mode resolve.Mode, elem syntax.Type, fn func(model.TypeID) model.TypeID) resolve.Result {
	r := ResolveTypeSyntax(ctx, mode, elem)
	if r.Kind != resolve.KindType {
		return r
	}
	return resolve.TypeResult(fn(r.Type))
}

// asType applies the `Color Color` rule: a member or variable whose type is
// named like the member itself also denotes that type.
func asType(m *model.Model, name string, r resolve.Result) resolve.Result {
	switch r.Kind {
	case resolve.KindVariable, resolve.KindMember, resolve.KindConstant:
		if d, ok := m.DefinitionOf(r.Type); ok && d.Name == name {
			return resolve.TypeResult(r.Type)
		}
	}
	return r
}
