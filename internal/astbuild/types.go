package astbuild

import (
	"fmt"
	"strings"

	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/syntax"
)

var builtinKeywords = map[model.KnownType]string{
	model.KnownObject:  "object",
	model.KnownVoid:    "void",
	model.KnownBoolean: "bool",
	model.KnownChar:    "char",
	model.KnownSByte:   "sbyte",
	model.KnownByte:    "byte",
	model.KnownInt16:   "short",
	model.KnownUInt16:  "ushort",
	model.KnownInt32:   "int",
	model.KnownUInt32:  "uint",
	model.KnownInt64:   "long",
	model.KnownUInt64:  "ulong",
	model.KnownSingle:  "float",
	model.KnownDouble:  "double",
	model.KnownDecimal: "decimal",
	model.KnownString:  "string",
}

var keywordTypes = func() map[string]model.KnownType {
	out := make(map[string]model.KnownType, len(builtinKeywords))
	for k, kw := range builtinKeywords {
		out[kw] = k
	}
	return out
}()

// ConvertType builds the syntax for a type reference in the current scope.
func (b *Builder) ConvertType(t model.TypeID) (syntax.Type, error) {
	if _, ok := b.m.Type(t); !ok {
		return nil, fmt.Errorf("%w: type #%d", ErrInvalidArgument, t)
	}
	return b.convertType(t), nil
}

func (b *Builder) convertType(t model.TypeID) syntax.Type {
	out := b.convertTypeHelper(t)
	if b.opts.AddTypeReferenceAnnotations {
		out.Annotations().TypeRef = t
	}
	if b.opts.AddResolveResultAnnotations {
		r := resolve.TypeResult(t)
		out.Annotations().Resolved = &r
	}
	return out
}

func (b *Builder) convertTypeHelper(t model.TypeID) syntax.Type {
	ty, ok := b.m.Type(t)
	if !ok {
		return &syntax.UnknownType{}
	}
	switch ty.Kind {
	case model.KindPointer:
		return &syntax.PointerType{Elem: b.convertType(ty.Elem)}
	case model.KindByRef:
		return &syntax.RefType{Elem: b.convertType(ty.Elem)}
	case model.KindArray:
		return &syntax.ArrayType{Elem: b.convertType(ty.Elem), Rank: int(ty.Rank)}
	case model.KindTuple:
		tt := &syntax.TupleType{Elements: make([]syntax.TupleElement, len(ty.Args))}
		for i, e := range ty.Args {
			tt.Elements[i].Type = b.convertType(e)
			if i < len(ty.Names) {
				tt.Elements[i].Name = ty.Names[i]
			}
		}
		return tt
	case model.KindParameterized:
		if b.opts.AlwaysUseBuiltinTypeNames && b.m.IsKnown(ty.Elem, model.KnownNullable) && len(ty.Args) == 1 {
			return &syntax.NullableType{Elem: b.convertType(ty.Args[0])}
		}
		return b.convertDefinition(ty.Elem, ty.Args)
	case model.KindDefinition:
		return b.convertDefinition(t, b.m.TypeArguments(t))
	case model.KindTypeParameter:
		tp, ok := b.m.TypeParam(t)
		if !ok {
			return &syntax.UnknownType{}
		}
		return &syntax.SimpleType{Name: syntax.Ident(tp.Name)}
	case model.KindUnboundArg:
		return &syntax.PlaceholderType{}
	default:
		return &syntax.UnknownType{}
	}
}

// convertDefinition names a definition applied to args (outer arguments
// first). The three strategies are tried in order: alias, short name, then a
// qualified name that always resolves.
func (b *Builder) convertDefinition(def model.TypeID, args []model.TypeID) syntax.Type {
	d, ok := b.m.Definition(def)
	if !ok {
		return &syntax.UnknownType{}
	}
	if b.opts.AlwaysUseBuiltinTypeNames && len(args) == 0 {
		if kw, ok := builtinKeywords[d.Known]; ok {
			return &syntax.PrimitiveType{Keyword: kw}
		}
	}
	outer := min(b.m.OuterArity(def), len(args))
	local := args[outer:]

	if b.opts.AlwaysUseShortTypeNames {
		return &syntax.SimpleType{Name: syntax.Ident(d.Name), Args: b.convertArgs(d, outer, local)}
	}

	if b.opts.UseAliases {
		if name, ok := b.findAlias(func(r resolve.Result) bool {
			return r.Kind == resolve.KindType && b.typeMatches(r.Type, def, args)
		}); ok {
			return &syntax.SimpleType{Name: syntax.Ident(name)}
		}
	}

	// Unbound arguments stay placeholders in the lookup so that an open type
	// only matches another open type.
	r := b.ctx.LookupSimpleName(d.Name, local, b.lookupMode())
	if b.shortNameMatches(r, def, args) {
		return &syntax.SimpleType{Name: syntax.Ident(d.Name), Args: b.convertArgs(d, outer, local)}
	}

	if d.DeclaringType.IsValid() {
		return &syntax.MemberType{
			Target: b.convertDefinition(d.DeclaringType, args[:outer]),
			Name:   syntax.Ident(d.Name),
			Args:   b.convertArgs(d, outer, local),
		}
	}
	if d.Namespace == "" {
		return &syntax.MemberType{
			Target:      syntax.Global(),
			DoubleColon: true,
			Name:        syntax.Ident(d.Name),
			Args:        b.convertArgs(d, outer, local),
		}
	}
	return &syntax.MemberType{
		Target: b.ConvertNamespace(d.Namespace),
		Name:   syntax.Ident(d.Name),
		Args:   b.convertArgs(d, outer, local),
	}
}

// shortNameMatches accepts a lookup that lands on the target type, or on a
// variable or member typed as the target (a `Color Color` member still lets
// `Color.Red` bind to the type).
func (b *Builder) shortNameMatches(r resolve.Result, def model.TypeID, args []model.TypeID) bool {
	switch r.Kind {
	case resolve.KindType, resolve.KindVariable, resolve.KindMember, resolve.KindConstant:
		return b.typeMatches(r.Type, def, args)
	default:
		return false
	}
}

func (b *Builder) convertArgs(d *model.Definition, outer int, local []model.TypeID) []syntax.Type {
	if len(local) == 0 {
		return nil
	}
	out := make([]syntax.Type, len(local))
	for i, a := range local {
		if a == b.m.UnboundArg() && b.opts.ConvertUnboundTypeArguments && outer+i < len(d.TypeParams) {
			if tp, ok := b.m.TypeParam(d.TypeParams[outer+i]); ok {
				out[i] = &syntax.SimpleType{Name: syntax.Ident(tp.Name)}
				continue
			}
		}
		out[i] = b.convertType(a)
	}
	return out
}

// typeMatches reports whether got is def applied to exactly args. An open
// definition only matches an all-placeholder argument list.
func (b *Builder) typeMatches(got, def model.TypeID, args []model.TypeID) bool {
	if b.m.GenericDefinition(got) != def {
		return false
	}
	gotArgs := b.m.TypeArguments(got)
	if len(gotArgs) != len(args) {
		return false
	}
	for i := range args {
		if gotArgs[i] != args[i] {
			return false
		}
	}
	return true
}

// findAlias walks the scope chain innermost first for an alias whose target
// satisfies match and that is not shadowed where the name is used.
func (b *Builder) findAlias(match func(resolve.Result) bool) (string, bool) {
	chain := b.ctx.Chain()
	for i := 0; i < chain.Len(); i++ {
		for _, a := range chain.Frame(i).Aliases {
			if !match(a.Target) {
				continue
			}
			r := b.ctx.LookupSimpleName(a.Name, nil, b.lookupMode())
			if r.Kind == a.Target.Kind && r.Type == a.Target.Type && r.Namespace == a.Target.Namespace {
				return a.Name, true
			}
		}
	}
	return "", false
}

func (b *Builder) lookupMode() resolve.Mode { return b.mode }

// withMode runs fn with a different lookup mode.
func (b *Builder) withMode(mode resolve.Mode, fn func()) {
	saved := b.mode
	b.mode = mode
	defer func() { b.mode = saved }()
	fn()
}

// ConvertNamespace builds a reference to a namespace that resolves to it in
// the current scope: an alias, a plain dotted name, or a global::-rooted
// name when the first segment is hidden by another symbol.
func (b *Builder) ConvertNamespace(ns string) syntax.Type {
	if ns == "" {
		return syntax.Global()
	}
	if b.opts.UseAliases {
		if name, ok := b.findAlias(func(r resolve.Result) bool {
			return r.Kind == resolve.KindNamespace && r.Namespace == ns
		}); ok {
			return &syntax.SimpleType{Name: syntax.Ident(name)}
		}
	}
	dot := strings.LastIndexByte(ns, '.')
	if dot < 0 {
		if b.opts.AlwaysUseShortTypeNames {
			return &syntax.SimpleType{Name: syntax.Ident(ns)}
		}
		r := b.ctx.LookupSimpleName(ns, nil, b.lookupMode())
		if r.Kind == resolve.KindNamespace && r.Namespace == ns {
			return &syntax.SimpleType{Name: syntax.Ident(ns)}
		}
		return &syntax.MemberType{Target: syntax.Global(), DoubleColon: true, Name: syntax.Ident(ns)}
	}
	return &syntax.MemberType{Target: b.ConvertNamespace(ns[:dot]), Name: syntax.Ident(ns[dot+1:])}
}
