package astbuild

import (
	"errors"
	"fmt"
	"strings"

	"projector/internal/access"
	"projector/internal/diag"
	"projector/internal/metadata"
	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/syntax"
	"projector/internal/trace"
)

// ConvertEntity builds the declaration of a type definition or member.
// Type declarations carry the header only; members are converted one by one.
func (b *Builder) ConvertEntity(id model.EntityID) (syntax.Decl, error) {
	e, ok := b.m.Entity(id)
	if !ok {
		return nil, fmt.Errorf("%w: entity #%d", ErrInvalidArgument, id)
	}
	trace.Point(b.tracer, trace.ScopeMember, "entity", e.Kind.String()+" "+e.Name, 0)

	var (
		decl syntax.Decl
		err  error
	)
	b.inType(e.DeclaringType, func() {
		switch e.Kind {
		case model.EntityTypeDefinition:
			decl, err = b.convertTypeDefinition(e)
		case model.EntityField:
			decl, err = b.convertField(id, e)
		case model.EntityProperty, model.EntityIndexer:
			decl, err = b.convertProperty(id)
		case model.EntityEvent:
			decl, err = b.convertEvent(id, e)
		case model.EntityMethod:
			b.inMember(id, func() { decl = b.convertMethod(id, e) })
		case model.EntityOperator:
			b.inMember(id, func() { decl = b.convertOperator(id, e) })
		case model.EntityConstructor:
			decl = b.convertConstructor(id, e)
		case model.EntityDestructor:
			decl = b.convertDestructor(id, e)
		case model.EntityAccessor:
			decl = b.convertStandaloneAccessor(id, e)
		default:
			diag.ReportError(b.report, diag.EntUnsupportedKind, b.entitySubject(id), e.Kind.String()).Emit()
			err = fmt.Errorf("%w: cannot declare %s %s", ErrInvalidArgument, e.Kind, e.Name)
		}
	})
	return decl, err
}

func (b *Builder) convertTypeDefinition(e *model.Entity) (syntax.Decl, error) {
	d, ok := b.m.Definition(e.TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: type #%d", ErrInvalidArgument, e.TypeDef)
	}
	if d.Kind == model.DefDelegate {
		return b.convertDelegate(d), nil
	}

	out := &syntax.TypeDecl{Kind: typeKind(d.Kind)}
	out.Entity = d.Entity
	out.Name = syntax.Ident(d.Name)
	out.Modifiers = b.typeModifiers(d)
	out.Attributes = b.ConvertAttributes(d.Attributes, "")

	b.inType(d.Self, func() {
		local := d.TypeParams[min(b.m.OuterArity(d.Self), len(d.TypeParams)):]
		out.TypeParams = b.convertTypeParams(local)
		if b.opts.ShowTypeParameterConstraints {
			out.Constraints = b.convertConstraints(local)
		}
		if b.opts.ShowBaseTypes {
			b.withMode(resolve.ModeBaseTypeReference, func() {
				out.BaseTypes = b.convertBaseTypes(d)
			})
		}
	})
	return out, nil
}

func typeKind(k model.DefKind) syntax.TypeKind {
	switch k {
	case model.DefStruct:
		return syntax.TypeStruct
	case model.DefInterface:
		return syntax.TypeInterface
	case model.DefEnum:
		return syntax.TypeEnum
	default:
		return syntax.TypeClass
	}
}

func (b *Builder) typeModifiers(d *model.Definition) syntax.Modifiers {
	var mods syntax.Modifiers
	if b.opts.ShowAccessibility {
		mods |= syntax.AccessModifiers(d.Access)
	}
	if !b.opts.ShowModifiers {
		return mods
	}
	if d.Has(model.DefFlagShadowing) {
		mods |= syntax.ModNew
	}
	if d.Kind != model.DefClass {
		// struct, enum and delegate are implicitly sealed; interfaces abstract.
		return mods
	}
	switch {
	case d.Has(model.DefFlagStatic), d.Has(model.DefFlagAbstract | model.DefFlagSealed):
		mods |= syntax.ModStatic
	case d.Has(model.DefFlagAbstract):
		mods |= syntax.ModAbstract
	case d.Has(model.DefFlagSealed):
		mods |= syntax.ModSealed
	}
	return mods
}

// convertBaseTypes drops the implicit roots: object, ValueType and Enum, and
// an enum's int underlying type.
func (b *Builder) convertBaseTypes(d *model.Definition) []syntax.Type {
	if d.Kind == model.DefEnum {
		if d.EnumUnderlying.IsValid() && !b.m.IsKnown(d.EnumUnderlying, model.KnownInt32) {
			return []syntax.Type{b.convertType(d.EnumUnderlying)}
		}
		return nil
	}
	var out []syntax.Type
	for _, base := range d.BaseTypes {
		switch b.m.KnownOf(base) {
		case model.KnownObject, model.KnownValueType, model.KnownEnum:
			continue
		}
		out = append(out, b.convertType(base))
	}
	return out
}

func (b *Builder) convertDelegate(d *model.Definition) syntax.Decl {
	out := &syntax.DelegateDecl{}
	out.Entity = d.Entity
	out.Name = syntax.Ident(d.Name)
	out.Modifiers = b.typeModifiers(d)
	out.Attributes = b.ConvertAttributes(d.Attributes, "")

	var invoke *model.Entity
	for _, id := range d.Members {
		if e, ok := b.m.Entity(id); ok && e.Kind == model.EntityMethod && e.Name == "Invoke" {
			invoke = e
			break
		}
	}
	b.inType(d.Self, func() {
		local := d.TypeParams[min(b.m.OuterArity(d.Self), len(d.TypeParams)):]
		out.TypeParams = b.convertTypeParams(local)
		if b.opts.ShowTypeParameterConstraints {
			out.Constraints = b.convertConstraints(local)
		}
		if invoke == nil {
			diag.ReportWarning(b.report, diag.EntMissingInvoke, b.typeSubject(d.Self), d.Name).Emit()
			out.ReturnType = b.convertType(b.m.Unknown())
			return
		}
		out.ReturnType = b.convertType(invoke.ReturnType)
		out.Params = b.convertParams(invoke.Parameters, false)
	})
	return out
}

func (b *Builder) convertTypeParams(ids []model.TypeID) []*syntax.TypeParamDecl {
	if !b.opts.ShowTypeParameters || len(ids) == 0 {
		return nil
	}
	out := make([]*syntax.TypeParamDecl, 0, len(ids))
	for _, id := range ids {
		tp, ok := b.m.TypeParam(id)
		if !ok {
			continue
		}
		decl := &syntax.TypeParamDecl{Name: syntax.Ident(tp.Name), Attributes: b.ConvertAttributes(tp.Attributes, "")}
		switch tp.Variance {
		case model.Covariant:
			decl.Variance = "out"
		case model.Contravariant:
			decl.Variance = "in"
		}
		out = append(out, decl)
	}
	return out
}

func (b *Builder) convertConstraints(ids []model.TypeID) []*syntax.Constraint {
	var out []*syntax.Constraint
	for _, id := range ids {
		tp, ok := b.m.TypeParam(id)
		if !ok {
			continue
		}
		c := &syntax.Constraint{
			TypeParam: syntax.Ident(tp.Name),
			Class:     tp.Has(model.ConstraintReferenceType),
			Struct:    tp.Has(model.ConstraintValueType) && !tp.Has(model.ConstraintUnmanaged),
			Unmanaged: tp.Has(model.ConstraintUnmanaged),
			// new() is implied by struct.
			Constructor: tp.Has(model.ConstraintDefaultCtor) && !tp.Has(model.ConstraintValueType),
		}
		for _, t := range tp.ConstraintTypes {
			if c.Struct && b.m.IsKnown(t, model.KnownValueType) {
				continue
			}
			if b.m.IsKnown(t, model.KnownObject) {
				continue
			}
			c.Types = append(c.Types, b.convertType(t))
		}
		if c.Class || c.Struct || c.Unmanaged || c.Constructor || len(c.Types) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// memberModifiers computes the modifier set of a member. Accessibility is
// left out inside interfaces and on explicit implementations.
func (b *Builder) memberModifiers(declaring model.TypeID, acc access.Accessibility, flags model.EntityFlags, explicit bool) syntax.Modifiers {
	inInterface := false
	if d, ok := b.m.DefinitionOf(declaring); ok && d.Kind == model.DefInterface {
		inInterface = true
	}
	var mods syntax.Modifiers
	if b.opts.ShowAccessibility && !inInterface && !explicit {
		mods |= syntax.AccessModifiers(acc)
	}
	if !b.opts.ShowModifiers {
		return mods
	}
	has := func(f model.EntityFlags) bool { return flags&f != 0 }
	if has(model.FlagShadowing) {
		mods |= syntax.ModNew
	}
	if has(model.FlagStatic) && !has(model.FlagConst) {
		mods |= syntax.ModStatic
	}
	if has(model.FlagAbstract) && !inInterface {
		mods |= syntax.ModAbstract
	}
	if has(model.FlagOverride) {
		mods |= syntax.ModOverride
		if has(model.FlagSealed) {
			mods |= syntax.ModSealed
		}
	}
	if has(model.FlagVirtual) && !has(model.FlagAbstract) && !has(model.FlagOverride) && !inInterface && !explicit {
		mods |= syntax.ModVirtual
	}
	if has(model.FlagExtern) {
		mods |= syntax.ModExtern
	}
	return mods
}

func (b *Builder) convertField(id model.EntityID, e *model.Entity) (syntax.Decl, error) {
	if b.m.IsEnum(e.DeclaringType) && e.HasConstant {
		out := &syntax.EnumMemberDecl{}
		out.Entity = id
		out.Name = syntax.Ident(e.Name)
		out.Attributes = b.ConvertAttributes(e.Attributes, "")
		if b.opts.ShowConstantValues {
			under := b.m.EnumUnderlying(e.DeclaringType)
			out.Init = b.constantOrError(id, under, under, e.Constant)
		}
		return out, nil
	}

	out := &syntax.FieldDecl{Type: b.convertType(e.ReturnType)}
	out.Entity = id
	out.Name = syntax.Ident(e.Name)
	out.Attributes = b.ConvertAttributes(e.Attributes, "")
	out.Modifiers = b.memberModifiers(e.DeclaringType, e.Access, e.Flags, false)
	if b.opts.ShowModifiers {
		switch {
		case e.Has(model.FlagConst):
			out.Modifiers |= syntax.ModConst
		case e.Has(model.FlagReadOnly):
			out.Modifiers |= syntax.ModReadonly
		}
		if e.Has(model.FlagVolatile) {
			out.Modifiers |= syntax.ModVolatile
		}
	}
	if e.HasConstant && b.opts.ShowConstantValues {
		out.Init = b.constantOrError(id, e.ReturnType, e.ReturnType, e.Constant)
	}
	return out, nil
}

// constantOrError encodes a member constant; a mismatch is reported and
// replaced by an error node.
func (b *Builder) constantOrError(id model.EntityID, expected, declared model.TypeID, v any) syntax.Expr {
	expr, err := b.ConvertConstant(expected, declared, v)
	if err == nil {
		return expr
	}
	if errors.Is(err, ErrConstantMismatch) {
		diag.ReportWarning(b.report, diag.ConstTypeMismatch, b.entitySubject(id), err.Error()).Emit()
	}
	return &syntax.ErrorExpr{Message: err.Error()}
}

func (b *Builder) convertProperty(id model.EntityID) (syntax.Decl, error) {
	p, err := b.members.Property(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if sig := p.Signature(); sig.Err != nil {
		diag.ReportWarning(b.report, diag.SigMalformedBlob, b.entitySubject(id), sig.Err.Error()).Emit()
	}
	rec := p.Record()
	impls := p.ExplicitImpls()
	explicit := len(impls) > 0

	flags := rec.Flags & (model.FlagShadowing | model.FlagExtern)
	set := func(f model.EntityFlags, on bool) {
		if on {
			flags |= f
		}
	}
	set(model.FlagStatic, p.IsStatic())
	set(model.FlagAbstract, p.IsAbstract())
	set(model.FlagVirtual, p.IsVirtual())
	set(model.FlagOverride, p.IsOverride())
	set(model.FlagSealed, p.IsSealed())

	acc := p.Accessibility()
	base := syntax.DeclBase{
		Attributes: b.ConvertAttributes(rec.Attributes, ""),
		Modifiers:  b.memberModifiers(rec.DeclaringType, acc, flags, explicit),
		Name:       syntax.Ident(b.memberName(rec.Name, impls)),
		Entity:     id,
	}
	if !p.CanGet() && !p.CanSet() {
		diag.ReportWarning(b.report, diag.EntMissingAccessor, b.entitySubject(id), rec.Name).Emit()
	}
	bodies := !p.IsAbstract() && !b.inInterface(rec.DeclaringType)
	getter := b.convertAccessor(p.Getter(), acc, bodies)
	setter := b.convertAccessor(p.Setter(), acc, bodies)
	typ := b.convertType(p.ReturnType())
	var implType syntax.Type
	if explicit {
		implType = b.implType(impls)
	}

	if p.Kind() == model.EntityIndexer {
		return &syntax.IndexerDecl{
			DeclBase: base,
			Type:     typ,
			ImplType: implType,
			Params:   b.convertParams(p.Parameters(), false),
			Getter:   getter,
			Setter:   setter,
		}, nil
	}
	return &syntax.PropertyDecl{DeclBase: base, Type: typ, ImplType: implType, Getter: getter, Setter: setter}, nil
}

// convertAccessor builds get/set/init/add/remove. The accessor shows its own
// accessibility only when it is narrower than the owner's.
func (b *Builder) convertAccessor(a *model.Entity, owner access.Accessibility, body bool) *syntax.Accessor {
	if a == nil {
		return nil
	}
	out := &syntax.Accessor{Kind: accessorKind(a.AccessorKind)}
	out.Name = syntax.Ident(a.Name)
	out.Attributes = b.ConvertAttributes(a.Attributes, "")
	if b.opts.ShowAccessibility && a.Access != owner && a.Access != access.None {
		out.Modifiers = syntax.AccessModifiers(a.Access)
	}
	if body {
		out.Body = b.throwingBody()
	}
	return out
}

func accessorKind(k model.AccessorKind) syntax.AccessorKind {
	switch k {
	case model.AccessorSet:
		return syntax.AccessorSet
	case model.AccessorInit:
		return syntax.AccessorInit
	case model.AccessorAdd:
		return syntax.AccessorAdd
	case model.AccessorRemove:
		return syntax.AccessorRemove
	default:
		return syntax.AccessorGet
	}
}

func (b *Builder) convertEvent(id model.EntityID, e *model.Entity) (syntax.Decl, error) {
	acc := metadata.EventAccessibility(b.m, id)
	flags := e.Flags
	add, _ := b.m.Entity(e.Adder)
	remove, _ := b.m.Entity(e.Remover)
	if add != nil {
		flags |= add.Flags
	}
	impls := e.ExplicitImpls
	if len(impls) == 0 && add != nil {
		impls = add.ExplicitImpls
	}
	explicit := len(impls) > 0

	base := syntax.DeclBase{
		Attributes: b.ConvertAttributes(e.Attributes, ""),
		Modifiers:  b.memberModifiers(e.DeclaringType, acc, flags, explicit),
		Name:       syntax.Ident(b.memberName(e.Name, impls)),
		Entity:     id,
	}
	typ := b.convertType(e.ReturnType)
	var implType syntax.Type
	if explicit {
		implType = b.implType(impls)
	}
	// Explicit implementations cannot be field-like.
	if !b.opts.UseCustomEvents && !explicit {
		return &syntax.EventDecl{DeclBase: base, Type: typ}, nil
	}
	if add == nil && remove == nil {
		diag.ReportWarning(b.report, diag.EntMissingAccessor, b.entitySubject(id), e.Name).Emit()
	}
	bodies := flags&model.FlagAbstract == 0 && !b.inInterface(e.DeclaringType)
	return &syntax.CustomEventDecl{
		DeclBase: base,
		Type:     typ,
		ImplType: implType,
		Adder:    b.convertAccessor(add, acc, bodies),
		Remover:  b.convertAccessor(remove, acc, bodies),
	}, nil
}

func (b *Builder) convertMethod(id model.EntityID, e *model.Entity) syntax.Decl {
	explicit := e.IsExplicitImplementation()
	out := &syntax.MethodDecl{ReturnType: b.convertType(e.ReturnType)}
	out.Entity = id
	out.Name = syntax.Ident(b.memberName(e.Name, e.ExplicitImpls))
	out.Attributes = b.ConvertAttributes(e.Attributes, "")
	out.Modifiers = b.memberModifiers(e.DeclaringType, e.Access, e.Flags, explicit)
	out.TypeParams = b.convertTypeParams(e.TypeParams)
	if b.opts.ShowTypeParameterConstraints && !explicit && !e.Has(model.FlagOverride) {
		out.Constraints = b.convertConstraints(e.TypeParams)
	}
	out.Params = b.convertParams(e.Parameters, e.Has(model.FlagExtension))
	if explicit {
		out.ImplType = b.implType(e.ExplicitImpls)
	}
	if b.hasBody(e) {
		out.Body = b.throwingBody()
	}
	return out
}

func (b *Builder) convertOperator(id model.EntityID, e *model.Entity) syntax.Decl {
	op, ok := syntax.OperatorByMetadataName(e.Name)
	if !ok {
		return b.convertMethod(id, e)
	}
	out := &syntax.OperatorDecl{
		Operator:   op,
		ReturnType: b.convertType(e.ReturnType),
		Params:     b.convertParams(e.Parameters, false),
	}
	out.Entity = id
	out.Name = syntax.Ident(e.Name)
	out.Attributes = b.ConvertAttributes(e.Attributes, "")
	out.Modifiers = b.memberModifiers(e.DeclaringType, e.Access, e.Flags, false)
	if b.hasBody(e) {
		out.Body = b.throwingBody()
	}
	return out
}

func (b *Builder) convertConstructor(id model.EntityID, e *model.Entity) syntax.Decl {
	out := &syntax.ConstructorDecl{Params: b.convertParams(e.Parameters, false)}
	out.Entity = id
	out.Name = syntax.Ident(b.declaringName(e.DeclaringType))
	out.Attributes = b.ConvertAttributes(e.Attributes, "")
	if e.Has(model.FlagStatic) {
		if b.opts.ShowModifiers {
			out.Modifiers = syntax.ModStatic
		}
	} else {
		out.Modifiers = b.memberModifiers(e.DeclaringType, e.Access, e.Flags&model.FlagExtern, false)
	}
	if b.hasBody(e) {
		out.Body = b.throwingBody()
	}
	return out
}

func (b *Builder) convertDestructor(id model.EntityID, e *model.Entity) syntax.Decl {
	out := &syntax.DestructorDecl{}
	out.Entity = id
	out.Name = syntax.Ident(b.declaringName(e.DeclaringType))
	out.Attributes = b.ConvertAttributes(e.Attributes, "")
	if b.hasBody(e) {
		out.Body = b.throwingBody()
	}
	return out
}

func (b *Builder) convertStandaloneAccessor(id model.EntityID, e *model.Entity) syntax.Decl {
	out := b.convertAccessor(e, access.None, b.hasBody(e))
	out.Entity = id
	if b.opts.ShowAccessibility && !b.inInterface(e.DeclaringType) {
		out.Modifiers = syntax.AccessModifiers(e.Access)
	}
	return out
}

// convertParams builds a parameter list. ref/out/in parameters carry a
// ByRef type in metadata which the modifier replaces.
func (b *Builder) convertParams(params []model.Parameter, extension bool) []*syntax.ParamDecl {
	if len(params) == 0 {
		return nil
	}
	out := make([]*syntax.ParamDecl, len(params))
	for i, p := range params {
		t := p.Type
		mod := paramModifier(p.Modifier)
		if b.m.KindOf(t) == model.KindByRef {
			t = b.m.Elem(t)
			if mod == syntax.ParamNone {
				mod = syntax.ParamRef
			}
		}
		if i == 0 && extension {
			mod = syntax.ParamThis
		}
		pd := &syntax.ParamDecl{
			Attributes: b.ConvertAttributes(p.Attributes, ""),
			Modifier:   mod,
			Type:       b.convertType(t),
		}
		if b.opts.ShowParameterNames {
			pd.Name = syntax.Ident(p.Name)
		}
		if p.Optional && p.HasDefault && b.opts.ShowConstantValues {
			pd.Default = b.constantOrError(model.NoEntityID, t, t, p.Default)
		}
		out[i] = pd
	}
	return out
}

func paramModifier(m model.ParamModifier) syntax.ParamModifier {
	switch m {
	case model.ParamRef:
		return syntax.ParamRef
	case model.ParamOut:
		return syntax.ParamOut
	case model.ParamIn:
		return syntax.ParamIn
	case model.ParamParams:
		return syntax.ParamParams
	default:
		return syntax.ParamNone
	}
}

// implType names the interface that declares the first implemented member.
func (b *Builder) implType(impls []model.EntityID) syntax.Type {
	target, ok := b.m.Entity(impls[0])
	if !ok || !target.DeclaringType.IsValid() {
		return nil
	}
	return b.convertType(target.DeclaringType)
}

// memberName strips the interface qualifier metadata puts on explicit
// implementations ("System.IDisposable.Dispose"). When the implemented
// member is an accessor (get_Sides) the name comes from its property or
// event.
func (b *Builder) memberName(name string, impls []model.EntityID) string {
	if len(impls) > 0 {
		if target, ok := b.m.Entity(impls[0]); ok {
			if target.Kind != model.EntityAccessor {
				return target.Name
			}
			if owner, ok := b.m.Entity(target.Owner); ok {
				return owner.Name
			}
		}
	}
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		return name[dot+1:]
	}
	return name
}

func (b *Builder) declaringName(t model.TypeID) string {
	if d, ok := b.m.DefinitionOf(t); ok {
		return d.Name
	}
	return ""
}

func (b *Builder) inInterface(t model.TypeID) bool {
	d, ok := b.m.DefinitionOf(t)
	return ok && d.Kind == model.DefInterface
}

func (b *Builder) hasBody(e *model.Entity) bool {
	return !e.Has(model.FlagAbstract) && !e.Has(model.FlagExtern) && !b.inInterface(e.DeclaringType)
}

// throwingBody is `{ throw new NotImplementedException(); }` when bodies are
// enabled and nil otherwise.
func (b *Builder) throwingBody() *syntax.Block {
	if !b.opts.GenerateBody {
		return nil
	}
	exc := b.m.KnownType(model.KnownNotImplementedException)
	var typ syntax.Type = &syntax.UnknownType{}
	if exc.IsValid() {
		typ = b.convertType(exc)
	}
	return &syntax.Block{Stmts: []syntax.Stmt{&syntax.ThrowStmt{Expr: &syntax.ObjectCreateExpr{Type: typ}}}}
}
