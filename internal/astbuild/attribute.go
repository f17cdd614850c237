package astbuild

import (
	"errors"
	"fmt"
	"strings"

	"projector/internal/diag"
	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/syntax"
)

const attributeSuffix = "Attribute"

// ConvertAttribute builds the syntax for one attribute application. A
// payload that failed to decode still yields a node, flagged Malformed.
func (b *Builder) ConvertAttribute(a *model.Attribute) (*syntax.Attribute, error) {
	if a == nil || !a.Type.IsValid() {
		return nil, fmt.Errorf("%w: attribute without type", ErrInvalidArgument)
	}
	out := &syntax.Attribute{Type: b.convertAttributeType(a.Type)}

	var params []model.Parameter
	if ctor, ok := b.m.Entity(a.Constructor); ok {
		params = ctor.Parameters
		if len(params) != len(a.Fixed) && !a.Malformed() {
			diag.ReportWarning(b.report, diag.AttrArgumentCount, b.typeSubject(a.Type),
				fmt.Sprintf("%d arguments for a constructor taking %d", len(a.Fixed), len(params))).Emit()
		}
	} else if len(a.Fixed) > 0 {
		diag.ReportInfo(b.report, diag.AttrUnresolvedConstructor, b.typeSubject(a.Type),
			"constructor unknown; arguments typed by their own values").Emit()
	}

	for i, v := range a.Fixed {
		expected := v.EffectiveType()
		if i < len(params) && params[i].Type.IsValid() {
			expected = params[i].Type
		}
		out.Args = append(out.Args, b.attributeValue(a.Type, expected, v))
	}
	for _, nv := range a.Named {
		out.Args = append(out.Args, &syntax.NamedArgExpr{
			Name:  syntax.Ident(nv.Name),
			Value: b.attributeValue(a.Type, nv.Value.Declared, nv.Value),
		})
	}

	if a.Malformed() {
		out.Malformed = true
		out.Comment = "could not decode attribute arguments: " + a.DecodeError
		diag.ReportWarning(b.report, diag.AttrMalformedBlob, b.typeSubject(a.Type), a.DecodeError).Emit()
	}
	return out, nil
}

// attributeValue encodes one argument; a value that disagrees with its
// type becomes an error node so the attribute stays well formed.
func (b *Builder) attributeValue(attrType, expected model.TypeID, v model.TypedValue) syntax.Expr {
	declared := v.EffectiveType()
	if !declared.IsValid() {
		declared = expected
	}
	e, err := b.ConvertConstant(expected, declared, v.Value)
	if err == nil {
		return e
	}
	if errors.Is(err, ErrConstantMismatch) {
		diag.ReportWarning(b.report, diag.ConstTypeMismatch, b.typeSubject(attrType), err.Error()).Emit()
	}
	return &syntax.ErrorExpr{Message: err.Error()}
}

// ConvertAttributes builds one attribute section, skipping the attributes
// the declaration syntax already expresses (this, params, indexers).
func (b *Builder) ConvertAttributes(attrs []model.Attribute, target string) []*syntax.AttributeSection {
	if !b.opts.ShowAttributes {
		return nil
	}
	var out []*syntax.Attribute
	for i := range attrs {
		a := &attrs[i]
		switch b.m.KnownOf(a.Type) {
		case model.KnownExtensionAttribute, model.KnownParamArrayAttribute, model.KnownDefaultMemberAttribute:
			continue
		}
		sa, err := b.ConvertAttribute(a)
		if err != nil {
			continue
		}
		out = append(out, sa)
	}
	if len(out) == 0 {
		return nil
	}
	return []*syntax.AttributeSection{{Target: target, Attributes: out}}
}

// convertAttributeType converts the attribute type and elides the
// Attribute suffix when the shorter name still binds to the same type.
func (b *Builder) convertAttributeType(t model.TypeID) syntax.Type {
	st := b.convertType(t)
	id, ok := syntax.TypeName(st)
	if !ok {
		return st
	}
	name := id.Name
	hasSuffix := len(name) > len(attributeSuffix) && strings.HasSuffix(name, attributeSuffix)

	if b.opts.AlwaysUseShortTypeNames {
		if hasSuffix {
			syntax.SetTypeName(st, syntax.Ident(strings.TrimSuffix(name, attributeSuffix)))
		}
		return st
	}
	if id.Verbatim {
		return st
	}

	if hasSuffix {
		stripped := strings.TrimSuffix(name, attributeSuffix)
		r := b.resolveRenamed(st, stripped)
		if r.Kind != resolve.KindType || r.Type == t || !b.isAttributeType(r.Type) {
			syntax.SetTypeName(st, syntax.Ident(stripped))
			return st
		}
		// [Foo] would be ambiguous with a distinct attribute Foo; keep the
		// full name and force an exact match if FooAttributeAttribute exists.
		if b.conflicts(st, name+attributeSuffix, t) {
			syntax.SetTypeName(st, syntax.VerbatimIdent(name))
		}
		return st
	}
	if b.conflicts(st, name+attributeSuffix, t) {
		syntax.SetTypeName(st, syntax.VerbatimIdent(name))
	}
	return st
}

// conflicts reports whether name, used in place of st's last identifier,
// binds to an attribute type other than t.
func (b *Builder) conflicts(st syntax.Type, name string, t model.TypeID) bool {
	r := b.resolveRenamed(st, name)
	return r.Kind == resolve.KindType && r.Type != t && b.isAttributeType(r.Type)
}

// resolveRenamed resolves st with its last identifier replaced.
func (b *Builder) resolveRenamed(st syntax.Type, name string) resolve.Result {
	var probe syntax.Type
	switch n := st.(type) {
	case *syntax.SimpleType:
		c := *n
		c.Name = syntax.Ident(name)
		probe = &c
	case *syntax.MemberType:
		c := *n
		c.Name = syntax.Ident(name)
		probe = &c
	default:
		return resolve.UnknownResult(name)
	}
	return ResolveTypeSyntax(b.ctx, resolve.ModeType, probe)
}

// isAttributeType reports whether t derives from System.Attribute.
func (b *Builder) isAttributeType(t model.TypeID) bool {
	seen := make(map[model.TypeID]bool)
	for cur := t; cur.IsValid() && !seen[cur]; {
		seen[cur] = true
		if b.m.IsKnown(cur, model.KnownAttribute) {
			return true
		}
		d, ok := b.m.DefinitionOf(cur)
		if !ok || d.Kind != model.DefClass || len(d.BaseTypes) == 0 {
			return false
		}
		cur = d.BaseTypes[0]
	}
	return false
}
