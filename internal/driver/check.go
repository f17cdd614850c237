package driver

import (
	"context"
	"fmt"

	"projector/internal/astbuild"
	"projector/internal/diag"
	"projector/internal/format"
	"projector/internal/model"
	"projector/internal/resolve"
)

// Mismatch is a type reference whose produced name binds to something
// else in the scope it is printed in.
type Mismatch struct {
	Where string // full name of the type or member holding the reference
	Want  model.TypeID
	Text  string // produced type syntax
	Got   string // what the syntax resolved to
}

func (mm Mismatch) String() string {
	return fmt.Sprintf("%s: %s resolves to %s", mm.Where, mm.Text, mm.Got)
}

// Check re-resolves every type name produced for the base types and member
// signatures of ids (nested types included) and reports the names that do
// not lead back to the original type.
func (s *Session) Check(ctx context.Context, ids []model.TypeID) ([]Mismatch, error) {
	c := &checker{s: s, b: s.Builder(), mode: s.cfg.Options.NameLookupMode}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return c.out, err
		}
		c.checkType(id)
	}
	return c.out, nil
}

type checker struct {
	s    *Session
	b    *astbuild.Builder
	mode resolve.Mode
	out  []Mismatch
}

func (c *checker) checkType(id model.TypeID) {
	m := c.s.model
	d, ok := m.Definition(id)
	if !ok {
		return
	}
	at := c.s.Context().WithType(id)
	for _, base := range d.BaseTypes {
		c.verify(at, m.FullName(id), base)
	}
	for _, mid := range d.Members {
		e, ok := m.Entity(mid)
		if !ok || !declaredInBody(e) {
			continue
		}
		ret, params := e.ReturnType, e.Parameters
		if e.Kind == model.EntityProperty {
			if p, err := c.s.members.Property(mid); err == nil {
				sig := p.Signature()
				ret, params = sig.ReturnType, sig.Params
			}
		}
		where := m.FullName(id) + "." + e.Name
		inMember := at.WithMember(mid)
		c.verify(inMember, where, ret)
		for _, p := range params {
			t := p.Type
			if m.KindOf(t) == model.KindByRef {
				t = m.Elem(t)
			}
			c.verify(inMember, where, t)
		}
	}
	for _, nid := range d.Nested {
		c.checkType(nid)
	}
}

func (c *checker) verify(at resolve.Context, where string, t model.TypeID) {
	m := c.s.model
	if !t.IsValid() || m.IsKnown(t, model.KnownVoid) || hasPlaceholder(m, t) {
		return
	}
	c.b.SetContext(at)
	syn, err := c.b.ConvertType(t)
	if err != nil {
		return
	}
	r := astbuild.ResolveTypeSyntax(at, c.mode, syn)
	if r.IsType(t) {
		return
	}
	mm := Mismatch{Where: where, Want: t, Text: format.Type(syn), Got: r.String()}
	c.out = append(c.out, mm)
	diag.ReportWarning(c.b.Reporter(), diag.NameRoundTrip, diag.TypeSubject(t, m.FullName(t)), mm.String()).Emit()
}

// hasPlaceholder reports types that have no source spelling to verify.
func hasPlaceholder(m *model.Model, t model.TypeID) bool {
	ty, ok := m.Type(t)
	if !ok {
		return true
	}
	switch ty.Kind {
	case model.KindUnknown, model.KindUnboundArg:
		return true
	case model.KindArray, model.KindPointer, model.KindByRef:
		return hasPlaceholder(m, ty.Elem)
	}
	for _, a := range ty.Args {
		if hasPlaceholder(m, a) {
			return true
		}
	}
	return false
}
