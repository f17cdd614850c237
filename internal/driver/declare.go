package driver

import (
	"context"
	"fmt"
	"strconv"

	"projector/internal/astbuild"
	"projector/internal/diag"
	"projector/internal/model"
	"projector/internal/syntax"
	"projector/internal/trace"
)

// DeclareType projects a definition with its members and nested types.
// Members that cannot be declared are reported and left out.
func (s *Session) DeclareType(ctx context.Context, id model.TypeID) (syntax.Decl, error) {
	return declareType(ctx, s.Builder(), id)
}

// DeclareMember projects a single member.
func (s *Session) DeclareMember(ctx context.Context, id model.EntityID) (syntax.Decl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := "?"
	if e, ok := s.model.Entity(id); ok {
		name = e.Name
	}
	_, span := trace.Enter(ctx, trace.ScopeMember, "declare member")
	span.WithExtra("member", name)
	decl, err := s.Builder().ConvertEntity(id)
	span.End(status(err))
	return decl, err
}

func declareType(ctx context.Context, b *astbuild.Builder, id model.TypeID) (syntax.Decl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := b.Context().Model()
	d, ok := m.Definition(id)
	if !ok {
		return nil, fmt.Errorf("%w: type #%d", astbuild.ErrInvalidArgument, id)
	}
	ctx, span := trace.Enter(ctx, trace.ScopeType, "declare type")
	span.WithExtra("type", m.FullName(id))

	decl, err := b.ConvertEntity(d.Entity)
	if err != nil {
		span.End(status(err))
		return nil, err
	}
	td, ok := decl.(*syntax.TypeDecl)
	if !ok {
		// Delegates are complete without a body.
		span.End("ok")
		return decl, nil
	}
	for _, mid := range d.Members {
		e, ok := m.Entity(mid)
		if !ok || !declaredInBody(e) {
			continue
		}
		md, err := b.ConvertEntity(mid)
		if err != nil {
			diag.ReportError(b.Reporter(), diag.EntInvalidEntity, diag.EntitySubject(mid, e.Name), err.Error()).Emit()
			continue
		}
		td.Members = append(td.Members, md)
	}
	for _, nid := range d.Nested {
		nd, err := declareType(ctx, b, nid)
		if err != nil {
			span.End(status(err))
			return nil, err
		}
		td.Members = append(td.Members, nd)
	}
	span.End(strconv.Itoa(len(td.Members)) + " members")
	return td, nil
}

// declaredInBody reports whether a member gets its own declaration inside
// the type body. Accessors print inside their property or event.
func declaredInBody(e *model.Entity) bool {
	switch e.Kind {
	case model.EntityAccessor:
		return !e.Owner.IsValid()
	case model.EntityTypeDefinition, model.EntityInvalid:
		return false
	}
	return true
}

func status(err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
