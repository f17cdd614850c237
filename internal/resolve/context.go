package resolve

import (
	"fmt"

	"projector/internal/metadata"
	"projector/internal/model"
)

// Mode selects which kinds of symbols a simple-name lookup considers.
type Mode uint8

const (
	// ModeExpression sees locals, members, types and namespaces.
	ModeExpression Mode = iota
	// ModeType sees only types and namespaces.
	ModeType
	// ModeTypeInUsingDeclaration ignores the using directives of the
	// innermost frame, which do not apply to each other.
	ModeTypeInUsingDeclaration
	// ModeBaseTypeReference resolves from outside the current type's body:
	// its own nested types and members are not in scope.
	ModeBaseTypeReference
)

func (m Mode) String() string {
	switch m {
	case ModeExpression:
		return "expression"
	case ModeType:
		return "type"
	case ModeTypeInUsingDeclaration:
		return "type-in-using"
	case ModeBaseTypeReference:
		return "base-type"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	for m := ModeExpression; m <= ModeBaseTypeReference; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeExpression, fmt.Errorf("invalid lookup mode: %q (expected: expression|type|type-in-using|base-type)", s)
}

// Context is the resolution cursor: a scope chain plus the current type and
// member. It is a small value; the With methods return modified copies.
type Context struct {
	m       *model.Model
	members *metadata.Members
	chain   Chain
	typ     model.TypeID
	member  model.EntityID
}

// NewContext creates a context over m. members may be nil; it is used to
// type raw property records.
func NewContext(m *model.Model, members *metadata.Members, chain Chain) Context {
	return Context{m: m, members: members, chain: chain}
}

func (c Context) Model() *model.Model { return c.m }

func (c Context) Chain() Chain { return c.chain }

// CurrentType is the type whose body the cursor is in.
func (c Context) CurrentType() model.TypeID { return c.typ }

// CurrentMember is the member whose signature or body the cursor is in.
func (c Context) CurrentMember() model.EntityID { return c.member }

// WithType moves the cursor into the body of t.
func (c Context) WithType(t model.TypeID) Context {
	c.typ = t
	c.member = model.NoEntityID
	return c
}

// WithMember moves the cursor into member e.
func (c Context) WithMember(e model.EntityID) Context {
	c.member = e
	return c
}

// WithChain replaces the scope chain.
func (c Context) WithChain(ch Chain) Context {
	c.chain = ch
	return c
}

// WithLocals pushes a frame declaring locals.
func (c Context) WithLocals(locals ...Local) Context {
	c.chain = c.chain.Push(Frame{Namespace: c.chain.Namespace(), Locals: locals})
	return c
}

// MemberType returns the declared type of a member.
func (c Context) MemberType(id model.EntityID) model.TypeID {
	e, ok := c.m.Entity(id)
	if !ok {
		return model.NoTypeID
	}
	if (e.Kind == model.EntityProperty || e.Kind == model.EntityIndexer) && c.members != nil {
		if p, err := c.members.Property(id); err == nil {
			return p.ReturnType()
		}
	}
	return e.ReturnType
}
