package model

import "projector/internal/access"

// DefKind classifies a type definition.
type DefKind uint8

const (
	DefClass DefKind = iota
	DefStruct
	DefInterface
	DefEnum
	DefDelegate
)

func (k DefKind) String() string {
	switch k {
	case DefClass:
		return "class"
	case DefStruct:
		return "struct"
	case DefInterface:
		return "interface"
	case DefEnum:
		return "enum"
	case DefDelegate:
		return "delegate"
	default:
		return "unknown"
	}
}

// DefFlags encode type-level modifiers.
type DefFlags uint8

const (
	DefFlagStatic DefFlags = 1 << iota
	DefFlagAbstract
	DefFlagSealed
	DefFlagShadowing
)

// Definition stores metadata for a nominal type definition.
type Definition struct {
	Module    ModuleID
	Handle    Handle
	Namespace string
	// Name is the simple name without the `N arity suffix.
	Name  string
	Kind  DefKind
	Flags DefFlags
	Known KnownType

	Access        access.Accessibility
	DeclaringType TypeID
	// TypeParams lists every type parameter in scope of the definition,
	// including copies of the declaring types' parameters (outer first).
	TypeParams     []TypeID
	BaseTypes      []TypeID
	EnumUnderlying TypeID
	// DefaultMember is the name carried by DefaultMemberAttribute; "" means
	// the language default ("Item").
	DefaultMember string
	Members       []EntityID
	Nested        []TypeID
	Attributes    []Attribute

	// Self is the TypeID of this definition, filled in by DefineType.
	Self TypeID
	// Entity is the TypeDefinition entity, filled in by DefineType.
	Entity EntityID
}

// Has reports whether all flags in f are set.
func (d *Definition) Has(f DefFlags) bool { return d.Flags&f == f }

// DefaultMemberName returns the configured default member name.
func (d *Definition) DefaultMemberName() string {
	if d.DefaultMember == "" {
		return "Item"
	}
	return d.DefaultMember
}

// Variance of a generic type parameter.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// ConstraintFlags encode the special constraints of a type parameter.
type ConstraintFlags uint8

const (
	ConstraintReferenceType ConstraintFlags = 1 << iota
	ConstraintValueType
	ConstraintDefaultCtor
	ConstraintUnmanaged
)

// TypeParam stores metadata for a generic type parameter.
type TypeParam struct {
	Name        string
	Index       int
	OwnerType   TypeID
	OwnerMethod EntityID
	Variance    Variance
	Constraints ConstraintFlags
	// ConstraintTypes are the declared base type constraints.
	ConstraintTypes []TypeID
	Attributes      []Attribute
}

// Has reports whether all flags in f are set.
func (tp *TypeParam) Has(f ConstraintFlags) bool { return tp.Constraints&f == f }
