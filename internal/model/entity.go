package model

import (
	"fmt"

	"projector/internal/access"
)

// EntityKind classifies the semantic meaning of an entity.
type EntityKind uint8

const (
	EntityInvalid EntityKind = iota
	EntityTypeDefinition
	EntityField
	EntityProperty
	EntityIndexer
	EntityEvent
	EntityMethod
	EntityOperator
	EntityConstructor
	EntityDestructor
	EntityAccessor
)

func (k EntityKind) String() string {
	switch k {
	case EntityTypeDefinition:
		return "type"
	case EntityField:
		return "field"
	case EntityProperty:
		return "property"
	case EntityIndexer:
		return "indexer"
	case EntityEvent:
		return "event"
	case EntityMethod:
		return "method"
	case EntityOperator:
		return "operator"
	case EntityConstructor:
		return "constructor"
	case EntityDestructor:
		return "destructor"
	case EntityAccessor:
		return "accessor"
	default:
		return fmt.Sprintf("EntityKind(%d)", k)
	}
}

// EntityFlags encode member modifiers as found in metadata.
type EntityFlags uint16

const (
	FlagStatic EntityFlags = 1 << iota
	FlagAbstract
	FlagVirtual
	FlagOverride
	FlagSealed
	FlagConst
	FlagReadOnly
	FlagVolatile
	FlagShadowing
	FlagExtension
	FlagExtern
)

// Strings returns a slice of textual flag labels.
func (f EntityFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	names := [...]string{"static", "abstract", "virtual", "override", "sealed", "const",
		"readonly", "volatile", "new", "extension", "extern"}
	labels := make([]string, 0, 4)
	for i, name := range names {
		if f&(1<<i) != 0 {
			labels = append(labels, name)
		}
	}
	return labels
}

// AccessorKind tells which role an accessor method plays for its owner.
type AccessorKind uint8

const (
	AccessorNone AccessorKind = iota
	AccessorGet
	AccessorSet
	AccessorInit
	AccessorAdd
	AccessorRemove
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorGet:
		return "get"
	case AccessorSet:
		return "set"
	case AccessorInit:
		return "init"
	case AccessorAdd:
		return "add"
	case AccessorRemove:
		return "remove"
	default:
		return "none"
	}
}

// ParamModifier is the source-level passing mode of a parameter.
type ParamModifier uint8

const (
	ParamNone ParamModifier = iota
	ParamRef
	ParamOut
	ParamIn
	ParamParams
)

func (m ParamModifier) String() string {
	switch m {
	case ParamRef:
		return "ref"
	case ParamOut:
		return "out"
	case ParamIn:
		return "in"
	case ParamParams:
		return "params"
	default:
		return ""
	}
}

// Parameter is a decoded method or indexer parameter.
type Parameter struct {
	Type       TypeID
	Name       string
	Modifier   ParamModifier
	Optional   bool
	HasDefault bool
	Default    any
	Attributes []Attribute
}

// ParamAttrs are the raw Param table flags.
type ParamAttrs uint16

const (
	ParamAttrIn         ParamAttrs = 0x0001
	ParamAttrOut        ParamAttrs = 0x0002
	ParamAttrOptional   ParamAttrs = 0x0010
	ParamAttrHasDefault ParamAttrs = 0x1000
)

// ParamRecord is a raw Param table row. Sequence 0 describes the return
// value and is not a real parameter.
type ParamRecord struct {
	Sequence   uint16
	Name       string
	Attrs      ParamAttrs
	ParamArray bool
	Default    any
	Attributes []Attribute
}

// Entity describes a type definition or a member.
//
// Property and event entities are raw records: their accessibility, kind and
// signature are derived from the accessors and the signature blob by the
// metadata adapter rather than stored here.
type Entity struct {
	Kind          EntityKind
	Module        ModuleID
	Handle        Handle
	Name          string
	DeclaringType TypeID
	Flags         EntityFlags
	Access        access.Accessibility

	ReturnType TypeID
	Parameters []Parameter
	TypeParams []TypeID

	// Property and event accessors.
	Getter  EntityID
	Setter  EntityID
	Adder   EntityID
	Remover EntityID

	// Accessor back-reference.
	Owner        EntityID
	AccessorKind AccessorKind

	// ExplicitImpls lists interface members this member implements explicitly.
	ExplicitImpls []EntityID
	// BaseMember is the member this override overrides, if known.
	BaseMember EntityID

	HasConstant bool
	Constant    any

	Attributes []Attribute

	// Raw property data.
	Signature    []byte
	ParamRecords []ParamRecord

	// TypeDef is set for EntityTypeDefinition.
	TypeDef TypeID
}

// Has reports whether all flags in f are set.
func (e *Entity) Has(f EntityFlags) bool { return e.Flags&f == f }

// IsExplicitImplementation reports whether the member implements an
// interface member explicitly.
func (e *Entity) IsExplicitImplementation() bool { return len(e.ExplicitImpls) > 0 }
