package syntax

import (
	"projector/internal/model"
)

// Decl is a declaration node.
type Decl interface {
	Base() *DeclBase
	declNode()
}

// DeclBase holds what every declaration shares.
type DeclBase struct {
	Attributes []*AttributeSection
	Modifiers  Modifiers
	Name       Identifier
	// Entity is the model entity the declaration was built from.
	Entity model.EntityID
}

// Base returns the shared part of a declaration.
func (d *DeclBase) Base() *DeclBase { return d }

// TypeKind is the keyword that introduces a type declaration.
type TypeKind uint8

const (
	TypeClass TypeKind = iota
	TypeStruct
	TypeInterface
	TypeEnum
)

func (k TypeKind) String() string {
	switch k {
	case TypeStruct:
		return "struct"
	case TypeInterface:
		return "interface"
	case TypeEnum:
		return "enum"
	default:
		return "class"
	}
}

// TypeParamDecl is one entry of a type parameter list.
type TypeParamDecl struct {
	Attributes []*AttributeSection
	// Variance is "in", "out" or empty.
	Variance string
	Name     Identifier
}

// Constraint is a where clause.
type Constraint struct {
	TypeParam   Identifier
	Class       bool
	Struct      bool
	Unmanaged   bool
	Types       []Type
	Constructor bool
}

// ParamModifier is the passing-mode keyword of a parameter.
type ParamModifier uint8

const (
	ParamNone ParamModifier = iota
	ParamRef
	ParamOut
	ParamIn
	ParamParams
	ParamThis
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
	case ParamThis:
		return "this"
	default:
		return ""
	}
}

// ParamDecl is a parameter.
type ParamDecl struct {
	Attributes []*AttributeSection
	Modifier   ParamModifier
	Type       Type
	// Name is empty when parameter names are hidden.
	Name    Identifier
	Default Expr
}

// AccessorKind names an accessor.
type AccessorKind uint8

const (
	AccessorGet AccessorKind = iota
	AccessorSet
	AccessorInit
	AccessorAdd
	AccessorRemove
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorSet:
		return "set"
	case AccessorInit:
		return "init"
	case AccessorAdd:
		return "add"
	case AccessorRemove:
		return "remove"
	default:
		return "get"
	}
}

// Accessor is get/set/init/add/remove with an optional body. A nil body
// prints as `get;`.
type Accessor struct {
	DeclBase
	Kind AccessorKind
	Body *Block
}

// TypeDecl is a class, struct, interface or enum.
type TypeDecl struct {
	DeclBase
	Kind        TypeKind
	TypeParams  []*TypeParamDecl
	BaseTypes   []Type
	Constraints []*Constraint
	Members     []Decl
}

// DelegateDecl is delegate Return Name<T>(params).
type DelegateDecl struct {
	DeclBase
	ReturnType  Type
	TypeParams  []*TypeParamDecl
	Params      []*ParamDecl
	Constraints []*Constraint
}

// FieldDecl is a field with an optional initializer.
type FieldDecl struct {
	DeclBase
	Type Type
	Init Expr
}

// EnumMemberDecl is Name = Init inside an enum body.
type EnumMemberDecl struct {
	DeclBase
	Init Expr
}

// PropertyDecl is a property. ImplType qualifies explicit implementations.
type PropertyDecl struct {
	DeclBase
	Type     Type
	ImplType Type
	Getter   *Accessor
	Setter   *Accessor
}

// IndexerDecl is Type this[params].
type IndexerDecl struct {
	DeclBase
	Type     Type
	ImplType Type
	Params   []*ParamDecl
	Getter   *Accessor
	Setter   *Accessor
}

// EventDecl is a field-like event.
type EventDecl struct {
	DeclBase
	Type     Type
	ImplType Type
}

// CustomEventDecl is an event with explicit add/remove accessors.
type CustomEventDecl struct {
	DeclBase
	Type     Type
	ImplType Type
	Adder    *Accessor
	Remover  *Accessor
}

// MethodDecl is an ordinary method.
type MethodDecl struct {
	DeclBase
	ReturnType  Type
	ImplType    Type
	TypeParams  []*TypeParamDecl
	Params      []*ParamDecl
	Constraints []*Constraint
	Body        *Block
}

// OperatorDecl is a user-defined operator or conversion.
type OperatorDecl struct {
	DeclBase
	Operator   OperatorKind
	ReturnType Type
	Params     []*ParamDecl
	Body       *Block
}

// ConstructorDecl is an instance or static constructor.
type ConstructorDecl struct {
	DeclBase
	Params []*ParamDecl
	Body   *Block
}

// DestructorDecl is ~Name().
type DestructorDecl struct {
	DeclBase
	Body *Block
}

func (*Accessor) declNode()        {}
func (*TypeDecl) declNode()        {}
func (*DelegateDecl) declNode()    {}
func (*FieldDecl) declNode()       {}
func (*EnumMemberDecl) declNode()  {}
func (*PropertyDecl) declNode()    {}
func (*IndexerDecl) declNode()     {}
func (*EventDecl) declNode()       {}
func (*CustomEventDecl) declNode() {}
func (*MethodDecl) declNode()      {}
func (*OperatorDecl) declNode()    {}
func (*ConstructorDecl) declNode() {}
func (*DestructorDecl) declNode()  {}
