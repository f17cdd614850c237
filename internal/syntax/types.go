package syntax

// Type is a type reference.
type Type interface {
	Annotations() *Annotations
	typeNode()
}

// PrimitiveType is a keyword type such as int or string. The constraint
// pseudo-types class, struct and new() are not represented here.
type PrimitiveType struct {
	Annotated
	Keyword string
}

// SimpleType is an identifier with optional type arguments.
type SimpleType struct {
	Annotated
	Name Identifier
	Args []Type
}

// MemberType is Target.Name<Args> or, with DoubleColon, Target::Name<Args>.
type MemberType struct {
	Annotated
	Target      Type
	DoubleColon bool
	Name        Identifier
	Args        []Type
}

// ArrayType is Elem[] with Rank dimensions.
type ArrayType struct {
	Annotated
	Elem Type
	Rank int
}

// PointerType is Elem*.
type PointerType struct {
	Annotated
	Elem Type
}

// RefType is ref Elem.
type RefType struct {
	Annotated
	Elem Type
}

// NullableType is Elem?.
type NullableType struct {
	Annotated
	Elem Type
}

// TupleElement is one (optionally named) tuple position.
type TupleElement struct {
	Type Type
	Name string
}

// TupleType is (T1 a, T2 b, ...).
type TupleType struct {
	Annotated
	Elements []TupleElement
}

// PlaceholderType is an omitted type argument, as in typeof(List<>).
type PlaceholderType struct {
	Annotated
}

// UnknownType stands for a type that could not be decoded.
type UnknownType struct {
	Annotated
}

func (*PrimitiveType) typeNode()   {}
func (*SimpleType) typeNode()      {}
func (*MemberType) typeNode()      {}
func (*ArrayType) typeNode()       {}
func (*PointerType) typeNode()     {}
func (*RefType) typeNode()         {}
func (*NullableType) typeNode()    {}
func (*TupleType) typeNode()       {}
func (*PlaceholderType) typeNode() {}
func (*UnknownType) typeNode()     {}

// Global returns the `global` alias used as the target of `global::Name`.
func Global() *SimpleType {
	return &SimpleType{Name: Identifier{Name: "global"}}
}

// IsGlobal reports whether t is the `global` alias.
func IsGlobal(t Type) bool {
	s, ok := t.(*SimpleType)
	return ok && !s.Name.Verbatim && s.Name.Name == "global" && len(s.Args) == 0
}

// TypeName returns the rightmost identifier of a named type reference.
func TypeName(t Type) (Identifier, bool) {
	switch n := t.(type) {
	case *SimpleType:
		return n.Name, true
	case *MemberType:
		return n.Name, true
	default:
		return Identifier{}, false
	}
}

// SetTypeName replaces the rightmost identifier of a named type reference.
func SetTypeName(t Type, id Identifier) bool {
	switch n := t.(type) {
	case *SimpleType:
		n.Name = id
	case *MemberType:
		n.Name = id
	default:
		return false
	}
	return true
}
