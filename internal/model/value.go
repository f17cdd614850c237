package model

// Char is a UTF-16 code unit constant.
type Char uint16

// Decimal is a 128-bit decimal constant kept in canonical invariant text
// form ("-12.50" is stored as "-12.50").
type Decimal string

// Decimal bounds, used by the special-constant table.
const (
	DecimalMax Decimal = "79228162514264337593543950335"
	DecimalMin Decimal = "-79228162514264337593543950335"
)

// TypeValue is a type-valued constant (the operand of typeof).
type TypeValue struct {
	Type TypeID
}

// TypedValue is a value as stored in an attribute blob.
//
// Declared is the type the blob slot declares (the constructor parameter or
// named member type); Runtime is the type the blob actually encodes, which
// differs for object-typed slots. Value holds one of: nil, bool, Char, int8,
// int16, int32, int64, uint8, uint16, uint32, uint64, float32, float64,
// Decimal, string, TypeValue or []TypedValue.
type TypedValue struct {
	Declared TypeID
	Runtime  TypeID
	Value    any
}

// EffectiveType returns Runtime when known and Declared otherwise.
func (v TypedValue) EffectiveType() TypeID {
	if v.Runtime.IsValid() {
		return v.Runtime
	}
	return v.Declared
}

// NamedValue is a named field or property assignment of an attribute.
type NamedValue struct {
	Name       string
	IsProperty bool
	Value      TypedValue
}

// Attribute is a decoded custom attribute instance.
type Attribute struct {
	Type        TypeID
	Constructor EntityID
	Fixed       []TypedValue
	Named       []NamedValue
	// DecodeError is non-empty when the argument blob could not be decoded;
	// Fixed and Named then hold whatever was recovered.
	DecodeError string
}

// Malformed reports whether decoding the attribute payload failed.
func (a *Attribute) Malformed() bool { return a.DecodeError != "" }
