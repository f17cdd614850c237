package model

// KnownType tags definitions the projector has to recognize by identity.
type KnownType uint8

const (
	KnownNone KnownType = iota
	KnownObject
	KnownValueType
	KnownEnum
	KnownDelegate
	KnownMulticastDelegate
	KnownVoid
	KnownBoolean
	KnownChar
	KnownSByte
	KnownByte
	KnownInt16
	KnownUInt16
	KnownInt32
	KnownUInt32
	KnownInt64
	KnownUInt64
	KnownSingle
	KnownDouble
	KnownDecimal
	KnownString
	KnownIntPtr
	KnownUIntPtr
	KnownTypedReference
	KnownSystemType
	KnownNullable
	KnownAttribute
	KnownFlagsAttribute
	KnownExtensionAttribute
	KnownParamArrayAttribute
	KnownDefaultMemberAttribute
	KnownNotImplementedException
	knownCount
)

var knownNames = [knownCount]struct {
	ns, name string
	arity    int
}{
	KnownObject:                  {"System", "Object", 0},
	KnownValueType:               {"System", "ValueType", 0},
	KnownEnum:                    {"System", "Enum", 0},
	KnownDelegate:                {"System", "Delegate", 0},
	KnownMulticastDelegate:       {"System", "MulticastDelegate", 0},
	KnownVoid:                    {"System", "Void", 0},
	KnownBoolean:                 {"System", "Boolean", 0},
	KnownChar:                    {"System", "Char", 0},
	KnownSByte:                   {"System", "SByte", 0},
	KnownByte:                    {"System", "Byte", 0},
	KnownInt16:                   {"System", "Int16", 0},
	KnownUInt16:                  {"System", "UInt16", 0},
	KnownInt32:                   {"System", "Int32", 0},
	KnownUInt32:                  {"System", "UInt32", 0},
	KnownInt64:                   {"System", "Int64", 0},
	KnownUInt64:                  {"System", "UInt64", 0},
	KnownSingle:                  {"System", "Single", 0},
	KnownDouble:                  {"System", "Double", 0},
	KnownDecimal:                 {"System", "Decimal", 0},
	KnownString:                  {"System", "String", 0},
	KnownIntPtr:                  {"System", "IntPtr", 0},
	KnownUIntPtr:                 {"System", "UIntPtr", 0},
	KnownTypedReference:          {"System", "TypedReference", 0},
	KnownSystemType:              {"System", "Type", 0},
	KnownNullable:                {"System", "Nullable", 1},
	KnownAttribute:               {"System", "Attribute", 0},
	KnownFlagsAttribute:          {"System", "FlagsAttribute", 0},
	KnownExtensionAttribute:      {"System.Runtime.CompilerServices", "ExtensionAttribute", 0},
	KnownParamArrayAttribute:     {"System", "ParamArrayAttribute", 0},
	KnownDefaultMemberAttribute:  {"System.Reflection", "DefaultMemberAttribute", 0},
	KnownNotImplementedException: {"System", "NotImplementedException", 0},
}

// Namespace returns the namespace of the known type.
func (k KnownType) Namespace() string {
	if k >= knownCount {
		return ""
	}
	return knownNames[k].ns
}

// Name returns the simple name (without arity) of the known type.
func (k KnownType) Name() string {
	if k >= knownCount {
		return ""
	}
	return knownNames[k].name
}

// Arity returns the number of type parameters of the known type.
func (k KnownType) Arity() int {
	if k >= knownCount {
		return 0
	}
	return knownNames[k].arity
}

func (k KnownType) String() string {
	if k == KnownNone || k >= knownCount {
		return "none"
	}
	return k.Namespace() + "." + k.Name()
}

// KnownByName returns the known-type tag for a namespace/name/arity triple.
func KnownByName(ns, name string, arity int) KnownType {
	for k := KnownObject; k < knownCount; k++ {
		n := knownNames[k]
		if n.ns == ns && n.name == name && n.arity == arity {
			return k
		}
	}
	return KnownNone
}

// IsInteger reports whether k is one of the integral primitive types.
func (k KnownType) IsInteger() bool {
	switch k {
	case KnownSByte, KnownByte, KnownInt16, KnownUInt16,
		KnownInt32, KnownUInt32, KnownInt64, KnownUInt64:
		return true
	}
	return false
}

// IsSmallInteger reports whether k is an integral type narrower than int,
// i.e. one without its own literal form.
func (k KnownType) IsSmallInteger() bool {
	switch k {
	case KnownSByte, KnownByte, KnownInt16, KnownUInt16:
		return true
	}
	return false
}

// BitWidth returns the storage width of integral types, 0 otherwise.
func (k KnownType) BitWidth() int {
	switch k {
	case KnownSByte, KnownByte:
		return 8
	case KnownInt16, KnownUInt16, KnownChar:
		return 16
	case KnownInt32, KnownUInt32:
		return 32
	case KnownInt64, KnownUInt64:
		return 64
	}
	return 0
}

// IsUnsigned reports whether k is an unsigned integral type.
func (k KnownType) IsUnsigned() bool {
	switch k {
	case KnownByte, KnownUInt16, KnownUInt32, KnownUInt64, KnownChar:
		return true
	}
	return false
}
