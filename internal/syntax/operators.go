package syntax

// OperatorKind identifies a user-defined operator.
type OperatorKind uint8

const (
	OperatorInvalid OperatorKind = iota
	OperatorLogicalNot
	OperatorOnesComplement
	OperatorIncrement
	OperatorDecrement
	OperatorTrue
	OperatorFalse
	OperatorUnaryPlus
	OperatorUnaryNegation
	OperatorAddition
	OperatorSubtraction
	OperatorMultiply
	OperatorDivision
	OperatorModulus
	OperatorBitwiseAnd
	OperatorBitwiseOr
	OperatorExclusiveOr
	OperatorLeftShift
	OperatorRightShift
	OperatorUnsignedRightShift
	OperatorEquality
	OperatorInequality
	OperatorGreaterThan
	OperatorLessThan
	OperatorGreaterThanOrEqual
	OperatorLessThanOrEqual
	OperatorImplicit
	OperatorExplicit
)

type operatorInfo struct {
	metadata string
	token    string
}

var operatorTable = [...]operatorInfo{
	OperatorInvalid:            {"", ""},
	OperatorLogicalNot:         {"op_LogicalNot", "!"},
	OperatorOnesComplement:     {"op_OnesComplement", "~"},
	OperatorIncrement:          {"op_Increment", "++"},
	OperatorDecrement:          {"op_Decrement", "--"},
	OperatorTrue:               {"op_True", "true"},
	OperatorFalse:              {"op_False", "false"},
	OperatorUnaryPlus:          {"op_UnaryPlus", "+"},
	OperatorUnaryNegation:      {"op_UnaryNegation", "-"},
	OperatorAddition:           {"op_Addition", "+"},
	OperatorSubtraction:        {"op_Subtraction", "-"},
	OperatorMultiply:           {"op_Multiply", "*"},
	OperatorDivision:           {"op_Division", "/"},
	OperatorModulus:            {"op_Modulus", "%"},
	OperatorBitwiseAnd:         {"op_BitwiseAnd", "&"},
	OperatorBitwiseOr:          {"op_BitwiseOr", "|"},
	OperatorExclusiveOr:        {"op_ExclusiveOr", "^"},
	OperatorLeftShift:          {"op_LeftShift", "<<"},
	OperatorRightShift:         {"op_RightShift", ">>"},
	OperatorUnsignedRightShift: {"op_UnsignedRightShift", ">>>"},
	OperatorEquality:           {"op_Equality", "=="},
	OperatorInequality:         {"op_Inequality", "!="},
	OperatorGreaterThan:        {"op_GreaterThan", ">"},
	OperatorLessThan:           {"op_LessThan", "<"},
	OperatorGreaterThanOrEqual: {"op_GreaterThanOrEqual", ">="},
	OperatorLessThanOrEqual:    {"op_LessThanOrEqual", "<="},
	OperatorImplicit:           {"op_Implicit", "implicit"},
	OperatorExplicit:           {"op_Explicit", "explicit"},
}

var operatorByName = func() map[string]OperatorKind {
	m := make(map[string]OperatorKind, len(operatorTable))
	for k, info := range operatorTable {
		if info.metadata != "" {
			m[info.metadata] = OperatorKind(k) //nolint:gosec // table index fits
		}
	}
	return m
}()

// OperatorByMetadataName maps a special method name (op_Addition) to its
// operator.
func OperatorByMetadataName(name string) (OperatorKind, bool) {
	k, ok := operatorByName[name]
	return k, ok
}

// Token returns the operator's source token.
func (k OperatorKind) Token() string {
	if int(k) < len(operatorTable) {
		return operatorTable[k].token
	}
	return ""
}

// MetadataName returns the special method name.
func (k OperatorKind) MetadataName() string {
	if int(k) < len(operatorTable) {
		return operatorTable[k].metadata
	}
	return ""
}

// IsConversion reports implicit and explicit conversion operators, which
// print the return type after the keyword.
func (k OperatorKind) IsConversion() bool {
	return k == OperatorImplicit || k == OperatorExplicit
}

func (k OperatorKind) String() string { return k.MetadataName() }
