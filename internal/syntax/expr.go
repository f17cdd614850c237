package syntax

// Expr is an expression node.
type Expr interface {
	Annotations() *Annotations
	exprNode()
}

// BinaryOp is a binary operator token.
type BinaryOp string

const (
	OpBitOr    BinaryOp = "|"
	OpBitAnd   BinaryOp = "&"
	OpDivide   BinaryOp = "/"
	OpAdd      BinaryOp = "+"
	OpSubtract BinaryOp = "-"
)

// UnaryOp is a prefix operator token.
type UnaryOp string

const (
	OpBitNot UnaryOp = "~"
	OpMinus  UnaryOp = "-"
	OpNot    UnaryOp = "!"
)

// PrimitiveExpr is a literal. Value holds the Go representation: bool,
// model.Char, int32, uint32, int64, uint64, float32, float64, model.Decimal
// or string.
type PrimitiveExpr struct {
	Annotated
	Value any
}

// NullExpr is the null literal.
type NullExpr struct {
	Annotated
}

// DefaultExpr is default(Type).
type DefaultExpr struct {
	Annotated
	Type Type
}

// TypeOfExpr is typeof(Type).
type TypeOfExpr struct {
	Annotated
	Type Type
}

// TypeRefExpr uses a type in expression position (the left side of a
// member access such as Int32.MaxValue).
type TypeRefExpr struct {
	Annotated
	Type Type
}

// MemberRefExpr is Target.Name.
type MemberRefExpr struct {
	Annotated
	Target Expr
	Name   Identifier
}

// IdentExpr is a bare identifier in expression position.
type IdentExpr struct {
	Annotated
	Name Identifier
}

// BinaryExpr is Left Op Right.
type BinaryExpr struct {
	Annotated
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// UnaryExpr is Op Operand.
type UnaryExpr struct {
	Annotated
	Op      UnaryOp
	Operand Expr
}

// CastExpr is (Type)Expr.
type CastExpr struct {
	Annotated
	Type Type
	Expr Expr
}

// ArrayCreateExpr is new Elem[] { Init... }.
type ArrayCreateExpr struct {
	Annotated
	Elem Type
	Init []Expr
}

// ObjectCreateExpr is new Type(Args...).
type ObjectCreateExpr struct {
	Annotated
	Type Type
	Args []Expr
}

// NamedArgExpr is Name = Value, used for attribute named arguments.
type NamedArgExpr struct {
	Annotated
	Name  Identifier
	Value Expr
}

// ErrorExpr marks a value that could not be expressed. Printers render it
// as a comment-bearing placeholder.
type ErrorExpr struct {
	Annotated
	Message string
}

func (*PrimitiveExpr) exprNode()    {}
func (*NullExpr) exprNode()         {}
func (*DefaultExpr) exprNode()      {}
func (*TypeOfExpr) exprNode()       {}
func (*TypeRefExpr) exprNode()      {}
func (*MemberRefExpr) exprNode()    {}
func (*IdentExpr) exprNode()        {}
func (*BinaryExpr) exprNode()       {}
func (*UnaryExpr) exprNode()        {}
func (*CastExpr) exprNode()         {}
func (*ArrayCreateExpr) exprNode()  {}
func (*ObjectCreateExpr) exprNode() {}
func (*NamedArgExpr) exprNode()     {}
func (*ErrorExpr) exprNode()        {}

// Literal builds a literal node.
func Literal(v any) *PrimitiveExpr { return &PrimitiveExpr{Value: v} }

// Member builds T.Name for a type reference T.
func Member(t Type, name string) *MemberRefExpr {
	return &MemberRefExpr{Target: &TypeRefExpr{Type: t}, Name: Ident(name)}
}

// Stmt is a statement inside an accessor or method body.
type Stmt interface {
	stmtNode()
}

// ThrowStmt is throw Expr;.
type ThrowStmt struct {
	Expr Expr
}

func (*ThrowStmt) stmtNode() {}

// Block is a braced statement list. An empty block prints as { }.
type Block struct {
	Stmts []Stmt
}
