package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"projector/internal/model"
	"projector/internal/syntax"
)

// Operator precedence, loosest first.
const (
	precLowest = iota
	precBitOr
	precBitAnd
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

func binaryPrec(op syntax.BinaryOp) int {
	switch op {
	case syntax.OpBitOr:
		return precBitOr
	case syntax.OpBitAnd:
		return precBitAnd
	case syntax.OpAdd, syntax.OpSubtract:
		return precAdditive
	default:
		return precMultiplicative
	}
}

func exprPrec(e syntax.Expr) int {
	switch n := e.(type) {
	case *syntax.BinaryExpr:
		return binaryPrec(n.Op)
	case *syntax.UnaryExpr, *syntax.CastExpr:
		return precUnary
	case *syntax.PrimitiveExpr:
		if isNegativeLiteral(n) {
			return precUnary
		}
		return precPrimary
	default:
		return precPrimary
	}
}

// printExpr prints e, parenthesized when it binds looser than outer.
func (p *printer) printExpr(e syntax.Expr, outer int) {
	if e == nil {
		return
	}
	if exprPrec(e) < outer {
		p.writer.WriteString("(")
		defer p.writer.WriteString(")")
	}
	switch n := e.(type) {
	case *syntax.PrimitiveExpr:
		p.writer.WriteString(Literal(n.Value))
	case *syntax.NullExpr:
		p.writer.WriteString("null")
	case *syntax.DefaultExpr:
		p.writer.WriteString("default(")
		p.printType(n.Type)
		p.writer.WriteString(")")
	case *syntax.TypeOfExpr:
		p.writer.WriteString("typeof(")
		p.printType(n.Type)
		p.writer.WriteString(")")
	case *syntax.TypeRefExpr:
		p.printType(n.Type)
	case *syntax.MemberRefExpr:
		p.printExpr(n.Target, precPrimary)
		p.writer.WriteString("." + n.Name.String())
	case *syntax.IdentExpr:
		p.writer.WriteString(n.Name.String())
	case *syntax.BinaryExpr:
		prec := binaryPrec(n.Op)
		p.printExpr(n.Left, prec)
		p.writer.WriteString(" " + string(n.Op) + " ")
		// Left associative: an equal-precedence right operand needs parens.
		p.printExpr(n.Right, prec+1)
	case *syntax.UnaryExpr:
		p.writer.WriteString(string(n.Op))
		p.printExpr(n.Operand, precUnary)
	case *syntax.CastExpr:
		p.writer.WriteString("(")
		p.printType(n.Type)
		p.writer.WriteString(")")
		// (E)-1 would parse as a subtraction.
		if lit, ok := n.Expr.(*syntax.PrimitiveExpr); ok && isNegativeLiteral(lit) {
			p.printExpr(n.Expr, precPrimary)
		} else {
			p.printExpr(n.Expr, precUnary)
		}
	case *syntax.ArrayCreateExpr:
		p.writer.WriteString("new ")
		p.printType(n.Elem)
		p.writer.WriteString("[] {")
		for i, el := range n.Init {
			if i > 0 {
				p.writer.WriteString(",")
			}
			p.writer.WriteString(" ")
			p.printExpr(el, precLowest)
		}
		if len(n.Init) > 0 {
			p.writer.WriteString(" ")
		}
		p.writer.WriteString("}")
	case *syntax.ObjectCreateExpr:
		p.writer.WriteString("new ")
		p.printType(n.Type)
		p.printArgs(n.Args)
	case *syntax.NamedArgExpr:
		p.writer.WriteString(n.Name.String() + " = ")
		p.printExpr(n.Value, precLowest)
	case *syntax.ErrorExpr:
		p.writer.WriteString("default /* " + commentSafe(n.Message) + " */")
	}
}

func (p *printer) printArgs(args []syntax.Expr) {
	p.writer.WriteString("(")
	for i, a := range args {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printExpr(a, precLowest)
	}
	p.writer.WriteString(")")
}

func isNegativeLiteral(e *syntax.PrimitiveExpr) bool {
	switch v := e.Value.(type) {
	case int32:
		return v < 0
	case int64:
		return v < 0
	case float32:
		return v < 0 || math.Signbit(float64(v))
	case float64:
		return v < 0 || math.Signbit(v)
	case model.Decimal:
		return strings.HasPrefix(string(v), "-")
	}
	return false
}

// Literal renders a constant value with the C# suffix its type needs.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case model.Char:
		return charLiteral(x)
	case string:
		return stringLiteral(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10) + "u"
	case int64:
		return strconv.FormatInt(x, 10) + "L"
	case uint64:
		return strconv.FormatUint(x, 10) + "uL"
	case float32:
		return floatLiteral(float64(x), 32) + "f"
	case float64:
		s := floatLiteral(x, 64)
		if !strings.ContainsAny(s, ".eEN") {
			s += ".0"
		}
		return s
	case model.Decimal:
		return string(x) + "m"
	default:
		return fmt.Sprintf("/* %T */ default", v)
	}
}

func floatLiteral(x float64, bits int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(x, 'g', -1, bits)
	if strings.Contains(s, "e") {
		s = strings.ToUpper(s)
	}
	return s
}

func charLiteral(c model.Char) string {
	switch c {
	case '\'':
		return `'\''`
	case '"':
		return `'"'`
	}
	return "'" + escapeRune(rune(c)) + "'"
}

func stringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			sb.WriteString(`\"`)
			continue
		}
		if r == '\'' {
			sb.WriteByte('\'')
			continue
		}
		sb.WriteString(escapeRune(r))
	}
	sb.WriteByte('"')
	return sb.String()
}

func escapeRune(r rune) string {
	switch r {
	case '\\':
		return `\\`
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\v':
		return `\v`
	}
	if r < 0x20 || r == 0x7f || (r >= 0xd800 && r <= 0xdfff) || r == 0xfffe || r == 0xffff {
		return fmt.Sprintf(`\u%04X`, r)
	}
	if r > 0xffff {
		return fmt.Sprintf(`\U%08X`, r)
	}
	return string(r)
}

func commentSafe(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
