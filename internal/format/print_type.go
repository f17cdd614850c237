package format

import (
	"strings"

	"projector/internal/syntax"
)

func (p *printer) printType(t syntax.Type) {
	switch n := t.(type) {
	case nil:
		p.writer.WriteString("?")
	case *syntax.PrimitiveType:
		p.writer.WriteString(n.Keyword)
	case *syntax.SimpleType:
		p.writer.WriteString(n.Name.String())
		p.printTypeArgs(n.Args)
	case *syntax.MemberType:
		p.printType(n.Target)
		if n.DoubleColon {
			p.writer.WriteString("::")
		} else {
			p.writer.WriteString(".")
		}
		p.writer.WriteString(n.Name.String())
		p.printTypeArgs(n.Args)
	case *syntax.ArrayType:
		p.printArrayType(n)
	case *syntax.PointerType:
		p.printType(n.Elem)
		p.writer.WriteString("*")
	case *syntax.RefType:
		p.writer.WriteString("ref ")
		p.printType(n.Elem)
	case *syntax.NullableType:
		p.printType(n.Elem)
		p.writer.WriteString("?")
	case *syntax.TupleType:
		p.writer.WriteString("(")
		for i, el := range n.Elements {
			if i > 0 {
				p.writer.WriteString(", ")
			}
			p.printType(el.Type)
			if el.Name != "" {
				p.writer.WriteString(" " + syntax.Ident(el.Name).String())
			}
		}
		p.writer.WriteString(")")
	case *syntax.PlaceholderType:
		// Open generic arguments print as nothing: List<>, Dictionary<,>.
	case *syntax.UnknownType:
		p.writer.WriteString("?")
	}
}

func (p *printer) printTypeArgs(args []syntax.Type) {
	if len(args) == 0 {
		return
	}
	p.writer.WriteString("<")
	for i, a := range args {
		if i > 0 {
			if _, open := a.(*syntax.PlaceholderType); open {
				p.writer.WriteString(",")
			} else {
				p.writer.WriteString(", ")
			}
		}
		p.printType(a)
	}
	p.writer.WriteString(">")
}

// printArrayType prints the innermost element first and then the rank
// specifiers from the outermost array inwards, so an array of int[,] reads
// int[][,].
func (p *printer) printArrayType(a *syntax.ArrayType) {
	var ranks []int
	var elem syntax.Type = a
	for {
		arr, ok := elem.(*syntax.ArrayType)
		if !ok {
			break
		}
		ranks = append(ranks, max(arr.Rank, 1))
		elem = arr.Elem
	}
	p.printType(elem)
	for _, r := range ranks {
		p.writer.WriteString("[" + strings.Repeat(",", r-1) + "]")
	}
}
