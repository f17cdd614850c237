package format

import (
	"projector/internal/syntax"
)

func (p *printer) printDecl(d syntax.Decl) {
	switch n := d.(type) {
	case *syntax.TypeDecl:
		p.printTypeDecl(n)
	case *syntax.DelegateDecl:
		p.printHead(&n.DeclBase)
		p.writer.WriteString("delegate ")
		p.printType(n.ReturnType)
		p.writer.WriteString(" " + n.Name.String())
		p.printTypeParams(n.TypeParams)
		p.printParams(n.Params, "(", ")")
		p.printConstraints(n.Constraints)
		p.writer.WriteString(";")
	case *syntax.FieldDecl:
		p.printHead(&n.DeclBase)
		p.printType(n.Type)
		p.writer.WriteString(" " + n.Name.String())
		if n.Init != nil {
			p.writer.WriteString(" = ")
			p.printExpr(n.Init, precLowest)
		}
		p.writer.WriteString(";")
	case *syntax.EnumMemberDecl:
		p.printHead(&n.DeclBase)
		p.writer.WriteString(n.Name.String())
		if n.Init != nil {
			p.writer.WriteString(" = ")
			p.printExpr(n.Init, precLowest)
		}
	case *syntax.PropertyDecl:
		p.printHead(&n.DeclBase)
		p.printType(n.Type)
		p.writer.WriteString(" ")
		p.printImplType(n.ImplType)
		p.writer.WriteString(n.Name.String())
		p.printAccessors(n.Getter, n.Setter)
	case *syntax.IndexerDecl:
		p.printHead(&n.DeclBase)
		p.printType(n.Type)
		p.writer.WriteString(" ")
		p.printImplType(n.ImplType)
		p.writer.WriteString("this")
		p.printParams(n.Params, "[", "]")
		p.printAccessors(n.Getter, n.Setter)
	case *syntax.EventDecl:
		p.printHead(&n.DeclBase)
		p.writer.WriteString("event ")
		p.printType(n.Type)
		p.writer.WriteString(" ")
		p.printImplType(n.ImplType)
		p.writer.WriteString(n.Name.String() + ";")
	case *syntax.CustomEventDecl:
		p.printHead(&n.DeclBase)
		p.writer.WriteString("event ")
		p.printType(n.Type)
		p.writer.WriteString(" ")
		p.printImplType(n.ImplType)
		p.writer.WriteString(n.Name.String())
		p.printAccessors(n.Adder, n.Remover)
	case *syntax.MethodDecl:
		p.printHead(&n.DeclBase)
		p.printType(n.ReturnType)
		p.writer.WriteString(" ")
		p.printImplType(n.ImplType)
		p.writer.WriteString(n.Name.String())
		p.printTypeParams(n.TypeParams)
		p.printParams(n.Params, "(", ")")
		p.printConstraints(n.Constraints)
		p.printBody(n.Body)
	case *syntax.OperatorDecl:
		p.printHead(&n.DeclBase)
		if n.Operator.IsConversion() {
			p.writer.WriteString(n.Operator.Token() + " operator ")
			p.printType(n.ReturnType)
		} else {
			p.printType(n.ReturnType)
			p.writer.WriteString(" operator " + n.Operator.Token())
		}
		p.printParams(n.Params, "(", ")")
		p.printBody(n.Body)
	case *syntax.ConstructorDecl:
		p.printHead(&n.DeclBase)
		p.writer.WriteString(n.Name.String())
		p.printParams(n.Params, "(", ")")
		p.printBody(n.Body)
	case *syntax.DestructorDecl:
		p.printHead(&n.DeclBase)
		p.writer.WriteString("~" + n.Name.String() + "()")
		p.printBody(n.Body)
	case *syntax.Accessor:
		p.printAccessor(n)
	}
}

// printHead prints attribute sections on their own lines followed by the
// modifier keywords.
func (p *printer) printHead(b *syntax.DeclBase) {
	for _, s := range b.Attributes {
		p.printSection(s)
		p.writer.Newline()
	}
	if mods := b.Modifiers.String(); mods != "" {
		p.writer.WriteString(mods + " ")
	}
}

func (p *printer) printTypeDecl(n *syntax.TypeDecl) {
	p.printHead(&n.DeclBase)
	p.writer.WriteString(n.Kind.String() + " " + n.Name.String())
	p.printTypeParams(n.TypeParams)
	if len(n.BaseTypes) > 0 {
		p.writer.WriteString(" : ")
		for i, t := range n.BaseTypes {
			if i > 0 {
				p.writer.WriteString(", ")
			}
			p.printType(t)
		}
	}
	p.printConstraints(n.Constraints)
	p.writer.Newline()
	p.writer.WriteString("{")
	p.writer.Newline()
	p.writer.Indent()
	for i, m := range n.Members {
		if i > 0 && n.Kind != syntax.TypeEnum {
			p.writer.BlankLine()
		}
		p.printDecl(m)
		if n.Kind == syntax.TypeEnum && i < len(n.Members)-1 {
			p.writer.WriteString(",")
		}
		p.writer.Newline()
	}
	p.writer.Dedent()
	p.writer.WriteString("}")
}

func (p *printer) printImplType(t syntax.Type) {
	if t == nil {
		return
	}
	p.printType(t)
	p.writer.WriteString(".")
}

func (p *printer) printTypeParams(tps []*syntax.TypeParamDecl) {
	if len(tps) == 0 {
		return
	}
	p.writer.WriteString("<")
	for i, tp := range tps {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printInlineSections(tp.Attributes)
		if tp.Variance != "" {
			p.writer.WriteString(tp.Variance + " ")
		}
		p.writer.WriteString(tp.Name.String())
	}
	p.writer.WriteString(">")
}

func (p *printer) printConstraints(cs []*syntax.Constraint) {
	for _, c := range cs {
		p.writer.WriteString(" where " + c.TypeParam.String() + " : ")
		var parts []func()
		switch {
		case c.Class:
			parts = append(parts, func() { p.writer.WriteString("class") })
		case c.Struct:
			parts = append(parts, func() { p.writer.WriteString("struct") })
		case c.Unmanaged:
			parts = append(parts, func() { p.writer.WriteString("unmanaged") })
		}
		for _, t := range c.Types {
			parts = append(parts, func() { p.printType(t) })
		}
		if c.Constructor {
			parts = append(parts, func() { p.writer.WriteString("new()") })
		}
		commaSep(p.writer, parts)
	}
}

func (p *printer) printParams(params []*syntax.ParamDecl, open, closing string) {
	p.writer.WriteString(open)
	for i, pd := range params {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printInlineSections(pd.Attributes)
		if pd.Modifier != syntax.ParamNone {
			p.writer.WriteString(pd.Modifier.String() + " ")
		}
		p.printType(pd.Type)
		if pd.Name.Name != "" {
			p.writer.WriteString(" " + pd.Name.String())
		}
		if pd.Default != nil {
			p.writer.WriteString(" = ")
			p.printExpr(pd.Default, precLowest)
		}
	}
	p.writer.WriteString(closing)
}

// printAccessors prints `{ get; set; }` or, with bodies, one accessor per
// line inside a braced block.
func (p *printer) printAccessors(accs ...*syntax.Accessor) {
	var present []*syntax.Accessor
	bodies := false
	for _, a := range accs {
		if a == nil {
			continue
		}
		present = append(present, a)
		bodies = bodies || a.Body != nil
	}
	if !bodies || p.opt.OneLineAccessors {
		p.writer.WriteString(" {")
		for _, a := range present {
			p.writer.WriteString(" ")
			p.printAccessorInline(a)
		}
		p.writer.WriteString(" }")
		return
	}
	p.writer.Newline()
	p.writer.WriteString("{")
	p.writer.Newline()
	p.writer.Indent()
	for _, a := range present {
		p.printAccessor(a)
		p.writer.Newline()
	}
	p.writer.Dedent()
	p.writer.WriteString("}")
}

func (p *printer) printAccessorInline(a *syntax.Accessor) {
	p.printInlineSections(a.Attributes)
	if mods := a.Modifiers.String(); mods != "" {
		p.writer.WriteString(mods + " ")
	}
	p.writer.WriteString(a.Kind.String())
	if a.Body == nil {
		p.writer.WriteString(";")
		return
	}
	p.writer.WriteString(" { ")
	for _, s := range a.Body.Stmts {
		p.printStmt(s)
		p.writer.WriteString(" ")
	}
	p.writer.WriteString("}")
}

func (p *printer) printAccessor(a *syntax.Accessor) {
	p.printHead(&a.DeclBase)
	p.writer.WriteString(a.Kind.String())
	p.printBody(a.Body)
}

// printBody prints `;` for a missing body and an Allman block otherwise.
func (p *printer) printBody(b *syntax.Block) {
	if b == nil {
		p.writer.WriteString(";")
		return
	}
	p.writer.Newline()
	p.writer.WriteString("{")
	p.writer.Newline()
	p.writer.Indent()
	for _, s := range b.Stmts {
		p.printStmt(s)
		p.writer.Newline()
	}
	p.writer.Dedent()
	p.writer.WriteString("}")
}

func (p *printer) printStmt(s syntax.Stmt) {
	switch n := s.(type) {
	case *syntax.ThrowStmt:
		p.writer.WriteString("throw")
		if n.Expr != nil {
			p.writer.WriteString(" ")
			p.printExpr(n.Expr, precLowest)
		}
		p.writer.WriteString(";")
	}
}
