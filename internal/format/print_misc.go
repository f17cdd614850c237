package format

import (
	"projector/internal/syntax"
)

func (p *printer) printSection(s *syntax.AttributeSection) {
	if s == nil || len(s.Attributes) == 0 {
		return
	}
	p.writer.WriteString("[")
	if s.Target != "" {
		p.writer.WriteString(s.Target + ": ")
	}
	for i, a := range s.Attributes {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printAttribute(a)
	}
	p.writer.WriteString("]")
}

// printInlineSections prints sections that sit in front of a parameter or
// accessor on the same line.
func (p *printer) printInlineSections(sections []*syntax.AttributeSection) {
	for _, s := range sections {
		if s == nil || len(s.Attributes) == 0 {
			continue
		}
		p.printSection(s)
		p.writer.WriteString(" ")
	}
}

func (p *printer) printAttribute(a *syntax.Attribute) {
	if a == nil {
		return
	}
	p.printType(a.Type)
	if len(a.Args) > 0 {
		p.printArgs(a.Args)
	}
	if a.Malformed {
		p.writer.WriteString(" /* " + commentSafe(a.Comment) + " */")
	}
}
