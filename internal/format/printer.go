package format

import (
	"errors"
	"io"

	"projector/internal/syntax"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// OneLineAccessors prints `{ get; set; }` bodies on the declaration line
	// even when accessors have bodies.
	OneLineAccessors bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	writer *Writer
	opt    Options
}

func newPrinter(opt Options) *printer {
	opt = opt.withDefaults()
	return &printer{writer: NewWriter(opt), opt: opt}
}

// Decl renders a declaration, including nested members of type declarations.
func Decl(d syntax.Decl, opt Options) ([]byte, error) {
	if d == nil {
		return nil, errors.New("format: nil declaration")
	}
	p := newPrinter(opt)
	p.printDecl(d)
	p.writer.Newline()
	return p.writer.Bytes(), nil
}

// Fprint writes the rendering of d to w.
func Fprint(w io.Writer, d syntax.Decl, opt Options) error {
	out, err := Decl(d, opt)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Type renders a type reference.
func Type(t syntax.Type) string {
	p := newPrinter(Options{})
	p.printType(t)
	return p.writer.String()
}

// Expr renders an expression.
func Expr(e syntax.Expr) string {
	p := newPrinter(Options{})
	p.printExpr(e, precLowest)
	return p.writer.String()
}

// Attribute renders a single attribute without brackets.
func Attribute(a *syntax.Attribute) string {
	p := newPrinter(Options{})
	p.printAttribute(a)
	return p.writer.String()
}
