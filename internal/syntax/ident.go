// Package syntax is the structural output tree of the projector: type
// references, expressions and declarations in C# shape. Nodes carry no
// source positions; text rendering lives in internal/format.
package syntax

import (
	"golang.org/x/text/unicode/norm"
)

// Identifier is a name token. Verbatim identifiers print with a leading '@'.
type Identifier struct {
	Name     string
	Verbatim bool
}

// Ident normalizes name to NFC and marks it verbatim when it collides with
// a reserved keyword.
func Ident(name string) Identifier {
	n := norm.NFC.String(name)
	return Identifier{Name: n, Verbatim: IsKeyword(n)}
}

// VerbatimIdent forces the '@' form regardless of keywords.
func VerbatimIdent(name string) Identifier {
	return Identifier{Name: norm.NFC.String(name), Verbatim: true}
}

func (id Identifier) String() string {
	if id.Verbatim {
		return "@" + id.Name
	}
	return id.Name
}

var keywords = map[string]struct{}{}

func init() {
	for _, k := range []string{
		"abstract", "as", "base", "bool", "break", "byte", "case", "catch", "char",
		"checked", "class", "const", "continue", "decimal", "default", "delegate",
		"do", "double", "else", "enum", "event", "explicit", "extern", "false",
		"finally", "fixed", "float", "for", "foreach", "goto", "if", "implicit",
		"in", "int", "interface", "internal", "is", "lock", "long", "namespace",
		"new", "null", "object", "operator", "out", "override", "params", "private",
		"protected", "public", "readonly", "ref", "return", "sbyte", "sealed",
		"short", "sizeof", "stackalloc", "static", "string", "struct", "switch",
		"this", "throw", "true", "try", "typeof", "uint", "ulong", "unchecked",
		"unsafe", "ushort", "using", "virtual", "void", "volatile", "while",
	} {
		keywords[k] = struct{}{}
	}
}

// IsKeyword reports whether s is a reserved keyword.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}
