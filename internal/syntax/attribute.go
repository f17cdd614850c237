package syntax

// Attribute is one attribute application. Args holds positional arguments
// followed by NamedArgExpr entries.
type Attribute struct {
	Type Type
	Args []Expr
	// Malformed is set when the payload could not be decoded; Comment then
	// explains what was lost.
	Malformed bool
	Comment   string
}

// AttributeSection is [target: A, B].
type AttributeSection struct {
	// Target is "return", "assembly", ... or empty.
	Target     string
	Attributes []*Attribute
}

// Section wraps attributes into a single untargeted section; nil when empty.
func Section(attrs ...*Attribute) []*AttributeSection {
	if len(attrs) == 0 {
		return nil
	}
	return []*AttributeSection{{Attributes: attrs}}
}
