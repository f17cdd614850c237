// Package access models member visibility levels and the lattice used to
// combine the visibility of independently declared accessors.
package access

// Accessibility is the visibility level of a type or member.
type Accessibility uint8

const (
	None Accessibility = iota
	Private
	ProtectedAndInternal // private protected
	Internal
	Protected
	ProtectedOrInternal // protected internal
	Public
)

func (a Accessibility) String() string {
	switch a {
	case None:
		return "none"
	case Private:
		return "private"
	case ProtectedAndInternal:
		return "private protected"
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case ProtectedOrInternal:
		return "protected internal"
	case Public:
		return "public"
	default:
		return "unknown"
	}
}

// IsValid reports whether a is one of the declared levels.
func (a Accessibility) IsValid() bool { return a <= Public }

// Keywords returns the modifier keywords that spell a in source, in order.
// None yields nil.
func (a Accessibility) Keywords() []string {
	switch a {
	case Private:
		return []string{"private"}
	case ProtectedAndInternal:
		return []string{"private", "protected"}
	case Internal:
		return []string{"internal"}
	case Protected:
		return []string{"protected"}
	case ProtectedOrInternal:
		return []string{"protected", "internal"}
	case Public:
		return []string{"public"}
	default:
		return nil
	}
}

// Merge combines two visibility levels into the least level that grants
// every access either one grants. It is used for properties, indexers and
// events whose accessors carry their own visibility.
func Merge(left, right Accessibility) Accessibility {
	switch {
	case left == Public || right == Public:
		return Public
	case left == ProtectedOrInternal || right == ProtectedOrInternal:
		return ProtectedOrInternal
	case left == Protected && right == Internal, left == Internal && right == Protected:
		return ProtectedOrInternal
	case left == Protected || right == Protected:
		return Protected
	case left == Internal || right == Internal:
		return Internal
	case left == ProtectedAndInternal || right == ProtectedAndInternal:
		return ProtectedAndInternal
	case left == Private || right == Private:
		return Private
	}
	return left
}

// Intersect returns the most restrictive level both sides permit. The
// effective visibility of a nested type is the intersection along its
// declaring chain.
func Intersect(left, right Accessibility) Accessibility {
	switch {
	case left == None || right == None:
		return None
	case left == Private || right == Private:
		return Private
	case left == ProtectedAndInternal || right == ProtectedAndInternal:
		return ProtectedAndInternal
	case left == Protected && right == Internal, left == Internal && right == Protected:
		return ProtectedAndInternal
	case left == Protected || right == Protected:
		return Protected
	case left == Internal || right == Internal:
		return Internal
	case left == ProtectedOrInternal || right == ProtectedOrInternal:
		return ProtectedOrInternal
	}
	return left
}
