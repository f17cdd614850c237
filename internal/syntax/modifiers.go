package syntax

import (
	"strings"

	"projector/internal/access"
)

// Modifiers is a set of declaration modifiers.
type Modifiers uint32

const (
	ModPrivate Modifiers = 1 << iota
	ModInternal
	ModProtected
	ModPublic
	ModAbstract
	ModVirtual
	ModSealed
	ModStatic
	ModOverride
	ModReadonly
	ModConst
	ModNew
	ModExtern
	ModVolatile
	ModUnsafe
)

const ModAccessMask = ModPrivate | ModInternal | ModProtected | ModPublic

var modifierOrder = []struct {
	mod  Modifiers
	text string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModInternal, "internal"},
	{ModNew, "new"},
	{ModUnsafe, "unsafe"},
	{ModStatic, "static"},
	{ModAbstract, "abstract"},
	{ModVirtual, "virtual"},
	{ModSealed, "sealed"},
	{ModOverride, "override"},
	{ModReadonly, "readonly"},
	{ModVolatile, "volatile"},
	{ModExtern, "extern"},
	{ModConst, "const"},
}

// Has reports whether every bit of m2 is set.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// Keywords returns the modifier keywords in canonical order
// ("protected internal", "private protected" included).
func (m Modifiers) Keywords() []string {
	var out []string
	if m.Has(ModPrivate | ModProtected) {
		out = append(out, "private", "protected")
		m &^= ModPrivate | ModProtected
	}
	for _, e := range modifierOrder {
		if m&e.mod != 0 {
			out = append(out, e.text)
		}
	}
	return out
}

func (m Modifiers) String() string { return strings.Join(m.Keywords(), " ") }

// AccessModifiers maps an accessibility to its modifier bits.
func AccessModifiers(a access.Accessibility) Modifiers {
	switch a {
	case access.Private:
		return ModPrivate
	case access.ProtectedAndInternal:
		return ModPrivate | ModProtected
	case access.Internal:
		return ModInternal
	case access.Protected:
		return ModProtected
	case access.ProtectedOrInternal:
		return ModProtected | ModInternal
	case access.Public:
		return ModPublic
	default:
		return 0
	}
}
