package astbuild

import "projector/internal/resolve"

// Options are the projection toggles. They are fixed when a Builder is
// created.
type Options struct {
	ShowAccessibility            bool
	ShowModifiers                bool
	ShowBaseTypes                bool
	ShowTypeParameters           bool
	ShowTypeParameterConstraints bool
	ShowParameterNames           bool
	ShowConstantValues           bool
	ShowAttributes               bool

	// AlwaysUseBuiltinTypeNames prints int instead of Int32 and T? for
	// Nullable<T>.
	AlwaysUseBuiltinTypeNames bool
	// AlwaysUseShortTypeNames skips scope analysis and prints bare names.
	AlwaysUseShortTypeNames bool
	NameLookupMode          resolve.Mode

	// GenerateBody gives accessors and methods a throwing body.
	GenerateBody bool
	// UseCustomEvents declares events with explicit add/remove accessors.
	UseCustomEvents bool
	// ConvertUnboundTypeArguments prints unbound arguments as the type
	// parameter names instead of empty placeholders.
	ConvertUnboundTypeArguments bool
	UseAliases                  bool
	// UseSpecialConstants prints int.MaxValue, double.NaN, ... by name.
	UseSpecialConstants bool

	AddTypeReferenceAnnotations bool
	AddResolveResultAnnotations bool
}

// DefaultOptions returns the settings used for declaration listings.
func DefaultOptions() Options {
	return Options{
		ShowAccessibility:            true,
		ShowModifiers:                true,
		ShowBaseTypes:                true,
		ShowTypeParameters:           true,
		ShowTypeParameterConstraints: true,
		ShowParameterNames:           true,
		ShowConstantValues:           true,
		ShowAttributes:               true,
		AlwaysUseBuiltinTypeNames:    true,
		NameLookupMode:               resolve.ModeExpression,
		UseAliases:                   true,
		UseSpecialConstants:          true,
	}
}
