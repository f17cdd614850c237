// Package config loads projector.toml: the projection toggles, the scope
// the declarations are printed in, and driver settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"projector/internal/astbuild"
	"projector/internal/model"
	"projector/internal/resolve"
)

// FileName is the configuration file looked up by the CLI.
const FileName = "projector.toml"

var (
	// ErrUnknownOption reports a key the loader does not understand.
	ErrUnknownOption = errors.New("config: unknown option")
	// ErrUnknownAlias reports an alias whose target is neither a namespace
	// nor a type of the model.
	ErrUnknownAlias = errors.New("config: alias target not found")
)

// Config is a loaded configuration.
type Config struct {
	Options astbuild.Options
	Scope   Scope
	// Jobs bounds parallel projection; 0 means one per CPU.
	Jobs int
}

// Scope describes the compilation unit the output is placed in.
type Scope struct {
	Namespace string
	Usings    []string
	// Aliases maps alias names to a namespace or a type full name
	// ("System.Collections.Generic.List`1").
	Aliases map[string]string
}

type fileConfig struct {
	Options fileOptions `toml:"options"`
	Scope   struct {
		Namespace string            `toml:"namespace"`
		Usings    []string          `toml:"usings"`
		Aliases   map[string]string `toml:"aliases"`
	} `toml:"scope"`
	Driver struct {
		Jobs int `toml:"jobs"`
	} `toml:"driver"`
}

type fileOptions struct {
	ShowAccessibility            *bool  `toml:"show_accessibility"`
	ShowModifiers                *bool  `toml:"show_modifiers"`
	ShowBaseTypes                *bool  `toml:"show_base_types"`
	ShowTypeParameters           *bool  `toml:"show_type_parameters"`
	ShowTypeParameterConstraints *bool  `toml:"show_type_parameter_constraints"`
	ShowParameterNames           *bool  `toml:"show_parameter_names"`
	ShowConstantValues           *bool  `toml:"show_constant_values"`
	ShowAttributes               *bool  `toml:"show_attributes"`
	AlwaysUseBuiltinTypeNames    *bool  `toml:"always_use_builtin_type_names"`
	AlwaysUseShortTypeNames      *bool  `toml:"always_use_short_type_names"`
	NameLookupMode               string `toml:"name_lookup_mode"`
	GenerateBody                 *bool  `toml:"generate_body"`
	UseCustomEvents              *bool  `toml:"use_custom_events"`
	ConvertUnboundTypeArguments  *bool  `toml:"convert_unbound_type_arguments"`
	UseAliases                   *bool  `toml:"use_aliases"`
	UseSpecialConstants          *bool  `toml:"use_special_constants"`
	AddTypeReferenceAnnotations  *bool  `toml:"add_type_reference_annotations"`
	AddResolveResultAnnotations  *bool  `toml:"add_resolve_result_annotations"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Options: astbuild.DefaultOptions()}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return build(path, meta, &fc)
}

// Parse decodes configuration text; name is used in error messages.
func Parse(name, data string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.Decode(data, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	return build(name, meta, &fc)
}

func build(path string, meta toml.MetaData, fc *fileConfig) (*Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownOption, strings.Join(keys, ", "))
	}

	cfg := Default()
	if meta.IsDefined("options") {
		if err := fc.Options.apply(&cfg.Options); err != nil {
			return nil, fmt.Errorf("%s: [options]: %w", path, err)
		}
	}
	if meta.IsDefined("scope") {
		cfg.Scope = Scope{
			Namespace: strings.TrimSpace(fc.Scope.Namespace),
			Usings:    fc.Scope.Usings,
			Aliases:   fc.Scope.Aliases,
		}
		for name := range cfg.Scope.Aliases {
			if strings.TrimSpace(name) == "" || strings.ContainsAny(name, ". ") {
				return nil, fmt.Errorf("%s: [scope.aliases]: invalid alias name %q", path, name)
			}
		}
	}
	if meta.IsDefined("driver", "jobs") {
		if fc.Driver.Jobs < 0 {
			return nil, fmt.Errorf("%s: [driver].jobs must not be negative, got %d", path, fc.Driver.Jobs)
		}
		cfg.Jobs = fc.Driver.Jobs
	}
	return cfg, nil
}

func (fo *fileOptions) apply(o *astbuild.Options) error {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&o.ShowAccessibility, fo.ShowAccessibility)
	set(&o.ShowModifiers, fo.ShowModifiers)
	set(&o.ShowBaseTypes, fo.ShowBaseTypes)
	set(&o.ShowTypeParameters, fo.ShowTypeParameters)
	set(&o.ShowTypeParameterConstraints, fo.ShowTypeParameterConstraints)
	set(&o.ShowParameterNames, fo.ShowParameterNames)
	set(&o.ShowConstantValues, fo.ShowConstantValues)
	set(&o.ShowAttributes, fo.ShowAttributes)
	set(&o.AlwaysUseBuiltinTypeNames, fo.AlwaysUseBuiltinTypeNames)
	set(&o.AlwaysUseShortTypeNames, fo.AlwaysUseShortTypeNames)
	set(&o.GenerateBody, fo.GenerateBody)
	set(&o.UseCustomEvents, fo.UseCustomEvents)
	set(&o.ConvertUnboundTypeArguments, fo.ConvertUnboundTypeArguments)
	set(&o.UseAliases, fo.UseAliases)
	set(&o.UseSpecialConstants, fo.UseSpecialConstants)
	set(&o.AddTypeReferenceAnnotations, fo.AddTypeReferenceAnnotations)
	set(&o.AddResolveResultAnnotations, fo.AddResolveResultAnnotations)
	if fo.NameLookupMode != "" {
		mode, err := resolve.ParseMode(fo.NameLookupMode)
		if err != nil {
			return err
		}
		o.NameLookupMode = mode
	}
	return nil
}

// Chain builds the scope chain for m. Alias targets are looked up as
// namespaces first, then as types.
func (s Scope) Chain(m *model.Model) (resolve.Chain, error) {
	aliases := make([]resolve.Alias, 0, len(s.Aliases))
	for _, name := range sortedKeys(s.Aliases) {
		target := strings.TrimSpace(s.Aliases[name])
		r, err := aliasTarget(m, target)
		if err != nil {
			return resolve.Chain{}, fmt.Errorf("alias %s: %w", name, err)
		}
		aliases = append(aliases, resolve.Alias{Name: name, Target: r})
	}
	return resolve.ForNamespace(s.Namespace, s.Usings, aliases), nil
}

func aliasTarget(m *model.Model, target string) (resolve.Result, error) {
	if m.NamespaceExists(target) {
		return resolve.NamespaceResult(target), nil
	}
	id, ok := FindTypeByName(m, target)
	if !ok {
		return resolve.Result{}, fmt.Errorf("%w: %q", ErrUnknownAlias, target)
	}
	return resolve.TypeResult(id), nil
}
