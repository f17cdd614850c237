// Package model holds the in-memory program model the projector reads:
// interned type references, type definitions, type parameters, member
// entities, attributes and constant values of one or more compiled modules.
//
// The model is an arena. Types, definitions and entities are addressed by
// stable integer IDs and refer to each other only through those IDs, so
// declaring-type and base-type back references never form pointer cycles.
// A model is mutated while it is being built (by a loader or a test fixture)
// and treated as read-only afterwards; concurrent readers need no locking.
package model

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// Module describes a loaded module.
type Module struct {
	Name string
}

type handleKey struct {
	module ModuleID
	handle Handle
}

// Model is the program-model arena.
type Model struct {
	modules  []Module
	types    []Type
	index    map[string]TypeID
	defs     []Definition
	tparams  []TypeParam
	entities []Entity

	known      [knownCount]TypeID
	typeTokens map[handleKey]TypeID
	entTokens  map[handleKey]EntityID
	nsChildren map[string][]string
	nsTypes    map[string][]TypeID

	unknown TypeID
	unbound TypeID
}

// New constructs an empty model. Slot 0 of every arena is reserved as the
// invalid sentinel.
func New() *Model {
	m := &Model{
		modules:    []Module{{}},
		types:      []Type{{}},
		index:      make(map[string]TypeID, 64),
		defs:       []Definition{{}},
		tparams:    []TypeParam{{}},
		entities:   []Entity{{}},
		typeTokens: make(map[handleKey]TypeID),
		entTokens:  make(map[handleKey]EntityID),
		nsChildren: map[string][]string{"": nil},
		nsTypes:    make(map[string][]TypeID),
	}
	m.unknown = m.Intern(Type{Kind: KindUnknown})
	m.unbound = m.Intern(Type{Kind: KindUnboundArg})
	return m
}

// AddModule registers a module and returns its ID.
func (m *Model) AddModule(name string) ModuleID {
	n, err := safecast.Conv[uint32](len(m.modules))
	if err != nil {
		panic(fmt.Errorf("len(modules) overflow: %w", err))
	}
	m.modules = append(m.modules, Module{Name: name})
	return ModuleID(n)
}

// Module returns the module record for id.
func (m *Model) Module(id ModuleID) (Module, bool) {
	if id == NoModuleID || int(id) >= len(m.modules) {
		return Module{}, false
	}
	return m.modules[id], true
}

// DefineType allocates a nominal type definition and its TypeDefinition
// entity. Type parameters are attached afterwards with AddTypeParams.
func (m *Model) DefineType(d Definition) (TypeID, error) {
	if d.Name == "" {
		return NoTypeID, fmt.Errorf("%w: definition without name", ErrInvalidRecord)
	}
	if d.DeclaringType.IsValid() {
		if _, ok := m.Definition(d.DeclaringType); !ok {
			return NoTypeID, fmt.Errorf("%w: declaring type of %s", ErrNotDefinition, d.Name)
		}
	}
	key := handleKey{d.Module, d.Handle}
	if d.Handle != 0 {
		if _, dup := m.typeTokens[key]; dup {
			return NoTypeID, fmt.Errorf("%w: %s (0x%08x)", ErrDuplicateHandle, d.Name, uint32(d.Handle))
		}
	}
	slot, err := safecast.Conv[uint32](len(m.defs))
	if err != nil {
		panic(fmt.Errorf("len(defs) overflow: %w", err))
	}
	id := m.internRaw(Type{Kind: KindDefinition, Payload: slot})
	d.Self = id
	d.TypeParams = slices.Clone(d.TypeParams)
	d.BaseTypes = slices.Clone(d.BaseTypes)
	d.Members = nil
	d.Nested = nil
	if d.Known == KnownNone && !d.DeclaringType.IsValid() {
		d.Known = KnownByName(d.Namespace, d.Name, len(d.TypeParams))
	}
	m.defs = append(m.defs, d)

	if d.Handle != 0 {
		m.typeTokens[key] = id
	}
	if d.Known != KnownNone {
		m.known[d.Known] = id
	}
	if d.DeclaringType.IsValid() {
		outer := m.defRef(d.DeclaringType)
		outer.Nested = append(outer.Nested, id)
	} else {
		m.registerNamespace(d.Namespace)
		m.nsTypes[d.Namespace] = append(m.nsTypes[d.Namespace], id)
	}

	ent := m.appendEntity(Entity{
		Kind:          EntityTypeDefinition,
		Module:        d.Module,
		Handle:        d.Handle,
		Name:          d.Name,
		DeclaringType: d.DeclaringType,
		Access:        d.Access,
		Flags:         defEntityFlags(d.Flags),
		Attributes:    d.Attributes,
		TypeDef:       id,
	})
	m.defRef(id).Entity = ent
	return id, nil
}

// MustDefineType is DefineType for fixtures; it panics on error.
func (m *Model) MustDefineType(d Definition) TypeID {
	id, err := m.DefineType(d)
	if err != nil {
		panic(err)
	}
	return id
}

func defEntityFlags(f DefFlags) EntityFlags {
	var out EntityFlags
	if f&DefFlagStatic != 0 {
		out |= FlagStatic
	}
	if f&DefFlagAbstract != 0 {
		out |= FlagAbstract
	}
	if f&DefFlagSealed != 0 {
		out |= FlagSealed
	}
	if f&DefFlagShadowing != 0 {
		out |= FlagShadowing
	}
	return out
}

func (m *Model) registerNamespace(ns string) {
	if ns == "" {
		return
	}
	if _, ok := m.nsChildren[ns]; ok {
		return
	}
	m.nsChildren[ns] = nil
	parent, child := "", ns
	if pos := strings.LastIndexByte(ns, '.'); pos >= 0 {
		parent, child = ns[:pos], ns[pos+1:]
	}
	m.registerNamespace(parent)
	m.nsChildren[parent] = append(m.nsChildren[parent], child)
}

// AddTypeParams appends type parameters to a type definition and returns
// their TypeIDs. Owner and Index are filled in.
func (m *Model) AddTypeParams(owner TypeID, params ...TypeParam) []TypeID {
	def := m.defRef(owner)
	if def == nil {
		return nil
	}
	out := make([]TypeID, 0, len(params))
	for _, p := range params {
		p.OwnerType = owner
		p.OwnerMethod = NoEntityID
		p.Index = len(def.TypeParams)
		id := m.appendTypeParam(p)
		def.TypeParams = append(def.TypeParams, id)
		out = append(out, id)
	}
	if def.Known == KnownNone && !def.DeclaringType.IsValid() {
		if k := KnownByName(def.Namespace, def.Name, len(def.TypeParams)); k != KnownNone {
			def.Known = k
			m.known[k] = owner
		}
	}
	return out
}

// InheritTypeParams copies the declaring type's parameters onto a nested
// definition, as compiled metadata does.
func (m *Model) InheritTypeParams(nested TypeID) []TypeID {
	def := m.defRef(nested)
	if def == nil || !def.DeclaringType.IsValid() {
		return nil
	}
	outer := m.defRef(def.DeclaringType)
	params := make([]TypeParam, 0, len(outer.TypeParams))
	for _, tpID := range outer.TypeParams {
		tp := m.tparams[m.types[tpID].Payload]
		params = append(params, TypeParam{
			Name:            tp.Name,
			Variance:        tp.Variance,
			Constraints:     tp.Constraints,
			ConstraintTypes: slices.Clone(tp.ConstraintTypes),
		})
	}
	return m.AddTypeParams(nested, params...)
}

// AddMethodTypeParams appends type parameters to a method entity.
func (m *Model) AddMethodTypeParams(method EntityID, params ...TypeParam) []TypeID {
	e := m.entityRef(method)
	if e == nil {
		return nil
	}
	out := make([]TypeID, 0, len(params))
	for _, p := range params {
		p.OwnerType = NoTypeID
		p.OwnerMethod = method
		p.Index = len(e.TypeParams)
		id := m.appendTypeParam(p)
		e.TypeParams = append(e.TypeParams, id)
		out = append(out, id)
	}
	return out
}

func (m *Model) appendTypeParam(p TypeParam) TypeID {
	slot, err := safecast.Conv[uint32](len(m.tparams))
	if err != nil {
		panic(fmt.Errorf("len(tparams) overflow: %w", err))
	}
	m.tparams = append(m.tparams, p)
	return m.internRaw(Type{Kind: KindTypeParameter, Payload: slot})
}

// AddEntity registers a member entity on its declaring type. Accessors
// referenced by the entity receive it as their owner.
func (m *Model) AddEntity(e Entity) (EntityID, error) {
	if e.Kind == EntityInvalid || e.Kind == EntityTypeDefinition {
		return NoEntityID, fmt.Errorf("%w: entity kind %v", ErrInvalidRecord, e.Kind)
	}
	if m.defRef(e.DeclaringType) == nil {
		return NoEntityID, fmt.Errorf("%w: declaring type of %s", ErrNotDefinition, e.Name)
	}
	key := handleKey{e.Module, e.Handle}
	if e.Handle != 0 {
		if _, dup := m.entTokens[key]; dup {
			return NoEntityID, fmt.Errorf("%w: %s (0x%08x)", ErrDuplicateHandle, e.Name, uint32(e.Handle))
		}
	}
	id := m.appendEntity(e)
	if e.Handle != 0 {
		m.entTokens[key] = id
	}
	decl := m.defRef(e.DeclaringType)
	decl.Members = append(decl.Members, id)

	link := func(acc EntityID, kind AccessorKind) {
		a := m.entityRef(acc)
		if a == nil {
			return
		}
		a.Owner = id
		if a.AccessorKind == AccessorNone {
			a.AccessorKind = kind
		}
	}
	link(e.Getter, AccessorGet)
	link(e.Setter, AccessorSet)
	link(e.Adder, AccessorAdd)
	link(e.Remover, AccessorRemove)
	return id, nil
}

// MustAddEntity is AddEntity for fixtures; it panics on error.
func (m *Model) MustAddEntity(e Entity) EntityID {
	id, err := m.AddEntity(e)
	if err != nil {
		panic(err)
	}
	return id
}

func (m *Model) appendEntity(e Entity) EntityID {
	n, err := safecast.Conv[uint32](len(m.entities))
	if err != nil {
		panic(fmt.Errorf("len(entities) overflow: %w", err))
	}
	e.Parameters = slices.Clone(e.Parameters)
	e.ExplicitImpls = slices.Clone(e.ExplicitImpls)
	m.entities = append(m.entities, e)
	return EntityID(n)
}

// UpdateDefinition applies fn to a definition while the model is built.
func (m *Model) UpdateDefinition(id TypeID, fn func(*Definition)) error {
	d := m.defRef(id)
	if d == nil {
		return fmt.Errorf("%w: %d", ErrNotDefinition, id)
	}
	fn(d)
	if d.Known != KnownNone {
		m.known[d.Known] = id
	}
	return nil
}

// UpdateEntity applies fn to an entity while the model is built.
func (m *Model) UpdateEntity(id EntityID, fn func(*Entity)) error {
	e := m.entityRef(id)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	fn(e)
	return nil
}

// UpdateTypeParam applies fn to a type parameter while the model is built.
func (m *Model) UpdateTypeParam(id TypeID, fn func(*TypeParam)) error {
	t, ok := m.Type(id)
	if !ok || t.Kind != KindTypeParameter {
		return fmt.Errorf("%w: type parameter %d", ErrTypeNotFound, id)
	}
	fn(&m.tparams[t.Payload])
	return nil
}

// RegisterTypeRef maps a TypeRef/TypeSpec handle of module onto a type.
func (m *Model) RegisterTypeRef(module ModuleID, handle Handle, target TypeID) {
	m.typeTokens[handleKey{module, handle}] = target
}

// TypeByHandle resolves a TypeDef/TypeRef/TypeSpec handle of module.
func (m *Model) TypeByHandle(module ModuleID, handle Handle) (TypeID, bool) {
	id, ok := m.typeTokens[handleKey{module, handle}]
	return id, ok
}

// EntityByHandle resolves a member handle of module.
func (m *Model) EntityByHandle(module ModuleID, handle Handle) (EntityID, bool) {
	id, ok := m.entTokens[handleKey{module, handle}]
	return id, ok
}

func (m *Model) defRef(id TypeID) *Definition {
	t, ok := m.Type(id)
	if !ok || t.Kind != KindDefinition {
		return nil
	}
	return &m.defs[t.Payload]
}

func (m *Model) entityRef(id EntityID) *Entity {
	if id == NoEntityID || int(id) >= len(m.entities) {
		return nil
	}
	return &m.entities[id]
}

// Definition returns the metadata of a definition TypeID.
func (m *Model) Definition(id TypeID) (*Definition, bool) {
	d := m.defRef(id)
	return d, d != nil
}

// DefinitionOf returns the definition behind a definition or an
// instantiation of it.
func (m *Model) DefinitionOf(id TypeID) (*Definition, bool) {
	return m.Definition(m.GenericDefinition(id))
}

// TypeParam returns the metadata of a type-parameter TypeID.
func (m *Model) TypeParam(id TypeID) (*TypeParam, bool) {
	t, ok := m.Type(id)
	if !ok || t.Kind != KindTypeParameter {
		return nil, false
	}
	return &m.tparams[t.Payload], true
}

// Entity returns the entity record for id.
func (m *Model) Entity(id EntityID) (*Entity, bool) {
	e := m.entityRef(id)
	return e, e != nil
}

// EntityCount returns the number of allocated entities (excluding slot 0).
func (m *Model) EntityCount() int { return len(m.entities) - 1 }

// KnownType returns the definition registered for k, NoTypeID if absent.
func (m *Model) KnownType(k KnownType) TypeID {
	if k >= knownCount {
		return NoTypeID
	}
	return m.known[k]
}

// IsKnown reports whether id refers to (an instantiation of) known type k.
func (m *Model) IsKnown(id TypeID, k KnownType) bool {
	d, ok := m.DefinitionOf(id)
	return ok && d.Known == k
}

// KnownOf returns the known-type tag of id, KnownNone when not a known type.
func (m *Model) KnownOf(id TypeID) KnownType {
	d, ok := m.DefinitionOf(id)
	if !ok {
		return KnownNone
	}
	return d.Known
}

// OuterArity returns how many type parameters a definition inherits from
// its declaring types.
func (m *Model) OuterArity(id TypeID) int {
	d, ok := m.DefinitionOf(id)
	if !ok || !d.DeclaringType.IsValid() {
		return 0
	}
	outer, ok := m.Definition(d.DeclaringType)
	if !ok {
		return 0
	}
	return len(outer.TypeParams)
}

// LocalArity returns the number of type parameters a definition declares itself.
func (m *Model) LocalArity(id TypeID) int {
	d, ok := m.DefinitionOf(id)
	if !ok {
		return 0
	}
	return len(d.TypeParams) - m.OuterArity(id)
}

// Definitions returns every definition TypeID in definition order.
func (m *Model) Definitions() []TypeID {
	out := make([]TypeID, 0, len(m.defs)-1)
	for i := 1; i < len(m.defs); i++ {
		out = append(out, m.defs[i].Self)
	}
	return out
}

// FindType looks up a top-level definition by namespace, name and arity.
func (m *Model) FindType(ns, name string, arity int) (TypeID, bool) {
	for _, id := range m.nsTypes[ns] {
		d := m.defRef(id)
		if d.Name == name && len(d.TypeParams) == arity {
			return id, true
		}
	}
	return NoTypeID, false
}

// FindNestedType looks up a nested definition by name and local arity.
func (m *Model) FindNestedType(parent TypeID, name string, arity int) (TypeID, bool) {
	d, ok := m.DefinitionOf(parent)
	if !ok {
		return NoTypeID, false
	}
	for _, id := range d.Nested {
		if m.defRef(id).Name == name && m.LocalArity(id) == arity {
			return id, true
		}
	}
	return NoTypeID, false
}

// TypesIn returns the top-level definitions of a namespace.
func (m *Model) TypesIn(ns string) []TypeID {
	return m.nsTypes[ns]
}

// NamespaceExists reports whether ns contains any type or child namespace.
// The global namespace always exists.
func (m *Model) NamespaceExists(ns string) bool {
	_, ok := m.nsChildren[ns]
	return ok
}

// ChildNamespaces returns the simple names of the namespaces nested in ns.
func (m *Model) ChildNamespaces(ns string) []string {
	return m.nsChildren[ns]
}

// HasChildNamespace reports whether ns contains a namespace named child.
func (m *Model) HasChildNamespace(ns, child string) bool {
	return slices.Contains(m.nsChildren[ns], child)
}

// EnumUnderlying returns the underlying integral type of an enum.
func (m *Model) EnumUnderlying(id TypeID) TypeID {
	d, ok := m.DefinitionOf(id)
	if !ok || d.Kind != DefEnum {
		return NoTypeID
	}
	if d.EnumUnderlying.IsValid() {
		return d.EnumUnderlying
	}
	return m.known[KnownInt32]
}

// IsEnum reports whether id is an enum type.
func (m *Model) IsEnum(id TypeID) bool {
	d, ok := m.DefinitionOf(id)
	return ok && d.Kind == DefEnum
}

// IsReferenceType reports whether values of id are known to be references.
// Unconstrained type parameters and unknown types report false.
func (m *Model) IsReferenceType(id TypeID) bool {
	t, ok := m.Type(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindArray:
		return true
	case KindDefinition, KindParameterized:
		d, ok := m.DefinitionOf(id)
		if !ok {
			return false
		}
		switch d.Kind {
		case DefClass, DefInterface, DefDelegate:
			return d.Known != KnownVoid
		}
		return false
	case KindTypeParameter:
		tp, ok := m.TypeParam(id)
		if !ok {
			return false
		}
		if tp.Has(ConstraintReferenceType) {
			return true
		}
		for _, c := range tp.ConstraintTypes {
			if cd, ok := m.DefinitionOf(c); ok && cd.Kind == DefClass &&
				cd.Known != KnownObject && cd.Known != KnownValueType {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// FullName renders a reflection-style name for diagnostics
// ("System.Collections.Generic.List`1", "Outer+Inner").
func (m *Model) FullName(id TypeID) string {
	t, ok := m.Type(id)
	if !ok {
		return "?"
	}
	switch t.Kind {
	case KindDefinition:
		d := m.defs[t.Payload]
		name := d.Name
		if n := m.LocalArity(id); n > 0 {
			name = fmt.Sprintf("%s`%d", name, n)
		}
		if d.DeclaringType.IsValid() {
			return m.FullName(d.DeclaringType) + "+" + name
		}
		if d.Namespace == "" {
			return name
		}
		return d.Namespace + "." + name
	case KindParameterized:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = m.FullName(a)
		}
		return m.FullName(t.Elem) + "[" + strings.Join(args, ",") + "]"
	case KindArray:
		return m.FullName(t.Elem) + "[" + strings.Repeat(",", int(t.Rank)-1) + "]"
	case KindPointer:
		return m.FullName(t.Elem) + "*"
	case KindByRef:
		return m.FullName(t.Elem) + "&"
	case KindTuple:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = m.FullName(a)
		}
		return "(" + strings.Join(args, ",") + ")"
	case KindTypeParameter:
		return m.tparams[t.Payload].Name
	case KindUnboundArg:
		return ""
	default:
		return "?"
	}
}
