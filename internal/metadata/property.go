package metadata

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"projector/internal/access"
	"projector/internal/model"
)

// ErrNotProperty reports an entity that is not a raw property record.
var ErrNotProperty = errors.New("metadata: entity is not a property")

// propertyHashSalt keeps property hashes apart from other member hashes
// built from the same handle and module.
const propertyHashSalt uint64 = 0x32b6a76c

// Signature is the decoded parameter list and return type of a property.
type Signature struct {
	ReturnType model.TypeID
	Params     []model.Parameter
	// Err is set when the blob was malformed; the signature then carries
	// Unknown types at the undecodable positions.
	Err error
}

// Property adapts a raw property record. Kind, accessibility and signature
// are derived on first use and cached in single-assignment cells.
type Property struct {
	members *Members
	id      model.EntityID
	rec     *model.Entity

	kind   Cell[model.EntityKind]
	access Cell[access.Accessibility]
	sig    Cell[Signature]
}

func (p *Property) model() *model.Model { return p.members.m }

// ID returns the entity the adapter wraps.
func (p *Property) ID() model.EntityID { return p.id }

// Record returns the raw record.
func (p *Property) Record() *model.Entity { return p.rec }

func (p *Property) Name() string { return p.rec.Name }

func (p *Property) DeclaringType() model.TypeID { return p.rec.DeclaringType }

func (p *Property) accessor(id model.EntityID) *model.Entity {
	e, ok := p.model().Entity(id)
	if !ok {
		return nil
	}
	return e
}

// Getter returns the get accessor, nil when absent.
func (p *Property) Getter() *model.Entity { return p.accessor(p.rec.Getter) }

// Setter returns the set accessor, nil when absent.
func (p *Property) Setter() *model.Entity { return p.accessor(p.rec.Setter) }

// CanGet reports whether the property has a getter.
func (p *Property) CanGet() bool { return p.Getter() != nil }

// CanSet reports whether the property has a setter.
func (p *Property) CanSet() bool { return p.Setter() != nil }

func (p *Property) anyAccessorHas(f model.EntityFlags) bool {
	if p.rec.Has(f) {
		return true
	}
	if g := p.Getter(); g != nil && g.Has(f) {
		return true
	}
	if s := p.Setter(); s != nil && s.Has(f) {
		return true
	}
	return false
}

// IsStatic reports whether the property is static.
func (p *Property) IsStatic() bool { return p.anyAccessorHas(model.FlagStatic) }

// IsOverride reports whether the property overrides a base property.
func (p *Property) IsOverride() bool { return p.anyAccessorHas(model.FlagOverride) }

// IsAbstract reports whether the property is abstract.
func (p *Property) IsAbstract() bool { return p.anyAccessorHas(model.FlagAbstract) }

// IsVirtual reports whether the property is virtual.
func (p *Property) IsVirtual() bool { return p.anyAccessorHas(model.FlagVirtual) }

// IsSealed reports whether the property is sealed.
func (p *Property) IsSealed() bool { return p.anyAccessorHas(model.FlagSealed) }

// ExplicitImpls returns the interface members implemented explicitly by the
// getter, or by the setter when there is no getter.
func (p *Property) ExplicitImpls() []model.EntityID {
	if len(p.rec.ExplicitImpls) > 0 {
		return p.rec.ExplicitImpls
	}
	if g := p.Getter(); g != nil {
		return g.ExplicitImpls
	}
	if s := p.Setter(); s != nil {
		return s.ExplicitImpls
	}
	return nil
}

// IsExplicitImplementation reports whether the property implements an
// interface property explicitly.
func (p *Property) IsExplicitImplementation() bool { return len(p.ExplicitImpls()) > 0 }

// Kind classifies the record as EntityProperty or EntityIndexer.
func (p *Property) Kind() model.EntityKind {
	return p.kind.Get(p.computeKind)
}

func (p *Property) computeKind() model.EntityKind {
	m := p.model()
	name := p.rec.Name
	if decl, ok := m.DefinitionOf(p.rec.DeclaringType); ok &&
		name == decl.DefaultMemberName() && len(p.Signature().Params) > 0 {
		return model.EntityIndexer
	}
	if strings.Contains(name, ".") {
		for _, impl := range p.ExplicitImpls() {
			target, ok := m.Entity(impl)
			if !ok || !target.Owner.IsValid() || target.Owner == p.id {
				continue
			}
			owner, err := p.members.Property(target.Owner)
			if err != nil {
				continue
			}
			return owner.Kind()
		}
	}
	return model.EntityProperty
}

// Accessibility derives the member-level accessibility from the accessors.
func (p *Property) Accessibility() access.Accessibility {
	return p.access.Get(p.computeAccessibility)
}

func (p *Property) computeAccessibility() access.Accessibility {
	getter, setter := p.Getter(), p.Setter()
	if p.IsOverride() && (getter == nil) != (setter == nil) {
		// An override may redeclare only one accessor; the visibility then
		// comes from the property it overrides.
		seen := map[model.EntityID]bool{p.id: true}
		for base := p.rec.BaseMember; base.IsValid() && !seen[base]; {
			seen[base] = true
			bp, err := p.members.Property(base)
			if err != nil {
				break
			}
			if !bp.IsOverride() {
				return bp.Accessibility()
			}
			base = bp.rec.BaseMember
		}
	}
	return access.Merge(accessOf(getter), accessOf(setter))
}

func accessOf(e *model.Entity) access.Accessibility {
	if e == nil {
		return access.None
	}
	return e.Access
}

// ReturnType is the decoded property type.
func (p *Property) ReturnType() model.TypeID { return p.Signature().ReturnType }

// Parameters are the decoded indexer parameters.
func (p *Property) Parameters() []model.Parameter { return p.Signature().Params }

// Signature decodes the signature blob on first use.
func (p *Property) Signature() Signature {
	return p.sig.Get(p.decodeSignature)
}

func (p *Property) decodeSignature() Signature {
	m := p.model()
	if len(p.rec.Signature) == 0 {
		return Signature{ReturnType: p.rec.ReturnType, Params: p.rec.Parameters}
	}
	var typeArgs []model.TypeID
	if decl, ok := m.DefinitionOf(p.rec.DeclaringType); ok {
		typeArgs = decl.TypeParams
	}
	raw, err := DecodePropertySig(m, p.rec.Module, typeArgs, p.rec.Signature)
	if err != nil {
		err = fmt.Errorf("property %s: %w", p.rec.Name, err)
	}

	records := make([]model.ParamRecord, 0, len(p.rec.ParamRecords))
	for _, r := range p.rec.ParamRecords {
		// Sequence 0 describes the return value; sequences past the blob's
		// count belong to no parameter.
		if r.Sequence == 0 || int(r.Sequence) > len(raw.Params) {
			continue
		}
		records = append(records, r)
	}
	slices.SortFunc(records, func(a, b model.ParamRecord) int { return cmp.Compare(a.Sequence, b.Sequence) })

	params := make([]model.Parameter, len(raw.Params))
	for i, t := range raw.Params {
		params[i] = model.Parameter{Type: t}
	}
	for _, r := range records {
		param := &params[r.Sequence-1]
		param.Name = r.Name
		param.Attributes = r.Attributes
		param.Optional = r.Attrs&model.ParamAttrOptional != 0
		if r.Attrs&model.ParamAttrHasDefault != 0 {
			param.HasDefault = true
			param.Default = r.Default
		}
		param.Modifier = paramModifier(m, param.Type, r)
	}
	return Signature{ReturnType: raw.ReturnType, Params: params, Err: err}
}

func paramModifier(m *model.Model, t model.TypeID, r model.ParamRecord) model.ParamModifier {
	if m.KindOf(t) == model.KindByRef {
		in := r.Attrs&model.ParamAttrIn != 0
		out := r.Attrs&model.ParamAttrOut != 0
		switch {
		case out && !in:
			return model.ParamOut
		case in && !out:
			return model.ParamIn
		default:
			return model.ParamRef
		}
	}
	if r.ParamArray {
		return model.ParamParams
	}
	return model.ParamNone
}

// Equal reports whether both adapters wrap the same record of the same module.
func (p *Property) Equal(other *Property) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.rec.Handle == other.rec.Handle && p.rec.Module == other.rec.Module
}

// Hash is consistent with Equal.
func (p *Property) Hash() uint64 {
	h := propertyHashSalt
	h ^= mix64(uint64(p.rec.Handle))
	h ^= mix64(uint64(p.rec.Module) << 32)
	return h
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// EventAccessibility merges the add and remove accessors of an event.
func EventAccessibility(m *model.Model, event model.EntityID) access.Accessibility {
	e, ok := m.Entity(event)
	if !ok {
		return access.None
	}
	var add, remove *model.Entity
	if a, ok := m.Entity(e.Adder); ok {
		add = a
	}
	if r, ok := m.Entity(e.Remover); ok {
		remove = r
	}
	if add == nil && remove == nil {
		return e.Access
	}
	return access.Merge(accessOf(add), accessOf(remove))
}
