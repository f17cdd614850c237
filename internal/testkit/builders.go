package testkit

import (
	"fmt"

	"projector/internal/access"
	"projector/internal/metadata"
	"projector/internal/model"
)

// Param describes a plain by-value parameter.
func (f *Fixture) Param(name string, t model.TypeID) model.Parameter {
	return model.Parameter{Name: name, Type: t}
}

// Value builds an attribute argument whose runtime type equals its declared type.
func (f *Fixture) Value(t model.TypeID, v any) model.TypedValue {
	return model.TypedValue{Declared: t, Runtime: t, Value: v}
}

// Attr builds an attribute instance.
func (f *Fixture) Attr(t model.TypeID, ctor model.EntityID, fixed ...model.TypedValue) model.Attribute {
	return model.Attribute{Type: t, Constructor: ctor, Fixed: fixed}
}

func (f *Fixture) moduleOf(owner model.TypeID) model.ModuleID {
	d, ok := f.M.Definition(owner)
	if !ok {
		panic(fmt.Sprintf("testkit: %d is not a definition", owner))
	}
	return d.Module
}

// Define declares a definition in the user module, assigning its handle.
func (f *Fixture) Define(d model.Definition) model.TypeID {
	if !d.Module.IsValid() {
		d.Module = f.User
	}
	if d.Handle == 0 {
		d.Handle = f.NextHandle(d.Module, model.TableTypeDef)
	}
	if d.Access == access.None {
		d.Access = access.Public
	}
	return f.M.MustDefineType(d)
}

// Class declares a public user class.
func (f *Fixture) Class(ns, name string, bases ...model.TypeID) model.TypeID {
	if len(bases) == 0 {
		bases = []model.TypeID{f.Known(model.KnownObject)}
	}
	return f.Define(model.Definition{Namespace: ns, Name: name, Kind: model.DefClass, BaseTypes: bases})
}

// Struct declares a public user struct.
func (f *Fixture) Struct(ns, name string, interfaces ...model.TypeID) model.TypeID {
	bases := append([]model.TypeID{f.Known(model.KnownValueType)}, interfaces...)
	return f.Define(model.Definition{Namespace: ns, Name: name, Kind: model.DefStruct,
		Flags: model.DefFlagSealed, BaseTypes: bases})
}

// Interface declares a public user interface.
func (f *Fixture) Interface(ns, name string, bases ...model.TypeID) model.TypeID {
	return f.Define(model.Definition{Namespace: ns, Name: name, Kind: model.DefInterface,
		Flags: model.DefFlagAbstract, BaseTypes: bases})
}

// Nested declares a type inside outer, inheriting its type parameters.
func (f *Fixture) Nested(outer model.TypeID, name string, kind model.DefKind, acc access.Accessibility) model.TypeID {
	base := f.Known(model.KnownObject)
	if kind == model.DefStruct {
		base = f.Known(model.KnownValueType)
	}
	id := f.Define(model.Definition{
		Module:        f.moduleOf(outer),
		Name:          name,
		Kind:          kind,
		Access:        acc,
		DeclaringType: outer,
		BaseTypes:     []model.TypeID{base},
	})
	f.M.InheritTypeParams(id)
	return id
}

// Ctor declares an instance constructor.
func (f *Fixture) Ctor(owner model.TypeID, acc access.Accessibility, params ...model.Parameter) model.EntityID {
	mod := f.moduleOf(owner)
	return f.M.MustAddEntity(model.Entity{
		Kind:          model.EntityConstructor,
		Module:        mod,
		Handle:        f.NextHandle(mod, model.TableMethod),
		Name:          ".ctor",
		DeclaringType: owner,
		Access:        acc,
		ReturnType:    f.Known(model.KnownVoid),
		Parameters:    params,
	})
}

// Method declares an ordinary method.
func (f *Fixture) Method(owner model.TypeID, name string, acc access.Accessibility, flags model.EntityFlags,
	ret model.TypeID, params ...model.Parameter) model.EntityID {
	mod := f.moduleOf(owner)
	return f.M.MustAddEntity(model.Entity{
		Kind:          model.EntityMethod,
		Module:        mod,
		Handle:        f.NextHandle(mod, model.TableMethod),
		Name:          name,
		DeclaringType: owner,
		Access:        acc,
		Flags:         flags,
		ReturnType:    ret,
		Parameters:    params,
	})
}

// Field declares a field.
func (f *Fixture) Field(owner model.TypeID, name string, t model.TypeID, acc access.Accessibility, flags model.EntityFlags) model.EntityID {
	mod := f.moduleOf(owner)
	return f.M.MustAddEntity(model.Entity{
		Kind:          model.EntityField,
		Module:        mod,
		Handle:        f.NextHandle(mod, model.TableField),
		Name:          name,
		DeclaringType: owner,
		Access:        acc,
		Flags:         flags,
		ReturnType:    t,
	})
}

// Const declares a static literal field.
func (f *Fixture) Const(owner model.TypeID, name string, t model.TypeID, acc access.Accessibility, value any) model.EntityID {
	id := f.Field(owner, name, t, acc, model.FlagStatic|model.FlagConst)
	_ = f.M.UpdateEntity(id, func(e *model.Entity) {
		e.HasConstant = true
		e.Constant = value
	})
	return id
}

func (f *Fixture) accessor(owner model.TypeID, name string, acc access.Accessibility, kind model.AccessorKind,
	ret model.TypeID, params []model.Parameter) model.EntityID {
	if acc == access.None {
		return model.NoEntityID
	}
	mod := f.moduleOf(owner)
	return f.M.MustAddEntity(model.Entity{
		Kind:          model.EntityAccessor,
		Module:        mod,
		Handle:        f.NextHandle(mod, model.TableMethod),
		Name:          name,
		DeclaringType: owner,
		Access:        acc,
		AccessorKind:  kind,
		ReturnType:    ret,
		Parameters:    params,
	})
}

// Property declares a raw property record with the given accessor
// visibilities; access.None omits an accessor.
func (f *Fixture) Property(owner model.TypeID, name string, t model.TypeID, get, set access.Accessibility) model.EntityID {
	return f.Indexer(owner, name, t, get, set)
}

// Indexer declares a raw property record with parameters. The signature is
// stored as a PropertySig blob plus parameter records, the way compiled
// metadata carries it.
func (f *Fixture) Indexer(owner model.TypeID, name string, t model.TypeID, get, set access.Accessibility,
	params ...model.Parameter) model.EntityID {
	mod := f.moduleOf(owner)
	void := f.Known(model.KnownVoid)
	getter := f.accessor(owner, "get_"+name, get, model.AccessorGet, t, params)
	setter := f.accessor(owner, "set_"+name, set, model.AccessorSet, void,
		append(append([]model.Parameter(nil), params...), f.Param("value", t)))

	rec := model.Entity{
		Kind:          model.EntityProperty,
		Module:        mod,
		Handle:        f.NextHandle(mod, model.TableProperty),
		Name:          name,
		DeclaringType: owner,
		Getter:        getter,
		Setter:        setter,
	}
	types := make([]model.TypeID, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	blob, err := metadata.EncodePropertySig(f.M, true, t, types)
	if err != nil {
		rec.ReturnType = t
		rec.Parameters = params
	} else {
		rec.Signature = blob
		rec.ParamRecords = paramRecords(params)
	}
	return f.M.MustAddEntity(rec)
}

func paramRecords(params []model.Parameter) []model.ParamRecord {
	out := make([]model.ParamRecord, 0, len(params)+1)
	// The return-value record never becomes a parameter.
	out = append(out, model.ParamRecord{Sequence: 0})
	for i, p := range params {
		r := model.ParamRecord{
			Sequence:   uint16(i + 1),
			Name:       p.Name,
			Attributes: p.Attributes,
			ParamArray: p.Modifier == model.ParamParams,
		}
		switch p.Modifier {
		case model.ParamOut:
			r.Attrs |= model.ParamAttrOut
		case model.ParamIn:
			r.Attrs |= model.ParamAttrIn
		}
		if p.Optional {
			r.Attrs |= model.ParamAttrOptional
		}
		if p.HasDefault {
			r.Attrs |= model.ParamAttrHasDefault
			r.Default = p.Default
		}
		out = append(out, r)
	}
	return out
}

// Event declares an event with add/remove accessors.
func (f *Fixture) Event(owner model.TypeID, name string, t model.TypeID, acc access.Accessibility) model.EntityID {
	mod := f.moduleOf(owner)
	void := f.Known(model.KnownVoid)
	value := []model.Parameter{f.Param("value", t)}
	add := f.accessor(owner, "add_"+name, acc, model.AccessorAdd, void, value)
	remove := f.accessor(owner, "remove_"+name, acc, model.AccessorRemove, void, value)
	return f.M.MustAddEntity(model.Entity{
		Kind:          model.EntityEvent,
		Module:        mod,
		Handle:        f.NextHandle(mod, model.TableEvent),
		Name:          name,
		DeclaringType: owner,
		Access:        acc,
		ReturnType:    t,
		Adder:         add,
		Remover:       remove,
	})
}

// SetFlags ORs flags into an entity and, for properties and events, into
// their accessors.
func (f *Fixture) SetFlags(id model.EntityID, flags model.EntityFlags) {
	var accessors []model.EntityID
	_ = f.M.UpdateEntity(id, func(e *model.Entity) {
		e.Flags |= flags
		accessors = []model.EntityID{e.Getter, e.Setter, e.Adder, e.Remover}
	})
	for _, a := range accessors {
		if a.IsValid() {
			_ = f.M.UpdateEntity(a, func(e *model.Entity) { e.Flags |= flags })
		}
	}
}

// MarkAbstract makes a member and its accessors abstract.
func (f *Fixture) MarkAbstract(id model.EntityID) { f.SetFlags(id, model.FlagAbstract) }

// Annotate appends attributes to an entity.
func (f *Fixture) Annotate(id model.EntityID, attrs ...model.Attribute) {
	_ = f.M.UpdateEntity(id, func(e *model.Entity) { e.Attributes = append(e.Attributes, attrs...) })
}

// AnnotateType appends attributes to a definition.
func (f *Fixture) AnnotateType(id model.TypeID, attrs ...model.Attribute) {
	_ = f.M.UpdateDefinition(id, func(d *model.Definition) { d.Attributes = append(d.Attributes, attrs...) })
}

// Enum declares an enum. pairs alternate field name (string) and value
// (any integer); values are stored in the underlying type's Go type.
// underlying NoTypeID means int.
func (f *Fixture) Enum(ns, name string, module model.ModuleID, underlying model.TypeID, flags bool, pairs ...any) model.TypeID {
	if !module.IsValid() {
		module = f.User
	}
	if !underlying.IsValid() {
		underlying = f.Known(model.KnownInt32)
	}
	d := model.Definition{
		Module:         module,
		Handle:         f.NextHandle(module, model.TableTypeDef),
		Namespace:      ns,
		Name:           name,
		Kind:           model.DefEnum,
		Flags:          model.DefFlagSealed,
		Access:         access.Public,
		BaseTypes:      []model.TypeID{f.Known(model.KnownEnum)},
		EnumUnderlying: underlying,
	}
	if flags {
		d.Attributes = []model.Attribute{f.Attr(f.Known(model.KnownFlagsAttribute), f.FlagsCtor)}
	}
	id := f.M.MustDefineType(d)
	k := f.M.KnownOf(underlying)
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Const(id, pairs[i].(string), id, access.Public, EnumValue(k, toInt64(pairs[i+1])))
	}
	return id
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	case uint64:
		return int64(x)
	case int32:
		return int64(x)
	case uint32:
		return int64(x)
	default:
		panic(fmt.Sprintf("testkit: enum value %T", v))
	}
}

// EnumValue converts raw to the Go representation of the underlying type,
// truncating to its width.
func EnumValue(k model.KnownType, raw int64) any {
	switch k {
	case model.KnownSByte:
		return int8(raw)
	case model.KnownByte:
		return uint8(raw)
	case model.KnownInt16:
		return int16(raw)
	case model.KnownUInt16:
		return uint16(raw)
	case model.KnownUInt32:
		return uint32(raw)
	case model.KnownInt64:
		return raw
	case model.KnownUInt64:
		return uint64(raw)
	default:
		return int32(raw)
	}
}
