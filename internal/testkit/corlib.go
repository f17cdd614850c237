// Package testkit builds small but realistic program models: a core library
// with the System types the projector recognizes, a handful of generic
// collections, and helpers to declare user types and members on top.
//
// The same fixture backs the package tests and the CLI's `sample` command.
package testkit

import (
	"projector/internal/access"
	"projector/internal/model"
)

// Fixture is a model under construction plus the handles it has assigned.
type Fixture struct {
	M    *model.Model
	Core model.ModuleID
	User model.ModuleID

	rows map[rowKey]uint32

	// Frequently used core definitions.
	List           model.TypeID // System.Collections.Generic.List<T>
	ListEnumerator model.TypeID // List<T>.Enumerator
	Dictionary     model.TypeID // System.Collections.Generic.Dictionary<TKey, TValue>
	IEnumerable    model.TypeID // System.Collections.Generic.IEnumerable<T>
	IList          model.TypeID // System.Collections.Generic.IList<T>
	Func           model.TypeID // System.Func<T, TResult>
	DayOfWeek      model.TypeID // System.DayOfWeek
	AttrTargets    model.TypeID // System.AttributeTargets ([Flags])
	ObsoleteAttr   model.TypeID // System.ObsoleteAttribute

	AttributeCtor    model.EntityID
	FlagsCtor        model.EntityID
	ObsoleteCtor     model.EntityID // ObsoleteAttribute(string message)
	ObsoleteCtorBool model.EntityID // ObsoleteAttribute(string message, bool error)
	NotImplCtor      model.EntityID
}

type rowKey struct {
	module model.ModuleID
	table  model.Handle
}

// NewCorlib returns a fixture holding the core library and an empty user
// module.
func NewCorlib() *Fixture {
	f := &Fixture{
		M:    model.New(),
		rows: make(map[rowKey]uint32),
	}
	f.Core = f.M.AddModule("System.Private.CoreLib")
	f.User = f.M.AddModule("Sample")
	f.buildCore()
	return f
}

// NextHandle allocates the next row of table in module.
func (f *Fixture) NextHandle(module model.ModuleID, table model.Handle) model.Handle {
	k := rowKey{module, table}
	f.rows[k]++
	return model.MakeHandle(table, f.rows[k])
}

// Known returns a core type by known-type code.
func (f *Fixture) Known(k model.KnownType) model.TypeID {
	return f.M.KnownType(k)
}

func (f *Fixture) core(ns, name string, kind model.DefKind, base model.TypeID) model.TypeID {
	d := model.Definition{
		Module:    f.Core,
		Handle:    f.NextHandle(f.Core, model.TableTypeDef),
		Namespace: ns,
		Name:      name,
		Kind:      kind,
		Access:    access.Public,
	}
	if kind == model.DefStruct || kind == model.DefEnum {
		d.Flags = model.DefFlagSealed
	}
	if base.IsValid() {
		d.BaseTypes = []model.TypeID{base}
	}
	return f.M.MustDefineType(d)
}

func (f *Fixture) buildCore() {
	obj := f.core("System", "Object", model.DefClass, model.NoTypeID)
	valueType := f.core("System", "ValueType", model.DefClass, obj)
	f.M.MustDefineType(model.Definition{
		Module: f.Core, Handle: f.NextHandle(f.Core, model.TableTypeDef),
		Namespace: "System", Name: "Enum", Kind: model.DefClass,
		Flags: model.DefFlagAbstract, Access: access.Public, BaseTypes: []model.TypeID{valueType},
	})
	del := f.core("System", "Delegate", model.DefClass, obj)
	f.core("System", "MulticastDelegate", model.DefClass, del)
	f.core("System", "Void", model.DefStruct, valueType)

	for _, name := range []string{
		"Boolean", "Char", "SByte", "Byte", "Int16", "UInt16", "Int32", "UInt32",
		"Int64", "UInt64", "Single", "Double", "Decimal", "IntPtr", "UIntPtr", "TypedReference",
	} {
		f.core("System", name, model.DefStruct, valueType)
	}
	f.core("System", "String", model.DefClass, obj)
	f.core("System", "Type", model.DefClass, obj)

	nullable := f.core("System", "Nullable", model.DefStruct, valueType)
	f.M.AddTypeParams(nullable, model.TypeParam{Name: "T", Constraints: model.ConstraintValueType})

	attr := f.core("System", "Attribute", model.DefClass, obj)
	_ = f.M.UpdateDefinition(attr, func(d *model.Definition) { d.Flags = model.DefFlagAbstract })
	f.AttributeCtor = f.Ctor(attr, access.Protected)

	flags := f.core("System", "FlagsAttribute", model.DefClass, attr)
	f.FlagsCtor = f.Ctor(flags, access.Public)
	paramArray := f.core("System", "ParamArrayAttribute", model.DefClass, attr)
	f.Ctor(paramArray, access.Public)
	defMember := f.core("System.Reflection", "DefaultMemberAttribute", model.DefClass, attr)
	f.Ctor(defMember, access.Public, f.Param("memberName", f.Known(model.KnownString)))
	ext := f.core("System.Runtime.CompilerServices", "ExtensionAttribute", model.DefClass, attr)
	f.Ctor(ext, access.Public)

	f.ObsoleteAttr = f.core("System", "ObsoleteAttribute", model.DefClass, attr)
	str := f.Known(model.KnownString)
	f.ObsoleteCtor = f.Ctor(f.ObsoleteAttr, access.Public, f.Param("message", str))
	f.ObsoleteCtorBool = f.Ctor(f.ObsoleteAttr, access.Public,
		f.Param("message", str), f.Param("error", f.Known(model.KnownBoolean)))

	exc := f.core("System", "Exception", model.DefClass, obj)
	notImpl := f.core("System", "NotImplementedException", model.DefClass, exc)
	f.NotImplCtor = f.Ctor(notImpl, access.Public)

	f.Func = f.core("System", "Func", model.DefDelegate, f.Known(model.KnownMulticastDelegate))
	fargs := f.M.AddTypeParams(f.Func,
		model.TypeParam{Name: "T", Variance: model.Contravariant},
		model.TypeParam{Name: "TResult", Variance: model.Covariant})
	f.Method(f.Func, "Invoke", access.Public, model.FlagVirtual, fargs[1], f.Param("arg", fargs[0]))
	f.Ctor(f.Func, access.Public, f.Param("object", obj), f.Param("method", f.Known(model.KnownIntPtr)))

	f.DayOfWeek = f.Enum("System", "DayOfWeek", f.Core, model.NoTypeID, false,
		"Sunday", 0, "Monday", 1, "Tuesday", 2, "Wednesday", 3, "Thursday", 4, "Friday", 5, "Saturday", 6)
	f.AttrTargets = f.Enum("System", "AttributeTargets", f.Core, model.NoTypeID, true,
		"Assembly", 1, "Module", 2, "Class", 4, "Struct", 8, "Enum", 16, "Constructor", 32,
		"Method", 64, "Property", 128, "Field", 256, "Event", 512, "Interface", 1024,
		"Parameter", 2048, "Delegate", 4096, "ReturnValue", 8192, "GenericParameter", 16384,
		"All", 32767)

	const generic = "System.Collections.Generic"
	f.IEnumerable = f.core(generic, "IEnumerable", model.DefInterface, model.NoTypeID)
	f.M.AddTypeParams(f.IEnumerable, model.TypeParam{Name: "T", Variance: model.Covariant})
	f.IList = f.core(generic, "IList", model.DefInterface, model.NoTypeID)
	ilT := f.M.AddTypeParams(f.IList, model.TypeParam{Name: "T"})
	_ = f.M.UpdateDefinition(f.IList, func(d *model.Definition) {
		d.BaseTypes = []model.TypeID{f.M.Parameterized(f.IEnumerable, ilT[0])}
	})
	iListItem := f.Indexer(f.IList, "Item", ilT[0], access.Public, access.Public,
		f.Param("index", f.Known(model.KnownInt32)))
	f.MarkAbstract(iListItem)

	f.List = f.core(generic, "List", model.DefClass, obj)
	listT := f.M.AddTypeParams(f.List, model.TypeParam{Name: "T"})
	_ = f.M.UpdateDefinition(f.List, func(d *model.Definition) {
		d.BaseTypes = append(d.BaseTypes, f.M.Parameterized(f.IList, listT[0]))
	})
	f.ListEnumerator = f.M.MustDefineType(model.Definition{
		Module: f.Core, Handle: f.NextHandle(f.Core, model.TableTypeDef),
		Name: "Enumerator", Kind: model.DefStruct, Flags: model.DefFlagSealed,
		Access: access.Public, DeclaringType: f.List,
		BaseTypes: []model.TypeID{valueType},
	})
	f.M.InheritTypeParams(f.ListEnumerator)
	f.Indexer(f.List, "Item", listT[0], access.Public, access.Public, f.Param("index", f.Known(model.KnownInt32)))
	f.Property(f.List, "Count", f.Known(model.KnownInt32), access.Public, access.None)

	f.Dictionary = f.core(generic, "Dictionary", model.DefClass, obj)
	f.M.AddTypeParams(f.Dictionary, model.TypeParam{Name: "TKey"}, model.TypeParam{Name: "TValue"})
}
