package testkit

import (
	"projector/internal/access"
	"projector/internal/model"
)

// SampleNamespace holds the user types built by NewSample.
const SampleNamespace = "Acme.Geometry"

// Sample is the corlib fixture plus a small geometry library exercising
// every declaration form the projector emits.
type Sample struct {
	*Fixture

	Edges      model.TypeID // [Flags] enum Edges : byte
	Units      model.TypeID
	IShape     model.TypeID
	Shape      model.TypeID // abstract class Shape : IShape
	Circle     model.TypeID
	Point      model.TypeID // struct Point<T> where T : struct
	Extensions model.TypeID // static class ShapeExtensions
	Changed    model.TypeID // delegate void ShapeChanged(Shape shape)
	UnitAttr   model.TypeID
}

// NewSample builds the sample library on top of NewCorlib.
func NewSample() *Sample {
	s := &Sample{Fixture: NewCorlib()}
	s.build()
	return s
}

func (s *Sample) build() {
	const ns = SampleNamespace
	m := s.M
	void := s.Known(model.KnownVoid)
	dbl := s.Known(model.KnownDouble)
	i32 := s.Known(model.KnownInt32)
	str := s.Known(model.KnownString)
	obj := s.Known(model.KnownObject)

	s.Edges = s.Enum(ns, "Edges", model.NoModuleID, s.Known(model.KnownByte), true,
		"None", 0, "Top", 1, "Bottom", 2, "Left", 4, "Right", 8, "All", 15)
	s.Units = s.Enum(ns, "Units", model.NoModuleID, model.NoTypeID, false,
		"Pixels", 0, "Points", 1, "Millimeters", 2)

	s.UnitAttr = s.Class(ns, "UnitAttribute", s.Known(model.KnownAttribute))
	_ = m.UpdateDefinition(s.UnitAttr, func(d *model.Definition) { d.Flags |= model.DefFlagSealed })
	unitCtor := s.Ctor(s.UnitAttr, access.Public, s.Param("unit", s.Units))
	s.Property(s.UnitAttr, "Unit", s.Units, access.Public, access.None)

	s.Changed = s.Define(model.Definition{Namespace: ns, Name: "ShapeChanged", Kind: model.DefDelegate,
		Flags: model.DefFlagSealed, BaseTypes: []model.TypeID{s.Known(model.KnownMulticastDelegate)}})
	s.Ctor(s.Changed, access.Public, s.Param("object", obj), s.Param("method", s.Known(model.KnownIntPtr)))

	s.IShape = s.Interface(ns, "IShape")
	area := s.Property(s.IShape, "Area", dbl, access.Public, access.None)
	s.MarkAbstract(area)
	describe := s.Method(s.IShape, "Describe", access.Public, model.FlagAbstract|model.FlagVirtual, str)

	s.Shape = s.Define(model.Definition{Namespace: ns, Name: "Shape", Kind: model.DefClass,
		Flags: model.DefFlagAbstract, BaseTypes: []model.TypeID{obj, s.IShape}})
	// Delegate Invoke refers to Shape, so it is added once Shape exists.
	s.Method(s.Changed, "Invoke", access.Public, model.FlagVirtual, void, s.Param("shape", s.Shape))

	s.Const(s.Shape, "DefaultName", str, access.Public, "shape")
	s.Const(s.Shape, "Epsilon", dbl, access.Public, 1e-9)
	s.Field(s.Shape, "created", i32, access.Private, model.FlagStatic)
	s.Ctor(s.Shape, access.Protected)
	shapeArea := s.Property(s.Shape, "Area", dbl, access.Public, access.None)
	s.SetFlags(shapeArea, model.FlagAbstract|model.FlagVirtual)
	s.Method(s.Shape, "Describe", access.Public, model.FlagVirtual, str)
	s.Event(s.Shape, "Changed", s.Changed, access.Public)
	s.Method(s.Shape, "Resize", access.Public, 0, void,
		s.Param("factor", dbl),
		model.Parameter{Name: "edges", Type: s.Edges, Optional: true, HasDefault: true, Default: uint8(1 | 8)},
		model.Parameter{Name: "unit", Type: s.Units, Optional: true, HasDefault: true, Default: int32(1)},
	)

	s.Circle = s.Define(model.Definition{Namespace: ns, Name: "Circle", Kind: model.DefClass,
		Flags: model.DefFlagSealed, BaseTypes: []model.TypeID{s.Shape}})
	s.AnnotateType(s.Circle, s.Attr(s.UnitAttr, unitCtor, s.Value(s.Units, int32(1))))
	s.Field(s.Circle, "radius", dbl, access.Private, model.FlagReadOnly)
	s.Ctor(s.Circle, access.Public, s.Param("radius", dbl))
	circleArea := s.Property(s.Circle, "Area", dbl, access.Public, access.None)
	s.SetFlags(circleArea, model.FlagVirtual|model.FlagOverride)
	width := s.Property(s.Circle, "Width", dbl, access.Public, access.None)
	s.Annotate(width, s.Attr(s.ObsoleteAttr, s.ObsoleteCtor, s.Value(str, "use Diameter")))
	s.Property(s.Circle, "Diameter", dbl, access.Public, access.Public)
	s.Method(s.Circle, "Describe", access.Public, model.FlagVirtual|model.FlagOverride, str)
	explicit := s.Method(s.Circle, ns+".IShape.Describe", access.Private, model.FlagVirtual|model.FlagSealed, str)
	_ = m.UpdateEntity(explicit, func(e *model.Entity) { e.ExplicitImpls = []model.EntityID{describe} })
	m.MustAddEntity(model.Entity{
		Kind: model.EntityOperator, Module: s.User, Handle: s.NextHandle(s.User, model.TableMethod),
		Name: "op_Addition", DeclaringType: s.Circle, Access: access.Public, Flags: model.FlagStatic,
		ReturnType: s.Circle, Parameters: []model.Parameter{s.Param("a", s.Circle), s.Param("b", s.Circle)},
	})
	m.MustAddEntity(model.Entity{
		Kind: model.EntityOperator, Module: s.User, Handle: s.NextHandle(s.User, model.TableMethod),
		Name: "op_Explicit", DeclaringType: s.Circle, Access: access.Public, Flags: model.FlagStatic,
		ReturnType: dbl, Parameters: []model.Parameter{s.Param("c", s.Circle)},
	})

	s.Point = s.Struct(ns, "Point")
	pt := m.AddTypeParams(s.Point, model.TypeParam{Name: "T", Constraints: model.ConstraintValueType})
	s.Field(s.Point, "X", pt[0], access.Public, model.FlagReadOnly)
	s.Field(s.Point, "Y", pt[0], access.Public, model.FlagReadOnly)
	s.Indexer(s.Point, "Item", pt[0], access.Public, access.None, s.Param("axis", i32))
	mapFn := s.Method(s.Point, "Map", access.Public, 0, model.NoTypeID)
	mt := m.AddMethodTypeParams(mapFn, model.TypeParam{Name: "TResult", Constraints: model.ConstraintValueType})
	_ = m.UpdateEntity(mapFn, func(e *model.Entity) {
		e.ReturnType = m.Parameterized(s.Point, mt[0])
		e.Parameters = []model.Parameter{s.Param("selector", m.Parameterized(s.Func, pt[0], mt[0]))}
	})
	cmp := s.Nested(s.Point, "Comparer", model.DefClass, access.Public)
	_ = m.UpdateDefinition(cmp, func(d *model.Definition) { d.Flags |= model.DefFlagSealed })
	cmpT, _ := m.Definition(cmp)
	s.Method(cmp, "Compare", access.Public, 0, i32,
		s.Param("a", m.Parameterized(s.Point, cmpT.TypeParams[0])),
		s.Param("b", m.Parameterized(s.Point, cmpT.TypeParams[0])))

	s.Extensions = s.Define(model.Definition{Namespace: ns, Name: "ShapeExtensions", Kind: model.DefClass,
		Flags: model.DefFlagAbstract | model.DefFlagSealed, BaseTypes: []model.TypeID{obj}})
	ext := s.Known(model.KnownExtensionAttribute)
	s.AnnotateType(s.Extensions, model.Attribute{Type: ext})
	perimeter := s.Method(s.Extensions, "Perimeter", access.Public, model.FlagStatic|model.FlagExtension, dbl,
		s.Param("circle", s.Circle))
	s.Annotate(perimeter, model.Attribute{Type: ext})
	s.Method(s.Extensions, "Largest", access.Public, model.FlagStatic|model.FlagExtension, s.Shape,
		s.Param("shapes", m.Parameterized(s.IEnumerable, s.Shape)),
		model.Parameter{Name: "fallback", Type: s.Shape, Optional: true, HasDefault: true, Default: nil})
}
