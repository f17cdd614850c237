package driver_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/access"
	"projector/internal/astbuild"
	"projector/internal/config"
	"projector/internal/diag"
	"projector/internal/driver"
	"projector/internal/format"
	"projector/internal/model"
	"projector/internal/syntax"
	"projector/internal/testkit"
	"projector/internal/trace"
)

func sampleConfig() *config.Config {
	cfg := config.Default()
	cfg.Scope = config.Scope{
		Namespace: testkit.SampleNamespace,
		Usings:    []string{"System", "System.Collections.Generic"},
	}
	cfg.Jobs = 2
	return cfg
}

func newSession(t *testing.T, s *testkit.Sample) (*driver.Session, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	sess, err := driver.NewSession(s.M, sampleConfig(), diag.NewBagReporter(bag))
	require.NoError(t, err)
	return sess, bag
}

func render(t *testing.T, d syntax.Decl) string {
	t.Helper()
	out, err := format.Decl(d, format.Options{})
	require.NoError(t, err)
	return string(out)
}

func TestDeclareEnumWithMembers(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	d, err := sess.DeclareType(context.Background(), s.Edges)
	require.NoError(t, err)
	assert.Equal(t, `[Flags]
public enum Edges : byte
{
    None = 0,
    Top = 1,
    Bottom = 2,
    Left = 4,
    Right = 8,
    All = 15
}
`, render(t, d))
}

func TestDeclareClassWithMembers(t *testing.T) {
	s := testkit.NewSample()
	sess, bag := newSession(t, s)
	d, err := sess.DeclareType(context.Background(), s.Circle)
	require.NoError(t, err)
	text := render(t, d)

	assert.True(t, strings.HasPrefix(text, "[Unit(Units.Points)]\npublic sealed class Circle : Shape\n{\n"), text)
	for _, want := range []string{
		"    private readonly double radius;\n",
		"    public Circle(double radius);\n",
		"    public override double Area { get; }\n",
		"    [Obsolete(\"use Diameter\")]\n    public double Width { get; }\n",
		"    public double Diameter { get; set; }\n",
		"    public override string Describe();\n",
		"    string IShape.Describe();\n",
		"    public static Circle operator +(Circle a, Circle b);\n",
		"    public static explicit operator double(Circle c);\n",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "get_", "accessors print inside their property")
	assert.Zero(t, bag.Len(), "%v", bag.Items())
}

func TestDeclareMembersWithDefaultsAndExtensions(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	ctx := context.Background()

	d, err := sess.DeclareType(ctx, s.Shape)
	require.NoError(t, err)
	text := render(t, d)
	assert.Contains(t, text, "public abstract class Shape : IShape\n")
	assert.Contains(t, text, "    public const string DefaultName = \"shape\";\n")
	assert.Contains(t, text, "    public abstract double Area { get; }\n")
	assert.Contains(t, text, "    public event ShapeChanged Changed;\n")
	assert.Contains(t, text,
		"    public void Resize(double factor, Edges edges = Edges.Top | Edges.Right, Units unit = Units.Points);\n")

	d, err = sess.DeclareType(ctx, s.Extensions)
	require.NoError(t, err)
	text = render(t, d)
	assert.Contains(t, text, "public static class ShapeExtensions\n")
	assert.Contains(t, text, "    public static double Perimeter(this Circle circle);\n")
	assert.Contains(t, text,
		"    public static Shape Largest(this IEnumerable<Shape> shapes, Shape fallback = null);\n")
	assert.NotContains(t, text, "Extension]")
}

func TestDeclareGenericStructWithNestedType(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	d, err := sess.DeclareType(context.Background(), s.Point)
	require.NoError(t, err)
	text := render(t, d)
	assert.True(t, strings.HasPrefix(text, "public struct Point<T> where T : struct\n{\n"), text)
	assert.Contains(t, text, "    public readonly T X;\n")
	assert.Contains(t, text, "    public T this[int axis] { get; }\n")
	assert.Contains(t, text, "    public Point<TResult> Map<TResult>(Func<T, TResult> selector) where TResult : struct;\n")
	assert.Contains(t, text, "    public sealed class Comparer\n    {\n        public int Compare(Point<T> a, Point<T> b);\n    }\n")
}

func TestDeclareDelegateHasNoBody(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	d, err := sess.DeclareType(context.Background(), s.Changed)
	require.NoError(t, err)
	require.IsType(t, &syntax.DelegateDecl{}, d)
	assert.Contains(t, render(t, d), "delegate void ShapeChanged(Shape shape);")
}

func TestDeclareMember(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	sub, err := sess.FindSubject("Acme.Geometry.Circle.Diameter")
	require.NoError(t, err)
	require.Len(t, sub.Members, 1)
	assert.Equal(t, s.Circle, sub.Type)
	d, err := sess.DeclareMember(context.Background(), sub.Members[0])
	require.NoError(t, err)
	assert.Equal(t, "public double Diameter { get; set; }\n", render(t, d))

	_, err = sess.DeclareMember(context.Background(), model.EntityID(1<<30))
	require.ErrorIs(t, err, astbuild.ErrInvalidArgument)
}

func TestFindSubject(t *testing.T) {
	s := testkit.NewSample()
	sess, bag := newSession(t, s)

	sub, err := sess.FindSubject("Acme.Geometry.Point`1")
	require.NoError(t, err)
	assert.Equal(t, s.Point, sub.Type)
	assert.Empty(t, sub.Members)

	sub, err = sess.FindSubject("Acme.Geometry.Point`1+Comparer")
	require.NoError(t, err)
	d, _ := s.M.Definition(sub.Type)
	assert.Equal(t, "Comparer", d.Name)

	_, err = sess.FindSubject("Acme.Geometry.Circle.Volume")
	require.ErrorIs(t, err, driver.ErrUnknownSubject)
	require.Len(t, bag.Items(), 1)
	assert.Equal(t, diag.CfgUnknownSubject, bag.Items()[0].Code)
}

func TestTopLevelTypes(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	var names []string
	for _, id := range sess.TopLevelTypes("Acme") {
		names = append(names, s.M.FullName(id))
	}
	assert.Equal(t, []string{
		"Acme.Geometry.Circle",
		"Acme.Geometry.Edges",
		"Acme.Geometry.IShape",
		"Acme.Geometry.Point`1",
		"Acme.Geometry.Shape",
		"Acme.Geometry.ShapeChanged",
		"Acme.Geometry.ShapeExtensions",
		"Acme.Geometry.UnitAttribute",
		"Acme.Geometry.Units",
	}, names)
	assert.Empty(t, sess.TopLevelTypes("Nowhere"))
	assert.Greater(t, len(sess.TopLevelTypes("")), len(names))
}

func TestProjectAllMatchesSequential(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	ctx := context.Background()
	ids := sess.TopLevelTypes("")

	results, err := sess.ProjectAll(ctx, ids)
	require.NoError(t, err)
	require.Len(t, results, len(ids))
	for i, r := range results {
		require.NoError(t, r.Err, r.Name)
		assert.Equal(t, ids[i], r.Type)
		assert.Equal(t, s.M.FullName(ids[i]), r.Name)
		want, err := sess.DeclareType(ctx, ids[i])
		require.NoError(t, err)
		assert.Equal(t, render(t, want), render(t, r.Decl), r.Name)
	}

	empty, err := sess.ProjectAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProjectAllStopsOnCancel(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sess.ProjectAll(ctx, sess.TopLevelTypes(""))
	require.ErrorIs(t, err, context.Canceled)
}

func TestProjectAllTracesTypes(t *testing.T) {
	s := testkit.NewSample()
	sess, _ := newSession(t, s)
	ring := trace.NewRingTracer(1024, trace.LevelDebug)
	sess.WithTracer(ring)

	_, err := sess.ProjectAll(context.Background(), []model.TypeID{s.Circle, s.Edges})
	require.NoError(t, err)

	var types []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd && ev.Scope == trace.ScopeType {
			types = append(types, ev.Extra["type"])
			assert.Positive(t, ev.Worker)
		}
	}
	assert.ElementsMatch(t, []string{"Acme.Geometry.Circle", "Acme.Geometry.Edges"}, types)
}

func TestCheckSampleRoundTrips(t *testing.T) {
	s := testkit.NewSample()
	sess, bag := newSession(t, s)
	mismatches, err := sess.Check(context.Background(), sess.TopLevelTypes(""))
	require.NoError(t, err)
	assert.Empty(t, mismatches)
	assert.False(t, bag.HasWarnings())
}

func TestCheckReportsAmbiguousShortNames(t *testing.T) {
	f := testkit.NewCorlib()
	alpha := f.Class("Alpha", "Widget")
	f.Class("Beta", "Widget")
	user := f.Class("App", "User")
	f.Field(user, "w", alpha, access.Public, 0)

	cfg := config.Default()
	cfg.Options.AlwaysUseShortTypeNames = true
	cfg.Scope = config.Scope{Namespace: "App", Usings: []string{"Alpha", "Beta"}}
	bag := diag.NewBag(16)
	sess, err := driver.NewSession(f.M, cfg, diag.NewBagReporter(bag))
	require.NoError(t, err)

	mismatches, err := sess.Check(context.Background(), []model.TypeID{user})
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "App.User.w", mismatches[0].Where)
	assert.Equal(t, "Widget", mismatches[0].Text)
	assert.Equal(t, alpha, mismatches[0].Want)
	codes := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, diag.NameRoundTrip)
}

func TestNewSessionRejectsUnknownAlias(t *testing.T) {
	s := testkit.NewSample()
	cfg := sampleConfig()
	cfg.Scope.Aliases = map[string]string{"X": "Nowhere.Thing"}
	bag := diag.NewBag(4)
	_, err := driver.NewSession(s.M, cfg, diag.NewBagReporter(bag))
	require.ErrorIs(t, err, config.ErrUnknownAlias)
	require.Len(t, bag.Items(), 1)
	assert.Equal(t, diag.CfgUnknownAlias, bag.Items()[0].Code)
}
