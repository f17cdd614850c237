package astbuild_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"projector/internal/astbuild"
	"projector/internal/diag"
	"projector/internal/format"
	"projector/internal/metadata"
	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/syntax"
	"projector/internal/testkit"
)

type scope struct {
	ns      string
	usings  []string
	aliases []resolve.Alias
}

func newBuilder(f *testkit.Fixture, sc scope, mutate func(*astbuild.Options)) (*astbuild.Builder, *diag.Bag) {
	opts := astbuild.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	members := metadata.NewMembers(f.M)
	ctx := resolve.NewContext(f.M, members, resolve.ForNamespace(sc.ns, sc.usings, sc.aliases))
	bag := diag.NewBag(64)
	return astbuild.New(members, ctx, opts).WithReporter(diag.NewBagReporter(bag)), bag
}

func renderDecl(t *testing.T, d syntax.Decl) string {
	t.Helper()
	out, err := format.Decl(d, format.Options{})
	require.NoError(t, err)
	return strings.TrimSpace(string(out))
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func exceptionType(t *testing.T, f *testkit.Fixture) model.TypeID {
	t.Helper()
	id, ok := f.M.FindType("System", "Exception", 0)
	require.True(t, ok)
	return id
}
