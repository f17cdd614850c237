package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var all = []Accessibility{None, Private, ProtectedAndInternal, Internal, Protected, ProtectedOrInternal, Public}

func TestMergeTable(t *testing.T) {
	cases := []struct {
		left, right, want Accessibility
	}{
		{Public, None, Public},
		{Private, Public, Public},
		{ProtectedOrInternal, Private, ProtectedOrInternal},
		{Protected, Internal, ProtectedOrInternal},
		{Internal, Protected, ProtectedOrInternal},
		{Protected, Private, Protected},
		{ProtectedAndInternal, Protected, Protected},
		{Internal, ProtectedAndInternal, Internal},
		{Private, Internal, Internal},
		{ProtectedAndInternal, Private, ProtectedAndInternal},
		{Private, None, Private},
		{None, None, None},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Merge(tc.left, tc.right), "%v + %v", tc.left, tc.right)
	}
}

func TestMergeLatticeLaws(t *testing.T) {
	for _, a := range all {
		assert.Equal(t, a, Merge(a, a), "idempotent for %v", a)
		assert.Equal(t, Public, Merge(Public, a))
		for _, b := range all {
			assert.Equal(t, Merge(a, b), Merge(b, a), "commutative for %v, %v", a, b)
		}
	}
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, ProtectedAndInternal, Intersect(Protected, Internal))
	assert.Equal(t, Private, Intersect(Public, Private))
	assert.Equal(t, Internal, Intersect(ProtectedOrInternal, Internal))
	for _, a := range all {
		assert.Equal(t, a, Intersect(a, a))
		assert.Equal(t, a, Intersect(Public, a))
	}
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"private", "protected"}, ProtectedAndInternal.Keywords())
	assert.Equal(t, []string{"protected", "internal"}, ProtectedOrInternal.Keywords())
	assert.Nil(t, None.Keywords())
	assert.Equal(t, "protected internal", ProtectedOrInternal.String())
}
