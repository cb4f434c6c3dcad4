// FILE: lixenwraith/libconfig/path_test.go
package libconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pathFixture = `
g = {
  a = { b = 5; };
  list = ( "zero", { deep = true; }, [ 7, 8 ] );
};
Case = 1;
`

func TestResolve(t *testing.T) {
	d, err := FromString(pathFixture)
	require.NoError(t, err)
	g, ok := d.Lookup("g")
	require.True(t, ok)

	t.Run("Relative", func(t *testing.T) {
		b, ok := g.Lookup("a.b")
		require.True(t, ok)
		assert.Equal(t, int32(5), b.AsInt32Or(0))

		_, ok = g.Lookup("a.missing")
		assert.False(t, ok)
	})

	t.Run("Indices", func(t *testing.T) {
		assert.Equal(t, "zero", d.Value("g.list.0").AsStringOr(""))
		assert.True(t, d.Value("g.list.1.deep").AsBoolOr(false))
		assert.Equal(t, int32(8), d.Value("g.list.2.1").AsInt32Or(0))
	})

	t.Run("Empty", func(t *testing.T) {
		self, ok := g.Lookup("")
		require.True(t, ok)
		assert.Equal(t, g.ref, self.ref)
	})

	t.Run("Misses", func(t *testing.T) {
		for _, path := range []string{
			"g..a",
			".g",
			"g.",
			"g.list.3",
			"g.list.-1",
			"g.list.x",
			"g.list.+1",
			"g.a.b.c",
			"case",
			"g.list.0.x",
		} {
			_, ok := d.Lookup(path)
			assert.False(t, ok, path)
		}
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		_, ok := d.Lookup("Case")
		assert.True(t, ok)
	})

	t.Run("PathRoundTrip", func(t *testing.T) {
		deep, ok := d.Lookup("g.list.1.deep")
		require.True(t, ok)
		assert.Equal(t, "g.list.1.deep", deep.Path())
		assert.Equal(t, "", d.Root().Path())
	})
}

func TestCreatePath(t *testing.T) {
	t.Run("CreatesIntermediateGroups", func(t *testing.T) {
		d := New()
		s, err := d.Root().CreatePath("server.tls.port", KindInt32, Int32Value(443))
		require.NoError(t, err)
		assert.Equal(t, "server.tls.port", s.Path())
		assert.True(t, d.Value("server.tls").IsGroup())
		assert.Equal(t, int32(443), d.Value("server.tls.port").AsInt32Or(0))
	})

	t.Run("ExistingSameKind", func(t *testing.T) {
		d := New()
		first, err := d.Root().CreatePath("a.b", KindString, StringValue("one"))
		require.NoError(t, err)
		second, err := d.Root().CreatePath("a.b", KindString, StringValue("two"))
		require.NoError(t, err)
		assert.Equal(t, first.ref, second.ref)
		assert.Equal(t, "two", d.Value("a.b").AsStringOr(""))

		grp, err := d.Root().CreatePath("a", KindGroup, Value{})
		require.NoError(t, err)
		assert.Equal(t, 1, grp.Len())
	})

	t.Run("ExistingDifferentKind", func(t *testing.T) {
		d := New()
		_, err := d.Root().CreatePath("a.b", KindInt32, Int32Value(1))
		require.NoError(t, err)
		_, err = d.Root().CreatePath("a.b", KindString, StringValue("x"))
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("IntermediateNotGroupIsAtomic", func(t *testing.T) {
		d, err := FromString("a = { b = 1; };")
		require.NoError(t, err)
		before := d.Serialize()

		_, err = d.Root().CreatePath("a.b.c.d", KindBool, BoolValue(true))
		assert.ErrorIs(t, err, ErrNotAGroup)
		assert.Equal(t, before, d.Serialize())
	})

	t.Run("Invalid", func(t *testing.T) {
		d := New()
		_, err := d.Root().CreatePath("", KindGroup, Value{})
		assert.ErrorIs(t, err, ErrInvalidPath)
		_, err = d.Root().CreatePath("a..b", KindGroup, Value{})
		assert.ErrorIs(t, err, ErrInvalidPath)
		_, err = d.Root().CreatePath("a.0", KindGroup, Value{})
		assert.ErrorIs(t, err, ErrInvalidName)
		_, err = d.Root().CreatePath("a", KindInt32, StringValue("x"))
		assert.ErrorIs(t, err, ErrTypeMismatch)
		_, err = d.Root().CreatePath("a", KindNone, Value{})
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.Equal(t, 0, d.Root().Len())
	})
}

func TestViewNavigation(t *testing.T) {
	d, err := FromString(pathFixture)
	require.NoError(t, err)

	list, ok := d.Lookup("g.list")
	require.True(t, ok)
	assert.True(t, list.IsList())
	assert.True(t, list.IsAggregate())
	assert.Equal(t, 3, list.Len())

	elem, ok := list.Elem(2)
	require.True(t, ok)
	assert.True(t, elem.IsArray())
	_, named := elem.Name()
	assert.False(t, named, "elements are unnamed")
	idx, ok := elem.Index()
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	parent, ok := elem.Parent()
	require.True(t, ok)
	assert.Equal(t, list.ref, parent.ref)

	_, ok = d.Root().Parent()
	assert.False(t, ok)
	_, ok = d.Root().Name()
	assert.False(t, ok)
	_, ok = d.Root().Index()
	assert.False(t, ok)

	g, _ := d.Lookup("g")
	name, ok := g.Name()
	require.True(t, ok)
	assert.Equal(t, "g", name)
	assert.False(t, g.IsRoot())
	assert.True(t, d.Root().IsRoot())

	t.Run("Iteration", func(t *testing.T) {
		var kinds []Kind
		for e := range list.Elements() {
			kinds = append(kinds, e.Kind())
		}
		assert.Equal(t, []Kind{KindString, KindGroup, KindArray}, kinds)

		// restartable
		count := 0
		for range list.Elements() {
			count++
		}
		assert.Equal(t, 3, count)

		var names []string
		for name := range g.Members() {
			names = append(names, name)
		}
		assert.Equal(t, []string{"a", "list"}, names)

		for range g.Elements() {
			t.Fatal("groups have no elements")
		}
		for range list.Members() {
			t.Fatal("lists have no members")
		}
	})

	t.Run("Scalars", func(t *testing.T) {
		arr := d.Value("g.list.2")
		first, ok := arr.Elem(0)
		require.True(t, ok)
		assert.True(t, first.IsScalar())
		assert.True(t, first.IsNumber())
		assert.Equal(t, 0, first.Len())

		_, err := arr.Value()
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("ZeroView", func(t *testing.T) {
		var v View
		assert.False(t, v.Exists())
		assert.ErrorIs(t, v.Err(), ErrElementNotExists)
		assert.Equal(t, KindNone, v.Kind())
		_, ok := v.Lookup("a")
		assert.False(t, ok)
		_, err := v.AsInt32()
		assert.ErrorIs(t, err, ErrElementNotExists)
	})
}
