package structural

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/typly/extension"
	"github.com/viant/typly/types"
)

func TestChecker_IsAssignable(t *testing.T) {
	t.Run("returns widen into the requirement", func(t *testing.T) {
		point := types.NewClass("com.acme.Point")
		point.AddMethod(types.NewMethod("getX", nil, types.Int32))
		point.AddMethod(types.NewMethod("getY", nil, types.Int32))

		coordinates := types.NewStructuralInterface("api.Coordinates")
		coordinates.AddMethod(types.NewMethod("getX", nil, types.Float64))
		coordinates.AddMethod(types.NewMethod("getY", nil, types.Float64))

		checker := New()
		assert.True(t, checker.IsAssignable(point, coordinates))

		binding, err := checker.Bind(point, coordinates)
		require.NoError(t, err)
		assert.False(t, binding.Nominal)
		bound := binding.Lookup("getX()")
		if assert.NotNil(t, bound) {
			assert.Equal(t, BindMethod, bound.Kind)
			assert.Equal(t, "getX", bound.Method.Name)
		}
	})

	t.Run("returns never narrow", func(t *testing.T) {
		wide := types.NewClass("com.acme.WidePoint")
		wide.AddMethod(types.NewMethod("getX", nil, types.Float64))

		narrow := types.NewStructuralInterface("api.NarrowCoordinates")
		narrow.AddMethod(types.NewMethod("getX", nil, types.Int32))

		assert.False(t, New().IsAssignable(wide, narrow))
	})

	t.Run("parameters bind contravariantly", func(t *testing.T) {
		tree := types.NewClass("com.forest.Tree")
		dogwood := types.NewClass("com.forest.Dogwood")
		dogwood.AddSupertype(tree)

		pruner := types.NewStructuralInterface("api.Pruner")
		pruner.AddMethod(types.NewMethod("prune", []types.Param{{Name: "tree", Type: dogwood}}, nil))

		gardener := types.NewClass("com.forest.Gardener")
		gardener.AddMethod(types.NewMethod("prune", []types.Param{{Name: "tree", Type: tree}}, nil))

		specialist := types.NewClass("com.forest.Specialist")
		specialist.AddMethod(types.NewMethod("prune", []types.Param{{Name: "tree", Type: dogwood}}, nil))

		treePruner := types.NewStructuralInterface("api.TreePruner")
		treePruner.AddMethod(types.NewMethod("prune", []types.Param{{Name: "tree", Type: tree}}, nil))

		checker := New()
		assert.True(t, checker.IsAssignable(gardener, pruner), "impl accepting the supertype satisfies")
		assert.True(t, checker.IsAssignable(specialist, pruner))
		assert.False(t, checker.IsAssignable(specialist, treePruner), "impl demanding the subtype does not")
	})

	t.Run("nominal implementation short circuits", func(t *testing.T) {
		closer := types.NewInterface("api.Closer")
		closer.AddMethod(types.NewMethod("close", nil, nil))
		conn := types.NewClass("com.acme.Connection")
		conn.AddSupertype(closer)

		checker := New()
		assert.True(t, checker.IsAssignable(conn, closer))
		assert.False(t, checker.IsAssignable(types.NewClass("com.acme.Other"), closer), "non structural interface demands nominal implementation")
	})
}

func TestChecker_Bind_PropertyFields(t *testing.T) {
	named := types.NewStructuralInterface("api.Named")
	named.AddMethod(types.NewMethod("getName", nil, types.String))
	named.AddMethod(types.NewMethod("setName", []types.Param{{Name: "name", Type: types.String}}, nil))

	t.Run("fields back accessor pairs", func(t *testing.T) {
		person := types.NewClass("com.acme.Person")
		person.AddField(types.NewField("name", types.String))

		checker := New()
		binding, err := checker.Bind(person, named)
		require.NoError(t, err)

		getter := binding.Lookup("getName()")
		if assert.NotNil(t, getter) {
			assert.Equal(t, BindField, getter.Kind)
			assert.Equal(t, "name", getter.Field.Name)
			assert.False(t, getter.Mutator)
		}
		setter := binding.Lookup("setName(string)")
		if assert.NotNil(t, setter) {
			assert.Equal(t, BindField, setter.Kind)
			assert.True(t, setter.Mutator)
		}
	})

	t.Run("method wins over field", func(t *testing.T) {
		person := types.NewClass("com.acme.Titled")
		person.AddField(types.NewField("name", types.String))
		person.AddMethod(types.NewMethod("getName", nil, types.String))
		person.AddMethod(types.NewMethod("setName", []types.Param{{Name: "name", Type: types.String}}, nil))

		binding, err := New().Bind(person, named)
		require.NoError(t, err)
		assert.Equal(t, BindMethod, binding.Lookup("getName()").Kind)
		assert.Equal(t, BindMethod, binding.Lookup("setName(string)").Kind)
	})

	t.Run("snake case fields canonicalize", func(t *testing.T) {
		record := types.NewClass("com.acme.Record")
		record.AddField(types.NewField("first_name", types.String))

		contact := types.NewStructuralInterface("api.Contact")
		contact.AddMethod(types.NewMethod("getFirstName", nil, types.String))

		binding, err := New().Bind(record, contact)
		require.NoError(t, err)
		assert.Equal(t, "first_name", binding.Lookup("getFirstName()").Field.Name)
	})

	t.Run("read only field rejects the mutator", func(t *testing.T) {
		ssn := types.NewField("ssn", types.String)
		ssn.ReadOnly = true
		person := types.NewClass("com.acme.Citizen")
		person.AddField(ssn)

		sealed := types.NewStructuralInterface("api.Sealed")
		sealed.AddMethod(types.NewMethod("getSsn", nil, types.String))
		sealed.AddMethod(types.NewMethod("setSsn", []types.Param{{Name: "ssn", Type: types.String}}, nil))

		_, err := New().Bind(person, sealed)
		notAssignable := &NotAssignableError{}
		if assert.True(t, errors.As(err, &notAssignable)) {
			assert.Equal(t, 1, len(notAssignable.Unsatisfied))
			assert.Contains(t, notAssignable.Unsatisfied[0], "setSsn")
		}
	})
}

func TestChecker_Bind_Extensions(t *testing.T) {
	registry := extension.New()
	tree := types.NewClass("com.forest.Tree")
	require.NoError(t, registry.Register(&extension.Declaration{
		Extended: "com.forest.Tree",
		Kind:     extension.KindInstance,
		Method:   types.NewMethod("describe", []types.Param{{Name: "this", Type: tree}}, types.String),
		Source:   "ext/TreeExt",
	}))
	require.NoError(t, registry.Register(&extension.Declaration{
		Extended: "com.forest.Tree",
		Kind:     extension.KindInterfaceMixin,
		Iface:    "api.Plant",
	}))

	describable := types.NewStructuralInterface("api.Describable")
	describable.AddMethod(types.NewMethod("describe", nil, types.String))

	checker := New(WithExtensions(registry))

	t.Run("extension satisfies a requirement", func(t *testing.T) {
		assert.True(t, checker.IsAssignable(tree, describable))
		binding, err := checker.Bind(tree, describable)
		require.NoError(t, err)
		bound := binding.Lookup("describe()")
		if assert.NotNil(t, bound) {
			assert.Equal(t, BindExtension, bound.Kind)
			assert.Equal(t, "ext/TreeExt", bound.Declaration.Source)
		}
	})

	t.Run("member wins over extension", func(t *testing.T) {
		oak := types.NewClass("com.forest.Oak")
		oak.AddMethod(types.NewMethod("describe", nil, types.String))
		require.NoError(t, registry.Register(&extension.Declaration{
			Extended: "com.forest.Oak",
			Kind:     extension.KindInstance,
			Method:   types.NewMethod("describe", []types.Param{{Name: "this", Type: oak}}, types.String),
			Source:   "ext/OakExt",
		}))
		binding, err := checker.Bind(oak, describable)
		require.NoError(t, err)
		assert.Equal(t, BindMethod, binding.Lookup("describe()").Kind)
	})

	t.Run("interface mixin short circuits assignability", func(t *testing.T) {
		plant := types.NewInterface("api.Plant")
		plant.AddMethod(types.NewMethod("grow", nil, nil))

		assert.True(t, checker.IsAssignable(tree, plant), "mixin declares the implementation")
		dogwood := types.NewClass("com.forest.Dogwood")
		dogwood.AddSupertype(tree)
		assert.True(t, checker.IsAssignable(dogwood, plant), "mixins inherit")

		_, err := checker.Bind(tree, plant)
		assert.NotNil(t, err, "the method map still demands satisfiers")
	})
}

func TestChecker_Bind_DynamicRouter(t *testing.T) {
	container := types.NewStructuralInterface("api.Container")
	container.AddMethod(types.NewMethod("size", nil, types.Int64))
	container.AddMethod(types.NewMethod("clear", nil, nil))

	bag := types.NewClass("com.acme.Bag")
	bag.Dynamic = true
	bag.AddMethod(types.NewMethod("size", nil, types.Int64))

	checker := New()
	binding, err := checker.Bind(bag, container)
	require.NoError(t, err)
	assert.Equal(t, BindMethod, binding.Lookup("size()").Kind, "satisfied members keep static bindings")
	assert.Equal(t, BindRouter, binding.Lookup("clear()").Kind, "unsatisfied members fall back to the router")

	box := types.NewClass("com.acme.Box")
	box.AddMethod(types.NewMethod("size", nil, types.Int64))
	_, err = checker.Bind(box, container)
	notAssignable := &NotAssignableError{}
	if assert.True(t, errors.As(err, &notAssignable)) {
		assert.Contains(t, notAssignable.Unsatisfied[0], "clear")
	}
	assert.False(t, checker.IsAssignable(box, container))
}

func TestChecker_Invalidate(t *testing.T) {
	point := types.NewClass("com.acme.Point")
	point.AddMethod(types.NewMethod("getX", nil, types.Int32))
	coordinates := types.NewStructuralInterface("api.Coordinates")
	coordinates.AddMethod(types.NewMethod("getX", nil, types.Float64))

	checker := New()
	first, err := checker.Bind(point, coordinates)
	require.NoError(t, err)
	second, err := checker.Bind(point, coordinates)
	require.NoError(t, err)
	assert.Same(t, first, second, "bindings compute once per pair")

	checker.Invalidate("com.acme.Point")
	third, err := checker.Bind(point, coordinates)
	require.NoError(t, err)
	assert.NotSame(t, first, third, "replacement drops the cached binding")

	checker.Invalidate("api.Coordinates")
	fourth, err := checker.Bind(point, coordinates)
	require.NoError(t, err)
	assert.NotSame(t, third, fourth, "either side of the pair invalidates")
}
