package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/typly/extension"
	"github.com/viant/typly/structural"
	"github.com/viant/typly/types"
)

type person struct {
	Name string
	Age  int64
}

func (p *person) Greet(greeting string) string {
	return greeting + " " + p.Name
}

type bag struct {
	items map[string]interface{}
}

func (b *bag) Size() int64 {
	return int64(len(b.items))
}

func (b *bag) Call(ctx context.Context, call *Call) (interface{}, error) {
	if call.Member == "get" {
		return b.items[call.Args[0].(string)], nil
	}
	return nil, ErrUnhandled
}

func newPersonType() *types.Type {
	ret := types.NewClass("com.acme.Person")
	ret.AddField(types.NewField("name", types.String))
	ret.AddField(types.NewField("age", types.Int64))
	ret.AddMethod(types.NewMethod("greet", []types.Param{{Name: "greeting", Type: types.String}}, types.String))
	return ret
}

func TestService_Invoke(t *testing.T) {
	registry := types.NewRegistry()
	personType := newPersonType()
	require.NoError(t, registry.Install(personType))

	greeter := types.NewStructuralInterface("api.Greeter")
	greeter.AddMethod(types.NewMethod("greet", []types.Param{{Name: "greeting", Type: types.String}}, types.String))
	greeter.AddMethod(types.NewMethod("getName", nil, types.String))
	greeter.AddMethod(types.NewMethod("setAge", []types.Param{{Name: "age", Type: types.Int64}}, nil))

	service := New(structural.New(), registry.Lookup)
	require.NoError(t, service.RegisterLink("com.acme.Person", &person{}))

	ann := &person{Name: "Ann", Age: 42}
	ctx := context.Background()

	t.Run("member method", func(t *testing.T) {
		result, err := service.Invoke(ctx, ann, greeter, "greet", "Hello")
		require.NoError(t, err)
		assert.Equal(t, "Hello Ann", result)
	})

	t.Run("field getter", func(t *testing.T) {
		result, err := service.Invoke(ctx, ann, greeter, "getName")
		require.NoError(t, err)
		assert.Equal(t, "Ann", result)
	})

	t.Run("field setter converts", func(t *testing.T) {
		_, err := service.Invoke(ctx, ann, greeter, "setAge", int32(44))
		require.NoError(t, err)
		assert.Equal(t, int64(44), ann.Age)
	})

	t.Run("unlinked instance", func(t *testing.T) {
		_, err := service.Invoke(ctx, struct{}{}, greeter, "greet", "Hello")
		assert.NotNil(t, err)
	})

	t.Run("no binding for arg count", func(t *testing.T) {
		_, err := service.Invoke(ctx, ann, greeter, "greet", "Hello", "again")
		assert.NotNil(t, err)
	})
}

func TestService_Invoke_Extensions(t *testing.T) {
	registry := types.NewRegistry()
	personType := newPersonType()
	require.NoError(t, registry.Install(personType))

	extensions := extension.New()
	shout := &extension.Declaration{
		Extended: "com.acme.Person",
		Kind:     extension.KindInstance,
		Method:   types.NewMethod("shout", []types.Param{{Name: "this", Type: personType}}, types.String),
		Func: func(p *person) string {
			if p == nil {
				return "..."
			}
			return strings.ToUpper(p.Name)
		},
		Source: "ext/PersonExt",
	}
	require.NoError(t, extensions.Register(shout))

	loud := types.NewStructuralInterface("api.Loud")
	loud.AddMethod(types.NewMethod("shout", nil, types.String))

	checker := structural.New(structural.WithExtensions(extensions))
	service := New(checker, registry.Lookup)
	require.NoError(t, service.RegisterLink("com.acme.Person", &person{}))
	ctx := context.Background()

	result, err := service.Invoke(ctx, &person{Name: "Ann"}, loud, "shout")
	require.NoError(t, err)
	assert.Equal(t, "ANN", result)

	// the extension, not the runtime, owns null checking
	result, err = service.InvokeExtension(ctx, shout, nil)
	require.NoError(t, err)
	assert.Equal(t, "...", result)
}

func TestService_Invoke_Router(t *testing.T) {
	registry := types.NewRegistry()
	bagType := types.NewClass("com.acme.Bag")
	bagType.Dynamic = true
	bagType.AddMethod(types.NewMethod("size", nil, types.Int64))
	require.NoError(t, registry.Install(bagType))

	store := types.NewStructuralInterface("api.Store")
	store.AddMethod(types.NewMethod("size", nil, types.Int64))
	store.AddMethod(types.NewMethod("get", []types.Param{{Name: "key", Type: types.String}}, types.String))
	store.AddMethod(types.NewMethod("clear", nil, nil))

	service := New(structural.New(), registry.Lookup)
	require.NoError(t, service.RegisterLink("com.acme.Bag", &bag{}))

	instance := &bag{items: map[string]interface{}{"a": "alpha", "b": "beta"}}
	ctx := context.Background()

	t.Run("static binding is not poisoned by the router", func(t *testing.T) {
		result, err := service.Invoke(ctx, instance, store, "size")
		require.NoError(t, err)
		assert.Equal(t, int64(2), result)
	})

	t.Run("router services unbound members", func(t *testing.T) {
		result, err := service.Invoke(ctx, instance, store, "get", "a")
		require.NoError(t, err)
		assert.Equal(t, "alpha", result)
	})

	t.Run("unhandled surfaces as an error", func(t *testing.T) {
		result, err := service.Invoke(ctx, instance, store, "clear")
		assert.Nil(t, result)
		unhandled := &UnhandledError{}
		if assert.True(t, errors.As(err, &unhandled), "expected unhandled, got: %v", err) {
			assert.Equal(t, "com.acme.Bag", unhandled.Target)
			assert.Equal(t, "api.Store", unhandled.Iface)
			assert.Equal(t, "clear", unhandled.Member)
		}
		assert.True(t, errors.Is(err, ErrUnhandled))
	})
}
