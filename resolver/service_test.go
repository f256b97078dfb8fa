package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/typly/artifact"
	"github.com/viant/typly/builder"
	"github.com/viant/typly/compiler"
	"github.com/viant/typly/diag"
	"github.com/viant/typly/projection"
	"github.com/viant/typly/shape"
	"github.com/viant/typly/types"
)

// modelBuilder serves canned source models for .model artifacts.
type modelBuilder struct {
	models map[string]func() *shape.Type
	fails  map[string]string
	panics map[string]bool
	builds map[string]int
}

func (b *modelBuilder) ID() string {
	return "model"
}

func (b *modelBuilder) Claims(ext string) bool {
	return ext == ".model"
}

func (b *modelBuilder) AliasNames(rawName string, a *artifact.Artifact) []string {
	return []string{rawName, rawName + ".model"}
}

func (b *modelBuilder) IsNestedType(topLevel, candidate string) bool {
	return strings.HasPrefix(candidate, topLevel+".")
}

func (b *modelBuilder) Build(ctx context.Context, name string, a *artifact.Artifact) (*shape.Type, error) {
	b.builds[name]++
	if message, ok := b.fails[name]; ok {
		return nil, errors.New(message)
	}
	if b.panics[name] {
		panic("builder blew up")
	}
	provider, ok := b.models[name]
	if !ok {
		return nil, fmt.Errorf("no model for %v", name)
	}
	return provider(), nil
}

type testPipeline struct {
	fs          afs.Service
	builder     *modelBuilder
	builders    *builder.Registry
	registry    *types.Registry
	diagnostics *diag.Diagnostics
	cache       *projection.Cache
	service     *Service
	baseURL     string
}

func newTestPipeline(t *testing.T, caseName string, models map[string]func() *shape.Type) *testPipeline {
	ret := &testPipeline{
		fs: afs.New(),
		builder: &modelBuilder{
			models: models,
			fails:  map[string]string{},
			panics: map[string]bool{},
			builds: map[string]int{},
		},
		builders:    builder.New(),
		registry:    types.NewRegistry(),
		diagnostics: diag.New("test", nil),
		cache:       projection.New(),
		baseURL:     "mem://localhost/typly/resolver/" + caseName,
	}
	require.NoError(t, ret.builders.Register(ret.builder, ".model"))
	host := compiler.New(ret.registry, ret.diagnostics)
	ret.service = New(ret.builders, ret.cache, host)
	return ret
}

func (p *testPipeline) upload(t *testing.T, name, content string) *artifact.Artifact {
	URL := p.baseURL + "/" + name + ".model"
	require.NoError(t, p.fs.Upload(context.Background(), URL, file.DefaultFileOsMode, strings.NewReader(content)))
	ret := artifact.New(p.fs, URL, name)
	require.NoError(t, p.builders.Index(ret))
	return ret
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("projection with aliases and nested names", func(t *testing.T) {
		pipeline := newTestPipeline(t, "basic", map[string]func() *shape.Type{
			"com.acme.Person": func() *shape.Type {
				model := shape.NewClass("com.acme.Person")
				model.AddField("name", shape.Ref{Name: "string"})
				model.AddField("address", shape.Ref{Name: "com.acme.Person.Address"})
				model.AddNested(shape.NewClass("com.acme.Person.Address").AddField("city", shape.Ref{Name: "string"}))
				return model
			},
		})
		pipeline.upload(t, "com.acme.Person", "v1")

		person, err := pipeline.service.Resolve(ctx, "com.acme.Person")
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, "com.acme.Person", person.Name())

		again, err := pipeline.service.Resolve(ctx, "com.acme.Person")
		assert.Nil(t, err)
		assert.True(t, person == again)

		aliased, err := pipeline.service.Resolve(ctx, "com.acme.Person.model")
		assert.Nil(t, err)
		assert.True(t, person == aliased)

		nested, err := pipeline.service.Resolve(ctx, "com.acme.Person.Address")
		assert.Nil(t, err)
		assert.Equal(t, "com.acme.Person.Address", nested.Name())
		assert.True(t, person.FieldByName("address").Type == nested)

		assert.Equal(t, 1, pipeline.builder.builds["com.acme.Person"])

		_, err = pipeline.service.Resolve(ctx, "com.acme.Person.Missing")
		notFound := &NotFoundError{}
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("unclaimed names", func(t *testing.T) {
		pipeline := newTestPipeline(t, "unclaimed", map[string]func() *shape.Type{})
		manual := types.NewClass("com.acme.Manual")
		require.NoError(t, pipeline.registry.Install(manual))

		resolved, err := pipeline.service.Resolve(ctx, "com.acme.Manual")
		assert.Nil(t, err)
		assert.True(t, resolved == manual)

		_, err = pipeline.service.Resolve(ctx, "com.acme.Unknown")
		notFound := &NotFoundError{}
		assert.True(t, errors.As(err, &notFound))
		assert.Equal(t, "com.acme.Unknown", notFound.Name)
	})

	t.Run("build failure reports at artifact with reference site", func(t *testing.T) {
		pipeline := newTestPipeline(t, "failure", map[string]func() *shape.Type{
			"com.acme.Holder": func() *shape.Type {
				model := shape.NewClass("com.acme.Holder")
				model.AddField("part", shape.Ref{Name: "com.acme.Part", Location: shape.Location{Line: 2}})
				return model
			},
		})
		pipeline.upload(t, "com.acme.Holder", "v1")
		partURL := pipeline.upload(t, "com.acme.Part", "v1").URL
		pipeline.builder.fails["com.acme.Part"] = "corrupted artifact"

		_, err := pipeline.service.Resolve(ctx, "com.acme.Holder")
		assert.NotNil(t, err)

		var buildDiag *diag.Diagnostic
		for _, item := range pipeline.diagnostics.Items() {
			if item.Code == diag.CodeBuildFailure {
				buildDiag = item
			}
		}
		if assert.NotNil(t, buildDiag) {
			assert.Equal(t, partURL, buildDiag.Location.URL)
			if assert.Equal(t, 1, len(buildDiag.Notes)) {
				assert.Contains(t, buildDiag.Notes[0].Message, "com.acme.Holder")
			}
		}

		// an unrelated name still resolves, the failed one is retried
		pipeline.upload(t, "com.acme.Other", "v1")
		pipeline.builder.models["com.acme.Other"] = func() *shape.Type {
			return shape.NewClass("com.acme.Other")
		}
		_, err = pipeline.service.Resolve(ctx, "com.acme.Other")
		assert.Nil(t, err)

		_, err = pipeline.service.Resolve(ctx, "com.acme.Part")
		assert.NotNil(t, err)
		assert.Equal(t, 2, pipeline.builder.builds["com.acme.Part"])
	})

	t.Run("builder panic is contained", func(t *testing.T) {
		pipeline := newTestPipeline(t, "panic", map[string]func() *shape.Type{})
		pipeline.upload(t, "com.acme.Hostile", "v1")
		pipeline.builder.panics["com.acme.Hostile"] = true

		_, err := pipeline.service.Resolve(ctx, "com.acme.Hostile")
		if assert.NotNil(t, err) {
			assert.Contains(t, err.Error(), "panicked")
		}
		_, ok := pipeline.registry.Lookup("com.acme.Hostile")
		assert.False(t, ok)
	})

	t.Run("field level mutual references resolve", func(t *testing.T) {
		pipeline := newTestPipeline(t, "fieldcycle", map[string]func() *shape.Type{
			"com.acme.A": func() *shape.Type {
				return shape.NewClass("com.acme.A").AddField("b", shape.Ref{Name: "com.acme.B"})
			},
			"com.acme.B": func() *shape.Type {
				return shape.NewClass("com.acme.B").AddField("a", shape.Ref{Name: "com.acme.A"})
			},
		})
		pipeline.upload(t, "com.acme.A", "v1")
		pipeline.upload(t, "com.acme.B", "v1")

		a, err := pipeline.service.Resolve(ctx, "com.acme.A")
		if !assert.Nil(t, err) {
			return
		}
		b, err := pipeline.service.Resolve(ctx, "com.acme.B")
		if !assert.Nil(t, err) {
			return
		}
		assert.False(t, a.Provisional())
		assert.False(t, b.Provisional())
		assert.True(t, a.FieldByName("b").Type == b)
		assert.True(t, b.FieldByName("a").Type == a)
	})

	t.Run("supertype cycle fails with cycle error", func(t *testing.T) {
		pipeline := newTestPipeline(t, "supercycle", map[string]func() *shape.Type{
			"com.acme.C": func() *shape.Type {
				model := shape.NewClass("com.acme.C")
				model.Supertypes = []shape.Ref{{Name: "com.acme.D"}}
				return model
			},
			"com.acme.D": func() *shape.Type {
				model := shape.NewClass("com.acme.D")
				model.Supertypes = []shape.Ref{{Name: "com.acme.C"}}
				return model
			},
		})
		pipeline.upload(t, "com.acme.C", "v1")
		pipeline.upload(t, "com.acme.D", "v1")

		_, err := pipeline.service.Resolve(ctx, "com.acme.C")
		cycleErr := &projection.CycleError{}
		if assert.True(t, errors.As(err, &cycleErr), "expected cycle error, got: %v", err) {
			assert.Equal(t, []string{"com.acme.C", "com.acme.D", "com.acme.C"}, cycleErr.Path)
		}
		_, ok := pipeline.registry.Lookup("com.acme.C")
		assert.False(t, ok)
		_, ok = pipeline.registry.Lookup("com.acme.D")
		assert.False(t, ok)
	})

	t.Run("fingerprint change yields fresh projection", func(t *testing.T) {
		pipeline := newTestPipeline(t, "refresh", map[string]func() *shape.Type{
			"com.acme.Conf": func() *shape.Type {
				model := shape.NewClass("com.acme.Conf")
				model.AddField("host", shape.Ref{Name: "string"})
				model.AddNested(shape.NewClass("com.acme.Conf.Pool"))
				return model
			},
		})
		pipeline.upload(t, "com.acme.Conf", "v1")

		before, err := pipeline.service.Resolve(ctx, "com.acme.Conf")
		if !assert.Nil(t, err) {
			return
		}
		nestedBefore, ok := pipeline.registry.Lookup("com.acme.Conf.Pool")
		assert.True(t, ok)

		pipeline.upload(t, "com.acme.Conf", "v2 with more bytes")
		after, err := pipeline.service.Resolve(ctx, "com.acme.Conf")
		if !assert.Nil(t, err) {
			return
		}
		assert.False(t, before == after)
		assert.Equal(t, 2, pipeline.builder.builds["com.acme.Conf"])

		nestedAfter, ok := pipeline.registry.Lookup("com.acme.Conf.Pool")
		assert.True(t, ok)
		assert.False(t, nestedBefore == nestedAfter)

		aliased, err := pipeline.service.Resolve(ctx, "com.acme.Conf.model")
		assert.Nil(t, err)
		assert.True(t, aliased == after)
	})
}
