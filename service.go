// Package typly augments a host compiler with on demand type projection from
// non code artifacts, extension method injection into call resolution, and a
// structural assignability and dispatch layer over a nominal type system.
package typly

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/gmetric"
	"github.com/viant/gmetric/provider"
	"github.com/viant/typly/artifact"
	"github.com/viant/typly/builder"
	"github.com/viant/typly/builder/jsonmodel"
	"github.com/viant/typly/builder/propmodel"
	"github.com/viant/typly/compiler"
	"github.com/viant/typly/diag"
	"github.com/viant/typly/dispatch"
	"github.com/viant/typly/extension"
	"github.com/viant/typly/logger"
	"github.com/viant/typly/projection"
	"github.com/viant/typly/resolver"
	"github.com/viant/typly/structural"
	"github.com/viant/typly/types"
	"github.com/viant/x"
)

//go:embed Version
var Version string

type metricsLocation struct{}

func metricLocation() string {
	return reflect.TypeOf(metricsLocation{}).PkgPath()
}

// Service is the augmentation facade: one instance owns its type registry,
// projection cache, resolution pipeline, extension registry, structural
// checker and dispatch runtime. Registration calls are setup phase
// operations; resolution and dispatch may then run concurrently.
type Service struct {
	session     string
	fs          afs.Service
	metrics     *gmetric.Service
	logger      *logger.Adapter
	diagnostics *diag.Diagnostics
	registry    *types.Registry
	builders    *builder.Registry
	locator     *artifact.Locator
	cache       *projection.Cache
	host        *compiler.Service
	resolver    *resolver.Service
	extensions  *extension.Registry
	candidates  *extension.Resolver
	checker     *structural.Checker
	runtime     *dispatch.Service
	goTypes     *x.Registry
}

// Session returns the correlation id diagnostics carry.
func (s *Service) Session() string {
	return s.session
}

// Scan discovers artifacts under the configured roots, indexes the names
// registered builders claim and returns every claimed name.
func (s *Service) Scan(ctx context.Context) ([]string, error) {
	artifacts, err := s.locator.Scan(ctx, s.builders.Claims)
	if err != nil {
		return nil, err
	}
	if err = s.builders.Index(artifacts...); err != nil {
		return nil, err
	}
	return s.builders.Claimed(), nil
}

// Resolve returns the nominal type of name, projecting it from its claimed
// artifact on first use and revalidating the artifact fingerprint after.
func (s *Service) Resolve(ctx context.Context, name string) (*types.Type, error) {
	return s.resolver.Resolve(ctx, name)
}

// Lookup returns an already resolved or predeclared type without building.
func (s *Service) Lookup(name string) (*types.Type, bool) {
	return s.registry.Lookup(name)
}

// MethodCandidates answers the overload resolution seam: applicable instance
// call candidates for the static receiver type, members first, then
// extensions by hierarchy distance.
func (s *Service) MethodCandidates(receiver *types.Type, method string, args []*types.Type) ([]*extension.Candidate, error) {
	return s.candidates.CandidatesFor(receiver, method, args)
}

// StaticMethodCandidates returns applicable static call candidates declared
// on the type itself.
func (s *Service) StaticMethodCandidates(aType *types.Type, method string, args []*types.Type) ([]*extension.Candidate, error) {
	return s.candidates.StaticCandidatesFor(aType, method, args)
}

// IsAssignable reports whether target satisfies iface nominally, through an
// interface mixin, or structurally.
func (s *Service) IsAssignable(target, iface *types.Type) bool {
	return s.checker.IsAssignable(target, iface)
}

// Bind returns the method map binding every required method of iface to its
// satisfier on target.
func (s *Service) Bind(target, iface *types.Type) (*structural.Binding, error) {
	return s.checker.Bind(target, iface)
}

// Invoke resolves iface by name and dispatches member against instance using
// the pair's binding.
func (s *Service) Invoke(ctx context.Context, instance interface{}, iface string, member string, args ...interface{}) (interface{}, error) {
	ifaceType, err := s.Resolve(ctx, iface)
	if err != nil {
		return nil, err
	}
	ret, err := s.runtime.Invoke(ctx, instance, ifaceType, member, args...)
	if err != nil {
		unhandled := &dispatch.UnhandledError{}
		if errors.As(err, &unhandled) {
			diagnostic := diag.NewError(diag.Location{}, diag.CodeDispatchUnhandled, "%v", unhandled)
			diagnostic.SetCause(err)
			s.diagnostics.Report(diagnostic)
		}
		return nil, err
	}
	return ret, nil
}

// RegisterBuilder adds a source model builder with the extensions it claims.
func (s *Service) RegisterBuilder(b builder.Builder, exts ...string) error {
	return s.builders.Register(b, exts...)
}

// RegisterExtension adds extension declarations; a conflicting declaration
// fails the whole call.
func (s *Service) RegisterExtension(declarations ...*extension.Declaration) error {
	for _, declaration := range declarations {
		if err := s.extensions.Register(declaration); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLink associates a nominal type name with the Go type of sample for
// runtime dispatch and publishes it in the linked type index.
func (s *Service) RegisterLink(name string, sample interface{}) error {
	if err := s.runtime.RegisterLink(name, sample); err != nil {
		return err
	}
	rType := reflect.TypeOf(sample)
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	s.goTypes.Register(x.NewType(rType, x.WithName(name)))
	return nil
}

// InvokeExtension calls an extension declaration's runtime function directly;
// a nil receiver is permitted, the extension owns null handling.
func (s *Service) InvokeExtension(ctx context.Context, declaration *extension.Declaration, receiver interface{}, args ...interface{}) (interface{}, error) {
	return s.runtime.InvokeExtension(ctx, declaration, receiver, args...)
}

// AnnotationsOf returns annotations declared on the type and those attached
// through annotation mixins, walking the type's hierarchy.
func (s *Service) AnnotationsOf(aType *types.Type) []string {
	if aType == nil {
		return nil
	}
	var ret []string
	seen := map[string]bool{}
	collect := func(annotations []string) {
		for _, annotation := range annotations {
			if seen[annotation] {
				continue
			}
			seen[annotation] = true
			ret = append(ret, annotation)
		}
	}
	for _, owner := range aType.Hierarchy() {
		collect(owner.Annotations())
		collect(s.extensions.AnnotationsFor(owner.Name()))
	}
	return ret
}

// Render re-synthesizes and renders the compilation unit of a claimed name,
// for inspection and the CLI print command.
func (s *Service) Render(ctx context.Context, name string) (string, error) {
	claim, ok := s.builders.Claimant(name)
	if !ok {
		return "", &resolver.NotFoundError{Name: name}
	}
	model, err := claim.Builder.Build(ctx, claim.Primary, claim.Artifact)
	if err != nil {
		return "", fmt.Errorf("failed to render %v, %w", name, err)
	}
	return compiler.NewUnit(model, claim.Artifact.URL).Render(), nil
}

// Diagnostics returns the session diagnostics collector.
func (s *Service) Diagnostics() *diag.Diagnostics {
	return s.diagnostics
}

// Metrics returns the metric service observing resolution and builds.
func (s *Service) Metrics() *gmetric.Service {
	return s.metrics
}

// Registry returns the nominal type registry.
func (s *Service) Registry() *types.Registry {
	return s.registry
}

// Extensions returns the extension declaration registry.
func (s *Service) Extensions() *extension.Registry {
	return s.extensions
}

// GoTypes returns the public index of Go types linked for dispatch.
func (s *Service) GoTypes() *x.Registry {
	return s.goTypes
}

func (s *Service) setup(ctx context.Context, options *options) error {
	factories := map[string]builder.Factory{
		"jsonmodel": func() builder.Builder { return jsonmodel.New() },
		"propmodel": func() builder.Builder { return propmodel.New() },
	}
	supplied := map[string]bool{}
	for i := range options.builders {
		claim := options.builders[i]
		factories[claim.builder.ID()] = func() builder.Builder { return claim.builder }
		supplied[claim.builder.ID()] = true
	}
	if options.manifestURL == "" {
		if !supplied["jsonmodel"] {
			if err := s.builders.Register(jsonmodel.New(), ".json"); err != nil {
				return err
			}
		}
		if !supplied["propmodel"] {
			if err := s.builders.Register(propmodel.New(), ".properties"); err != nil {
				return err
			}
		}
		for _, claim := range options.builders {
			if err := s.builders.Register(claim.builder, claim.exts...); err != nil {
				return err
			}
		}
		return nil
	}
	manifest, err := builder.LoadManifest(ctx, s.fs, options.manifestURL)
	if err != nil {
		return err
	}
	if len(manifest.Roots) > 0 {
		s.locator = artifact.NewLocator(s.fs, append(options.roots, manifest.Roots...)...)
	}
	return s.builders.Apply(manifest, factories)
}

// New creates the augmentation service. Builders come from the manifest when
// one is configured, otherwise the built in jsonmodel and propmodel builders
// plus any supplied with WithBuilder; artifacts under the roots are scanned
// up front.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	options := newOptions(opts)
	session := options.session
	if session == "" {
		session = uuid.New().String()
	}
	adapter := logger.Default()
	if options.logger != nil {
		adapter = logger.NewLogger(options.logger)
	}
	adapter.Log("session %v", session)
	metrics := options.metrics
	if metrics == nil {
		metrics = gmetric.New()
	}
	resolveCounter := metrics.MultiOperationCounter(metricLocation(), "resolve", "resolve performance", time.Millisecond, time.Minute, 2, provider.NewBasic())
	buildCounter := metrics.MultiOperationCounter(metricLocation(), "projectionBuild", "projection build performance", time.Millisecond, time.Minute, 2, provider.NewBasic())

	fs := afs.New()
	registry := types.NewRegistry()
	diagnostics := diag.New(session, options.sink)
	extensions := extension.New()
	checker := structural.New(structural.WithExtensions(extensions))
	cache := projection.New(projection.WithLogger(adapter), projection.WithCounter(buildCounter))
	cache.OnEviction(func(name string, value interface{}) {
		checker.Invalidate(name)
	})
	builders := builder.New()
	host := compiler.New(registry, diagnostics)
	ret := &Service{
		session:     session,
		fs:          fs,
		metrics:     metrics,
		logger:      adapter,
		diagnostics: diagnostics,
		registry:    registry,
		builders:    builders,
		locator:     artifact.NewLocator(fs, options.roots...),
		cache:       cache,
		host:        host,
		resolver:    resolver.New(builders, cache, host, resolver.WithLogger(adapter), resolver.WithCounter(resolveCounter)),
		extensions:  extensions,
		candidates:  extension.NewResolver(extensions),
		checker:     checker,
		goTypes:     x.NewRegistry(),
	}
	var dispatchOpts []dispatch.Option
	if options.logger != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithLogger(options.logger))
	}
	ret.runtime = dispatch.New(checker, registry.Lookup, dispatchOpts...)
	if err := ret.setup(ctx, options); err != nil {
		return nil, err
	}
	if len(ret.locator.Roots()) > 0 {
		if _, err := ret.Scan(ctx); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
