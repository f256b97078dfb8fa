// Package resolver drives the projection pipeline: a name nobody could
// resolve is matched to its claiming artifact, built into a source model,
// attributed by the host and installed, with results cached by artifact
// fingerprint. Resolution of independent names may run concurrently.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/typly/builder"
	"github.com/viant/typly/compiler"
	"github.com/viant/typly/diag"
	"github.com/viant/typly/logger"
	"github.com/viant/typly/projection"
	"github.com/viant/typly/shape"
	"github.com/viant/typly/types"
)

type (
	// Service resolves names on demand.
	Service struct {
		builders *builder.Registry
		cache    *projection.Cache
		host     compiler.Host
		logger   *logger.Adapter
		counter  *logger.CounterAdapter
	}

	Option func(s *Service)
)

// WithLogger sets the event logger.
func WithLogger(adapter *logger.Adapter) Option {
	return func(s *Service) {
		s.logger = adapter
	}
}

// WithCounter instruments resolutions with the supplied counter.
func WithCounter(aCounter logger.Counter) Option {
	return func(s *Service) {
		s.counter = logger.NewCounter(aCounter)
	}
}

// New creates a resolution pipeline over the supplied collaborators. The
// service evicts its installs from the host symbol table whenever the
// projection cache drops an entry.
func New(builders *builder.Registry, cache *projection.Cache, host compiler.Host, options ...Option) *Service {
	ret := &Service{builders: builders, cache: cache, host: host}
	for _, option := range options {
		option(ret)
	}
	if ret.logger == nil {
		ret.logger = logger.Default()
	}
	if ret.counter == nil {
		ret.counter = logger.NewCounter(nil)
	}
	cache.OnEviction(ret.onEviction)
	return ret
}

// Resolve returns the projected type for name, building it when needed. A
// name without a claiming artifact resolves only if already installed;
// otherwise *NotFoundError. The artifact fingerprint is revalidated on every
// call, so a changed artifact yields a fresh projection.
func (s *Service) Resolve(ctx context.Context, name string) (*types.Type, error) {
	started := time.Now()
	onDone := s.counter.Begin(started)
	ret, err := s.resolve(ctx, name)
	ended := time.Now()
	onDone(ended, err)
	s.logger.ResolveTime(name, &started, &ended, err)
	return ret, err
}

func (s *Service) resolve(ctx context.Context, name string) (*types.Type, error) {
	claim, ok := s.builders.Claimant(name)
	if !ok {
		if ret, found := s.host.Lookup(name); found && !ret.Provisional() {
			return ret, nil
		}
		return nil, &NotFoundError{Name: name}
	}
	fingerprint, err := claim.Artifact.Fingerprint(ctx)
	if err != nil {
		diagnostic := diag.NewError(diag.Location{URL: claim.Artifact.URL}, diag.CodeBuildFailure, "failed to fingerprint %v, %v", claim.Primary, err)
		s.host.Diagnostics().Report(diagnostic)
		return nil, diagnostic
	}
	value, err := s.cache.Get(ctx, claim.Primary, fingerprint, func(ctx context.Context) (interface{}, error) {
		return s.build(ctx, claim)
	})
	if err != nil {
		if cycleErr, ok := err.(*projection.CycleError); ok {
			diagnostic := diag.NewError(diag.Location{URL: claim.Artifact.URL}, diag.CodeCyclicProjection, "failed to project %v, %v", claim.Primary, cycleErr)
			diagnostic.SetCause(cycleErr)
			s.host.Diagnostics().Report(diagnostic)
			return nil, diagnostic
		}
		return nil, err
	}
	ret, ok := value.(*types.Type)
	if !ok {
		return nil, fmt.Errorf("failed to resolve %v: unexpected projection %T", name, value)
	}
	if name == claim.Primary {
		return ret, nil
	}
	// an alias or a nested name of the primary projection
	if aliased, found := s.host.Lookup(name); found {
		return aliased, nil
	}
	return nil, &NotFoundError{Name: name}
}

// build runs inside the projection cache's per name critical section.
func (s *Service) build(ctx context.Context, claim *builder.Claim) (interface{}, error) {
	started := time.Now()
	model, err := s.buildModel(ctx, claim)
	s.logger.ProjectionBuild(claim.Primary, claim.Builder.ID(), claim.Artifact.URL, time.Since(started), err)
	if err != nil {
		diagnostic := diag.NewError(diag.Location{URL: claim.Artifact.URL}, diag.CodeBuildFailure, "failed to build %v, %v", claim.Primary, err)
		diagnostic.SetCause(err)
		if site := referenceSite(ctx); site != "" {
			diagnostic = diagnostic.WithNote(diag.Location{}, fmt.Sprintf("required by projection of %v", site))
		}
		s.host.Diagnostics().Report(diagnostic)
		return nil, diagnostic
	}
	if model == nil {
		return nil, fmt.Errorf("builder %v returned no model for %v", claim.Builder.ID(), claim.Primary)
	}
	if model.Name != claim.Primary {
		return nil, fmt.Errorf("builder %v modelled %v, expected %v", claim.Builder.ID(), model.Name, claim.Primary)
	}
	aType, err := s.host.Attribute(ctx, compiler.NewUnit(model, claim.Artifact.URL), s.Resolve)
	if err != nil {
		return nil, fmt.Errorf("failed to attribute %v, %w", claim.Primary, err)
	}
	if err = s.installAliases(claim.Primary, aType); err != nil {
		s.removeInstalled(aType)
		return nil, err
	}
	return aType, nil
}

// buildModel shields the pipeline from a panicking builder.
func (s *Service) buildModel(ctx context.Context, claim *builder.Claim) (model *shape.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("builder %v panicked: %v", claim.Builder.ID(), r)
		}
	}()
	return claim.Builder.Build(ctx, claim.Primary, claim.Artifact)
}

func (s *Service) installAliases(primary string, aType *types.Type) error {
	for _, alias := range s.builders.Aliases(primary) {
		if alias == primary {
			continue
		}
		if err := s.host.InstallAlias(alias, aType); err != nil {
			diagnostic := diag.NewError(diag.Location{}, diag.CodeRegistrationConflict, "failed to alias %v as %v, %v", primary, alias, err)
			s.host.Diagnostics().Report(diagnostic)
			return diagnostic
		}
	}
	return nil
}

// onEviction drops a stale projection's installs: the primary with its
// aliases and every nested declaration.
func (s *Service) onEviction(name string, value interface{}) {
	aType, ok := value.(*types.Type)
	if !ok {
		return
	}
	s.removeInstalled(aType)
	for _, alias := range s.builders.Aliases(name) {
		s.host.Remove(alias)
	}
}

func (s *Service) removeInstalled(aType *types.Type) {
	s.host.Remove(aType.Name())
	for _, nested := range aType.Nested() {
		s.removeInstalled(nested)
	}
}

func referenceSite(ctx context.Context) string {
	path := projection.BuildingPath(ctx)
	if len(path) < 2 {
		return ""
	}
	return path[len(path)-2]
}
