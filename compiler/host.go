package compiler

import (
	"context"

	"github.com/viant/typly/diag"
	"github.com/viant/typly/types"
)

// Resolve is the pipeline re-entry callback: attribution calls it for names
// the host symbol table can not supply.
type Resolve func(ctx context.Context, name string) (*types.Type, error)

// Host is the compiler seam the resolution pipeline drives: symbol table
// access, unit attribution and the diagnostics channel. Service is the
// reference implementation; an embedding compiler supplies its own.
type Host interface {
	Lookup(name string) (*types.Type, bool)
	Install(aType *types.Type) error
	InstallAlias(alias string, aType *types.Type) error
	Remove(name string)
	ArrayOf(elem *types.Type) *types.Type
	Attribute(ctx context.Context, unit *Unit, resolve Resolve) (*types.Type, error)
	Diagnostics() *diag.Diagnostics
}

// Service is the reference host over a types.Registry symbol table.
type Service struct {
	registry    *types.Registry
	diagnostics *diag.Diagnostics
}

// Lookup returns the installed type with the given name.
func (s *Service) Lookup(name string) (*types.Type, bool) {
	return s.registry.Lookup(name)
}

// Install adds a type to the symbol table.
func (s *Service) Install(aType *types.Type) error {
	return s.registry.Install(aType)
}

// InstallAlias adds a type under an extra name.
func (s *Service) InstallAlias(alias string, aType *types.Type) error {
	return s.registry.InstallAlias(alias, aType)
}

// Remove evicts a name from the symbol table.
func (s *Service) Remove(name string) {
	s.registry.Remove(name)
}

// ArrayOf returns the interned array type of the given element type.
func (s *Service) ArrayOf(elem *types.Type) *types.Type {
	return s.registry.ArrayOf(elem)
}

// Diagnostics returns the host reporting channel.
func (s *Service) Diagnostics() *diag.Diagnostics {
	return s.diagnostics
}

// Registry exposes the underlying symbol table.
func (s *Service) Registry() *types.Registry {
	return s.registry
}

// New creates a reference host; nil collaborators get defaults.
func New(registry *types.Registry, diagnostics *diag.Diagnostics) *Service {
	if registry == nil {
		registry = types.NewRegistry()
	}
	if diagnostics == nil {
		diagnostics = diag.New("", nil)
	}
	return &Service{registry: registry, diagnostics: diagnostics}
}
