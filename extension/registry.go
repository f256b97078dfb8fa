package extension

import (
	"sort"
	"sync"
)

// Registry stores extension declarations keyed by extended type. Registration
// is a setup phase operation; lookups may run concurrently with resolution.
type Registry struct {
	mux         sync.RWMutex
	callables   map[string][]*Declaration
	mixins      map[string]map[string]*Declaration
	annotations map[string]map[string]*Declaration
}

// Register validates and stores a declaration. A callable declaration
// colliding with an already registered one on the same type and erased call
// signature fails with *ConflictError; mixin duplicates are idempotent.
func (r *Registry) Register(declaration *Declaration) error {
	if err := declaration.Validate(); err != nil {
		return err
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	switch declaration.Kind {
	case KindInstance, KindStatic:
		signature := declaration.CallSignature()
		for _, prev := range r.callables[declaration.Extended] {
			if prev.Kind == declaration.Kind && prev.CallSignature() == signature {
				return &ConflictError{
					Extended:  declaration.Extended,
					Signature: signature,
					First:     prev.Source,
					Second:    declaration.Source,
				}
			}
		}
		r.callables[declaration.Extended] = append(r.callables[declaration.Extended], declaration)
	case KindInterfaceMixin:
		byIface := r.mixins[declaration.Extended]
		if byIface == nil {
			byIface = map[string]*Declaration{}
			r.mixins[declaration.Extended] = byIface
		}
		byIface[declaration.Iface] = declaration
	case KindAnnotationMixin:
		byAnnotation := r.annotations[declaration.Extended]
		if byAnnotation == nil {
			byAnnotation = map[string]*Declaration{}
			r.annotations[declaration.Extended] = byAnnotation
		}
		byAnnotation[declaration.Annotation] = declaration
	}
	return nil
}

// DeclarationsFor returns callable declarations of extended, registration order.
func (r *Registry) DeclarationsFor(extended string) []*Declaration {
	r.mux.RLock()
	defer r.mux.RUnlock()
	items := r.callables[extended]
	ret := make([]*Declaration, len(items))
	copy(ret, items)
	return ret
}

// InterfacesFor returns interfaces mixed into extended, lexical order.
func (r *Registry) InterfacesFor(extended string) []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return sortedKeys(r.mixins[extended])
}

// HasMixin returns true when iface was mixed into extended.
func (r *Registry) HasMixin(extended, iface string) bool {
	r.mux.RLock()
	defer r.mux.RUnlock()
	_, ok := r.mixins[extended][iface]
	return ok
}

// AnnotationsFor returns annotations mixed into extended, lexical order.
func (r *Registry) AnnotationsFor(extended string) []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return sortedKeys(r.annotations[extended])
}

// Extended returns every type name with at least one declaration.
func (r *Registry) Extended() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	seen := map[string]bool{}
	for name := range r.callables {
		seen[name] = true
	}
	for name := range r.mixins {
		seen[name] = true
	}
	for name := range r.annotations {
		seen[name] = true
	}
	ret := make([]string, 0, len(seen))
	for name := range seen {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

func sortedKeys(index map[string]*Declaration) []string {
	if len(index) == 0 {
		return nil
	}
	ret := make([]string, 0, len(index))
	for key := range index {
		ret = append(ret, key)
	}
	sort.Strings(ret)
	return ret
}

// New creates an empty extension registry.
func New() *Registry {
	return &Registry{
		callables:   map[string][]*Declaration{},
		mixins:      map[string]map[string]*Declaration{},
		annotations: map[string]map[string]*Declaration{},
	}
}
