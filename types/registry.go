package types

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the symbol table of the nominal universe. Lookups are safe under
// concurrent resolution; installs happen inside per name build critical
// sections owned by the projection cache.
type Registry struct {
	mux    sync.RWMutex
	index  map[string]*Type
	arrays map[*Type]*Type
}

// Lookup returns the installed type with the given name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mux.RLock()
	ret, ok := r.index[name]
	r.mux.RUnlock()
	return ret, ok
}

// Install adds a type under its name; installing a different instance under a
// taken name is an error, re-installing the same instance is a no op.
func (r *Registry) Install(aType *Type) error {
	return r.InstallAlias(aType.name, aType)
}

// InstallAlias adds a type under an extra name; every alias shares the instance.
func (r *Registry) InstallAlias(alias string, aType *Type) error {
	if aType == nil {
		return fmt.Errorf("failed to install %v: type was nil", alias)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	if prev, ok := r.index[alias]; ok && prev != aType {
		return fmt.Errorf("failed to install %v: name already taken by %v", alias, prev.kind)
	}
	r.index[alias] = aType
	return nil
}

// Replace installs a type unconditionally and returns the evicted instance, if any.
func (r *Registry) Replace(aType *Type) *Type {
	r.mux.Lock()
	defer r.mux.Unlock()
	prev := r.index[aType.name]
	r.index[aType.name] = aType
	return prev
}

// Remove evicts a name; aliases of the same instance stay until removed themselves.
func (r *Registry) Remove(name string) {
	r.mux.Lock()
	delete(r.index, name)
	r.mux.Unlock()
}

// ArrayOf returns the interned array type of the given element type.
func (r *Registry) ArrayOf(elem *Type) *Type {
	r.mux.Lock()
	defer r.mux.Unlock()
	if ret, ok := r.arrays[elem]; ok {
		return ret
	}
	ret := newArray(elem)
	r.arrays[elem] = ret
	r.index[ret.name] = ret
	return ret
}

// Names returns the installed names in lexical order.
func (r *Registry) Names() []string {
	r.mux.RLock()
	ret := make([]string, 0, len(r.index))
	for name := range r.index {
		ret = append(ret, name)
	}
	r.mux.RUnlock()
	sort.Strings(ret)
	return ret
}

// NewRegistry creates a symbol table with the primitives predeclared.
func NewRegistry() *Registry {
	ret := &Registry{index: map[string]*Type{}, arrays: map[*Type]*Type{}}
	for _, primitive := range Primitives() {
		ret.index[primitive.name] = primitive
	}
	return ret
}
