package builder

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/typly/artifact"
)

type (
	// Claim binds a fully qualified name to the builder and artifact that
	// produce it. Aliases of one artifact share the primary name.
	Claim struct {
		Name     string
		Primary  string
		Builder  Builder
		Artifact *artifact.Artifact
	}

	// Registry indexes builders by claimed extension and, once artifacts are
	// indexed, names by their claimant. Registration and indexing are setup
	// phase operations; lookups may then run concurrently.
	Registry struct {
		mux      sync.RWMutex
		builders map[string]Builder
		byExt    map[string]Builder
		byName   map[string]*Claim
	}
)

// Register adds a builder with the extensions it claims. A second builder
// claiming an already taken extension is a configuration error.
func (r *Registry) Register(b Builder, exts ...string) error {
	if len(exts) == 0 {
		return fmt.Errorf("builder %v: no extensions declared", b.ID())
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	if prev, ok := r.builders[b.ID()]; ok && prev != b {
		return fmt.Errorf("builder %v: id already registered", b.ID())
	}
	for _, ext := range exts {
		ext = canonicalExt(ext)
		if !b.Claims(ext) {
			return fmt.Errorf("builder %v does not claim extension %v", b.ID(), ext)
		}
		if prev, ok := r.byExt[ext]; ok {
			if prev == b {
				continue
			}
			return &ClaimConflictError{Ext: ext, First: prev.ID(), Second: b.ID()}
		}
	}
	r.builders[b.ID()] = b
	for _, ext := range exts {
		r.byExt[canonicalExt(ext)] = b
	}
	return nil
}

// Claims returns true when some registered builder claims the extension.
func (r *Registry) Claims(ext string) bool {
	_, ok := r.BuilderFor(ext)
	return ok
}

// BuilderFor returns the builder claiming the extension.
func (r *Registry) BuilderFor(ext string) (Builder, bool) {
	r.mux.RLock()
	ret, ok := r.byExt[canonicalExt(ext)]
	r.mux.RUnlock()
	return ret, ok
}

// Index records the names every artifact claims. Two artifacts producing the
// same name is a registration conflict; re-indexing an artifact is idempotent.
func (r *Registry) Index(artifacts ...*artifact.Artifact) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, item := range artifacts {
		aBuilder, ok := r.byExt[canonicalExt(item.Ext)]
		if !ok {
			continue
		}
		names := aBuilder.AliasNames(item.Name, item)
		if len(names) == 0 {
			names = []string{item.Name}
		}
		primary := names[0]
		for _, name := range names {
			if prev, ok := r.byName[name]; ok && prev.Artifact.URL != item.URL {
				return &AliasConflictError{Name: name, FirstURL: prev.Artifact.URL, SecondURL: item.URL}
			}
			r.byName[name] = &Claim{Name: name, Primary: primary, Builder: aBuilder, Artifact: item}
		}
	}
	return nil
}

// Claimant returns the claim for a name: an exact alias match first, otherwise
// the claim of the longest dotted prefix whose builder reports the name as one
// of its nested types.
func (r *Registry) Claimant(name string) (*Claim, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	if ret, ok := r.byName[name]; ok {
		return ret, true
	}
	prefix := name
	for {
		index := strings.LastIndexByte(prefix, '.')
		if index == -1 {
			return nil, false
		}
		prefix = prefix[:index]
		claim, ok := r.byName[prefix]
		if !ok {
			continue
		}
		if claim.Builder.IsNestedType(claim.Primary, name) {
			return claim, true
		}
	}
}

// Aliases returns the indexed names sharing the given primary, primary included.
func (r *Registry) Aliases(primary string) []string {
	r.mux.RLock()
	var ret []string
	for name, claim := range r.byName {
		if claim.Primary == primary {
			ret = append(ret, name)
		}
	}
	r.mux.RUnlock()
	sort.Strings(ret)
	return ret
}

// Claimed returns every indexed name in lexical order.
func (r *Registry) Claimed() []string {
	r.mux.RLock()
	ret := make([]string, 0, len(r.byName))
	for name := range r.byName {
		ret = append(ret, name)
	}
	r.mux.RUnlock()
	sort.Strings(ret)
	return ret
}

// Builders returns registered builders keyed by id.
func (r *Registry) Builders() map[string]Builder {
	r.mux.RLock()
	ret := make(map[string]Builder, len(r.builders))
	for id, b := range r.builders {
		ret[id] = b
	}
	r.mux.RUnlock()
	return ret
}

func canonicalExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// New creates an empty builder registry.
func New() *Registry {
	return &Registry{builders: map[string]Builder{}, byExt: map[string]Builder{}, byName: map[string]*Claim{}}
}
