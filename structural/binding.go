package structural

import (
	"github.com/viant/typly/extension"
	"github.com/viant/typly/types"
)

// BindingKind names the satisfier flavor a required method bound to.
type BindingKind int

const (
	BindMethod BindingKind = iota
	BindField
	BindExtension
	BindRouter
)

func (k BindingKind) String() string {
	switch k {
	case BindMethod:
		return "method"
	case BindField:
		return "field"
	case BindExtension:
		return "extension"
	case BindRouter:
		return "router"
	}
	return "unknown"
}

// MethodBinding maps one required interface method to its satisfier on the
// target type. Method carries the satisfier member, the extension method
// alongside Declaration, or for BindRouter the required method itself so the
// runtime can frame the router call.
type MethodBinding struct {
	Name        string
	Signature   string
	Kind        BindingKind
	Method      *types.Method
	Field       *types.Field
	Declaration *extension.Declaration
	Mutator     bool
}

// Binding is the computed method map of a (type, interface) pair.
type Binding struct {
	Target  *types.Type
	Iface   *types.Type
	Methods []*MethodBinding
	byName  map[string]*MethodBinding
	Nominal bool
}

// Lookup returns the binding of the required method with the erased signature.
func (b *Binding) Lookup(erased string) *MethodBinding {
	return b.byName[erased]
}

// MethodsNamed returns bindings of all required methods sharing a name.
func (b *Binding) MethodsNamed(name string) []*MethodBinding {
	var ret []*MethodBinding
	for _, candidate := range b.Methods {
		if candidate.Name == name {
			ret = append(ret, candidate)
		}
	}
	return ret
}

func (b *Binding) add(binding *MethodBinding) {
	b.Methods = append(b.Methods, binding)
	b.byName[binding.Signature] = binding
}
