// Package structural decides assignability of nominal types to structural
// interfaces and computes the per-pair method binding table consumed by the
// dispatch runtime. A required method is satisfied by a member method, an
// instance extension or a property backing field, in that order of precedence;
// parameters bind contravariantly and results covariantly, with safe primitive
// widening on both. Bindings are computed once per (type, interface) pair and
// cached until either side's projection is replaced.
package structural

import (
	"fmt"
	"strings"
	"sync"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typly/extension"
	"github.com/viant/typly/types"
)

type bindingKey struct {
	target string
	iface  string
}

// Checker answers the structural assignability seam.
type Checker struct {
	extensions *extension.Registry
	resolver   *extension.Resolver
	mux        sync.RWMutex
	bindings   map[bindingKey]*Binding
}

// Option customizes a checker.
type Option func(c *Checker)

// WithExtensions lets instance extensions and interface mixins participate.
func WithExtensions(registry *extension.Registry) Option {
	return func(c *Checker) {
		c.extensions = registry
		c.resolver = extension.NewResolver(registry)
	}
}

// IsAssignable reports whether target satisfies iface: nominally, through an
// interface mixin, or structurally when iface opted into shape matching.
func (c *Checker) IsAssignable(target, iface *types.Type) bool {
	if target == nil || iface == nil || iface.Kind() != types.KindInterface {
		return false
	}
	if target.IsSubtypeOf(iface) || c.hasMixin(target, iface.Name()) {
		return true
	}
	if !iface.Structural {
		return false
	}
	_, err := c.Bind(target, iface)
	return err == nil
}

// Bind returns the method map binding every required method of iface to its
// satisfier on target. The map is computed even for nominal implementations
// and mixins. Unsatisfied members of a dynamic target bind to its router;
// otherwise Bind fails with a NotAssignableError listing them.
func (c *Checker) Bind(target, iface *types.Type) (*Binding, error) {
	if target == nil || iface == nil {
		return nil, fmt.Errorf("failed to bind: type was nil")
	}
	if iface.Kind() != types.KindInterface {
		return nil, fmt.Errorf("failed to bind %v: %v is not an interface", target.Name(), iface.Name())
	}
	key := bindingKey{target: target.Name(), iface: iface.Name()}
	c.mux.RLock()
	cached, ok := c.bindings[key]
	c.mux.RUnlock()
	if ok {
		return cached, nil
	}
	binding, err := c.bind(target, iface)
	if err != nil {
		return nil, err
	}
	c.mux.Lock()
	c.bindings[key] = binding
	c.mux.Unlock()
	return binding, nil
}

// Invalidate drops every cached binding involving the named type or its
// nested types, on either side of the pair.
func (c *Checker) Invalidate(name string) {
	nested := name + "."
	c.mux.Lock()
	defer c.mux.Unlock()
	for key := range c.bindings {
		if involves(key.target, name, nested) || involves(key.iface, name, nested) {
			delete(c.bindings, key)
		}
	}
}

func involves(candidate, name, nested string) bool {
	return candidate == name || strings.HasPrefix(candidate, nested)
}

func (c *Checker) bind(target, iface *types.Type) (*Binding, error) {
	ret := &Binding{
		Target:  target,
		Iface:   iface,
		byName:  map[string]*MethodBinding{},
		Nominal: target.IsSubtypeOf(iface) || c.hasMixin(target, iface.Name()),
	}
	var unsatisfied []string
	for _, required := range requiredMethods(iface) {
		binding := c.satisfy(target, required)
		if binding == nil && target.Dynamic {
			binding = &MethodBinding{Name: required.Name, Signature: required.Erased(), Kind: BindRouter, Method: required}
		}
		if binding == nil {
			unsatisfied = append(unsatisfied, required.Signature())
			continue
		}
		ret.add(binding)
	}
	if len(unsatisfied) > 0 {
		return nil, &NotAssignableError{Target: target.Name(), Iface: iface.Name(), Unsatisfied: unsatisfied}
	}
	return ret, nil
}

// satisfy locates the highest precedence satisfier of required on target:
// member method, then instance extension, then property backing field.
func (c *Checker) satisfy(target *types.Type, required *types.Method) *MethodBinding {
	for _, member := range target.MethodsByName(required.Name) {
		if member.Static {
			continue
		}
		if callCompatible(member.ParamTypes(), member.Result, required) {
			return &MethodBinding{Name: required.Name, Signature: required.Erased(), Kind: BindMethod, Method: member}
		}
	}
	if binding := c.satisfyByExtension(target, required); binding != nil {
		return binding
	}
	return satisfyByField(target, required)
}

func (c *Checker) satisfyByExtension(target *types.Type, required *types.Method) *MethodBinding {
	if c.resolver == nil {
		return nil
	}
	candidates, err := c.resolver.CandidatesFor(target, required.Name, nil)
	if err != nil {
		return nil
	}
	for _, candidate := range candidates {
		if candidate.Declaration == nil {
			continue
		}
		callParams := candidate.Method.ParamTypes()[1:]
		if callCompatible(callParams, candidate.Method.Result, required) {
			return &MethodBinding{
				Name:        required.Name,
				Signature:   required.Erased(),
				Kind:        BindExtension,
				Method:      candidate.Method,
				Declaration: candidate.Declaration,
			}
		}
	}
	return nil
}

// satisfyByField binds accessor shaped requirements to a backing field:
// getX()/isX() read field x, setX(v) writes it. Names canonicalize through
// upper camel case so snake or lower camel fields still match.
func satisfyByField(target *types.Type, required *types.Method) *MethodBinding {
	property, mutator, ok := propertyName(required.Name)
	if !ok {
		return nil
	}
	field := fieldByProperty(target, property)
	if field == nil || field.Static {
		return nil
	}
	if mutator {
		if field.ReadOnly || len(required.Params) != 1 || required.Result != nil {
			return nil
		}
		if !types.AssignableTo(required.Params[0].Type, field.Type) {
			return nil
		}
		return &MethodBinding{Name: required.Name, Signature: required.Erased(), Kind: BindField, Field: field, Mutator: true}
	}
	if len(required.Params) != 0 || required.Result == nil {
		return nil
	}
	if !types.AssignableTo(field.Type, required.Result) {
		return nil
	}
	return &MethodBinding{Name: required.Name, Signature: required.Erased(), Kind: BindField, Field: field}
}

func (c *Checker) hasMixin(target *types.Type, iface string) bool {
	if c.extensions == nil {
		return false
	}
	for _, owner := range target.Hierarchy() {
		if c.extensions.HasMixin(owner.Name(), iface) {
			return true
		}
	}
	return false
}

// requiredMethods collects the instance method set of iface and its
// supertypes, most specific declaration first per erased signature.
func requiredMethods(iface *types.Type) []*types.Method {
	var ret []*types.Method
	seen := map[string]bool{}
	for _, owner := range iface.Hierarchy() {
		for _, method := range owner.Methods() {
			if method.Static {
				continue
			}
			key := method.Erased()
			if seen[key] {
				continue
			}
			seen[key] = true
			ret = append(ret, method)
		}
	}
	return ret
}

// callCompatible holds when the implementation accepts every declared
// parameter (contravariant) and returns into the declared result (covariant).
// A void requirement accepts any implementation result, the value is dropped.
func callCompatible(implParams []*types.Type, implResult *types.Type, required *types.Method) bool {
	requiredParams := required.ParamTypes()
	if len(implParams) != len(requiredParams) {
		return false
	}
	for i := range implParams {
		if !types.AssignableTo(requiredParams[i], implParams[i]) {
			return false
		}
	}
	if required.Result == nil {
		return true
	}
	return implResult != nil && types.AssignableTo(implResult, required.Result)
}

func propertyName(methodName string) (string, bool, bool) {
	for _, prefix := range []string{"get", "is"} {
		if property, ok := stripPrefix(methodName, prefix); ok {
			return property, false, true
		}
	}
	if property, ok := stripPrefix(methodName, "set"); ok {
		return property, true, true
	}
	return "", false, false
}

func stripPrefix(methodName, prefix string) (string, bool) {
	if len(methodName) <= len(prefix) || !strings.HasPrefix(methodName, prefix) {
		return "", false
	}
	property := methodName[len(prefix):]
	if property[0] >= 'a' && property[0] <= 'z' {
		return "", false
	}
	return property, true
}

func fieldByProperty(target *types.Type, property string) *types.Field {
	canonical := upperCamel(property)
	for _, owner := range target.Hierarchy() {
		for _, field := range owner.Fields() {
			if upperCamel(field.Name) == canonical {
				return field
			}
		}
	}
	return nil
}

func upperCamel(name string) string {
	if name == "" {
		return name
	}
	return text.DetectCaseFormat(name).Format(name, text.CaseFormatUpperCamel)
}

// New creates a checker; with no options only member methods and fields
// participate in satisfaction.
func New(opts ...Option) *Checker {
	ret := &Checker{bindings: map[bindingKey]*Binding{}}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
