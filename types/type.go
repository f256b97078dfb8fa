package types

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the flavors of types in the universe.
type Kind int

const (
	KindPrimitive Kind = iota
	KindClass
	KindInterface
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindArray:
		return "array"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is a nominal type symbol. One instance exists per installed
// fully qualified name; pointer identity is the sharing contract.
// A type is mutable only while its projection is being attributed;
// once installed it has to be treated as read only.
type Type struct {
	name        string
	kind        Kind
	Structural  bool `json:",omitempty"`
	Dynamic     bool `json:",omitempty"`
	supertypes  []*Type
	fields      []*Field
	methods     []*Method
	nested      []*Type
	annotations []string
	elem        *Type
	provisional bool
	bits        int
	class       numberClass
}

// Name returns the fully qualified name.
func (t *Type) Name() string {
	return t.name
}

// Kind returns the type kind.
func (t *Type) Kind() Kind {
	return t.kind
}

// Elem returns the element type of an array type, nil otherwise.
func (t *Type) Elem() *Type {
	return t.elem
}

// Supertypes returns the declared supertypes; for a class the first entry
// is the parent class when one was declared.
func (t *Type) Supertypes() []*Type {
	return t.supertypes
}

// Fields returns the declared fields.
func (t *Type) Fields() []*Field {
	return t.fields
}

// Methods returns the declared methods.
func (t *Type) Methods() []*Method {
	return t.methods
}

// Nested returns the nested types.
func (t *Type) Nested() []*Type {
	return t.nested
}

// Annotations returns annotations attached to the type.
func (t *Type) Annotations() []string {
	return t.annotations
}

// Provisional reports whether the type is still being attributed.
func (t *Type) Provisional() bool {
	return t.provisional
}

// SetProvisional flips the attribution marker; the projection pipeline
// serializes builds per name, so no locking is involved.
func (t *Type) SetProvisional(flag bool) {
	t.provisional = flag
}

// AddSupertype appends a supertype.
func (t *Type) AddSupertype(super *Type) {
	t.supertypes = append(t.supertypes, super)
}

// AddField appends a field and takes ownership of it.
func (t *Type) AddField(field *Field) {
	field.owner = t
	t.fields = append(t.fields, field)
}

// AddMethod appends a method and takes ownership of it.
func (t *Type) AddMethod(method *Method) {
	method.owner = t
	t.methods = append(t.methods, method)
}

// AddNested appends a nested type.
func (t *Type) AddNested(nested *Type) {
	t.nested = append(t.nested, nested)
}

// AddAnnotation attaches an annotation unless already present.
func (t *Type) AddAnnotation(annotation string) {
	for _, item := range t.annotations {
		if item == annotation {
			return
		}
	}
	t.annotations = append(t.annotations, annotation)
}

// IsSubtypeOf returns true when t equals super or reaches it through the
// declared supertype graph.
func (t *Type) IsSubtypeOf(super *Type) bool {
	if t == super {
		return true
	}
	for _, candidate := range t.supertypes {
		if candidate.IsSubtypeOf(super) {
			return true
		}
	}
	return false
}

// Hierarchy returns a breadth first linearization of the type and its
// supertypes, most specific first, each type listed once.
func (t *Type) Hierarchy() []*Type {
	var ret []*Type
	seen := map[*Type]bool{}
	level := []*Type{t}
	for len(level) > 0 {
		var next []*Type
		for _, item := range level {
			if seen[item] {
				continue
			}
			seen[item] = true
			ret = append(ret, item)
			next = append(next, item.supertypes...)
		}
		level = next
	}
	return ret
}

// Distance returns the minimal number of supertype hops from t to super,
// 0 for t itself, -1 when super is not in the hierarchy.
func (t *Type) Distance(super *Type) int {
	distance := 0
	seen := map[*Type]bool{}
	level := []*Type{t}
	for len(level) > 0 {
		var next []*Type
		for _, item := range level {
			if seen[item] {
				continue
			}
			seen[item] = true
			if item == super {
				return distance
			}
			next = append(next, item.supertypes...)
		}
		level = next
		distance++
	}
	return -1
}

// MethodsByName returns all methods with the given name, the receiver's own
// first, then inherited ones in hierarchy order; overridden methods
// (identical erased signature on a more specific type) are dropped.
func (t *Type) MethodsByName(name string) []*Method {
	var ret []*Method
	seen := map[string]bool{}
	for _, owner := range t.Hierarchy() {
		for _, method := range owner.methods {
			if method.Name != name {
				continue
			}
			erased := method.Erased()
			if seen[erased] {
				continue
			}
			seen[erased] = true
			ret = append(ret, method)
		}
	}
	return ret
}

// FieldByName returns the most specific field with the given name, nil when absent.
func (t *Type) FieldByName(name string) *Field {
	for _, owner := range t.Hierarchy() {
		for _, field := range owner.fields {
			if field.Name == name {
				return field
			}
		}
	}
	return nil
}

// NestedByName returns the nested type with the given simple or qualified name.
func (t *Type) NestedByName(name string) *Type {
	for _, nested := range t.nested {
		if nested.name == name || SimpleName(nested.name) == name {
			return nested
		}
	}
	return nil
}

// MarshalJSON renders the type with member types reduced to their names,
// keeping the encoding acyclic.
func (t *Type) MarshalJSON() ([]byte, error) {
	type fieldView struct {
		Name     string
		Type     string
		Static   bool `json:",omitempty"`
		ReadOnly bool `json:",omitempty"`
	}
	type methodView struct {
		Name     string
		Params   []string
		Result   string `json:",omitempty"`
		Static   bool   `json:",omitempty"`
		Abstract bool   `json:",omitempty"`
	}
	view := struct {
		Name        string
		Kind        string
		Structural  bool          `json:",omitempty"`
		Dynamic     bool          `json:",omitempty"`
		Supertypes  []string      `json:",omitempty"`
		Fields      []fieldView   `json:",omitempty"`
		Methods     []methodView  `json:",omitempty"`
		Nested      []*Type       `json:",omitempty"`
		Annotations []string      `json:",omitempty"`
	}{
		Name:        t.name,
		Kind:        t.kind.String(),
		Structural:  t.Structural,
		Dynamic:     t.Dynamic,
		Nested:      t.nested,
		Annotations: t.annotations,
	}
	for _, super := range t.supertypes {
		view.Supertypes = append(view.Supertypes, super.name)
	}
	for _, field := range t.fields {
		view.Fields = append(view.Fields, fieldView{Name: field.Name, Type: field.Type.name, Static: field.Static, ReadOnly: field.ReadOnly})
	}
	for _, method := range t.methods {
		item := methodView{Name: method.Name, Static: method.Static, Abstract: method.Abstract}
		for _, param := range method.Params {
			item.Params = append(item.Params, param.Type.name)
		}
		if method.Result != nil {
			item.Result = method.Result.name
		}
		view.Methods = append(view.Methods, item)
	}
	return json.Marshal(view)
}

func (t *Type) String() string {
	return t.name
}

// NewClass creates a class type.
func NewClass(name string) *Type {
	return &Type{name: name, kind: KindClass}
}

// NewInterface creates an interface type.
func NewInterface(name string) *Type {
	return &Type{name: name, kind: KindInterface}
}

// NewStructuralInterface creates an interface satisfiable by shape.
func NewStructuralInterface(name string) *Type {
	return &Type{name: name, kind: KindInterface, Structural: true}
}

func newArray(elem *Type) *Type {
	return &Type{name: elem.name + "[]", kind: KindArray, elem: elem}
}
