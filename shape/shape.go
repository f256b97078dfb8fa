// Package shape holds the source models produced by source model builders: a
// structured description of a type to be projected. Models are immutable once
// returned by a builder; attribution reads them, it never writes them.
package shape

// Kind discriminates declarable type flavors.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
)

type (
	// Location points into the producing artifact, so diagnostics surface at
	// coordinates meaningful to the artifact author.
	Location struct {
		Line   int `json:",omitempty" yaml:",omitempty"`
		Column int `json:",omitempty" yaml:",omitempty"`
	}

	// Param describes a method parameter.
	Param struct {
		Name string `json:",omitempty"`
		Type Ref
	}

	// Method describes a callable member. An empty body means none was supplied.
	Method struct {
		Name     string
		Params   []Param
		Result   *Ref   `json:",omitempty"`
		Static   bool   `json:",omitempty"`
		Abstract bool   `json:",omitempty"`
		Body     string `json:",omitempty"`
		Location Location
	}

	// Field describes a data member.
	Field struct {
		Name     string
		Type     Ref
		Static   bool `json:",omitempty"`
		ReadOnly bool `json:",omitempty"`
		Location Location
	}

	// Type is the source model of one projected type.
	Type struct {
		Name        string
		Kind        Kind
		Structural  bool `json:",omitempty"`
		Dynamic     bool `json:",omitempty"`
		Supertypes  []Ref
		Fields      []Field
		Methods     []Method
		Nested      []*Type
		Annotations []string `json:",omitempty"`
		Location    Location
	}
)

// NewClass creates a class source model.
func NewClass(name string) *Type {
	return &Type{Name: name, Kind: KindClass}
}

// NewInterface creates an interface source model.
func NewInterface(name string) *Type {
	return &Type{Name: name, Kind: KindInterface}
}

// AddField appends a field and returns the model for chaining.
func (t *Type) AddField(name string, ref Ref) *Type {
	t.Fields = append(t.Fields, Field{Name: name, Type: ref})
	return t
}

// AddMethod appends a method and returns the model for chaining.
func (t *Type) AddMethod(method Method) *Type {
	t.Methods = append(t.Methods, method)
	return t
}

// AddNested appends a nested model and returns the parent for chaining.
func (t *Type) AddNested(nested *Type) *Type {
	t.Nested = append(t.Nested, nested)
	return t
}
