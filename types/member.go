package types

import "strings"

type (
	// Param describes a method parameter.
	Param struct {
		Name string `json:",omitempty"`
		Type *Type
	}

	// Method describes a callable member of a type.
	Method struct {
		Name     string
		Params   []Param
		Result   *Type `json:",omitempty"`
		Static   bool  `json:",omitempty"`
		Abstract bool  `json:",omitempty"`
		owner    *Type
	}

	// Field describes a data member of a type.
	Field struct {
		Name     string
		Type     *Type
		Static   bool `json:",omitempty"`
		ReadOnly bool `json:",omitempty"`
		owner    *Type
	}
)

// Owner returns the type the method was attached to.
func (m *Method) Owner() *Type {
	return m.owner
}

// Erased returns the erased signature: name and parameter type names, no result.
func (m *Method) Erased() string {
	builder := strings.Builder{}
	builder.WriteString(m.Name)
	builder.WriteByte('(')
	for i, param := range m.Params {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(param.Type.Name())
	}
	builder.WriteByte(')')
	return builder.String()
}

// Signature returns the erased signature with the result appended, for display.
func (m *Method) Signature() string {
	ret := m.Erased()
	if m.Result != nil {
		ret += " " + m.Result.Name()
	}
	return ret
}

// ParamTypes returns the parameter types in declaration order.
func (m *Method) ParamTypes() []*Type {
	ret := make([]*Type, len(m.Params))
	for i := range m.Params {
		ret[i] = m.Params[i].Type
	}
	return ret
}

// Owner returns the type the field was attached to.
func (f *Field) Owner() *Type {
	return f.owner
}

// NewMethod creates a method with the supplied parameters and result; result may be nil.
func NewMethod(name string, params []Param, result *Type) *Method {
	return &Method{Name: name, Params: params, Result: result}
}

// NewField creates a field of the supplied type.
func NewField(name string, fieldType *Type) *Field {
	return &Field{Name: name, Type: fieldType}
}
