// Package compiler synthesizes declaration units from source models and
// attributes them into the nominal type universe. The Service here is a
// reference host: a minimal symbol table and attribution contract standing in
// for the embedding compiler, so the projection pipeline runs end to end.
package compiler

import (
	"strings"

	"github.com/viant/typly/shape"
)

// Unit is a synthesized declaration unit: one top level source model with its
// nested declarations, tied to the artifact that produced it.
type Unit struct {
	Model *shape.Type
	URL   string
}

// Name returns the fully qualified name of the unit's top level declaration.
func (u *Unit) Name() string {
	if u.Model == nil {
		return ""
	}
	return u.Model.Name
}

// Render returns the unit as source like text, used by diagnostics and the CLI.
func (u *Unit) Render() string {
	if u.Model == nil {
		return ""
	}
	builder := &strings.Builder{}
	renderType(builder, u.Model, 0)
	return builder.String()
}

func renderType(builder *strings.Builder, model *shape.Type, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, annotation := range model.Annotations {
		builder.WriteString(indent)
		builder.WriteString("@")
		builder.WriteString(annotation)
		builder.WriteString("\n")
	}
	builder.WriteString(indent)
	if model.Dynamic {
		builder.WriteString("dynamic ")
	}
	if model.Structural {
		builder.WriteString("structural ")
	}
	if model.Kind == shape.KindInterface {
		builder.WriteString("interface ")
	} else {
		builder.WriteString("class ")
	}
	builder.WriteString(model.Name)
	if len(model.Supertypes) > 0 {
		builder.WriteString(" extends ")
		for i, super := range model.Supertypes {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(super.String())
		}
	}
	builder.WriteString(" {\n")
	memberIndent := strings.Repeat("    ", depth+1)
	for _, field := range model.Fields {
		builder.WriteString(memberIndent)
		if field.Static {
			builder.WriteString("static ")
		}
		if field.ReadOnly {
			builder.WriteString("readonly ")
		}
		builder.WriteString(field.Name)
		builder.WriteString(": ")
		builder.WriteString(field.Type.String())
		builder.WriteString("\n")
	}
	for _, method := range model.Methods {
		builder.WriteString(memberIndent)
		if method.Static {
			builder.WriteString("static ")
		}
		if method.Abstract {
			builder.WriteString("abstract ")
		}
		builder.WriteString(method.Name)
		builder.WriteString("(")
		for i, param := range method.Params {
			if i > 0 {
				builder.WriteString(", ")
			}
			if param.Name != "" {
				builder.WriteString(param.Name)
				builder.WriteString(": ")
			}
			builder.WriteString(param.Type.String())
		}
		builder.WriteString(")")
		if method.Result != nil {
			builder.WriteString(": ")
			builder.WriteString(method.Result.String())
		}
		builder.WriteString("\n")
	}
	for _, nested := range model.Nested {
		renderType(builder, nested, depth+1)
	}
	builder.WriteString(indent)
	builder.WriteString("}\n")
}

// NewUnit creates a unit for the supplied source model and artifact URL.
func NewUnit(model *shape.Type, URL string) *Unit {
	return &Unit{Model: model, URL: URL}
}
