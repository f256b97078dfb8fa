// Package extension holds externally declared type extensions: instance and
// static methods injected into call resolution, interface mixins and
// annotation mixins. Declarations target nominal types by fully qualified
// name; candidate resolution is a pure function of the static receiver type.
package extension

import (
	"fmt"
	"strings"

	"github.com/viant/typly/types"
)

// Kind discriminates extension declaration flavors.
type Kind int

const (
	KindInstance Kind = iota
	KindStatic
	KindInterfaceMixin
	KindAnnotationMixin
)

func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindStatic:
		return "static"
	case KindInterfaceMixin:
		return "interfaceMixin"
	case KindAnnotationMixin:
		return "annotationMixin"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Declaration extends a nominal type from outside its projection. An instance
// method declares the receiver as its first parameter; the receiver may be nil
// at call time, so implementations must not assume otherwise.
type Declaration struct {
	Extended   string
	Kind       Kind
	Method     *types.Method
	Iface      string
	Annotation string
	Func       interface{}
	Source     string
}

// CallSignature returns the erased signature as seen at the call site: an
// instance declaration drops its receiver parameter.
func (d *Declaration) CallSignature() string {
	if d.Method == nil {
		return ""
	}
	params := d.Method.ParamTypes()
	if d.Kind == KindInstance && len(params) > 0 {
		params = params[1:]
	}
	return callKey(d.Method.Name, params)
}

// Validate reports structural problems before registration.
func (d *Declaration) Validate() error {
	if d.Extended == "" {
		return fmt.Errorf("extension declares no extended type")
	}
	switch d.Kind {
	case KindInstance:
		if d.Method == nil {
			return fmt.Errorf("instance extension of %v declares no method", d.Extended)
		}
		if len(d.Method.Params) == 0 {
			return fmt.Errorf("instance extension %v of %v declares no receiver", d.Method.Name, d.Extended)
		}
		if receiver := d.Method.Params[0].Type; receiver == nil || receiver.Name() != d.Extended {
			return fmt.Errorf("instance extension %v: receiver has to be %v", d.Method.Name, d.Extended)
		}
	case KindStatic:
		if d.Method == nil {
			return fmt.Errorf("static extension of %v declares no method", d.Extended)
		}
	case KindInterfaceMixin:
		if d.Iface == "" {
			return fmt.Errorf("interface mixin of %v names no interface", d.Extended)
		}
	case KindAnnotationMixin:
		if d.Annotation == "" {
			return fmt.Errorf("annotation mixin of %v names no annotation", d.Extended)
		}
	default:
		return fmt.Errorf("unknown extension kind %v", d.Kind)
	}
	return nil
}

func callKey(name string, params []*types.Type) string {
	builder := strings.Builder{}
	builder.WriteString(name)
	builder.WriteByte('(')
	for i, param := range params {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(param.Name())
	}
	builder.WriteByte(')')
	return builder.String()
}
