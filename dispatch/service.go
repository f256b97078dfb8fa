package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typly/extension"
	"github.com/viant/typly/logger"
	"github.com/viant/typly/structural"
	"github.com/viant/typly/types"
	"github.com/viant/xreflect"
	"github.com/viant/xunsafe"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Lookup locates a resolved nominal type by fully qualified name.
type Lookup func(name string) (*types.Type, bool)

// Service links Go runtime values to nominal types and invokes structural
// interface members against them using bindings computed by the checker. It
// holds no compiler state beyond the link index and is safe to call from any
// goroutine once links are registered.
type Service struct {
	checker *structural.Checker
	lookup  Lookup
	types   *xreflect.Types
	mux     sync.RWMutex
	reverse map[reflect.Type]string
	logger  *logger.Adapter
}

// Option customizes the dispatch service.
type Option func(s *Service)

// WithLogger routes dispatch call events to aLogger.
func WithLogger(aLogger logger.Logger) Option {
	return func(s *Service) {
		s.logger = logger.NewLogger(aLogger)
	}
}

// RegisterLink associates a nominal type name with the Go type of sample, so
// instances of it can be dispatched against structural interfaces.
func (s *Service) RegisterLink(name string, sample interface{}) error {
	if name == "" || sample == nil {
		return fmt.Errorf("failed to register link: name and sample were required")
	}
	rType := reflect.TypeOf(sample)
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if err := s.types.Register(name, xreflect.WithReflectType(rType)); err != nil {
		return err
	}
	s.mux.Lock()
	s.reverse[rType] = name
	s.mux.Unlock()
	return nil
}

// LinkedType returns the Go type linked to a nominal type name.
func (s *Service) LinkedType(name string) (reflect.Type, error) {
	return s.types.Lookup(name)
}

// Invoke calls member of iface on instance: the binding decides whether that
// lands on a member method, a backing field, an extension function or the
// instance's router. An ErrUnhandled router answer surfaces as *UnhandledError.
func (s *Service) Invoke(ctx context.Context, instance interface{}, iface *types.Type, member string, args ...interface{}) (interface{}, error) {
	if instance == nil {
		return nil, fmt.Errorf("failed to invoke %v: instance was nil", member)
	}
	target, err := s.targetOf(instance)
	if err != nil {
		return nil, err
	}
	result, routed, err := s.invoke(ctx, target, instance, iface, member, args)
	s.logger.DispatchCall(target.Name(), member, routed, err)
	return result, err
}

func (s *Service) invoke(ctx context.Context, target *types.Type, instance interface{}, iface *types.Type, member string, args []interface{}) (interface{}, bool, error) {
	binding, err := s.checker.Bind(target, iface)
	if err != nil {
		return nil, false, fmt.Errorf("failed to invoke %v.%v on %v, %w", iface.Name(), member, target.Name(), err)
	}
	bound := selectBinding(binding.MethodsNamed(member), len(args))
	if bound == nil {
		return nil, false, fmt.Errorf("failed to invoke %v.%v on %v: no binding takes %v args", iface.Name(), member, target.Name(), len(args))
	}
	switch bound.Kind {
	case structural.BindMethod:
		result, err := s.callMethod(instance, bound, args)
		return result, false, err
	case structural.BindField:
		result, err := s.callField(instance, bound, args)
		return result, false, err
	case structural.BindExtension:
		result, err := s.InvokeExtension(ctx, bound.Declaration, instance, args...)
		return result, false, err
	case structural.BindRouter:
		result, err := s.callRouter(ctx, target, instance, iface, bound, args)
		return result, true, err
	}
	return nil, false, fmt.Errorf("failed to invoke %v.%v: unsupported binding %v", iface.Name(), member, bound.Kind)
}

// InvokeExtension calls an extension declaration's runtime function with the
// receiver as its leading argument. A nil receiver is passed through as the
// zero value; the extension owns null handling.
func (s *Service) InvokeExtension(ctx context.Context, declaration *extension.Declaration, receiver interface{}, args ...interface{}) (interface{}, error) {
	if declaration == nil || declaration.Func == nil {
		return nil, fmt.Errorf("failed to invoke extension: no runtime function declared")
	}
	fn := reflect.ValueOf(declaration.Func)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("failed to invoke extension %v: func was %T", declaration.Source, declaration.Func)
	}
	return call(fn, append([]interface{}{receiver}, args...))
}

func (s *Service) callMethod(instance interface{}, binding *structural.MethodBinding, args []interface{}) (interface{}, error) {
	value := reflect.ValueOf(instance)
	goName := upperCamel(binding.Method.Name)
	method := value.MethodByName(goName)
	if !method.IsValid() && value.Kind() != reflect.Ptr {
		ptr := reflect.New(value.Type())
		ptr.Elem().Set(value)
		method = ptr.MethodByName(goName)
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("linked %v has no method %v", value.Type(), goName)
	}
	return call(method, args)
}

func (s *Service) callField(instance interface{}, binding *structural.MethodBinding, args []interface{}) (interface{}, error) {
	value := reflect.ValueOf(instance)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("field binding of %v needs a struct pointer, had %T", binding.Field.Name, instance)
	}
	goName := upperCamel(binding.Field.Name)
	field := xunsafe.FieldByName(value.Elem().Type(), goName)
	if field == nil {
		return nil, fmt.Errorf("linked %v has no field %v", value.Elem().Type(), goName)
	}
	ptr := xunsafe.AsPointer(instance)
	if !binding.Mutator {
		return field.Value(ptr), nil
	}
	arg := args[0]
	if arg == nil {
		field.SetValue(ptr, reflect.Zero(field.Type).Interface())
		return nil, nil
	}
	argValue := reflect.ValueOf(arg)
	if argValue.Type() != field.Type && argValue.Type().ConvertibleTo(field.Type) {
		arg = argValue.Convert(field.Type).Interface()
	}
	field.SetValue(ptr, arg)
	return nil, nil
}

func (s *Service) callRouter(ctx context.Context, target *types.Type, instance interface{}, iface *types.Type, binding *structural.MethodBinding, args []interface{}) (interface{}, error) {
	router, ok := instance.(Router)
	if !ok {
		return nil, fmt.Errorf("%v declares dynamic dispatch but %T implements no router", target.Name(), instance)
	}
	result, err := router.Call(ctx, &Call{
		Iface:      iface.Name(),
		Member:     binding.Name,
		Result:     binding.Method.Result,
		ParamTypes: binding.Method.ParamTypes(),
		Args:       args,
	})
	if errors.Is(err, ErrUnhandled) {
		return nil, &UnhandledError{Target: target.Name(), Iface: iface.Name(), Member: binding.Name}
	}
	return result, err
}

func (s *Service) targetOf(instance interface{}) (*types.Type, error) {
	rType := reflect.TypeOf(instance)
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	s.mux.RLock()
	name, ok := s.reverse[rType]
	s.mux.RUnlock()
	if !ok {
		return nil, fmt.Errorf("failed to dispatch: %v links to no nominal type", rType)
	}
	target, ok := s.lookup(name)
	if !ok {
		return nil, fmt.Errorf("failed to dispatch: linked %v is not resolved", name)
	}
	return target, nil
}

func selectBinding(bindings []*structural.MethodBinding, argCount int) *structural.MethodBinding {
	for _, candidate := range bindings {
		switch candidate.Kind {
		case structural.BindField:
			expected := 0
			if candidate.Mutator {
				expected = 1
			}
			if argCount == expected {
				return candidate
			}
		case structural.BindExtension:
			if len(candidate.Method.Params)-1 == argCount {
				return candidate
			}
		default:
			if len(candidate.Method.Params) == argCount {
				return candidate
			}
		}
	}
	return nil
}

func call(fn reflect.Value, args []interface{}) (interface{}, error) {
	fnType := fn.Type()
	if fnType.NumIn() != len(args) {
		return nil, fmt.Errorf("%v takes %v args, had %v", fnType, fnType.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(fnType.In(i))
			continue
		}
		value := reflect.ValueOf(arg)
		if value.Type() != fnType.In(i) && value.Type().ConvertibleTo(fnType.In(i)) {
			value = value.Convert(fnType.In(i))
		}
		in[i] = value
	}
	return unwrap(fn.Call(in))
}

// unwrap maps reflect results to the (value, error) shape, honoring the Go
// trailing error convention.
func unwrap(out []reflect.Value) (interface{}, error) {
	if len(out) == 0 {
		return nil, nil
	}
	var err error
	last := out[len(out)-1]
	if last.Type() == errType || last.Type().Implements(errType) {
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, err
	}
	return out[0].Interface(), err
}

func upperCamel(name string) string {
	if name == "" {
		return name
	}
	return text.DetectCaseFormat(name).Format(name, text.CaseFormatUpperCamel)
}

// New creates a dispatch service over the checker's bindings; lookup locates
// resolved nominal types for linked Go values.
func New(checker *structural.Checker, lookup Lookup, opts ...Option) *Service {
	ret := &Service{
		checker: checker,
		lookup:  lookup,
		types:   xreflect.NewTypes(),
		reverse: map[reflect.Type]string{},
		logger:  logger.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
