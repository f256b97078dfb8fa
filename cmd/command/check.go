package command

import (
	"context"
	"fmt"

	"github.com/viant/typly"
	"github.com/viant/typly/structural"
)

func (s *Service) check(ctx context.Context, service *typly.Service, target, iface string) error {
	targetType, err := service.Resolve(ctx, target)
	if err != nil {
		return err
	}
	ifaceType, err := service.Resolve(ctx, iface)
	if err != nil {
		return err
	}
	binding, err := service.Bind(targetType, ifaceType)
	if err != nil {
		return err
	}
	for _, method := range binding.Methods {
		fmt.Fprintf(s.writer, "%v -> %v %v\n", method.Signature, method.Kind, satisfier(method))
	}
	fmt.Fprintf(s.writer, "%v is assignable to %v\n", target, iface)
	return nil
}

func satisfier(binding *structural.MethodBinding) string {
	switch binding.Kind {
	case structural.BindMethod:
		return binding.Method.Signature()
	case structural.BindField:
		return binding.Field.Name
	case structural.BindExtension:
		return binding.Declaration.Source
	case structural.BindRouter:
		return "(unbound)"
	}
	return ""
}
