package compiler

import (
	"context"
	"fmt"

	"github.com/viant/typly/diag"
	"github.com/viant/typly/shape"
	"github.com/viant/typly/types"
)

// Attribute turns a unit into installed types in two phases: every declaration
// is first installed as a provisional stub, then members are attributed
// against the stubs and the resolve callback. Member references accept
// provisional types, so mutually referencing projections complete; supertype
// references demand completed projections and re-enter the pipeline instead.
// On any error the unit's installs are rolled back.
func (s *Service) Attribute(ctx context.Context, unit *Unit, resolve Resolve) (*types.Type, error) {
	if unit == nil || unit.Model == nil {
		return nil, fmt.Errorf("failed to attribute: unit was empty")
	}
	session := &attribution{
		host:     s,
		unit:     unit,
		resolve:  resolve,
		declared: map[string]*types.Type{},
	}
	ret, err := session.run(ctx)
	if err != nil {
		session.rollback()
		return nil, err
	}
	return ret, nil
}

type attribution struct {
	host      *Service
	unit      *Unit
	resolve   Resolve
	declared  map[string]*types.Type
	models    []*shape.Type
	installed []string
}

func (a *attribution) run(ctx context.Context) (*types.Type, error) {
	if err := a.declare(a.unit.Model); err != nil {
		return nil, err
	}
	for _, model := range a.models {
		if err := a.attributeMembers(ctx, model); err != nil {
			return nil, err
		}
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	for _, aType := range a.declared {
		aType.SetProvisional(false)
	}
	return a.declared[a.unit.Model.Name], nil
}

func (a *attribution) declare(model *shape.Type) error {
	if _, ok := a.declared[model.Name]; ok {
		return a.fail(model.Location, diag.CodeBuildFailure, "duplicate declaration of %v", model.Name)
	}
	aType := a.newType(model)
	aType.SetProvisional(true)
	if err := a.host.Install(aType); err != nil {
		return a.fail(model.Location, diag.CodeRegistrationConflict, "failed to declare %v, %v", model.Name, err)
	}
	a.installed = append(a.installed, model.Name)
	a.declared[model.Name] = aType
	a.models = append(a.models, model)
	for _, nested := range model.Nested {
		if err := a.declare(nested); err != nil {
			return err
		}
		aType.AddNested(a.declared[nested.Name])
	}
	return nil
}

func (a *attribution) newType(model *shape.Type) *types.Type {
	var ret *types.Type
	if model.Kind == shape.KindInterface {
		ret = types.NewInterface(model.Name)
	} else {
		ret = types.NewClass(model.Name)
	}
	ret.Structural = model.Structural
	ret.Dynamic = model.Dynamic
	for _, annotation := range model.Annotations {
		ret.AddAnnotation(annotation)
	}
	return ret
}

func (a *attribution) attributeMembers(ctx context.Context, model *shape.Type) error {
	owner := a.declared[model.Name]
	if err := a.attributeSupertypes(ctx, owner, model); err != nil {
		return err
	}
	for i := range model.Fields {
		field := model.Fields[i]
		fieldType, err := a.resolveMember(ctx, field.Type)
		if err != nil {
			return a.failWith(err, field.Location, diag.CodeUnresolvedName, "failed to attribute field %v.%v, %v", model.Name, field.Name, err)
		}
		member := types.NewField(field.Name, fieldType)
		member.Static = field.Static
		member.ReadOnly = field.ReadOnly
		owner.AddField(member)
	}
	for i := range model.Methods {
		method := model.Methods[i]
		params := make([]types.Param, 0, len(method.Params))
		for _, param := range method.Params {
			paramType, err := a.resolveMember(ctx, param.Type)
			if err != nil {
				return a.failWith(err, method.Location, diag.CodeUnresolvedName, "failed to attribute method %v.%v param %v, %v", model.Name, method.Name, param.Name, err)
			}
			params = append(params, types.Param{Name: param.Name, Type: paramType})
		}
		var result *types.Type
		if method.Result != nil {
			resolved, err := a.resolveMember(ctx, *method.Result)
			if err != nil {
				return a.failWith(err, method.Location, diag.CodeUnresolvedName, "failed to attribute method %v.%v result, %v", model.Name, method.Name, err)
			}
			result = resolved
		}
		member := types.NewMethod(method.Name, params, result)
		member.Static = method.Static
		member.Abstract = method.Abstract
		owner.AddMethod(member)
	}
	return nil
}

func (a *attribution) attributeSupertypes(ctx context.Context, owner *types.Type, model *shape.Type) error {
	classParents := 0
	for i := range model.Supertypes {
		ref := model.Supertypes[i]
		super, err := a.resolveSupertype(ctx, ref)
		if err != nil {
			return a.failWith(err, ref.Location, diag.CodeUnresolvedName, "failed to attribute supertype %v of %v, %v", ref.String(), model.Name, err)
		}
		switch super.Kind() {
		case types.KindPrimitive, types.KindArray:
			return a.fail(ref.Location, diag.CodeBuildFailure, "%v can not extend %v %v", model.Name, super.Kind(), super.Name())
		case types.KindClass:
			if owner.Kind() == types.KindInterface {
				return a.fail(ref.Location, diag.CodeBuildFailure, "interface %v can not extend class %v", model.Name, super.Name())
			}
			classParents++
			if classParents > 1 {
				return a.fail(ref.Location, diag.CodeBuildFailure, "%v declares more than one class parent", model.Name)
			}
		}
		owner.AddSupertype(super)
	}
	reorderClassParent(owner)
	return nil
}

// reorderClassParent moves the class parent, when declared, to the front; the
// first supertype of a class is its parent by convention.
func reorderClassParent(owner *types.Type) {
	if owner.Kind() != types.KindClass {
		return
	}
	supers := owner.Supertypes()
	for i, super := range supers {
		if super.Kind() == types.KindClass && i > 0 {
			parent := supers[i]
			copy(supers[1:i+1], supers[0:i])
			supers[0] = parent
			return
		}
	}
}

func (a *attribution) resolveMember(ctx context.Context, ref shape.Ref) (*types.Type, error) {
	elem, err := a.lookup(ctx, ref.Name, false)
	if err != nil {
		return nil, err
	}
	if ref.Array {
		return a.host.ArrayOf(elem), nil
	}
	return elem, nil
}

func (a *attribution) resolveSupertype(ctx context.Context, ref shape.Ref) (*types.Type, error) {
	if ref.Array {
		return nil, fmt.Errorf("array type %v can not be extended", ref.String())
	}
	return a.lookup(ctx, ref.Name, true)
}

// lookup resolves a name against the unit's own declarations, then the host
// symbol table, then the pipeline. With completed set a provisional symbol
// outside the unit does not satisfy the reference.
func (a *attribution) lookup(ctx context.Context, name string, completed bool) (*types.Type, error) {
	if ret, ok := a.declared[name]; ok {
		return ret, nil
	}
	if ret, ok := a.host.Lookup(name); ok && !(completed && ret.Provisional()) {
		return ret, nil
	}
	if a.resolve == nil {
		return nil, fmt.Errorf("unresolved name %v", name)
	}
	ret, err := a.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, fmt.Errorf("unresolved name %v", name)
	}
	if completed && ret.Provisional() {
		return nil, fmt.Errorf("projection of %v has not completed", name)
	}
	return ret, nil
}

func (a *attribution) validate() error {
	for _, model := range a.models {
		aType := a.declared[model.Name]
		fields := map[string]bool{}
		for _, field := range aType.Fields() {
			if fields[field.Name] {
				return a.fail(model.Location, diag.CodeBuildFailure, "duplicate field %v on %v", field.Name, aType.Name())
			}
			fields[field.Name] = true
		}
		methods := map[string]bool{}
		for _, method := range aType.Methods() {
			erased := method.Erased()
			if methods[erased] {
				return a.fail(model.Location, diag.CodeBuildFailure, "duplicate method %v on %v", erased, aType.Name())
			}
			methods[erased] = true
		}
		if hasSupertypeCycle(aType) {
			return a.fail(model.Location, diag.CodeBuildFailure, "cyclic supertype hierarchy on %v", aType.Name())
		}
	}
	return nil
}

func hasSupertypeCycle(aType *types.Type) bool {
	visited := map[*types.Type]bool{}
	onPath := map[*types.Type]bool{}
	var visit func(item *types.Type) bool
	visit = func(item *types.Type) bool {
		if onPath[item] {
			return true
		}
		if visited[item] {
			return false
		}
		visited[item] = true
		onPath[item] = true
		for _, super := range item.Supertypes() {
			if visit(super) {
				return true
			}
		}
		onPath[item] = false
		return false
	}
	return visit(aType)
}

func (a *attribution) rollback() {
	for _, name := range a.installed {
		a.host.Remove(name)
	}
}

func (a *attribution) fail(loc shape.Location, code string, format string, args ...interface{}) error {
	diagnostic := diag.NewError(diag.Location{URL: a.unit.URL, Line: loc.Line, Column: loc.Column}, code, format, args...)
	a.host.diagnostics.Report(diagnostic)
	return diagnostic
}

func (a *attribution) failWith(cause error, loc shape.Location, code string, format string, args ...interface{}) error {
	diagnostic := diag.NewError(diag.Location{URL: a.unit.URL, Line: loc.Line, Column: loc.Column}, code, format, args...)
	diagnostic.SetCause(cause)
	a.host.diagnostics.Report(diagnostic)
	return diagnostic
}
