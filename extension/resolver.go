package extension

import (
	"fmt"

	"github.com/viant/typly/types"
)

// Candidate is one callable answer to a method lookup; Declaration is nil for
// a member method of the receiver itself.
type Candidate struct {
	Method      *types.Method
	Declaration *Declaration
	Distance    int
}

// Resolver answers the overload resolution seam: additional method candidates
// for a receiver, ordered by precedence.
type Resolver struct {
	registry *Registry
}

// CandidatesFor returns applicable instance call candidates for the static
// receiver type, members first (most derived override leading), then instance
// extensions by ascending hierarchy distance of their extended type. An
// extension whose call signature collides with a member is dropped, never
// shadowing it. Two applicable extensions at equal distance with one call
// signature make the call ambiguous. With nil args no applicability filtering
// happens. The answer depends only on the receiver's static type.
func (r *Resolver) CandidatesFor(receiver *types.Type, name string, args []*types.Type) ([]*Candidate, error) {
	if receiver == nil {
		return nil, fmt.Errorf("failed to resolve %v: receiver type was nil", name)
	}
	var ret []*Candidate
	memberKeys := map[string]bool{}
	for _, member := range receiver.MethodsByName(name) {
		if member.Static {
			continue
		}
		memberKeys[member.Erased()] = true
		if !applicable(member.ParamTypes(), args) {
			continue
		}
		ret = append(ret, &Candidate{Method: member})
	}

	seenAt := map[string]int{}
	for _, owner := range receiver.Hierarchy() {
		distance := receiver.Distance(owner)
		for _, declaration := range r.registry.DeclarationsFor(owner.Name()) {
			if declaration.Kind != KindInstance || declaration.Method.Name != name {
				continue
			}
			callParams := declaration.Method.ParamTypes()[1:]
			key := callKey(name, callParams)
			if memberKeys[key] {
				continue
			}
			if !applicable(callParams, args) {
				continue
			}
			if prevDistance, ok := seenAt[key]; ok {
				if prevDistance == distance {
					return nil, &AmbiguityError{Receiver: receiver.Name(), Signature: key, Sources: sourcesOf(ret, key, declaration)}
				}
				continue
			}
			seenAt[key] = distance
			ret = append(ret, &Candidate{Method: declaration.Method, Declaration: declaration, Distance: distance})
		}
	}
	return ret, nil
}

// StaticCandidatesFor returns applicable static call candidates declared on
// the type itself: static members first, then static extensions.
func (r *Resolver) StaticCandidatesFor(aType *types.Type, name string, args []*types.Type) ([]*Candidate, error) {
	if aType == nil {
		return nil, fmt.Errorf("failed to resolve %v: type was nil", name)
	}
	var ret []*Candidate
	memberKeys := map[string]bool{}
	for _, member := range aType.Methods() {
		if !member.Static || member.Name != name {
			continue
		}
		memberKeys[member.Erased()] = true
		if !applicable(member.ParamTypes(), args) {
			continue
		}
		ret = append(ret, &Candidate{Method: member})
	}
	for _, declaration := range r.registry.DeclarationsFor(aType.Name()) {
		if declaration.Kind != KindStatic || declaration.Method.Name != name {
			continue
		}
		if memberKeys[declaration.CallSignature()] {
			continue
		}
		if !applicable(declaration.Method.ParamTypes(), args) {
			continue
		}
		ret = append(ret, &Candidate{Method: declaration.Method, Declaration: declaration})
	}
	return ret, nil
}

func sourcesOf(candidates []*Candidate, key string, last *Declaration) []string {
	var ret []string
	for _, candidate := range candidates {
		if candidate.Declaration != nil && candidate.Declaration.CallSignature() == key {
			ret = append(ret, candidate.Declaration.Source)
		}
	}
	return append(ret, last.Source)
}

func applicable(params []*types.Type, args []*types.Type) bool {
	if args == nil {
		return true
	}
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if !types.AssignableTo(args[i], params[i]) {
			return false
		}
	}
	return true
}

// NewResolver creates a candidate resolver over the registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}
