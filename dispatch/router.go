// Package dispatch executes structural interface calls at program run time:
// statically bound members through reflection, property fields through
// xunsafe, extensions through their declared functions, and members a
// dynamic type left unbound through the type's own router.
package dispatch

import (
	"context"
	"errors"

	"github.com/viant/typly/types"
)

// ErrUnhandled is the sentinel a router returns when it will not service a
// call; distinct from a nil result, which is a serviced call returning null.
var ErrUnhandled = errors.New("unhandled")

// Call frames one routed structural invocation.
type Call struct {
	Iface      string
	Member     string
	Result     *types.Type
	ParamTypes []*types.Type
	Args       []interface{}
}

// Router is the open dispatch contract a dynamic type's runtime value
// supplies: it services structural calls that have no static binding, or
// returns ErrUnhandled.
type Router interface {
	Call(ctx context.Context, call *Call) (interface{}, error)
}
