package projection

import (
	"fmt"
	"strings"
)

// CycleError reports a projection that can not complete because the builds on
// its path wait on one another. Path lists the names in discovery order, with
// the repeated name closing the cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("detected cyclic projection: %v", strings.Join(e.Path, " -> "))
}
