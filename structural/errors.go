package structural

import (
	"fmt"
	"strings"
)

// NotAssignableError lists the required signatures a type failed to satisfy.
type NotAssignableError struct {
	Target      string
	Iface       string
	Unsatisfied []string
}

func (e *NotAssignableError) Error() string {
	return fmt.Sprintf("%v does not structurally satisfy %v, unsatisfied: %v", e.Target, e.Iface, strings.Join(e.Unsatisfied, ", "))
}
