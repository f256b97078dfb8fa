package resolver

import "fmt"

// NotFoundError reports a name no artifact claims and no installed symbol
// satisfies; the host compiler treats it as an ordinary unresolved symbol.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to resolve %v", e.Name)
}
