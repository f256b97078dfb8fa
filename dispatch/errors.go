package dispatch

import "fmt"

// UnhandledError reports a router declining a call that had no static
// fallback. It unwraps to ErrUnhandled.
type UnhandledError struct {
	Target string
	Iface  string
	Member string
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("router of %v returned unhandled for %v.%v", e.Target, e.Iface, e.Member)
}

func (e *UnhandledError) Unwrap() error {
	return ErrUnhandled
}
