package options

import "fmt"

// Check reports whether a type is assignable to an interface and how each
// required method binds.
type Check struct {
	Workspace
	Target string `short:"t" long:"type" description:"fully qualified target type name"`
	Iface  string `short:"i" long:"iface" description:"fully qualified interface name"`
}

func (c *Check) Init() error {
	if c.Target == "" || c.Iface == "" {
		return fmt.Errorf("check: both type and interface names are required")
	}
	return c.Workspace.Init()
}
