package options

import "fmt"

// Resolve projects a nominal type from its artifact and prints it.
type Resolve struct {
	Workspace
	Name string `short:"n" long:"name" description:"fully qualified type name"`
}

func (r *Resolve) Init() error {
	if r.Name == "" {
		return fmt.Errorf("resolve: type name was empty")
	}
	return r.Workspace.Init()
}
