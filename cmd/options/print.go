package options

import "fmt"

// Print renders the declaration unit synthesized for a type.
type Print struct {
	Workspace
	Name string `short:"n" long:"name" description:"fully qualified type name"`
}

func (p *Print) Init() error {
	if p.Name == "" {
		return fmt.Errorf("print: type name was empty")
	}
	return p.Workspace.Init()
}
