package options

import "fmt"

// Options holds the typly command line sub commands.
type Options struct {
	Scan    *Scan    `command:"scan" description:"discover model artifacts and list claimed type names"`
	Resolve *Resolve `command:"resolve" description:"project a nominal type from its artifact"`
	Print   *Print   `command:"print" description:"render the declaration unit synthesized for a type"`
	Check   *Check   `command:"check" description:"check assignability of a type against an interface"`
}

// Workspace returns the workspace flags of the active sub command.
func (o *Options) Workspace() *Workspace {
	switch {
	case o.Scan != nil:
		return &o.Scan.Workspace
	case o.Resolve != nil:
		return &o.Resolve.Workspace
	case o.Print != nil:
		return &o.Print.Workspace
	case o.Check != nil:
		return &o.Check.Workspace
	}
	return nil
}

// Init validates and normalizes the active sub command.
func (o *Options) Init() error {
	switch {
	case o.Scan != nil:
		return o.Scan.Init()
	case o.Resolve != nil:
		return o.Resolve.Init()
	case o.Print != nil:
		return o.Print.Init()
	case o.Check != nil:
		return o.Check.Init()
	}
	return fmt.Errorf("no command was specified")
}

// NewOptions pre allocates the sub command selected by the leading argument.
func NewOptions(args Arguments) *Options {
	ret := &Options{}
	if len(args) == 0 {
		return ret
	}
	switch args[0] {
	case "scan":
		ret.Scan = &Scan{}
	case "resolve":
		ret.Resolve = &Resolve{}
	case "print":
		ret.Print = &Print{}
	case "check":
		ret.Check = &Check{}
	}
	return ret
}
