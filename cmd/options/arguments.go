package options

// Arguments is the raw command line, with helpers answering mode questions
// before any parsing happens.
type Arguments []string

var commands = map[string]bool{
	"scan":    true,
	"resolve": true,
	"print":   true,
	"check":   true,
}

// SubMode returns true when the leading argument selects a sub command.
func (a Arguments) SubMode() bool {
	if len(a) == 0 {
		return false
	}
	return commands[a[0]]
}

// IsHelp returns true when the command line asks for usage help.
func (a Arguments) IsHelp() bool {
	for _, arg := range a {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

// IsVersion returns true when the command line asks for the version outside
// of any sub command.
func (a Arguments) IsVersion() bool {
	if a.SubMode() {
		return false
	}
	for _, arg := range a {
		if arg == "-v" || arg == "--version" {
			return true
		}
	}
	return false
}
