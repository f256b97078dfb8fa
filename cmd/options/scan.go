package options

// Scan discovers model artifacts and lists the claimed type names.
type Scan struct {
	Workspace
}

func (s *Scan) Init() error {
	return s.Workspace.Init()
}
