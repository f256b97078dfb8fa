package builder

import "fmt"

// ClaimConflictError reports two builders claiming the same file extension.
// It is fatal at setup; the registry never picks a silent winner.
type ClaimConflictError struct {
	Ext    string
	First  string
	Second string
}

func (e *ClaimConflictError) Error() string {
	return fmt.Sprintf("extension %v already claimed by builder %v, rejected claim of %v", e.Ext, e.First, e.Second)
}

// AliasConflictError reports two artifacts independently producing the same
// fully qualified name.
type AliasConflictError struct {
	Name      string
	FirstURL  string
	SecondURL string
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("name %v already claimed by artifact %v, rejected claim of %v", e.Name, e.FirstURL, e.SecondURL)
}
