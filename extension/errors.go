package extension

import "fmt"

// ConflictError reports two callable extensions of one type sharing an erased
// call signature; registration fails rather than guessing at call sites.
type ConflictError struct {
	Extended  string
	Signature string
	First     string
	Second    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting extensions of %v: %v declared by %v and %v", e.Extended, e.Signature, e.First, e.Second)
}

// AmbiguityError reports equally specific applicable candidates.
type AmbiguityError struct {
	Receiver  string
	Signature string
	Sources   []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous call %v on %v, candidates from: %v", e.Signature, e.Receiver, e.Sources)
}
