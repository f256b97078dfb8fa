package diag

import (
	"fmt"
	"strings"
)

// Severity indicates how a diagnostic affects the surrounding compilation.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Diagnostic codes reported by the projection core.
const (
	CodeUnresolvedName       = "unresolvedName"
	CodeBuildFailure         = "buildFailure"
	CodeRegistrationConflict = "registrationConflict"
	CodeCyclicProjection     = "cyclicProjection"
	CodeDispatchUnhandled    = "dispatchUnhandled"
)

type (
	// Location identifies a position within a source artifact.
	Location struct {
		URL    string `json:",omitempty" yaml:",omitempty"`
		Line   int    `json:",omitempty" yaml:",omitempty"`
		Column int    `json:",omitempty" yaml:",omitempty"`
	}

	// Note attaches secondary context to a diagnostic, i.e. the reference
	// site that triggered a failed projection.
	Note struct {
		Location Location
		Message  string
	}

	// Diagnostic is a structured record forwarded to the host reporting sink.
	Diagnostic struct {
		Severity Severity
		Location Location
		Code     string
		Message  string
		Args     []interface{} `json:",omitempty" yaml:",omitempty"`
		Notes    []Note        `json:",omitempty" yaml:",omitempty"`
		Session  string        `json:",omitempty" yaml:",omitempty"`
		cause    error
	}
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// IsEmpty returns true when location carries no position.
func (l Location) IsEmpty() bool {
	return l.URL == "" && l.Line == 0 && l.Column == 0
}

func (l Location) String() string {
	if l.URL == "" {
		return "<unknown>"
	}
	if l.Line == 0 {
		return l.URL
	}
	if l.Column == 0 {
		return fmt.Sprintf("%v:%v", l.URL, l.Line)
	}
	return fmt.Sprintf("%v:%v:%v", l.URL, l.Line, l.Column)
}

// WithNote returns a copy of the diagnostic with a secondary note appended.
func (d *Diagnostic) WithNote(location Location, message string) *Diagnostic {
	ret := *d
	ret.Notes = append(append([]Note{}, d.Notes...), Note{Location: location, Message: message})
	return &ret
}

// SetCause records the underlying error so typed errors stay reachable
// through errors.As across the diagnostic boundary.
func (d *Diagnostic) SetCause(err error) *Diagnostic {
	d.cause = err
	return d
}

func (d *Diagnostic) Unwrap() error {
	return d.cause
}

func (d *Diagnostic) Error() string {
	return d.String()
}

func (d *Diagnostic) String() string {
	builder := strings.Builder{}
	builder.WriteString(d.Severity.String())
	builder.WriteString(": ")
	builder.WriteString(d.Location.String())
	builder.WriteString(": ")
	if d.Code != "" {
		builder.WriteString("[")
		builder.WriteString(d.Code)
		builder.WriteString("] ")
	}
	builder.WriteString(d.Message)
	for _, note := range d.Notes {
		builder.WriteString("\n\tnote: ")
		builder.WriteString(note.Location.String())
		builder.WriteString(": ")
		builder.WriteString(note.Message)
	}
	return builder.String()
}

// NewError creates an error diagnostic at the given location.
func NewError(location Location, code string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Location: location,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Args:     args,
	}
}

// NewWarning creates a warning diagnostic at the given location.
func NewWarning(location Location, code string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityWarning,
		Location: location,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Args:     args,
	}
}
