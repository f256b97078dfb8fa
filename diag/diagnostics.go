package diag

import "sync"

// Sink receives diagnostics as they are reported; the host compiler supplies
// its own reporting channel through this contract.
type Sink interface {
	Report(diagnostic *Diagnostic)
}

// SinkFunc adapts a function to the Sink contract.
type SinkFunc func(diagnostic *Diagnostic)

func (f SinkFunc) Report(diagnostic *Diagnostic) {
	f(diagnostic)
}

// Diagnostics collects diagnostics, supports parallel reporting.
type Diagnostics struct {
	mux     sync.Mutex
	items   []*Diagnostic
	sink    Sink
	session string
}

// Report records a diagnostic and forwards it to the sink when one is set.
func (d *Diagnostics) Report(diagnostic *Diagnostic) {
	if diagnostic == nil {
		return
	}
	if diagnostic.Session == "" {
		diagnostic.Session = d.session
	}
	d.mux.Lock()
	d.items = append(d.items, diagnostic)
	sink := d.sink
	d.mux.Unlock()
	if sink != nil {
		sink.Report(diagnostic)
	}
}

// Items returns a snapshot of the reported diagnostics.
func (d *Diagnostics) Items() []*Diagnostic {
	d.mux.Lock()
	defer d.mux.Unlock()
	ret := make([]*Diagnostic, len(d.items))
	copy(ret, d.items)
	return ret
}

// HasError returns true when at least one error severity diagnostic was reported.
func (d *Diagnostics) HasError() bool {
	d.mux.Lock()
	defer d.mux.Unlock()
	for _, item := range d.items {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Reset discards collected diagnostics.
func (d *Diagnostics) Reset() {
	d.mux.Lock()
	defer d.mux.Unlock()
	d.items = nil
}

// New creates a diagnostics collector forwarding to an optional sink.
func New(session string, sink Sink) *Diagnostics {
	return &Diagnostics{session: session, sink: sink}
}
