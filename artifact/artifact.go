// Package artifact represents the external resources backing projected types
// and their discovery. All byte access goes through afs, so artifacts may live
// on any supported storage scheme.
package artifact

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/viant/afs"
)

type (
	// Fingerprint captures the content marker of an artifact at a point in
	// time; a differing fingerprint invalidates every cache entry keyed to it.
	Fingerprint struct {
		ModTime time.Time
		Size    int64
	}

	// Artifact is an external resource plus the raw dotted name derived from
	// its location. Builders may derive further alias names from it.
	Artifact struct {
		URL  string
		Name string
		Ext  string
		fs   afs.Service
	}
)

// IsZero returns true for the zero fingerprint.
func (f Fingerprint) IsZero() bool {
	return f.ModTime.IsZero() && f.Size == 0
}

// Equal compares two fingerprints.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.ModTime.Equal(other.ModTime) && f.Size == other.Size
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%v-%v", f.ModTime.UnixNano(), f.Size)
}

// Load reads the artifact content.
func (a *Artifact) Load(ctx context.Context) ([]byte, error) {
	reader, err := a.fs.OpenURL(ctx, a.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %v, err: %w", a.URL, err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Fingerprint stats the backing resource; it is called on every resolution
// request so stale projections are never served.
func (a *Artifact) Fingerprint(ctx context.Context) (Fingerprint, error) {
	object, err := a.fs.Object(ctx, a.URL)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to stat artifact %v, err: %w", a.URL, err)
	}
	return Fingerprint{ModTime: object.ModTime(), Size: object.Size()}, nil
}

func (a *Artifact) String() string {
	return a.URL
}

// New creates an artifact with the raw name derived by the caller.
func New(fs afs.Service, URL, name string) *Artifact {
	return &Artifact{URL: URL, Name: name, Ext: path.Ext(URL), fs: fs}
}
