// Package builder defines the source model builder SPI and the registry the
// resolution pipeline consults to find the collaborator claiming a name.
package builder

import (
	"context"

	"github.com/viant/typly/artifact"
	"github.com/viant/typly/shape"
)

// Builder is implemented by each data source collaborator; given an artifact
// and a target fully qualified name it produces a source model or fails with
// an error the pipeline converts to a build failure diagnostic.
type Builder interface {
	// ID identifies the builder in manifests and conflict diagnostics.
	ID() string

	// Claims returns true when the builder understands the file extension.
	Claims(ext string) bool

	// AliasNames returns every fully qualified name the artifact claims; the
	// first one is the primary name all aliases resolve to.
	AliasNames(rawName string, a *artifact.Artifact) []string

	// Build produces the source model for the primary name.
	Build(ctx context.Context, name string, a *artifact.Artifact) (*shape.Type, error)

	// IsNestedType returns true when candidate may denote a type nested in the
	// projection of topLevel.
	IsNestedType(topLevel, candidate string) bool
}
