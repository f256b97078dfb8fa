package builder

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

type (
	// Manifest is the workspace discovery document: optional artifact roots
	// plus bindings of builder ids to the extensions they claim, resolved
	// once at startup.
	Manifest struct {
		Roots    []string `yaml:"roots,omitempty" json:"roots,omitempty"`
		Builders []*Entry `yaml:"builders" json:"builders"`
	}

	// Entry is one manifest binding.
	Entry struct {
		ID         string   `yaml:"id" json:"id"`
		Extensions []string `yaml:"extensions" json:"extensions"`
	}

	// Factory creates a builder instance for a manifest entry.
	Factory func() Builder
)

// Validate reports structural manifest problems before any registration.
func (m *Manifest) Validate() error {
	if len(m.Builders) == 0 {
		return errors.Errorf("manifest declares no builders")
	}
	for i, entry := range m.Builders {
		if entry.ID == "" {
			return errors.Errorf("manifest builder[%v]: id was empty", i)
		}
		if len(entry.Extensions) == 0 {
			return errors.Errorf("manifest builder %v claims no extensions", entry.ID)
		}
	}
	return nil
}

// LoadManifest reads and validates a manifest document from the supplied URL,
// as JSON when the URL carries a .json extension, as YAML otherwise.
func LoadManifest(ctx context.Context, fs afs.Service, URL string) (*Manifest, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load manifest %v", URL)
	}
	manifest := &Manifest{}
	if strings.HasSuffix(URL, ".json") {
		err = json.Unmarshal(data, manifest)
	} else {
		err = yaml.Unmarshal(data, manifest)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %v", URL)
	}
	if err = manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Apply registers a builder per manifest entry using the supplied factories.
// An unknown factory id or a conflicting claim aborts the setup.
func (r *Registry) Apply(manifest *Manifest, factories map[string]Factory) error {
	for _, entry := range manifest.Builders {
		factory, ok := factories[entry.ID]
		if !ok {
			return errors.Errorf("manifest builder %v is not known", entry.ID)
		}
		if err := r.Register(factory(), entry.Extensions...); err != nil {
			return err
		}
	}
	return nil
}
