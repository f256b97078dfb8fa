// Package jsonmodel is the reference source model builder for JSON artifacts.
// A document is treated as a sample instance: keys become fields, nested
// objects become nested types, and scalar kinds map to primitives. It is a
// collaborator of the resolution pipeline, not part of the core.
package jsonmodel

import (
	"bytes"
	"context"

	"github.com/francoispqt/gojay"
	"github.com/pkg/errors"
	"github.com/viant/tagly/format/text"
	"github.com/viant/typly/artifact"
	"github.com/viant/typly/shape"
)

// Builder claims .json artifacts.
type Builder struct{}

// ID returns the manifest id.
func (b *Builder) ID() string {
	return "jsonmodel"
}

// Claims returns true for the json extension.
func (b *Builder) Claims(ext string) bool {
	return ext == ".json"
}

// AliasNames claims the raw name and its extension suffixed alias.
func (b *Builder) AliasNames(rawName string, a *artifact.Artifact) []string {
	return []string{rawName, rawName + ".json"}
}

// IsNestedType optimistically claims dotted descendants of the top level name;
// resolution fails with an unresolved name when the projection has no such member.
func (b *Builder) IsNestedType(topLevel, candidate string) bool {
	return len(candidate) > len(topLevel) && candidate[:len(topLevel)+1] == topLevel+"."
}

// Build parses the sample document and derives the source model.
func (b *Builder) Build(ctx context.Context, name string, a *artifact.Artifact) (*shape.Type, error) {
	data, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	root := newNode()
	if err = gojay.UnmarshalJSONObject(data, root); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %v", a.URL)
	}
	return buildType(name, root)
}

type node struct {
	keys   []string
	values map[string]gojay.EmbeddedJSON
}

func (n *node) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	raw := gojay.EmbeddedJSON{}
	if err := dec.AddEmbeddedJSON(&raw); err != nil {
		return err
	}
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = raw
	return nil
}

func (n *node) NKeys() int {
	return 0
}

func newNode() *node {
	return &node{values: map[string]gojay.EmbeddedJSON{}}
}

type elements []gojay.EmbeddedJSON

func (e *elements) UnmarshalJSONArray(dec *gojay.Decoder) error {
	raw := gojay.EmbeddedJSON{}
	if err := dec.AddEmbeddedJSON(&raw); err != nil {
		return err
	}
	*e = append(*e, raw)
	return nil
}

func buildType(name string, n *node) (*shape.Type, error) {
	ret := shape.NewClass(name)
	for _, key := range n.keys {
		ref, nested, err := fieldRef(name, key, n.values[key])
		if err != nil {
			return nil, err
		}
		if nested != nil {
			ret.AddNested(nested)
		}
		ret.AddField(key, ref)
	}
	return ret, nil
}

func fieldRef(owner, key string, raw gojay.EmbeddedJSON) (shape.Ref, *shape.Type, error) {
	value := bytes.TrimSpace(raw)
	if len(value) == 0 {
		return shape.Ref{Name: "string"}, nil, nil
	}
	switch value[0] {
	case '{':
		nestedName := owner + "." + typeName(key)
		child := newNode()
		if err := gojay.UnmarshalJSONObject(value, child); err != nil {
			return shape.Ref{}, nil, errors.Wrapf(err, "failed to parse member %v", key)
		}
		nested, err := buildType(nestedName, child)
		if err != nil {
			return shape.Ref{}, nil, err
		}
		return shape.Ref{Name: nestedName}, nested, nil
	case '[':
		items := elements{}
		if err := gojay.UnmarshalJSONArray(value, &items); err != nil {
			return shape.Ref{}, nil, errors.Wrapf(err, "failed to parse member %v", key)
		}
		if len(items) == 0 {
			return shape.Ref{Name: "string", Array: true}, nil, nil
		}
		elemRef, nested, err := fieldRef(owner, key, items[0])
		if err != nil {
			return shape.Ref{}, nil, err
		}
		elemRef.Array = true
		return elemRef, nested, nil
	default:
		return shape.Ref{Name: scalarName(value)}, nil, nil
	}
}

func scalarName(value []byte) string {
	switch value[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case 'n':
		return "string"
	}
	if bytes.ContainsAny(value, ".eE") {
		return "float64"
	}
	return "int64"
}

func typeName(key string) string {
	return text.DetectCaseFormat(key).Format(key, text.CaseFormatUpperCamel)
}

// New creates a json source model builder.
func New() *Builder {
	return &Builder{}
}
