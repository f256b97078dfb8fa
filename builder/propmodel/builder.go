// Package propmodel is a source model builder for tabular key value
// artifacts. Each entry becomes a field with a primitive type inferred from
// its value, dotted keys fold into nested types, and the reserved .extends
// entry declares supertypes.
package propmodel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typly/artifact"
	"github.com/viant/typly/shape"
)

// extendsKey declares supertype references, comma separated.
const extendsKey = ".extends"

// Builder claims .properties artifacts.
type Builder struct{}

// ID returns the manifest id.
func (b *Builder) ID() string {
	return "propmodel"
}

// Claims returns true for the properties extension.
func (b *Builder) Claims(ext string) bool {
	return ext == ".properties"
}

// AliasNames claims the raw name and its extension suffixed alias.
func (b *Builder) AliasNames(rawName string, a *artifact.Artifact) []string {
	return []string{rawName, rawName + ".properties"}
}

// IsNestedType optimistically claims dotted descendants of the top level name;
// resolution fails with an unresolved name when the projection has no such member.
func (b *Builder) IsNestedType(topLevel, candidate string) bool {
	return len(candidate) > len(topLevel) && candidate[:len(topLevel)+1] == topLevel+"."
}

// Build parses entries and folds them into the source model.
func (b *Builder) Build(ctx context.Context, name string, a *artifact.Artifact) (*shape.Type, error) {
	data, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %v, %w", a.URL, err)
	}
	root := newPropNode(0)
	var supertypes []shape.Ref
	for i := range entries {
		anEntry := entries[i]
		if anEntry.key == extendsKey {
			refs, err := parseSupertypes(anEntry)
			if err != nil {
				return nil, err
			}
			supertypes = append(supertypes, refs...)
			continue
		}
		if err = root.put(strings.Split(anEntry.key, "."), anEntry); err != nil {
			return nil, err
		}
	}
	ret, err := root.render(name)
	if err != nil {
		return nil, err
	}
	ret.Supertypes = supertypes
	return ret, nil
}

func parseSupertypes(anEntry entry) ([]shape.Ref, error) {
	var ret []shape.Ref
	for _, item := range strings.Split(anEntry.value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		ref, err := shape.ParseRef(item)
		if err != nil {
			return nil, fmt.Errorf("line %v: invalid supertype %v, %w", anEntry.line, item, err)
		}
		ref.Location = shape.Location{Line: anEntry.line}
		ret = append(ret, ref)
	}
	return ret, nil
}

// propNode is an intermediate tree folding dotted keys into nested groups.
type propNode struct {
	line     int
	keys     []string
	leaves   map[string]entry
	branches map[string]*propNode
}

func newPropNode(line int) *propNode {
	return &propNode{line: line, leaves: map[string]entry{}, branches: map[string]*propNode{}}
}

func (n *propNode) put(path []string, anEntry entry) error {
	head := path[0]
	if head == "" {
		return fmt.Errorf("line %v: empty key segment in %v", anEntry.line, anEntry.key)
	}
	if len(path) == 1 {
		if _, ok := n.branches[head]; ok {
			return fmt.Errorf("line %v: key %v is both a value and a group", anEntry.line, anEntry.key)
		}
		if _, ok := n.leaves[head]; !ok {
			n.keys = append(n.keys, head)
		}
		n.leaves[head] = anEntry
		return nil
	}
	if _, ok := n.leaves[head]; ok {
		return fmt.Errorf("line %v: key %v is both a value and a group", anEntry.line, anEntry.key)
	}
	branch, ok := n.branches[head]
	if !ok {
		branch = newPropNode(anEntry.line)
		n.branches[head] = branch
		n.keys = append(n.keys, head)
	}
	return branch.put(path[1:], anEntry)
}

func (n *propNode) render(name string) (*shape.Type, error) {
	ret := shape.NewClass(name)
	for _, key := range n.keys {
		if anEntry, ok := n.leaves[key]; ok {
			ref := scalarRef(anEntry.value)
			ref.Location = shape.Location{Line: anEntry.line}
			ret.Fields = append(ret.Fields, shape.Field{Name: key, Type: ref, Location: shape.Location{Line: anEntry.line}})
			continue
		}
		branch := n.branches[key]
		nestedName := name + "." + typeName(key)
		nested, err := branch.render(nestedName)
		if err != nil {
			return nil, err
		}
		ret.AddNested(nested)
		ref := shape.Ref{Name: nestedName, Location: shape.Location{Line: branch.line}}
		ret.Fields = append(ret.Fields, shape.Field{Name: key, Type: ref, Location: shape.Location{Line: branch.line}})
	}
	return ret, nil
}

func scalarRef(value string) shape.Ref {
	switch value {
	case "true", "false":
		return shape.Ref{Name: "bool"}
	}
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return shape.Ref{Name: "int64"}
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return shape.Ref{Name: "float64"}
	}
	return shape.Ref{Name: "string"}
}

func typeName(key string) string {
	return text.DetectCaseFormat(key).Format(key, text.CaseFormatUpperCamel)
}

// New creates a properties source model builder.
func New() *Builder {
	return &Builder{}
}
