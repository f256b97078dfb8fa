package artifact

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
)

// Locator discovers artifacts under the configured root URLs. The raw dotted
// name of an artifact is its root relative path with separators replaced by
// dots and the extension removed, i.e. com/acme/Person.json -> com.acme.Person.
type Locator struct {
	fs    afs.Service
	roots []string
}

// Roots returns the configured root URLs.
func (l *Locator) Roots() []string {
	return l.roots
}

// Scan lists artifacts under every root whose extension the supplied predicate
// claims. Results are ordered by URL so scans are deterministic.
func (l *Locator) Scan(ctx context.Context, claims func(ext string) bool) ([]*Artifact, error) {
	var ret []*Artifact
	for _, root := range l.roots {
		candidates, err := l.fs.List(ctx, root, option.NewRecursive(true))
		if err != nil {
			return nil, err
		}
		rootPath := url.Path(root)
		for _, candidate := range candidates {
			if candidate.IsDir() {
				continue
			}
			ext := path.Ext(candidate.Name())
			if ext == "" || !claims(ext) {
				continue
			}
			ret = append(ret, New(l.fs, candidate.URL(), rawName(rootPath, url.Path(candidate.URL()), ext)))
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].URL < ret[j].URL })
	return ret, nil
}

func rawName(rootPath, candidatePath, ext string) string {
	relative := strings.TrimPrefix(candidatePath, rootPath)
	relative = strings.Trim(relative, "/")
	relative = strings.TrimSuffix(relative, ext)
	return strings.ReplaceAll(relative, "/", ".")
}

// NewLocator creates a locator over the supplied roots.
func NewLocator(fs afs.Service, roots ...string) *Locator {
	return &Locator{fs: fs, roots: roots}
}
