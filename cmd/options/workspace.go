package options

import "fmt"

// Workspace holds the artifact discovery flags shared by the sub commands.
type Workspace struct {
	Roots    []string `short:"r" long:"root" description:"artifact root URL"`
	Manifest string   `short:"m" long:"manifest" description:"workspace manifest URL"`
	Debug    bool     `short:"d" long:"debug" description:"log resolution and dispatch events"`
}

func (w *Workspace) Init() error {
	if len(w.Roots) == 0 && w.Manifest == "" {
		return fmt.Errorf("no root nor manifest was specified")
	}
	for i := range w.Roots {
		w.Roots[i] = ensureAbsPath(w.Roots[i])
	}
	w.Manifest = ensureAbsPath(w.Manifest)
	return nil
}
