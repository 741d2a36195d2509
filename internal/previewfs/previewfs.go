// Package previewfs serves the shape of a resolved template as a
// read-only filesystem, without writing anything to disk. The template
// is materialized into an in-memory filesystem through the same
// synthesizer create mode uses, so what a preview shows is exactly what
// create would produce.
package previewfs

import (
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/efestolab/ade/internal/registry"
	"github.com/efestolab/ade/internal/synth"
)

// Materialize builds the named template into a fresh in-memory
// filesystem rooted at "/". Variables missing from data are bound to
// their own names, so an unparameterized preview still shows the full
// tree ("+show+" renders as "show").
func Materialize(reg *registry.Registry, name string, data map[string]string) (billy.Filesystem, error) {
	tpl, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}

	bound := make(map[string]string, len(data))
	for _, variable := range registry.Variables(registry.Flatten(tpl)) {
		bound[variable] = variable
	}
	for k, v := range data {
		bound[k] = v
	}

	fsys := memfs.New()
	s := synth.New(fsys, reg, nil)
	if _, err := s.Build(name, bound, "/"); err != nil {
		return nil, err
	}
	return fsys, nil
}
