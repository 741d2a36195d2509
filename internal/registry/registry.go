// Package registry loads template definitions from a template folder.
// Every immediate subdirectory of the folder is a template; its subtree
// is recorded verbatim (names, permission bits, file content) and only
// interpreted later by Resolve.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/efestolab/ade/api"
)

var (
	// ErrTemplateNotFound is returned when a requested name has no
	// matching subdirectory in the template folder.
	ErrTemplateNotFound = errors.New("template not found in register")
	// ErrFolderUnreadable is returned when the template folder cannot
	// be listed.
	ErrFolderUnreadable = errors.New("template folder unreadable")
	// ErrFragmentCycle is returned when fragment references expand
	// back into themselves.
	ErrFragmentCycle = errors.New("fragment reference cycle")
)

// Registry holds the templates registered from one template folder.
// It is immutable after Open; lookups return deep copies so callers
// can mutate resolved trees freely.
type Registry struct {
	fs       billy.Filesystem
	folder   string
	register []api.Template
}

// Open scans the immediate subdirectories of folder and registers each
// one as a template. The filesystem is only read, never written.
func Open(fsys billy.Filesystem, folder string) (*Registry, error) {
	entries, err := fsys.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFolderUnreadable, folder, err)
	}

	r := &Registry{fs: fsys, folder: folder}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".git") {
			continue
		}
		root := api.Node{
			Name: entry.Name(),
			Mode: entry.Mode().Perm(),
		}
		if err := r.scan(fsys.Join(folder, entry.Name()), &root); err != nil {
			return nil, err
		}
		sortNode(&root)
		r.register = append(r.register, api.Template{Name: entry.Name(), Root: root})
	}

	sort.Slice(r.register, func(i, j int) bool {
		return strings.ToLower(api.Sanitize(r.register[i].Name)) <
			strings.ToLower(api.Sanitize(r.register[j].Name))
	})
	return r, nil
}

// scan recursively records the subtree at dir into node.
func (r *Registry) scan(dir string, node *api.Node) error {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read template dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".git") {
			continue
		}
		full := r.fs.Join(dir, entry.Name())
		if entry.IsDir() {
			child := api.Node{Name: entry.Name(), Mode: entry.Mode().Perm()}
			if err := r.scan(full, &child); err != nil {
				return err
			}
			node.Children = append(node.Children, child)
			continue
		}
		content, err := util.ReadFile(r.fs, full)
		if err != nil {
			return fmt.Errorf("read template file %s: %w", full, err)
		}
		node.Files = append(node.Files, api.Leaf{
			Name:    entry.Name(),
			Content: content,
			Mode:    entry.Mode().Perm(),
		})
	}
	return nil
}

// Names returns the registered template names, sorted by sanitized name.
func (r *Registry) Names() []string {
	names := make([]string, len(r.register))
	for i, t := range r.register {
		names[i] = t.Name
	}
	return names
}

// Folder returns the template folder this registry was opened on.
func (r *Registry) Folder() string {
	return r.folder
}

// Lookup returns a deep copy of the raw registered template, fragment
// references unexpanded.
func (r *Registry) Lookup(name string) (*api.Template, error) {
	for _, t := range r.register {
		if t.Name == name {
			cp := t.Clone()
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// sortNode orders children and files case-insensitively by sanitized
// name. Folders and files live in separate slices, so folders always
// come first when the tree is flattened.
func sortNode(n *api.Node) {
	sort.Slice(n.Children, func(i, j int) bool {
		return strings.ToLower(api.Sanitize(n.Children[i].Name)) <
			strings.ToLower(api.Sanitize(n.Children[j].Name))
	})
	sort.Slice(n.Files, func(i, j int) bool {
		return strings.ToLower(api.Sanitize(n.Files[i].Name)) <
			strings.ToLower(api.Sanitize(n.Files[j].Name))
	})
	for i := range n.Children {
		sortNode(&n.Children[i])
	}
}
