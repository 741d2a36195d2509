package registry

import (
	"fmt"
	"io/fs"

	"github.com/efestolab/ade/api"
)

// Resolve returns a deep copy of the named template with every fragment
// reference expanded in place. A child entry whose name carries the
// reference marker is replaced by the registered fragment of that name;
// any children the referencing entry had are appended to the fragment's
// own children, so templates can extend the fragments they splice.
func (r *Registry) Resolve(name string) (*api.Template, error) {
	tpl, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{name: true}
	if err := r.expand(&tpl.Root, seen); err != nil {
		return nil, err
	}
	sortNode(&tpl.Root)
	return tpl, nil
}

// expand walks the children of n, splicing fragments depth-first.
// seen tracks the reference names on the current expansion stack so a
// fragment that reaches itself fails instead of recursing forever.
func (r *Registry) expand(n *api.Node, seen map[string]bool) error {
	for i := range n.Children {
		child := &n.Children[i]
		if !api.IsReference(child.Name) {
			if err := r.expand(child, seen); err != nil {
				return err
			}
			continue
		}

		if seen[child.Name] {
			return fmt.Errorf("%w: %s", ErrFragmentCycle, child.Name)
		}
		frag, err := r.Lookup(child.Name)
		if err != nil {
			return err
		}
		frag.Root.Children = append(frag.Root.Children, child.Children...)
		frag.Root.Files = append(frag.Root.Files, child.Files...)
		n.Children[i] = frag.Root

		seen[child.Name] = true
		if err := r.expand(&n.Children[i], seen); err != nil {
			return err
		}
		delete(seen, child.Name)
	}
	return nil
}

// Entry is one concrete path produced by flattening a resolved template.
// Segments keep variable markers ("+show+") but reference markers are
// stripped — both engines consume entries, not raw trees.
type Entry struct {
	Segments []string
	Mode     fs.FileMode
	Folder   bool
	Content  []byte
}

// Path returns the slash-joined segments, for logging and reports.
func (e Entry) Path() string {
	out := ""
	for i, s := range e.Segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

// Flatten walks a resolved template depth-first and returns the ordered
// list of entries it describes, root first. Parent directories always
// precede their content, so create mode can apply entries in order.
func Flatten(tpl *api.Template) []Entry {
	root := Entry{
		Segments: []string{api.StripReference(tpl.Root.Name)},
		Mode:     tpl.Root.Mode,
		Folder:   true,
	}
	entries := []Entry{root}
	flatten(&tpl.Root, root.Segments, &entries)
	return entries
}

func flatten(n *api.Node, prefix []string, out *[]Entry) {
	for i := range n.Children {
		child := &n.Children[i]
		segs := appendSegment(prefix, api.StripReference(child.Name))
		*out = append(*out, Entry{Segments: segs, Mode: child.Mode, Folder: true})
		flatten(child, segs, out)
	}
	for _, f := range n.Files {
		segs := appendSegment(prefix, api.StripReference(f.Name))
		*out = append(*out, Entry{Segments: segs, Mode: f.Mode, Content: f.Content})
	}
}

// appendSegment copies before appending — entries must not share
// backing arrays, flatten reuses prefix across siblings.
func appendSegment(prefix []string, seg string) []string {
	segs := make([]string, len(prefix), len(prefix)+1)
	copy(segs, prefix)
	return append(segs, seg)
}

// Variables returns the distinct variable identifiers a resolved
// template binds, in first-seen order.
func Variables(entries []Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		for _, seg := range e.Segments {
			if !api.IsVariable(seg) {
				continue
			}
			name := api.VariableName(seg)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
