// Package api defines the template grammar shared by the registry,
// the synthesizer and the parser. A template is a directory tree whose
// entry names may carry grammar markers.
package api

import (
	"io/fs"
	"strings"
)

// Grammar markers recognized in template entry names.
const (
	// ReferenceMarker wraps the name of a registered fragment.
	// An entry named "@maya@" splices the fragment "@maya@" at its position.
	ReferenceMarker = "@"
	// VariableMarker wraps a variable identifier. A segment named "+show+"
	// binds the on-disk name to the variable "show".
	VariableMarker = "+"
)

// Template represents one registered template: the subtree rooted at a
// single subfolder of the template search path.
type Template struct {
	// Name is the raw folder name, markers included (e.g. "@+show+@").
	Name string
	// Root holds the template's directory tree.
	Root Node
}

// Node represents a directory entry in a template.
type Node struct {
	// Name of the directory. May carry grammar markers.
	Name string
	// Mode holds the permission bits recorded at registration time.
	Mode fs.FileMode
	// Children directories.
	Children []Node
	// Files within this directory.
	Files []Leaf
}

// Leaf represents a file in a template.
type Leaf struct {
	// Name of the file. May carry grammar markers.
	Name string
	// Content is the file body recorded at registration time.
	Content []byte
	// Mode holds the permission bits recorded at registration time.
	Mode fs.FileMode
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	out.Children = make([]Node, len(n.Children))
	for i, c := range n.Children {
		out.Children[i] = c.Clone()
	}
	out.Files = make([]Leaf, len(n.Files))
	for i, f := range n.Files {
		out.Files[i] = f
		out.Files[i].Content = append([]byte(nil), f.Content...)
	}
	return out
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	return Template{Name: t.Name, Root: t.Root.Clone()}
}

// IsReference reports whether name splices a registered fragment.
func IsReference(name string) bool {
	return strings.Contains(name, ReferenceMarker)
}

// IsVariable reports whether name is a parameterized segment.
func IsVariable(name string) bool {
	return strings.Contains(name, VariableMarker)
}

// VariableName extracts the identifier from a variable name.
// "+show+" and "@+show+@" both yield "show"; non-variable names yield "".
func VariableName(name string) string {
	i := strings.Index(name, VariableMarker)
	if i < 0 {
		return ""
	}
	rest := name[i+1:]
	j := strings.Index(rest, VariableMarker)
	if j < 0 {
		return ""
	}
	return rest[:j]
}

// StripReference removes reference markers only: "@+show+@" → "+show+".
// Variable markers survive so downstream consumers can still detect them.
func StripReference(name string) string {
	return strings.ReplaceAll(name, ReferenceMarker, "")
}

// Sanitize strips all grammar markers: "@+show+@" → "show".
// Used for display and ordering, never for matching.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, ReferenceMarker, "")
	return strings.ReplaceAll(name, VariableMarker, "")
}
