// Package linter statically validates registered templates before they
// are resolved: malformed grammar markers, dangling fragment references
// and ambiguous siblings are reported as diagnostics, not errors, so a
// template folder can be checked in one pass.
package linter

import (
	"fmt"
	"strings"

	"github.com/efestolab/ade/api"
	"github.com/efestolab/ade/internal/registry"
)

// Diagnostic points at one problem in a template tree.
type Diagnostic struct {
	Template string
	Path     string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Template, d.Path, d.Message)
}

// Lint checks one registered template. The raw (unresolved) tree is
// inspected so problems are reported where they are written, not where
// a fragment happens to be spliced.
func Lint(reg *registry.Registry, name string) ([]Diagnostic, error) {
	tpl, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{}
	for _, n := range reg.Names() {
		known[n] = true
	}

	var diags []Diagnostic
	lintNode(&tpl.Root, tpl.Name, tpl.Root.Name, known, &diags)
	return diags, nil
}

// LintAll checks every registered template.
func LintAll(reg *registry.Registry) ([]Diagnostic, error) {
	var diags []Diagnostic
	for _, name := range reg.Names() {
		d, err := Lint(reg, name)
		if err != nil {
			return nil, err
		}
		diags = append(diags, d...)
	}
	return diags, nil
}

func lintNode(n *api.Node, template, path string, known map[string]bool, diags *[]Diagnostic) {
	lintName(n.Name, template, path, diags)

	// A referencing child must resolve against the register.
	for i := range n.Children {
		child := &n.Children[i]
		if api.IsReference(child.Name) && !known[child.Name] {
			*diags = append(*diags, Diagnostic{
				Template: template,
				Path:     path + "/" + child.Name,
				Message:  "reference to unregistered fragment",
			})
		}
	}

	seen := map[string]string{}
	for i := range n.Children {
		child := &n.Children[i]
		childPath := path + "/" + child.Name
		checkDuplicate(seen, child.Name, template, childPath, diags)
		lintNode(child, template, childPath, known, diags)
	}
	for _, f := range n.Files {
		filePath := path + "/" + f.Name
		checkDuplicate(seen, f.Name, template, filePath, diags)
		lintName(f.Name, template, filePath, diags)
	}
}

func lintName(name, template, path string, diags *[]Diagnostic) {
	report := func(msg string) {
		*diags = append(*diags, Diagnostic{Template: template, Path: path, Message: msg})
	}

	if strings.Count(name, api.ReferenceMarker)%2 != 0 {
		report("unbalanced reference marker")
	}
	if strings.Count(name, api.VariableMarker)%2 != 0 {
		report("unbalanced variable marker")
	}
	if api.IsVariable(name) && api.VariableName(name) == "" &&
		strings.Count(name, api.VariableMarker)%2 == 0 {
		report("empty variable name")
	}
}

func checkDuplicate(seen map[string]string, name, template, path string, diags *[]Diagnostic) {
	key := strings.ToLower(api.Sanitize(name))
	if prev, ok := seen[key]; ok && key != "" {
		*diags = append(*diags, Diagnostic{
			Template: template,
			Path:     path,
			Message:  fmt.Sprintf("sibling name collides with %q after marker stripping", prev),
		})
		return
	}
	seen[key] = name
}
