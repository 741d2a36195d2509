package parse

import (
	"fmt"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
)

// ParseTree walks the existing directory tree at root (read-only) and
// matches every path below it against the template, aggregating the
// distinct binding sets. The walk is depth-first in name order, so the
// first structural divergence reported is deterministic.
func (p *Parser) ParseTree(fsys billy.Filesystem, root string) ([]Bindings, error) {
	var out []Bindings
	seen := map[string]bool{}

	var walk func(dir string, rel []string) error
	walk = func(dir string, rel []string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})

		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".git") {
				continue
			}
			segments := append(append([]string(nil), rel...), entry.Name())
			matches, err := p.ParsePath(segments)
			if err != nil {
				return err
			}
			for _, b := range matches {
				key := canonical(b)
				if len(b) > 0 && !seen[key] {
					seen[key] = true
					out = append(out, b)
				}
			}
			if entry.IsDir() {
				if err := walk(fsys.Join(dir, entry.Name()), segments); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(root, nil); err != nil {
		return nil, err
	}

	// Deepest binding sets first, same ordering contract as ParsePath.
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out, nil
}
