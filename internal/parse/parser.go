// Package parse matches existing directory structure against a resolved
// template, binding variable segments to their on-disk values. It never
// writes to the filesystem.
package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/efestolab/ade/api"
	"github.com/efestolab/ade/internal/registry"
)

// defaultPattern captures a variable segment with no per-name override.
const defaultPattern = `[a-zA-Z0-9_]+`

// DefaultPatterns holds the built-in per-variable capture patterns.
// Config regex blocks are merged on top of these.
func DefaultPatterns() map[string]string {
	return map[string]string{
		"show":       `[a-zA-Z0-9_]+`,
		"sequence":   `[a-zA-Z0-9_]+`,
		"shot":       `[a-zA-Z0-9_]+`,
		"department": `[a-z_]+`,
	}
}

// Bindings maps variable names to the on-disk values they matched.
type Bindings map[string]string

// MismatchError reports the first on-disk path segment that diverges
// from the template grammar.
type MismatchError struct {
	Template string
	Segment  string
	Depth    int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("structure mismatch against %s: segment %q at depth %d",
		e.Template, e.Segment, e.Depth)
}

// segMatcher matches one path segment: either a literal name or a
// compiled variable pattern.
type segMatcher struct {
	literal  string
	variable string
	re       *regexp.Regexp
}

func (m segMatcher) match(seg string) (string, bool) {
	if m.re == nil {
		return "", m.literal == seg
	}
	if !m.re.MatchString(seg) {
		return "", false
	}
	return seg, true
}

// Parser matches mount-relative paths against one resolved template.
// Compile once, match many — matchers are immutable after Compile.
type Parser struct {
	template string
	matchers [][]segMatcher
	patterns map[string]string
}

// Compile resolves the named template in reg and compiles every
// flattened entry path into a segment matcher chain. patterns overrides
// the per-variable capture patterns (merged over DefaultPatterns).
func Compile(reg *registry.Registry, name string, patterns map[string]string) (*Parser, error) {
	tpl, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}

	merged := DefaultPatterns()
	for k, v := range patterns {
		merged[k] = v
	}

	p := &Parser{template: name, patterns: merged}
	for _, entry := range registry.Flatten(tpl) {
		chain := make([]segMatcher, len(entry.Segments))
		for i, seg := range entry.Segments {
			if !api.IsVariable(seg) {
				chain[i] = segMatcher{literal: seg}
				continue
			}
			variable := api.VariableName(seg)
			pattern, ok := merged[variable]
			if !ok {
				pattern = defaultPattern
			}
			re, err := regexp.Compile("^(?:" + pattern + ")$")
			if err != nil {
				return nil, fmt.Errorf("pattern for variable %s: %w", variable, err)
			}
			chain[i] = segMatcher{variable: variable, re: re}
		}
		p.matchers = append(p.matchers, chain)
	}
	return p, nil
}

// Template returns the template name this parser was compiled from.
func (p *Parser) Template() string {
	return p.template
}

// ParsePath matches one mount-relative path, returning every distinct
// binding set, deepest match first. A template entry matches when its
// segments are a prefix of the target segments. When nothing matches,
// the error identifies the first divergent segment.
func (p *Parser) ParsePath(segments []string) ([]Bindings, error) {
	if len(segments) == 0 {
		return nil, &MismatchError{Template: p.template, Segment: "", Depth: 0}
	}

	type scored struct {
		depth    int
		bindings Bindings
	}
	var results []scored
	maxDepth := 0

	for _, chain := range p.matchers {
		if len(chain) > len(segments) {
			continue
		}
		bindings := Bindings{}
		matched := true
		for i, m := range chain {
			value, ok := m.match(segments[i])
			if !ok {
				matched = false
				if i > maxDepth {
					maxDepth = i
				}
				break
			}
			if m.variable != "" {
				bindings[m.variable] = value
			}
		}
		if matched {
			results = append(results, scored{depth: len(chain), bindings: bindings})
			if len(chain) > maxDepth {
				maxDepth = len(chain)
			}
		}
	}

	if len(results) == 0 {
		depth := maxDepth
		if depth >= len(segments) {
			depth = len(segments) - 1
		}
		return nil, &MismatchError{Template: p.template, Segment: segments[depth], Depth: depth}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].depth > results[j].depth
	})

	var out []Bindings
	seen := map[string]bool{}
	for _, r := range results {
		key := canonical(r.bindings)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r.bindings)
	}
	return out, nil
}

// canonical renders a binding set as a stable dedup key.
func canonical(b Bindings) string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(b[k])
		sb.WriteByte(';')
	}
	return sb.String()
}
