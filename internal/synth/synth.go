// Package synth materializes a resolved template onto a filesystem.
// It is the write half of the engine; the read half lives in
// internal/parse.
package synth

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"

	"github.com/efestolab/ade/api"
	"github.com/efestolab/ade/internal/registry"
)

// CreateError reports a filesystem failure during synthesis, carrying
// the offending path.
type CreateError struct {
	Path string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Path, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// Report summarizes one Build invocation.
type Report struct {
	Dirs    []string // directories created (or already present)
	Files   []string // files written
	Skipped []string // template paths skipped for unbound variables
}

// Synthesizer creates directory trees from resolved templates.
// Directory creation is create-if-absent: building over an existing
// tree is idempotent.
type Synthesizer struct {
	FS  billy.Filesystem
	Reg *registry.Registry
	Log *log.Logger
}

// New returns a synthesizer writing through fsys.
func New(fsys billy.Filesystem, reg *registry.Registry, logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Synthesizer{FS: fsys, Reg: reg, Log: logger}
}

// Build resolves the named template and materializes it under root,
// substituting variable segments from data. Paths that reference a
// variable absent from data are skipped with a warning rather than
// failing the whole run. Permission bits recorded at registration are
// re-applied in a reverse pass once all entries exist.
func (s *Synthesizer) Build(name string, data map[string]string, root string) (*Report, error) {
	tpl, err := s.Reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	entries := registry.Flatten(tpl)

	type placed struct {
		path string
		mode fs.FileMode
	}
	var report Report
	var chmods []placed

	for _, entry := range entries {
		segments, ok := renderSegments(entry.Segments, data)
		if !ok {
			report.Skipped = append(report.Skipped, entry.Path())
			s.Log.Warn("skipping path with unbound variable", "path", entry.Path())
			continue
		}
		target := s.FS.Join(append([]string{root}, segments...)...)

		if entry.Folder {
			if err := s.FS.MkdirAll(target, entry.Mode.Perm()); err != nil {
				return nil, &CreateError{Path: target, Err: err}
			}
			s.Log.Debug("created folder", "path", target)
			report.Dirs = append(report.Dirs, target)
		} else {
			if err := s.writeFile(target, renderContent(entry.Content, data), entry.Mode.Perm()); err != nil {
				return nil, err
			}
			s.Log.Debug("created file", "path", target)
			report.Files = append(report.Files, target)
		}
		chmods = append(chmods, placed{path: target, mode: entry.Mode.Perm()})
	}

	// Reverse pass: re-apply recorded modes deepest-first, so a
	// read-only parent never blocks chmod of its content. Filesystems
	// without chmod support (memfs) keep their creation-time modes.
	if changer, ok := s.FS.(billy.Change); ok {
		for i := len(chmods) - 1; i >= 0; i-- {
			if err := changer.Chmod(chmods[i].path, chmods[i].mode); err != nil {
				s.Log.Debug("chmod failed", "path", chmods[i].path, "err", err)
			}
		}
	}

	return &report, nil
}

func (s *Synthesizer) writeFile(path string, content []byte, mode fs.FileMode) error {
	f, err := s.FS.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return &CreateError{Path: path, Err: err}
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return &CreateError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &CreateError{Path: path, Err: err}
	}
	return nil
}

// renderSegments substitutes variable segments from data. A variable
// segment is replaced wholesale by its value. Returns ok=false when a
// variable has no value in data.
func renderSegments(segments []string, data map[string]string) ([]string, bool) {
	out := make([]string, len(segments))
	for i, seg := range segments {
		if !api.IsVariable(seg) {
			out[i] = seg
			continue
		}
		value, ok := data[api.VariableName(seg)]
		if !ok || value == "" {
			return nil, false
		}
		out[i] = value
	}
	return out, true
}

// renderContent substitutes "+var+" tokens inside file content.
// Unbound tokens are left untouched — content is opaque, only known
// variables are replaced.
func renderContent(content []byte, data map[string]string) []byte {
	if len(content) == 0 || len(data) == 0 {
		return content
	}
	text := string(content)
	for name, value := range data {
		text = strings.ReplaceAll(text, api.VariableMarker+name+api.VariableMarker, value)
	}
	return []byte(text)
}
