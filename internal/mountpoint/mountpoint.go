// Package mountpoint computes template-relative path segments below a
// mount point. The mount point is the filesystem prefix where template
// structure begins; everything above it is opaque to the engines.
package mountpoint

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMount is used when no mount point is configured.
const DefaultMount = "/tmp"

// ErrNotUnderMount is returned when a target path does not have the
// mount point as a path prefix.
var ErrNotUnderMount = errors.New("path not under mount point")

// Resolver maps absolute target paths to mount-relative segments.
// The zero value is not usable; construct with New.
type Resolver struct {
	mount string
}

// New returns a resolver for the given mount point. An empty mount
// falls back to DefaultMount.
func New(mount string) Resolver {
	if mount == "" {
		mount = DefaultMount
	}
	return Resolver{mount: filepath.Clean(mount)}
}

// Mount returns the cleaned mount point.
func (r Resolver) Mount() string {
	return r.mount
}

// Relative returns the path segments of target below the mount point.
// The target itself yields nil segments. Prefix checks are segment-wise:
// /tmpx is not under /tmp.
func (r Resolver) Relative(target string) ([]string, error) {
	rel, err := filepath.Rel(r.mount, filepath.Clean(target))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not below %s", ErrNotUnderMount, target, r.mount)
	}
	if rel == "." {
		return nil, nil
	}
	sep := string(filepath.Separator)
	if rel == ".." || strings.HasPrefix(rel, ".."+sep) {
		return nil, fmt.Errorf("%w: %s is not below %s", ErrNotUnderMount, target, r.mount)
	}
	return strings.Split(rel, sep), nil
}

// Join returns the absolute path of the given segments under the mount.
func (r Resolver) Join(segments ...string) string {
	return filepath.Join(append([]string{r.mount}, segments...)...)
}
