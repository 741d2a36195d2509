package linter

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efestolab/ade/internal/registry"
)

func TestLintCleanTemplate(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("templates/@+show+@/+sequence+/@maya@", 0o755))
	require.NoError(t, fsys.MkdirAll("templates/@maya@/scenes", 0o755))

	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)

	diags, err := LintAll(reg)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestLintUnregisteredFragment(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("templates/@+show+@/@missing@", 0o755))

	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)

	diags, err := Lint(reg, "@+show+@")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unregistered fragment")
	assert.Contains(t, diags[0].Path, "@missing@")
}

func TestLintUnbalancedMarkers(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("templates/show/+sequence", 0o755))

	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)

	diags, err := Lint(reg, "show")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "unbalanced variable marker", diags[0].Message)
}

func TestLintEmptyVariableName(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("templates/show/++", 0o755))

	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)

	diags, err := Lint(reg, "show")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "empty variable name", diags[0].Message)
}

func TestLintDuplicateSiblings(t *testing.T) {
	fsys := memfs.New()
	// "+shot+" and "shot" sanitize to the same name: parse mode could
	// never tell them apart.
	require.NoError(t, fsys.MkdirAll("templates/show/+shot+", 0o755))
	require.NoError(t, fsys.MkdirAll("templates/show/shot", 0o755))

	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)

	diags, err := Lint(reg, "show")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "collides")
}

func TestLintUnknownTemplate(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("templates/show", 0o755))
	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)

	_, err = Lint(reg, "@nuke@")
	assert.ErrorIs(t, err, registry.ErrTemplateNotFound)
}
