package previewfs

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efestolab/ade/internal/registry"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("templates/@+show+@/+sequence+/+shot+/@maya@", 0o755))
	require.NoError(t, fsys.MkdirAll("templates/@maya@/scenes", 0o755))
	require.NoError(t, util.WriteFile(fsys,
		"templates/@maya@/workspace.mel", []byte("//\n"), 0o644))

	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)
	return reg
}

func TestMaterializeBindsVariablesToTheirNames(t *testing.T) {
	reg := newTestRegistry(t)

	fsys, err := Materialize(reg, "@+show+@", nil)
	require.NoError(t, err)

	info, err := fsys.Stat("/show/sequence/shot/maya/scenes")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	content, err := util.ReadFile(fsys, "/show/sequence/shot/maya/workspace.mel")
	require.NoError(t, err)
	assert.Equal(t, "//\n", string(content))
}

func TestMaterializeHonorsProvidedData(t *testing.T) {
	reg := newTestRegistry(t)

	fsys, err := Materialize(reg, "@+show+@", map[string]string{"show": "white"})
	require.NoError(t, err)

	_, err = fsys.Stat("/white/sequence/shot")
	assert.NoError(t, err, "provided values win, unbound variables preview as their names")
}

func TestMaterializeUnknownTemplate(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := Materialize(reg, "@nuke@", nil)
	assert.ErrorIs(t, err, registry.ErrTemplateNotFound)
}

func TestServerServesAndCloses(t *testing.T) {
	reg := newTestRegistry(t)
	fsys, err := Materialize(reg, "@+show+@", nil)
	require.NoError(t, err)

	srv, err := NewServer(fsys)
	require.NoError(t, err)
	assert.Greater(t, srv.Port(), 0)
	assert.NoError(t, srv.Close())
}
