package synth

import (
	"os"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efestolab/ade/internal/registry"
)

func newTestRegistry(t *testing.T) (billy.Filesystem, *registry.Registry) {
	t.Helper()
	fsys := memfs.New()

	require.NoError(t, fsys.MkdirAll("templates/@+show+@/+sequence+/+shot+/@maya@", 0o755))
	require.NoError(t, fsys.MkdirAll("templates/@maya@/scenes", 0o755))
	require.NoError(t, util.WriteFile(fsys,
		"templates/@maya@/workspace.mel", []byte("// project +show+\n"), 0o644))

	reg, err := registry.Open(fsys, "templates")
	require.NoError(t, err)
	return fsys, reg
}

func testData() map[string]string {
	return map[string]string{"show": "white", "sequence": "AF", "shot": "AF001"}
}

func TestBuildMaterializesTree(t *testing.T) {
	fsys, reg := newTestRegistry(t)
	s := New(fsys, reg, nil)

	report, err := s.Build("@+show+@", testData(), "jobs")
	require.NoError(t, err)

	for _, dir := range []string{
		"jobs/white",
		"jobs/white/AF",
		"jobs/white/AF/AF001",
		"jobs/white/AF/AF001/maya",
		"jobs/white/AF/AF001/maya/scenes",
	} {
		info, err := fsys.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
	assert.Len(t, report.Dirs, 5)
	assert.Empty(t, report.Skipped)
}

func TestBuildWritesLeafFilesWithContent(t *testing.T) {
	fsys, reg := newTestRegistry(t)
	s := New(fsys, reg, nil)

	_, err := s.Build("@+show+@", testData(), "jobs")
	require.NoError(t, err)

	content, err := util.ReadFile(fsys, "jobs/white/AF/AF001/maya/workspace.mel")
	require.NoError(t, err)
	assert.Equal(t, "// project white\n", string(content),
		"variable tokens in file content are substituted")
}

func TestBuildSkipsUnboundVariables(t *testing.T) {
	fsys, reg := newTestRegistry(t)
	s := New(fsys, reg, nil)

	report, err := s.Build("@+show+@", map[string]string{"show": "white"}, "jobs")
	require.NoError(t, err)

	_, statErr := fsys.Stat("jobs/white")
	assert.NoError(t, statErr, "paths with bound variables are still created")
	assert.NotEmpty(t, report.Skipped)
	_, statErr = fsys.Stat("jobs/white/AF")
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestBuildIsIdempotent(t *testing.T) {
	fsys, reg := newTestRegistry(t)
	s := New(fsys, reg, nil)

	_, err := s.Build("@+show+@", testData(), "jobs")
	require.NoError(t, err)
	_, err = s.Build("@+show+@", testData(), "jobs")
	require.NoError(t, err, "building over an existing tree must succeed")
}

func TestBuildUnknownTemplate(t *testing.T) {
	fsys, reg := newTestRegistry(t)
	s := New(fsys, reg, nil)

	_, err := s.Build("@nuke@", testData(), "jobs")
	assert.ErrorIs(t, err, registry.ErrTemplateNotFound)
}

func TestRenderSegments(t *testing.T) {
	segs, ok := renderSegments([]string{"+show+", "maya", "+shot+"},
		map[string]string{"show": "white", "shot": "AF001"})
	require.True(t, ok)
	assert.Equal(t, []string{"white", "maya", "AF001"}, segs)

	_, ok = renderSegments([]string{"+show+"}, nil)
	assert.False(t, ok)

	_, ok = renderSegments([]string{"+show+"}, map[string]string{"show": ""})
	assert.False(t, ok, "empty values are treated as unbound")
}
