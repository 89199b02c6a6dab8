package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/docstore/pkg/filesystem"
	"github.com/arthur-debert/docstore/pkg/paths"
	"github.com/arthur-debert/docstore/pkg/types"
)

func newMemFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		envSetup map[string]string
		validate func(t *testing.T, p paths.Paths)
	}{
		{
			name: "explicit root",
			root: "/srv/app/store",
			validate: func(t *testing.T, p paths.Paths) {
				assert.Equal(t, "/srv/app/store", p.DocumentsRoot())
			},
		},
		{
			name: "from DOCSTORE_ROOT env",
			envSetup: map[string]string{
				paths.EnvRoot: "/env/store",
			},
			validate: func(t *testing.T, p paths.Paths) {
				assert.Equal(t, "/env/store", p.DocumentsRoot())
			},
		},
		{
			name: "xdg fallback",
			validate: func(t *testing.T, p paths.Paths) {
				assert.True(t, filepath.IsAbs(p.DocumentsRoot()), "root should be absolute")
				assert.Contains(t, p.DocumentsRoot(), filepath.Join(paths.AppDirName, paths.DocumentsDirName))
			},
		},
		{
			name: "expand tilde in explicit root",
			root: "~/my-store",
			validate: func(t *testing.T, p paths.Paths) {
				homeDir, _ := os.UserHomeDir()
				assert.Equal(t, filepath.Join(homeDir, "my-store"), p.DocumentsRoot())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(paths.EnvRoot, "")
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := paths.New(tt.root, newMemFS())
			require.NoError(t, err)
			tt.validate(t, p)
		})
	}
}

func TestNew_NilFS(t *testing.T) {
	_, err := paths.New("/store", nil)
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	p, err := paths.New("/store", newMemFS())
	require.NoError(t, err)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"namespace dir", p.NamespaceDir("Contact", ""), "/store/Contact"},
		{"subfoldered namespace dir", p.NamespaceDir("Contact", "archived"), "/store/Contact/archived"},
		{"document path", p.DocumentPath("Contact", "", "a1"), "/store/Contact/a1.json"},
		{"subfoldered document path", p.DocumentPath("Contact", "archived", "a1"), "/store/Contact/archived/a1.json"},
		{"collection path", p.CollectionPath("Contact"), "/store/Contact.json"},
		{"file path", p.FilePath("Session", "current"), "/store/Session/current.json"},
		{"blob path", p.BlobPath("b0b"), "/store/data/b0b"},
		{"image path", p.ImagePath("i1"), "/store/images/i1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestRootsAreCreatedLazily(t *testing.T) {
	fsys := newMemFS()
	p, err := paths.New("/store", fsys)
	require.NoError(t, err)

	// Nothing should exist before the first resolution.
	_, statErr := fsys.Stat("/store")
	assert.Error(t, statErr)

	_ = p.DataRoot()

	for _, dir := range []string{"/store", "/store/data"} {
		info, err := fsys.Stat(dir)
		require.NoError(t, err, "expected %s to exist", dir)
		assert.True(t, info.IsDir())
	}

	// Images root is untouched until asked for.
	_, statErr = fsys.Stat("/store/images")
	assert.Error(t, statErr)

	_ = p.ImagePath("i1")
	info, err := fsys.Stat("/store/images")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestIsReservedNamespace(t *testing.T) {
	assert.True(t, paths.IsReservedNamespace("images"))
	assert.True(t, paths.IsReservedNamespace("data"))
	assert.True(t, paths.IsReservedNamespace("tmp"))
	assert.False(t, paths.IsReservedNamespace("Contact"))
}
