package filesystem_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/docstore/pkg/filesystem"
	"github.com/arthur-debert/docstore/pkg/types"
)

// Both implementations must behave the same for the operations the
// stores rely on, so run one suite against each.
func TestFSImplementations(t *testing.T) {
	impls := []struct {
		name string
		fs   func(t *testing.T) (types.FS, string)
	}{
		{
			name: "os",
			fs: func(t *testing.T) (types.FS, string) {
				return filesystem.NewOS(), t.TempDir()
			},
		},
		{
			name: "afero_memmap",
			fs: func(t *testing.T) (types.FS, string) {
				return filesystem.NewAferoFS(afero.NewMemMapFs()), "/store"
			},
		},
	}

	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			fsys, root := impl.fs(t)

			dir := filepath.Join(root, "Contact", "archived")
			require.NoError(t, fsys.MkdirAll(dir, 0755))

			path := filepath.Join(dir, "a1.json")
			require.NoError(t, fsys.WriteFile(path, []byte(`{"id":"a1"}`), 0644))

			data, err := fsys.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, `{"id":"a1"}`, string(data))

			entries, err := fsys.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "a1.json", entries[0].Name())

			// Rename keeps content
			moved := filepath.Join(dir, "a2.json")
			require.NoError(t, fsys.Rename(path, moved))
			_, err = fsys.Stat(path)
			assert.Error(t, err)
			data, err = fsys.ReadFile(moved)
			require.NoError(t, err)
			assert.Equal(t, `{"id":"a1"}`, string(data))

			// Reading a directory as a file must fail
			_, err = fsys.ReadFile(dir)
			assert.Error(t, err)

			require.NoError(t, fsys.Remove(moved))
			entries, err = fsys.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)

			require.NoError(t, fsys.RemoveAll(filepath.Join(root, "Contact")))
			_, err = fsys.ReadDir(dir)
			assert.Error(t, err)
		})
	}
}
