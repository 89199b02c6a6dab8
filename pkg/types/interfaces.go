package types

import (
	"io/fs"
)

// FS is the filesystem interface required for docstore operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}

// Entity is any value the document store can address by identity.
// The identifier must be stable and unique within its namespace
// (and subfolder, if one is used).
type Entity interface {
	ID() string
}
