// Package paths provides centralized path handling for docstore.
// It computes every on-disk location used by the document and blob
// stores and implements XDG Base Directory compliance for the default
// store root.
package paths

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/docstore/pkg/errors"
	"github.com/arthur-debert/docstore/pkg/logging"
	"github.com/arthur-debert/docstore/pkg/types"
)

// Environment variable names
const (
	// EnvRoot overrides the documents root directory
	EnvRoot = "DOCSTORE_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define the on-disk layout of a store and
// are NOT user-configurable. They must remain consistent so that stores
// written by one process remain readable by the next.
const (
	// AppDirName is the directory name for docstore-specific files
	AppDirName = "docstore"

	// DocumentsDirName is the subdirectory for typed documents
	DocumentsDirName = "documents"

	// ImagesDirName is the subdirectory for image blobs
	ImagesDirName = "images"

	// DataDirName is the subdirectory for generic blobs
	DataDirName = "data"

	// TempDirName is the subdirectory for in-flight blob writes.
	// It lives under the root so renames into place stay on one volume.
	TempDirName = "tmp"

	// DocumentExt is the extension for document and collection files
	DocumentExt = ".json"
)

// reservedNames are directory names under the root that namespaces may
// not collide with.
var reservedNames = map[string]bool{
	ImagesDirName: true,
	DataDirName:   true,
	TempDirName:   true,
}

// Paths provides centralized path management for a store rooted at a
// single documents directory.
//
// The root accessors (DocumentsRoot, ImagesRoot, DataRoot, TempRoot)
// lazily create their directory on first call and cache the result for
// the lifetime of the instance. Creation failures are logged and the
// path is returned anyway; the operation that triggered the resolution
// will fail at the read or write step instead of aborting early.
type Paths interface {
	DocumentsRoot() string
	ImagesRoot() string
	DataRoot() string
	TempRoot() string

	NamespaceDir(namespace, subfolder string) string
	DocumentPath(namespace, subfolder, id string) string
	CollectionPath(namespace string) string
	FilePath(namespace, filename string) string
	BlobPath(id string) string
	ImagePath(id string) string
}

type paths struct {
	root string
	fs   types.FS
	log  zerolog.Logger

	documentsOnce sync.Once
	imagesOnce    sync.Once
	dataOnce      sync.Once
	tempOnce      sync.Once
}

// New creates a new Paths instance rooted at the given documents root.
// If root is empty, it is determined from DOCSTORE_ROOT or falls back
// to the XDG data directory.
func New(root string, fsys types.FS) (Paths, error) {
	if fsys == nil {
		return nil, errors.New(errors.ErrInvalidInput, "nil filesystem")
	}

	if root == "" {
		if env := os.Getenv(EnvRoot); env != "" {
			root = expandHome(env)
		} else {
			root = filepath.Join(xdg.DataHome, AppDirName, DocumentsDirName)
		}
	} else {
		root = expandHome(root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for store root")
	}

	return &paths{
		root: absRoot,
		fs:   fsys,
		log:  logging.GetLogger("paths"),
	}, nil
}

// IsReservedNamespace reports whether the given namespace collides with
// one of the fixed blob directories under the root.
func IsReservedNamespace(namespace string) bool {
	return reservedNames[namespace]
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ensure creates dir if needed. Failures are logged, never returned;
// the caller's subsequent file operation surfaces the real error.
func (p *paths) ensure(dir string) {
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		p.log.Error().Err(err).Str("dir", dir).Msg("Failed to create store directory")
	}
}

// DocumentsRoot returns the root directory for typed documents,
// creating it on first call.
func (p *paths) DocumentsRoot() string {
	p.documentsOnce.Do(func() {
		p.ensure(p.root)
		p.log.Debug().Str("root", p.root).Msg("Resolved documents root")
	})
	return p.root
}

// ImagesRoot returns the directory for image blobs, creating it on
// first call.
func (p *paths) ImagesRoot() string {
	dir := filepath.Join(p.DocumentsRoot(), ImagesDirName)
	p.imagesOnce.Do(func() { p.ensure(dir) })
	return dir
}

// DataRoot returns the directory for generic blobs, creating it on
// first call.
func (p *paths) DataRoot() string {
	dir := filepath.Join(p.DocumentsRoot(), DataDirName)
	p.dataOnce.Do(func() { p.ensure(dir) })
	return dir
}

// TempRoot returns the directory for temporary files, creating it on
// first call.
func (p *paths) TempRoot() string {
	dir := filepath.Join(p.DocumentsRoot(), TempDirName)
	p.tempOnce.Do(func() { p.ensure(dir) })
	return dir
}

// NamespaceDir returns the directory holding a namespace's documents.
// Subfolder may be empty.
func (p *paths) NamespaceDir(namespace, subfolder string) string {
	dir := filepath.Join(p.DocumentsRoot(), namespace)
	if subfolder != "" {
		dir = filepath.Join(dir, subfolder)
	}
	return dir
}

// DocumentPath returns the path of a single document file.
func (p *paths) DocumentPath(namespace, subfolder, id string) string {
	return filepath.Join(p.NamespaceDir(namespace, subfolder), id+DocumentExt)
}

// CollectionPath returns the path of a namespace's single-file
// collection representation, directly under the root.
func (p *paths) CollectionPath(namespace string) string {
	return filepath.Join(p.DocumentsRoot(), namespace+DocumentExt)
}

// FilePath returns the path of a filename-addressed document inside a
// namespace directory.
func (p *paths) FilePath(namespace, filename string) string {
	return filepath.Join(p.NamespaceDir(namespace, ""), filename+DocumentExt)
}

// BlobPath returns the path of a generic blob. Blobs carry no
// extension; the identifier is the whole filename.
func (p *paths) BlobPath(id string) string {
	return filepath.Join(p.DataRoot(), id)
}

// ImagePath returns the path of an image blob.
func (p *paths) ImagePath(id string) string {
	return filepath.Join(p.ImagesRoot(), id)
}
