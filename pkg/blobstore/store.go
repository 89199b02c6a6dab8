package blobstore

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/docstore/pkg/errors"
	"github.com/arthur-debert/docstore/pkg/logging"
	"github.com/arthur-debert/docstore/pkg/paths"
	"github.com/arthur-debert/docstore/pkg/types"
)

const filePerm = 0644

// Store persists opaque byte payloads addressed by generated
// identifiers. Generic blobs live under the data root with no
// extension; images live under the images root and go through an
// ImageCodec. The identifier is the caller's only handle: losing it
// makes the blob unreachable through this store, though the file
// remains on disk.
type Store struct {
	fs    types.FS
	paths paths.Paths
	codec ImageCodec
	log   zerolog.Logger
	newID func() string
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithImageCodec replaces the default PNG codec.
func WithImageCodec(c ImageCodec) StoreOption {
	return func(s *Store) {
		s.codec = c
	}
}

// WithLogger replaces the default component logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// WithIDGenerator replaces the identifier generator. Tests use this
// for deterministic ids.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		s.newID = gen
	}
}

// New creates a blob store over the given filesystem and path
// resolver.
func New(fsys types.FS, p paths.Paths, opts ...StoreOption) *Store {
	s := &Store{
		fs:    fsys,
		paths: p,
		codec: PNGCodec(),
		log:   logging.GetLogger("blobstore"),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CopyFile copies the file at sourcePath into the data root under a
// freshly generated identifier and returns that identifier. On failure
// the identifier is empty.
func (s *Store) CopyFile(sourcePath string) (string, error) {
	data, err := s.fs.ReadFile(sourcePath)
	if err != nil {
		serr := errors.Wrapf(err, errors.ErrFileCopy, "failed to read source file %s", sourcePath)
		s.log.Error().Err(err).Str("source", sourcePath).Msg("CopyFile failed")
		return "", serr
	}

	id := s.newID()
	if err := s.writeAtomic(s.paths.BlobPath(id), data); err != nil {
		s.log.Error().Err(err).Str("source", sourcePath).Msg("CopyFile failed")
		return "", err
	}

	s.log.Debug().Str("id", id).Str("source", sourcePath).Msg("Copied file into blob store")
	return id, nil
}

// Save writes raw bytes to the data root under the given identifier.
// The destination becomes visible all-or-nothing: bytes land in a
// temporary file first and are renamed into place.
func (s *Store) Save(id string, data []byte) error {
	if id == "" {
		return errors.New(errors.ErrInvalidInput, "empty blob id")
	}
	return s.writeAtomic(s.paths.BlobPath(id), data)
}

// LoadData returns the bytes stored under the given identifier, or a
// NOT_FOUND error if no such blob exists.
func (s *Store) LoadData(id string) ([]byte, error) {
	if id == "" {
		return nil, errors.New(errors.ErrInvalidInput, "empty blob id")
	}

	path := s.paths.BlobPath(id)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrNotFound, "no blob %s", id)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read blob %s", id)
	}
	return data, nil
}

// Delete removes the blob under the given identifier. A missing blob
// is logged and ignored.
func (s *Store) Delete(id string) error {
	if id == "" {
		return errors.New(errors.ErrInvalidInput, "empty blob id")
	}
	return s.removeIfPresent(s.paths.BlobPath(id))
}

func (s *Store) removeIfPresent(path string) error {
	if _, err := s.fs.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Str("path", path).Msg("Blob does not exist")
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileRead, "failed to stat %s", path)
	}
	if err := s.fs.Remove(path); err != nil {
		serr := errors.Wrapf(err, errors.ErrFileRemove, "failed to delete %s", path)
		s.log.Error().Err(err).Str("path", path).Msg("Delete failed")
		return serr
	}
	return nil
}

// writeAtomic writes to a temp file under the store's tmp directory
// and renames into place. Temp and target share a volume, so the
// rename is atomic.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp := filepath.Join(s.paths.TempRoot(), s.newID()+".tmp")
	if err := s.fs.WriteFile(tmp, data, filePerm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write temp file for %s", path)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		// Best effort: don't leave the temp file behind.
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to move blob into place at %s", path)
	}
	return nil
}
