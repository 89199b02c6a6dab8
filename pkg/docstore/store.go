package docstore

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/docstore/pkg/codec"
	"github.com/arthur-debert/docstore/pkg/errors"
	"github.com/arthur-debert/docstore/pkg/logging"
	"github.com/arthur-debert/docstore/pkg/paths"
	"github.com/arthur-debert/docstore/pkg/types"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Store persists typed entities as one JSON file per instance under a
// namespace-keyed directory hierarchy.
//
// Operations are synchronous sequences of filesystem calls with no
// internal locking; concurrent callers race, most visibly inside
// SaveAll's delete-then-rewrite window and Update's delete-then-save
// window. Coordinating access is the caller's responsibility.
type Store struct {
	fs    types.FS
	paths paths.Paths
	codec *codec.Codec
	log   zerolog.Logger
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithCodec replaces the default codec (and with it the decode
// profile chain).
func WithCodec(c *codec.Codec) StoreOption {
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

// New creates a document store over the given filesystem and path
// resolver.
func New(fsys types.FS, p paths.Paths, opts ...StoreOption) *Store {
	s := &Store{
		fs:    fsys,
		paths: p,
		codec: codec.New(),
		log:   logging.GetLogger("docstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateNamespace(namespace string) error {
	if namespace == "" {
		return errors.New(errors.ErrInvalidInput, "empty namespace")
	}
	if paths.IsReservedNamespace(namespace) {
		return errors.Newf(errors.ErrInvalidInput, "namespace %q is reserved", namespace)
	}
	return nil
}

// Save persists one entity as <namespace>[/<subfolder>]/<id>.json,
// creating the directory as needed. A later save of the same id
// overwrites, never appends.
func (s *Store) Save(namespace string, entity types.Entity, opts ...Option) error {
	o := applyOptions(opts)
	if err := validateNamespace(namespace); err != nil {
		return err
	}
	if entity == nil || entity.ID() == "" {
		return errors.New(errors.ErrInvalidInput, "entity has no identifier")
	}

	dir := s.paths.NamespaceDir(namespace, o.subfolder)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		serr := errors.Wrapf(err, errors.ErrDirCreate, "failed to create namespace directory %s", dir)
		s.log.Error().Err(err).Str("namespace", namespace).Msg("Save failed")
		return serr
	}

	data, err := s.codec.Encode(entity)
	if err != nil {
		s.log.Error().Err(err).Str("namespace", namespace).Str("id", entity.ID()).Msg("Save failed")
		return err
	}

	path := s.paths.DocumentPath(namespace, o.subfolder, entity.ID())
	if err := s.fs.WriteFile(path, data, filePerm); err != nil {
		serr := errors.Wrapf(err, errors.ErrFileWrite, "failed to write document %s", path)
		s.log.Error().Err(err).Str("path", path).Msg("Save failed")
		return serr
	}

	s.log.Debug().Str("namespace", namespace).Str("id", entity.ID()).Msg("Saved document")
	return nil
}

// SaveFile persists a value under an explicit filename, bypassing the
// id-addressed scheme. This suits single-slot state like a resumable
// session. Passing a nil value deletes the slot; that is the
// documented contract, not an error case.
func (s *Store) SaveFile(namespace, filename string, v interface{}) error {
	if err := validateNamespace(namespace); err != nil {
		return err
	}
	if filename == "" {
		return errors.New(errors.ErrInvalidInput, "empty filename")
	}

	path := s.paths.FilePath(namespace, filename)

	if v == nil {
		if _, err := s.fs.Stat(path); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				s.log.Debug().Str("path", path).Msg("Nothing to delete for nil save")
				return nil
			}
			return errors.Wrapf(err, errors.ErrFileRead, "failed to stat %s", path)
		}
		if err := s.fs.Remove(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileRemove, "failed to delete %s", path)
		}
		s.log.Debug().Str("path", path).Msg("Deleted single-slot document")
		return nil
	}

	if err := s.fs.MkdirAll(s.paths.NamespaceDir(namespace, ""), dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create namespace directory for %s", namespace)
	}

	data, err := s.codec.Encode(v)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("SaveFile failed")
		return err
	}
	if err := s.fs.WriteFile(path, data, filePerm); err != nil {
		serr := errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
		s.log.Error().Err(err).Str("path", path).Msg("SaveFile failed")
		return serr
	}
	return nil
}

// SaveSingle stores exactly one file per namespace, named after the
// namespace itself. Use it for values without a natural per-instance
// identity. Pairs with LoadSingleton.
func (s *Store) SaveSingle(namespace string, v interface{}) error {
	return s.SaveFile(namespace, namespace, v)
}

// SaveAll persists a collection as one file per element. By default
// the namespace directory (and subfolder, if any) is deleted first so
// that elements removed from the collection leave no orphaned files
// behind; this costs a full rewrite per save and opens a transient
// window in which concurrent readers observe a partial or empty view.
// Elements that fail to save are logged and reported jointly; the
// remaining elements are still written.
func SaveAll[T types.Entity](s *Store, namespace string, items []T, opts ...Option) error {
	o := applyOptions(opts)
	if err := validateNamespace(namespace); err != nil {
		return err
	}

	if o.reset {
		if err := s.ResetFolder(namespace, opts...); err != nil {
			return err
		}
	}

	var failed []error
	for _, item := range items {
		if err := s.Save(namespace, item, WithSubfolder(o.subfolder)); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return errors.Wrapf(stderrors.Join(failed...), errors.ErrFileWrite,
			"failed to save %d of %d documents in %s", len(failed), len(items), namespace)
	}

	s.log.Debug().Str("namespace", namespace).Int("count", len(items)).Msg("Saved collection")
	return nil
}

// Load reads a filename-addressed document. An absent file yields a
// NOT_FOUND error.
func Load[T any](s *Store, namespace, filename string) (T, error) {
	var zero T
	if err := validateNamespace(namespace); err != nil {
		return zero, err
	}
	if err := s.loadPath(s.paths.FilePath(namespace, filename), &zero); err != nil {
		return zero, err
	}
	return zero, nil
}

// LoadByID reads one document by its identifier.
func LoadByID[T any](s *Store, namespace, id string, opts ...Option) (T, error) {
	o := applyOptions(opts)
	var zero T
	if err := validateNamespace(namespace); err != nil {
		return zero, err
	}
	if id == "" {
		return zero, errors.New(errors.ErrInvalidInput, "empty id")
	}
	if err := s.loadPath(s.paths.DocumentPath(namespace, o.subfolder, id), &zero); err != nil {
		return zero, err
	}
	return zero, nil
}

func (s *Store) loadPath(path string, v interface{}) error {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Str("path", path).Msg("Document not found")
			return errors.Newf(errors.ErrNotFound, "no document at %s", path)
		}
		s.log.Error().Err(err).Str("path", path).Msg("Load failed")
		return errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path)
	}
	if err := s.codec.Decode(data, v); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Load failed to decode")
		return err
	}
	return nil
}

// LoadSingleton reads the single document in a namespace directory.
// It succeeds only when exactly one file exists there; zero or
// multiple files both yield AMBIGUOUS_STATE, because the store refuses
// to guess which file is canonical.
func LoadSingleton[T any](s *Store, namespace string) (T, error) {
	var zero T
	if err := validateNamespace(namespace); err != nil {
		return zero, err
	}

	dir := s.paths.NamespaceDir(namespace, "")
	entries, err := s.fs.ReadDir(dir)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return zero, errors.Wrapf(err, errors.ErrFileList, "failed to list %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	if len(files) != 1 {
		s.log.Debug().Str("namespace", namespace).Int("count", len(files)).Msg("Singleton load found ambiguous state")
		return zero, errors.Newf(errors.ErrAmbiguousState,
			"expected exactly one file in %s, found %d", namespace, len(files)).
			WithDetail("count", len(files))
	}

	if err := s.loadPath(filepath.Join(dir, files[0]), &zero); err != nil {
		return zero, err
	}
	return zero, nil
}

// LoadAll reads every document in a namespace's (sub)directory,
// decoding each file independently. Files that fail to decode are
// skipped and logged; the successfully decoded subset is returned.
// Partial success is the normal contract, not an error. A missing
// directory yields an empty result.
func LoadAll[T any](s *Store, namespace string, opts ...Option) ([]T, error) {
	o := applyOptions(opts)
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}

	dir := s.paths.NamespaceDir(namespace, o.subfolder)
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		serr := errors.Wrapf(err, errors.ErrFileList, "failed to list %s", dir)
		s.log.Error().Err(err).Str("dir", dir).Msg("LoadAll failed")
		return nil, serr
	}

	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), paths.DocumentExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := s.fs.ReadFile(path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable document")
			continue
		}
		var v T
		if err := s.codec.Decode(data, &v); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("Skipping undecodable document")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadCollection reads the single-file array representation
// <namespace>.json from the root. An absent or undecodable file yields
// an empty collection, not an error.
func LoadCollection[T any](s *Store, namespace string) ([]T, error) {
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}

	path := s.paths.CollectionPath(namespace)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path)
	}

	var items []T
	if err := s.codec.Decode(data, &items); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Collection file is undecodable, returning empty collection")
		return []T{}, nil
	}
	return items, nil
}

// ListIDs returns the identifiers of every document in a namespace's
// (sub)directory, without decoding the files. A missing directory
// yields an empty result.
func (s *Store) ListIDs(namespace string, opts ...Option) ([]string, error) {
	o := applyOptions(opts)
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}

	dir := s.paths.NamespaceDir(namespace, o.subfolder)
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileList, "failed to list %s", dir)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), paths.DocumentExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), paths.DocumentExt))
	}
	return ids, nil
}

// Update replaces a document with an explicit delete-then-save
// sequence, guaranteeing clean replacement rather than overwriting in
// place. A concurrent reader may observe neither, either, or a
// transient absent state.
func (s *Store) Update(namespace string, entity types.Entity, opts ...Option) error {
	if entity == nil || entity.ID() == "" {
		return errors.New(errors.ErrInvalidInput, "entity has no identifier")
	}
	if err := s.DeleteByID(namespace, entity.ID(), opts...); err != nil {
		return err
	}
	return s.Save(namespace, entity, opts...)
}

// Delete removes an entity's document file. Deleting an absent
// document is not an error; it is logged and ignored, so Delete is
// idempotent.
func (s *Store) Delete(namespace string, entity types.Entity, opts ...Option) error {
	if entity == nil {
		return errors.New(errors.ErrInvalidInput, "nil entity")
	}
	return s.DeleteByID(namespace, entity.ID(), opts...)
}

// DeleteByID removes the document with the given identifier.
func (s *Store) DeleteByID(namespace, id string, opts ...Option) error {
	o := applyOptions(opts)
	if err := validateNamespace(namespace); err != nil {
		return err
	}
	if id == "" {
		return errors.New(errors.ErrInvalidInput, "empty id")
	}

	path := s.paths.DocumentPath(namespace, o.subfolder, id)
	if _, err := s.fs.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Str("path", path).Msg("Document does not exist")
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileRead, "failed to stat %s", path)
	}

	if err := s.fs.Remove(path); err != nil {
		serr := errors.Wrapf(err, errors.ErrFileRemove, "failed to delete %s", path)
		s.log.Error().Err(err).Str("path", path).Msg("Delete failed")
		return serr
	}

	s.log.Debug().Str("namespace", namespace).Str("id", id).Msg("Deleted document")
	return nil
}

// ResetFolder recursively deletes a namespace's (sub)directory. A
// missing directory is a no-op, not an error.
func (s *Store) ResetFolder(namespace string, opts ...Option) error {
	o := applyOptions(opts)
	if err := validateNamespace(namespace); err != nil {
		return err
	}

	dir := s.paths.NamespaceDir(namespace, o.subfolder)
	if _, err := s.fs.Stat(dir); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileRead, "failed to stat %s", dir)
	}

	if err := s.fs.RemoveAll(dir); err != nil {
		serr := errors.Wrapf(err, errors.ErrFileRemove, "failed to reset %s", dir)
		s.log.Error().Err(err).Str("dir", dir).Msg("ResetFolder failed")
		return serr
	}

	s.log.Debug().Str("dir", dir).Msg("Reset namespace directory")
	return nil
}
